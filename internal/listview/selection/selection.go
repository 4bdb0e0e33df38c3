// Package selection tracks which card an edit or delete dialog targets.
package selection

import "github.com/heartmarshall/myenglish-cards/internal/domain"

// Dialog is the modal currently open. Edit and delete are mutually exclusive.
type Dialog int

const (
	DialogNone Dialog = iota
	DialogEditing
	DialogDeleting
)

func (d Dialog) String() string {
	switch d {
	case DialogEditing:
		return "editing"
	case DialogDeleting:
		return "deleting"
	default:
		return "none"
	}
}

// State is a snapshot of the selection.
type State struct {
	Dialog   Dialog
	Selected *domain.Card
}

// Controller holds the selected card and the open dialog. Not safe for
// concurrent use.
type Controller struct {
	dialog   Dialog
	selected domain.Card
	has      bool
}

// New returns a controller with nothing selected.
func New() *Controller {
	return &Controller{}
}

// SelectForEdit targets card and opens the edit dialog, replacing any other
// open dialog.
func (c *Controller) SelectForEdit(card domain.Card) {
	c.selected, c.has = card, true
	c.dialog = DialogEditing
}

// SelectForDelete targets card and opens the delete dialog.
func (c *Controller) SelectForDelete(card domain.Card) {
	c.selected, c.has = card, true
	c.dialog = DialogDeleting
}

// CloseEdit closes the edit dialog. It is a no-op when another dialog is open.
func (c *Controller) CloseEdit() {
	if c.dialog == DialogEditing {
		c.Reset()
	}
}

// CloseDelete closes the delete dialog. It is a no-op when another dialog is open.
func (c *Controller) CloseDelete() {
	if c.dialog == DialogDeleting {
		c.Reset()
	}
}

// ConfirmDelete returns the id of the card the delete dialog targets.
// Calling it without an open delete dialog is a programmer error and panics.
func (c *Controller) ConfirmDelete() string {
	if !c.has || c.dialog != DialogDeleting {
		panic("selection: ConfirmDelete called without a card selected for deletion")
	}
	return c.selected.ID
}

// Selected returns the targeted card, if any.
func (c *Controller) Selected() (domain.Card, bool) {
	return c.selected, c.has
}

// Dialog returns the open dialog.
func (c *Controller) Dialog() Dialog { return c.dialog }

// State returns a snapshot of the selection.
func (c *Controller) State() State {
	s := State{Dialog: c.dialog}
	if c.has {
		card := c.selected
		s.Selected = &card
	}
	return s
}

// Reset clears the selection and closes any dialog.
func (c *Controller) Reset() {
	c.dialog = DialogNone
	c.selected, c.has = domain.Card{}, false
}
