package listview

import (
	"github.com/heartmarshall/myenglish-cards/internal/domain"
	"github.com/heartmarshall/myenglish-cards/internal/listview/selection"
)

// State is the fetch state of the list.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

// Column is a table column of the card list.
type Column struct {
	Key      string
	Title    string
	Sortable bool
}

// ColumnActions is the key of the per-row actions column.
const ColumnActions = "actions"

var cardColumns = []Column{
	{Key: "question", Title: "Question", Sortable: true},
	{Key: "answer", Title: "Answer", Sortable: true},
	{Key: "updated", Title: "Last Updated", Sortable: true},
	{Key: "grade", Title: "Grade", Sortable: true},
}

// RowAction is an action a viewer may take on a single card.
type RowAction string

const (
	ActionEdit   RowAction = "edit"
	ActionDelete RowAction = "delete"
	ActionGrade  RowAction = "grade"
)

// Row is one rendered card.
type Row struct {
	Card    domain.Card
	Actions []RowAction
}

// DeckActions lists the deck-level affordances. The owner gets the edit menu
// and add-card control; everybody else gets the learn link.
type DeckActions struct {
	EditMenu  bool
	AddCard   bool
	Learn     bool
	LearnPath string
}

// ViewModel is everything the presentation layer needs to draw the list.
type ViewModel struct {
	State      State
	Rows       []Row
	Pagination domain.Pagination
	Sort       *domain.SortSpec
	SearchText string
	// SearchPending is set while typed search text waits out the debounce
	// delay; Rows still answer the previous search.
	SearchPending bool
	Columns       []Column
	Deck          *domain.Deck
	IsOwner       bool
	// Resolved is set while no deck or viewer lookup is in flight and at
	// least one has answered, successfully or not.
	Resolved bool
	Actions  DeckActions
	Dialog   selection.Dialog
	Selected *domain.Card
	// ShowTable is false while the deck is unknown or has no cards.
	ShowTable bool
	// Err is the last fetch failure; Rows still hold the last good page.
	Err error
	// Notice is the last mutation failure, shown until the next mutation.
	Notice error
}

// Loading reports whether a fetch is in flight.
func (vm ViewModel) Loading() bool { return vm.State == StateLoading }

// Columns returns the visible columns for the viewer.
func Columns(isOwner bool) []Column {
	cols := make([]Column, 0, len(cardColumns)+1)
	cols = append(cols, cardColumns...)
	if isOwner {
		cols = append(cols, Column{Key: ColumnActions})
	}
	return cols
}

// SortableColumn reports whether key names a sortable column.
func SortableColumn(key string) bool {
	for _, c := range cardColumns {
		if c.Key == key {
			return c.Sortable
		}
	}
	return false
}

func rowActions(isOwner bool) []RowAction {
	if isOwner {
		return []RowAction{ActionGrade, ActionEdit, ActionDelete}
	}
	return []RowAction{ActionGrade}
}

func deckActions(deck *domain.Deck, isOwner bool) DeckActions {
	if isOwner {
		return DeckActions{EditMenu: true, AddCard: true}
	}
	a := DeckActions{Learn: true}
	if deck != nil {
		a.LearnPath = "/learn/" + deck.ID
	}
	return a
}

// viewModel derives the view model. Must run on the loop goroutine.
func (c *Controller) viewModel() ViewModel {
	isOwner := c.deck.IsOwnedBy(c.me)
	p := c.params.Snapshot()
	sel := c.selection.State()

	vm := ViewModel{
		State:         c.state,
		Sort:          p.Sort,
		SearchText:    p.SearchText,
		SearchPending: c.search.Pending(),
		Columns:       Columns(isOwner),
		IsOwner:       isOwner,
		Resolved:      c.resolved,
		Actions:       deckActions(c.deck, isOwner),
		Dialog:        sel.Dialog,
		Selected:      sel.Selected,
		Err:           c.fetchErr,
		Notice:        c.notice,
		Rows:          []Row{},
	}
	if c.deck != nil {
		d := *c.deck
		vm.Deck = &d
		vm.ShowTable = d.CardsCount > 0
	}
	if c.page != nil {
		vm.Pagination = c.page.Pagination
		actions := rowActions(isOwner)
		vm.Rows = make([]Row, 0, len(c.page.Items))
		for _, card := range c.page.Items {
			vm.Rows = append(vm.Rows, Row{Card: card, Actions: actions})
		}
	} else {
		vm.Pagination = domain.Pagination{CurrentPage: 1}
	}
	return vm
}
