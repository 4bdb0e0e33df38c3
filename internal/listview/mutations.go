package listview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/heartmarshall/myenglish-cards/internal/domain"
	"github.com/heartmarshall/myenglish-cards/internal/listview/selection"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// CreateCard adds a card to the deck. On success the list is re-fetched.
func (c *Controller) CreateCard(ctx context.Context, form domain.CardForm) error {
	if err := validateForm(form); err != nil {
		return c.finishMutation(domain.MutationCreate, "", err)
	}
	err := c.client.CreateCard(ctx, c.deckID, form)
	return c.finishMutation(domain.MutationCreate, "", err)
}

// EditSelected saves form into the card the edit dialog targets. The
// selection is kept when the update fails so the dialog can stay open.
func (c *Controller) EditSelected(ctx context.Context, form domain.CardForm) error {
	var (
		card    domain.Card
		editing bool
	)
	if err := c.do(func() {
		card, editing = c.selection.Selected()
		editing = editing && c.selection.Dialog() == selection.DialogEditing
	}); err != nil {
		return err
	}
	if !editing {
		return ErrNoSelection
	}

	if err := validateForm(form); err != nil {
		return c.finishMutation(domain.MutationUpdate, card.ID, err)
	}
	err := c.client.UpdateCard(ctx, card.ID, form)
	return c.finishMutation(domain.MutationUpdate, card.ID, err)
}

// ConfirmDelete deletes the card the delete dialog targets. It panics when
// no card is selected for deletion.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	var cardID string
	if err := c.do(func() { cardID = c.selection.ConfirmDelete() }); err != nil {
		return err
	}
	err := c.client.DeleteCard(ctx, cardID)
	return c.finishMutation(domain.MutationDelete, cardID, err)
}

// UpdateGrade records a self-assessed grade for a card.
func (c *Controller) UpdateGrade(ctx context.Context, cardID string, grade domain.Grade) error {
	if !grade.IsValid() {
		err := domain.NewValidationError("grade", fmt.Sprintf("must be between %d and %d", domain.MinGrade, domain.MaxGrade))
		return c.finishMutation(domain.MutationGrade, cardID, err)
	}
	err := c.client.UpdateGrade(ctx, c.deckID, cardID, grade)
	return c.finishMutation(domain.MutationGrade, cardID, err)
}

// finishMutation reconciles the list with the outcome of a mutation. A
// failure is kept as the notice and leaves selection and page untouched. A
// success clears the selection it targeted and re-fetches the current query,
// stepping back a page if the current one came back empty.
func (c *Controller) finishMutation(op domain.MutationOp, cardID string, err error) error {
	err = domain.NewMutationError(op, cardID, err)

	log := c.log.With(slog.String("op", op.String()))
	if cardID != "" {
		log = log.With(slog.String("card_id", cardID))
	}

	doErr := c.do(func() {
		if err != nil {
			c.notice = err
			c.publish()
			return
		}

		c.notice = nil
		if op == domain.MutationUpdate || op == domain.MutationDelete {
			if sel, ok := c.selection.Selected(); ok && sel.ID == cardID {
				c.selection.Reset()
			}
		}
		c.applyPendingSearch()
		// The deck's card count changed; it is reloaded alongside the page.
		c.resolved = false
		c.issue(c.descriptor(), true)
		c.loadIdentity(false)
	})

	switch {
	case err != nil:
		log.Warn("card mutation failed", slog.Any("error", err))
	case errors.Is(doErr, ErrClosed):
		log.Debug("card mutated after list closed")
	default:
		log.Info("card mutated")
	}
	return err
}

// ----- Form validation -----

func validateForm(form domain.CardForm) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]domain.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, domain.FieldError{
			Field:   strings.ToLower(fe.Field()),
			Message: formMessage(fe),
		})
	}
	return domain.NewValidationErrors(fields)
}

func formMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "invalid"
	}
}
