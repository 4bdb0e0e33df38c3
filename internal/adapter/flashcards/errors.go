package flashcards

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/sony/gobreaker"

	"github.com/heartmarshall/myenglish-cards/internal/domain"
)

// statusError is a non-2xx answer from the API.
type statusError struct {
	Status  int
	Message string
	Fields  []domain.FieldError
}

func (e *statusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("status %d", e.Status)
	}
	return fmt.Sprintf("status %d: %s", e.Status, e.Message)
}

// isTransient reports whether err may succeed on a later attempt: network
// failures, timeouts, throttling, 5xx answers and an open breaker.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, domain.ErrUnauthorized) {
		return false
	}

	var se *statusError
	if errors.As(err, &se) {
		return se.Status == http.StatusTooManyRequests || se.Status >= 500
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// classify maps a failed call to the domain error taxonomy. Transient
// failures are returned unchanged; callers wrap them per operation.
func classify(err error) error {
	var se *statusError
	if !errors.As(err, &se) {
		return err
	}
	switch se.Status {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, se.Message)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrForbidden, se.Message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, se.Message)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if len(se.Fields) > 0 {
			return domain.NewValidationErrors(se.Fields)
		}
		msg := se.Message
		if msg == "" {
			msg = "rejected by server"
		}
		return domain.NewValidationError("request", msg)
	default:
		return err
	}
}

// fetchError wraps a failed read into the fetch taxonomy.
func fetchError(op string, err error) error {
	if isTransient(err) {
		status := 0
		var se *statusError
		if errors.As(err, &se) {
			status = se.Status
		}
		return &domain.TransientFetchError{Op: op, Status: status, Err: err}
	}
	return fmt.Errorf("flashcards: %s: %w", op, classify(err))
}

// mutationError wraps a failed write into the mutation taxonomy.
func mutationError(op domain.MutationOp, cardID string, err error) error {
	if isTransient(err) {
		return domain.NewMutationError(op, cardID, fmt.Errorf("%w: %w", domain.ErrTransient, err))
	}
	return domain.NewMutationError(op, cardID, classify(err))
}
