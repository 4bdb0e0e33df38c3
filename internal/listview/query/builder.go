// Package query derives the canonical fetch request from view parameters.
package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/heartmarshall/myenglish-cards/internal/domain"
	"github.com/heartmarshall/myenglish-cards/internal/listview/params"
)

// Descriptor fully determines the content of a fetched page. Two descriptors
// that compare equal with == are interchangeable.
type Descriptor struct {
	CollectionID  string `validate:"required"`
	Page          int    `validate:"min=1"`
	PageSize      int    `validate:"min=1"`
	OrderingToken string
	SearchText    string
}

// Build maps parameters to a descriptor. It is pure: the same input always
// yields an equal descriptor.
func Build(collectionID string, p params.Parameters) Descriptor {
	return Descriptor{
		CollectionID:  collectionID,
		Page:          p.Page,
		PageSize:      p.PageSize,
		OrderingToken: p.OrderingToken(),
		SearchText:    p.SearchText,
	}
}

// Key returns a stable string form of d, usable as a map or cache key.
func (d Descriptor) Key() string {
	return fmt.Sprintf("%q|%d|%d|%q|%q", d.CollectionID, d.Page, d.PageSize, d.OrderingToken, d.SearchText)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate reports malformed descriptors as *domain.ValidationError.
func (d Descriptor) Validate() error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate descriptor: %w", err)
	}
	fields := make([]domain.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, domain.FieldError{
			Field:   fieldName(fe.Field()),
			Message: fieldMessage(fe),
		})
	}
	return domain.NewValidationErrors(fields)
}

func fieldName(f string) string {
	switch f {
	case "CollectionID":
		return "collection_id"
	case "PageSize":
		return "page_size"
	default:
		return strings.ToLower(f)
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "min":
		return fmt.Sprintf("must be >= %s", fe.Param())
	default:
		return "invalid"
	}
}
