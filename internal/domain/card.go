package domain

import "time"

// Card is a single flashcard of a deck as returned by the server.
// The client never edits a Card in place; changes go through remote mutations.
type Card struct {
	ID            string
	DeckID        string
	UserID        string
	Question      string
	Answer        string
	QuestionImg   *string
	AnswerImg     *string
	QuestionVideo *string
	AnswerVideo   *string
	Shots         int
	Grade         Grade
	Created       time.Time
	Updated       time.Time
}

// Grade is the self-assessed recall quality of a card, 0 (unknown) to 5.
type Grade int

const (
	MinGrade Grade = 0
	MaxGrade Grade = 5
)

func (g Grade) IsValid() bool {
	return g >= MinGrade && g <= MaxGrade
}

// Upload is a file attached to a card form (question or answer image).
type Upload struct {
	Filename string
	Content  []byte
}

// CardForm is the payload of card create and update requests.
type CardForm struct {
	Question    string  `validate:"required,max=500"`
	Answer      string  `validate:"required,max=500"`
	QuestionImg *Upload `validate:"omitempty"`
	AnswerImg   *Upload `validate:"omitempty"`
}

// Pagination describes where a page sits in the filtered collection.
type Pagination struct {
	CurrentPage  int
	TotalItems   int
	ItemsPerPage int
	TotalPages   int
}

// Pages returns TotalPages, deriving it from the item counts when the server
// left it out. An empty collection has zero pages.
func (p Pagination) Pages() int {
	if p.TotalPages > 0 {
		return p.TotalPages
	}
	if p.ItemsPerPage <= 0 || p.TotalItems <= 0 {
		return 0
	}
	return (p.TotalItems + p.ItemsPerPage - 1) / p.ItemsPerPage
}

// EntityPage is one page of cards plus its pagination metadata.
type EntityPage struct {
	Items      []Card
	Pagination Pagination
}
