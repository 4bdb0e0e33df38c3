package flashcards

import (
	"time"

	"github.com/heartmarshall/myenglish-cards/internal/domain"
)

type cardDTO struct {
	ID            string    `json:"id"`
	DeckID        string    `json:"deckId"`
	UserID        string    `json:"userId"`
	Question      string    `json:"question"`
	Answer        string    `json:"answer"`
	QuestionImg   *string   `json:"questionImg"`
	AnswerImg     *string   `json:"answerImg"`
	QuestionVideo *string   `json:"questionVideo"`
	AnswerVideo   *string   `json:"answerVideo"`
	Shots         int       `json:"shots"`
	Grade         int       `json:"grade"`
	Created       time.Time `json:"created"`
	Updated       time.Time `json:"updated"`
}

type paginationDTO struct {
	CurrentPage  int `json:"currentPage"`
	ItemsPerPage int `json:"itemsPerPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
}

type cardsPageDTO struct {
	Items      []cardDTO     `json:"items"`
	Pagination paginationDTO `json:"pagination"`
}

type authorDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type deckDTO struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	Name       string     `json:"name"`
	Cover      *string    `json:"cover"`
	IsPrivate  bool       `json:"isPrivate"`
	CardsCount int        `json:"cardsCount"`
	Author     *authorDTO `json:"author"`
	Created    time.Time  `json:"created"`
	Updated    time.Time  `json:"updated"`
}

type userDTO struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Avatar *string `json:"avatar"`
}

type gradeDTO struct {
	CardID string `json:"cardId"`
	Grade  int    `json:"grade"`
}

// errorBodyDTO covers both error shapes the API answers with.
type errorBodyDTO struct {
	Message       string `json:"message"`
	ErrorMessages []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errorMessages"`
}

func (c cardDTO) toDomain() domain.Card {
	return domain.Card{
		ID:            c.ID,
		DeckID:        c.DeckID,
		UserID:        c.UserID,
		Question:      c.Question,
		Answer:        c.Answer,
		QuestionImg:   c.QuestionImg,
		AnswerImg:     c.AnswerImg,
		QuestionVideo: c.QuestionVideo,
		AnswerVideo:   c.AnswerVideo,
		Shots:         c.Shots,
		Grade:         domain.Grade(c.Grade),
		Created:       c.Created,
		Updated:       c.Updated,
	}
}

func (p cardsPageDTO) toDomain() *domain.EntityPage {
	items := make([]domain.Card, 0, len(p.Items))
	for _, c := range p.Items {
		items = append(items, c.toDomain())
	}
	return &domain.EntityPage{
		Items: items,
		Pagination: domain.Pagination{
			CurrentPage:  p.Pagination.CurrentPage,
			TotalItems:   p.Pagination.TotalItems,
			ItemsPerPage: p.Pagination.ItemsPerPage,
			TotalPages:   p.Pagination.TotalPages,
		},
	}
}

func (d deckDTO) toDomain() *domain.Deck {
	deck := &domain.Deck{
		ID:         d.ID,
		OwnerID:    d.UserID,
		Name:       d.Name,
		Cover:      d.Cover,
		IsPrivate:  d.IsPrivate,
		CardsCount: d.CardsCount,
		Created:    d.Created,
		Updated:    d.Updated,
	}
	if d.Author != nil {
		deck.Author = &domain.Author{ID: d.Author.ID, Name: d.Author.Name}
	}
	return deck
}

func (u userDTO) toDomain() *domain.User {
	return &domain.User{ID: u.ID, Name: u.Name, Email: u.Email, Avatar: u.Avatar}
}

func (e errorBodyDTO) fields() []domain.FieldError {
	if len(e.ErrorMessages) == 0 {
		return nil
	}
	out := make([]domain.FieldError, 0, len(e.ErrorMessages))
	for _, m := range e.ErrorMessages {
		out = append(out, domain.FieldError{Field: m.Field, Message: m.Message})
	}
	return out
}
