// Package listview implements the card list of a deck: it owns the view
// parameters, derives the page query, fetches pages, runs card mutations and
// keeps the displayed page consistent with the server afterwards.
package listview

import (
	"context"

	"github.com/heartmarshall/myenglish-cards/internal/domain"
	"github.com/heartmarshall/myenglish-cards/internal/listview/query"
)

//go:generate moq -out remote_client_mock_test.go -pkg listview . RemoteClient

// RemoteClient executes queries and mutations against the server. A
// successful mutation invalidates the cached pages of the affected deck, so
// the next FetchPage for that deck returns fresh data.
//
// FetchPage fails with *domain.TransientFetchError or *domain.ValidationError;
// mutations fail with *domain.MutationError.
type RemoteClient interface {
	FetchPage(ctx context.Context, d query.Descriptor) (*domain.EntityPage, error)
	FetchCurrentUser(ctx context.Context) (*domain.User, error)
	FetchDeck(ctx context.Context, deckID string) (*domain.Deck, error)
	CreateCard(ctx context.Context, deckID string, form domain.CardForm) error
	UpdateCard(ctx context.Context, cardID string, form domain.CardForm) error
	DeleteCard(ctx context.Context, cardID string) error
	UpdateGrade(ctx context.Context, deckID, cardID string, grade domain.Grade) error
}
