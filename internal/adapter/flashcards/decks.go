package flashcards

import (
	"context"
	"net/http"
	"net/url"

	"github.com/heartmarshall/myenglish-cards/internal/domain"
)

// FetchDeck returns a deck with its owner and card count.
func (c *Client) FetchDeck(ctx context.Context, deckID string) (*domain.Deck, error) {
	var dto deckDTO
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/v1/decks/" + url.PathEscape(deckID),
	}, &dto)
	if err != nil {
		return nil, fetchError("fetch deck", err)
	}
	return dto.toDomain(), nil
}

// FetchCurrentUser returns the viewer the access token belongs to.
func (c *Client) FetchCurrentUser(ctx context.Context) (*domain.User, error) {
	var dto userDTO
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/v1/auth/me",
	}, &dto)
	if err != nil {
		return nil, fetchError("fetch current user", err)
	}
	return dto.toDomain(), nil
}
