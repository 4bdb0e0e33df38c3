package flashcards

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/myenglish-cards/internal/domain"
	"github.com/heartmarshall/myenglish-cards/internal/listview/query"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, h http.HandlerFunc, mutate ...func(*Config)) *Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := Config{
		BaseURL:      srv.URL,
		Timeout:      time.Second,
		RetryMax:     2,
		RetryInitial: time.Millisecond,
	}
	for _, m := range mutate {
		m(&cfg)
	}
	c, err := New(cfg, nil, newTestLogger())
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

var pageDescriptor = query.Descriptor{CollectionID: "deck-1", Page: 2, PageSize: 10}

// ---------------------------------------------------------------------------
// Construction
// ---------------------------------------------------------------------------

func TestNew_RejectsBadBaseURL(t *testing.T) {
	t.Parallel()

	_, err := New(Config{BaseURL: "ftp://example.com"}, nil, newTestLogger())
	assert.Error(t, err)

	_, err = New(Config{BaseURL: "://bad"}, nil, newTestLogger())
	assert.Error(t, err)
}

// ---------------------------------------------------------------------------
// FetchPage
// ---------------------------------------------------------------------------

func TestClient_FetchPage_Success(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/decks/deck-1/cards", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("currentPage"))
		assert.Equal(t, "10", r.URL.Query().Get("itemsPerPage"))
		assert.Equal(t, "updated-desc", r.URL.Query().Get("orderBy"))
		assert.Equal(t, "run", r.URL.Query().Get("answer"))

		writeJSON(w, http.StatusOK, `{
			"items": [{
				"id": "c1", "deckId": "deck-1", "userId": "u1",
				"question": "to run", "answer": "бежать",
				"questionImg": "https://img/q.png", "answerImg": null,
				"shots": 3, "grade": 4,
				"created": "2026-01-02T10:00:00Z", "updated": "2026-01-03T11:00:00Z"
			}],
			"pagination": {"currentPage": 2, "itemsPerPage": 10, "totalPages": 3, "totalItems": 21}
		}`)
	})

	d := pageDescriptor
	d.OrderingToken = "updated-desc"
	d.SearchText = "run"

	page, err := c.FetchPage(context.Background(), d)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	card := page.Items[0]
	assert.Equal(t, "c1", card.ID)
	assert.Equal(t, "to run", card.Question)
	assert.Equal(t, domain.Grade(4), card.Grade)
	assert.Equal(t, 3, card.Shots)
	require.NotNil(t, card.QuestionImg)
	assert.Equal(t, "https://img/q.png", *card.QuestionImg)
	assert.Nil(t, card.AnswerImg)
	assert.Equal(t, time.Date(2026, 1, 3, 11, 0, 0, 0, time.UTC), card.Updated)

	assert.Equal(t, domain.Pagination{CurrentPage: 2, ItemsPerPage: 10, TotalPages: 3, TotalItems: 21}, page.Pagination)
}

func TestClient_FetchPage_OmitsEmptyParams(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.False(t, q.Has("orderBy"))
		assert.False(t, q.Has("answer"))
		writeJSON(w, http.StatusOK, `{"items": [], "pagination": {"currentPage": 2}}`)
	})

	page, err := c.FetchPage(context.Background(), pageDescriptor)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestClient_FetchPage_CustomSearchParam(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "cat", r.URL.Query().Get("question"))
		assert.False(t, r.URL.Query().Has("answer"))
		writeJSON(w, http.StatusOK, `{"items": []}`)
	}, func(cfg *Config) { cfg.SearchParam = "question" })

	d := pageDescriptor
	d.SearchText = "cat"
	_, err := c.FetchPage(context.Background(), d)
	require.NoError(t, err)
}

func TestClient_FetchPage_InvalidDescriptor(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	})

	_, err := c.FetchPage(context.Background(), query.Descriptor{CollectionID: "deck-1"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, hits.Load())
}

func TestClient_FetchPage_RetriesTransientFailure(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			writeJSON(w, http.StatusServiceUnavailable, `{"message": "try later"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"items": [{"id": "c1"}]}`)
	})

	page, err := c.FetchPage(context.Background(), pageDescriptor)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, int32(2), hits.Load())
}

func TestClient_FetchPage_TransientAfterRetries(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(w, http.StatusBadGateway, `{}`)
	})

	_, err := c.FetchPage(context.Background(), pageDescriptor)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransient)

	var tfe *domain.TransientFetchError
	require.ErrorAs(t, err, &tfe)
	assert.Equal(t, http.StatusBadGateway, tfe.Status)
	assert.Equal(t, "fetch page", tfe.Op)
	assert.Equal(t, int32(3), hits.Load(), "first attempt plus two retries")
}

func TestClient_FetchPage_ClientErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, `{"message": "no token"}`, domain.ErrUnauthorized},
		{"forbidden", http.StatusForbidden, `{"message": "private deck"}`, domain.ErrForbidden},
		{"not found", http.StatusNotFound, `{"message": "deck not found"}`, domain.ErrNotFound},
		{"bad request", http.StatusBadRequest, `{"errorMessages": [{"field": "orderBy", "message": "invalid"}]}`, domain.ErrValidation},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var hits atomic.Int32
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				hits.Add(1)
				writeJSON(w, tt.status, tt.body)
			})

			_, err := c.FetchPage(context.Background(), pageDescriptor)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.False(t, errors.Is(err, domain.ErrTransient))
			assert.Equal(t, int32(1), hits.Load(), "client errors are not retried")
		})
	}
}

func TestClient_FetchPage_ValidationFields(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, `{"errorMessages": [
			{"field": "itemsPerPage", "message": "must be a number"},
			{"field": "orderBy", "message": "unknown column"}
		]}`)
	})

	_, err := c.FetchPage(context.Background(), pageDescriptor)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []domain.FieldError{
		{Field: "itemsPerPage", Message: "must be a number"},
		{Field: "orderBy", Message: "unknown column"},
	}, ve.Errors)
}

func TestClient_BreakerOpens(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(w, http.StatusInternalServerError, `{}`)
	}, func(cfg *Config) {
		cfg.RetryMax = 0
		cfg.BreakerFailures = 2
		cfg.BreakerTimeout = time.Minute
	})

	ctx := context.Background()
	for n := 0; n < 2; n++ {
		_, err := c.FetchPage(ctx, pageDescriptor)
		require.ErrorIs(t, err, domain.ErrTransient)
	}

	_, err := c.FetchPage(ctx, pageDescriptor)
	assert.ErrorIs(t, err, domain.ErrTransient)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(2), hits.Load(), "open breaker short-circuits the request")
}

func TestClient_ClientErrorsDoNotTripBreaker(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(w, http.StatusNotFound, `{}`)
	}, func(cfg *Config) { cfg.BreakerFailures = 1 })

	for n := 0; n < 3; n++ {
		_, err := c.FetchDeck(context.Background(), "missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
	}
	assert.Equal(t, int32(3), hits.Load())
}

func TestClient_CancelledContext(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{}`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FetchPage(ctx, pageDescriptor)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, errors.Is(err, domain.ErrTransient))
}

// ---------------------------------------------------------------------------
// Deck and viewer
// ---------------------------------------------------------------------------

func TestClient_FetchDeck(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/decks/deck-1", r.URL.Path)
		writeJSON(w, http.StatusOK, `{
			"id": "deck-1", "userId": "owner", "name": "Verbs", "isPrivate": true,
			"cardsCount": 12, "author": {"id": "owner", "name": "Ann"}
		}`)
	})

	deck, err := c.FetchDeck(context.Background(), "deck-1")
	require.NoError(t, err)
	assert.Equal(t, "owner", deck.OwnerID)
	assert.Equal(t, "Verbs", deck.Name)
	assert.Equal(t, 12, deck.CardsCount)
	assert.True(t, deck.IsPrivate)
	require.NotNil(t, deck.Author)
	assert.Equal(t, "Ann", deck.Author.Name)
}

func TestClient_FetchCurrentUser(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/auth/me", r.URL.Path)
		writeJSON(w, http.StatusOK, `{"id": "u1", "name": "Ann", "email": "ann@example.com"}`)
	})

	me, err := c.FetchCurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &domain.User{ID: "u1", Name: "Ann", Email: "ann@example.com"}, me)
}

// ---------------------------------------------------------------------------
// Mutations
// ---------------------------------------------------------------------------

func TestClient_CreateCard_Multipart(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/decks/deck-1/cards", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "question?", r.FormValue("question"))
		assert.Equal(t, "answer!", r.FormValue("answer"))

		f, hdr, err := r.FormFile("questionImg")
		require.NoError(t, err)
		defer f.Close()
		content, _ := io.ReadAll(f)
		assert.Equal(t, "q.png", hdr.Filename)
		assert.Equal(t, []byte("png-bytes"), content)

		_, _, err = r.FormFile("answerImg")
		assert.ErrorIs(t, err, http.ErrMissingFile)

		writeJSON(w, http.StatusCreated, `{"id": "c9"}`)
	})

	err := c.CreateCard(context.Background(), "deck-1", domain.CardForm{
		Question:    "question?",
		Answer:      "answer!",
		QuestionImg: &domain.Upload{Filename: "q.png", Content: []byte("png-bytes")},
	})
	require.NoError(t, err)
}

func TestClient_UpdateCard(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/v1/cards/c1", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "new", r.FormValue("question"))
		writeJSON(w, http.StatusOK, `{"id": "c1"}`)
	})

	require.NoError(t, c.UpdateCard(context.Background(), "c1", domain.CardForm{Question: "new", Answer: "a"}))
}

func TestClient_DeleteCard(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/v1/cards/c1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.DeleteCard(context.Background(), "c1"))
}

func TestClient_MutationsAreNotRetried(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(w, http.StatusServiceUnavailable, `{}`)
	})

	err := c.DeleteCard(context.Background(), "c1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMutation)
	assert.ErrorIs(t, err, domain.ErrTransient)

	var me *domain.MutationError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, domain.MutationDelete, me.Op)
	assert.Equal(t, "c1", me.CardID)
	assert.Equal(t, int32(1), hits.Load())
}

func TestClient_MutationForbidden(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, `{"message": "not your deck"}`)
	})

	err := c.UpdateCard(context.Background(), "c1", domain.CardForm{Question: "q", Answer: "a"})
	assert.ErrorIs(t, err, domain.ErrMutation)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestClient_UpdateGrade(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/decks/deck-1/learn", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"cardId": "c1", "grade": float64(5)}, body)

		writeJSON(w, http.StatusOK, `{"id": "c2"}`)
	})

	require.NoError(t, c.UpdateGrade(context.Background(), "deck-1", "c1", domain.Grade(5)))
}
