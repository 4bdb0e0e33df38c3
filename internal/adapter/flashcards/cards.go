package flashcards

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/heartmarshall/myenglish-cards/internal/domain"
	"github.com/heartmarshall/myenglish-cards/internal/listview/query"
)

// FetchPage returns one page of a deck's cards. Empty ordering and search
// are left out of the request.
func (c *Client) FetchPage(ctx context.Context, d query.Descriptor) (*domain.EntityPage, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("currentPage", strconv.Itoa(d.Page))
	q.Set("itemsPerPage", strconv.Itoa(d.PageSize))
	if d.OrderingToken != "" {
		q.Set("orderBy", d.OrderingToken)
	}
	if d.SearchText != "" {
		q.Set(c.cfg.SearchParam, d.SearchText)
	}

	var dto cardsPageDTO
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/v1/decks/" + url.PathEscape(d.CollectionID) + "/cards",
		query:  q,
	}, &dto)
	if err != nil {
		return nil, fetchError("fetch page", err)
	}

	page := dto.toDomain()
	c.log.DebugContext(ctx, "page fetched",
		slog.String("deck_id", d.CollectionID),
		slog.Int("page", page.Pagination.CurrentPage),
		slog.Int("items", len(page.Items)),
		slog.Int("total", page.Pagination.TotalItems),
	)
	return page, nil
}

// CreateCard adds a card to deckID.
func (c *Client) CreateCard(ctx context.Context, deckID string, form domain.CardForm) error {
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/v1/decks/" + url.PathEscape(deckID) + "/cards",
		body:   multipartForm(form),
	}, nil)
	if err != nil {
		return mutationError(domain.MutationCreate, "", err)
	}
	return nil
}

// UpdateCard replaces the question and answer of a card.
func (c *Client) UpdateCard(ctx context.Context, cardID string, form domain.CardForm) error {
	err := c.do(ctx, request{
		method: http.MethodPatch,
		path:   "/v1/cards/" + url.PathEscape(cardID),
		body:   multipartForm(form),
	}, nil)
	if err != nil {
		return mutationError(domain.MutationUpdate, cardID, err)
	}
	return nil
}

// DeleteCard removes a card.
func (c *Client) DeleteCard(ctx context.Context, cardID string) error {
	err := c.do(ctx, request{
		method: http.MethodDelete,
		path:   "/v1/cards/" + url.PathEscape(cardID),
	}, nil)
	if err != nil {
		return mutationError(domain.MutationDelete, cardID, err)
	}
	return nil
}

// UpdateGrade records the viewer's grade for a card of deckID.
func (c *Client) UpdateGrade(ctx context.Context, deckID, cardID string, grade domain.Grade) error {
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/v1/decks/" + url.PathEscape(deckID) + "/learn",
		body:   jsonBody(gradeDTO{CardID: cardID, Grade: int(grade)}),
	}, nil)
	if err != nil {
		return mutationError(domain.MutationGrade, cardID, err)
	}
	return nil
}

func multipartForm(form domain.CardForm) func() (io.Reader, string, error) {
	return func() (io.Reader, string, error) {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)

		if err := w.WriteField("question", form.Question); err != nil {
			return nil, "", err
		}
		if err := w.WriteField("answer", form.Answer); err != nil {
			return nil, "", err
		}
		files := []struct {
			field string
			up    *domain.Upload
		}{
			{"questionImg", form.QuestionImg},
			{"answerImg", form.AnswerImg},
		}
		for _, f := range files {
			up := f.up
			if up == nil {
				continue
			}
			part, err := w.CreateFormFile(f.field, up.Filename)
			if err != nil {
				return nil, "", err
			}
			if _, err := part.Write(up.Content); err != nil {
				return nil, "", err
			}
		}
		if err := w.Close(); err != nil {
			return nil, "", err
		}
		return &buf, w.FormDataContentType(), nil
	}
}
