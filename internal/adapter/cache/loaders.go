package cache

import (
	"context"
	"time"

	"github.com/graph-gophers/dataloader/v7"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/myenglish-cards/internal/domain"
)

const (
	maxBatch = 20
	wait     = 2 * time.Millisecond
)

type deckFetcher interface {
	FetchDeck(ctx context.Context, deckID string) (*domain.Deck, error)
}

// newDeckLoader batches deck lookups issued within the wait window. The API
// has no multi-get, so a batch fans out into concurrent single fetches.
func newDeckLoader(next deckFetcher) *dataloader.Loader[string, *domain.Deck] {
	return dataloader.NewBatchedLoader(
		newDeckBatchFn(next),
		dataloader.WithWait[string, *domain.Deck](wait),
		dataloader.WithBatchCapacity[string, *domain.Deck](maxBatch),
	)
}

func newDeckBatchFn(next deckFetcher) dataloader.BatchFunc[string, *domain.Deck] {
	return func(ctx context.Context, keys []string) []*dataloader.Result[*domain.Deck] {
		results := make([]*dataloader.Result[*domain.Deck], len(keys))

		var g errgroup.Group
		for i, key := range keys {
			i, key := i, key
			g.Go(func() error {
				deck, err := next.FetchDeck(ctx, key)
				results[i] = &dataloader.Result[*domain.Deck]{Data: deck, Error: err}
				return nil
			})
		}
		_ = g.Wait()
		return results
	}
}
