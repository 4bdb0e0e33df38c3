// Package cache decorates a remote card client with read caching. It is the
// invalidation authority of the card list: every successful mutation drops
// the cached pages of the affected deck, so the refetch that follows a
// mutation always reaches the server.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/graph-gophers/dataloader/v7"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"github.com/heartmarshall/myenglish-cards/internal/domain"
	"github.com/heartmarshall/myenglish-cards/internal/listview/query"
)

//go:generate moq -out remote_mock_test.go -pkg cache . remote

type remote interface {
	FetchPage(ctx context.Context, d query.Descriptor) (*domain.EntityPage, error)
	FetchCurrentUser(ctx context.Context) (*domain.User, error)
	FetchDeck(ctx context.Context, deckID string) (*domain.Deck, error)
	CreateCard(ctx context.Context, deckID string, form domain.CardForm) error
	UpdateCard(ctx context.Context, cardID string, form domain.CardForm) error
	DeleteCard(ctx context.Context, cardID string) error
	UpdateGrade(ctx context.Context, deckID, cardID string, grade domain.Grade) error
}

// Config sizes the caches.
type Config struct {
	PageEntries int
	PageTTL     time.Duration
	UserTTL     time.Duration
}

// Client caches pages, decks and the current user of an upstream client.
type Client struct {
	next  remote
	clock clockwork.Clock
	log   *slog.Logger
	cfg   Config

	pages *expirable.LRU[string, *domain.EntityPage]
	group singleflight.Group
	decks *dataloader.Loader[string, *domain.Deck]

	mu       sync.Mutex
	gens     map[string]uint64
	epoch    uint64
	cardDeck map[string]string
	me       *domain.User
	meAt     time.Time
}

// New wraps next. A nil clock uses the real clock.
func New(next remote, cfg Config, clock clockwork.Clock, logger *slog.Logger) *Client {
	if cfg.PageEntries <= 0 {
		cfg.PageEntries = 128
	}
	if cfg.PageTTL <= 0 {
		cfg.PageTTL = 2 * time.Minute
	}
	if cfg.UserTTL <= 0 {
		cfg.UserTTL = 10 * time.Minute
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	c := &Client{
		next:     next,
		clock:    clock,
		log:      logger.With("adapter", "cache"),
		cfg:      cfg,
		pages:    expirable.NewLRU[string, *domain.EntityPage](cfg.PageEntries, nil, cfg.PageTTL),
		gens:     make(map[string]uint64),
		cardDeck: make(map[string]string),
	}
	c.decks = newDeckLoader(next)
	return c
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

// FetchPage serves a page from cache or fetches it once for all concurrent
// callers. A fetch that started before an invalidation of its deck is
// returned to its callers but never cached.
func (c *Client) FetchPage(ctx context.Context, d query.Descriptor) (*domain.EntityPage, error) {
	gen := c.generation(d.CollectionID)
	key := pageKey(d.CollectionID, gen, d)

	if page, ok := c.pages.Get(key); ok {
		c.log.DebugContext(ctx, "page cache hit", slog.String("key", key))
		return clonePage(page), nil
	}

	v, err, shared := c.group.Do(key, func() (any, error) {
		page, err := c.next.FetchPage(ctx, d)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.generationLocked(d.CollectionID) == gen {
			c.pages.Add(key, page)
		}
		for _, card := range page.Items {
			c.cardDeck[card.ID] = d.CollectionID
		}
		return page, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.log.DebugContext(ctx, "page fetch shared", slog.String("key", key))
	}
	return clonePage(v.(*domain.EntityPage)), nil
}

// FetchDeck loads a deck through the batching loader. Failures are not
// remembered.
func (c *Client) FetchDeck(ctx context.Context, deckID string) (*domain.Deck, error) {
	deck, err := c.decks.Load(ctx, deckID)()
	if err != nil {
		c.decks.Clear(ctx, deckID)
		return nil, err
	}
	d := *deck
	return &d, nil
}

// FetchCurrentUser memoises the viewer for the configured TTL.
func (c *Client) FetchCurrentUser(ctx context.Context) (*domain.User, error) {
	c.mu.Lock()
	if c.me != nil && c.clock.Since(c.meAt) < c.cfg.UserTTL {
		u := *c.me
		c.mu.Unlock()
		return &u, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do("me", func() (any, error) {
		return c.next.FetchCurrentUser(ctx)
	})
	if err != nil {
		return nil, err
	}
	me := v.(*domain.User)

	c.mu.Lock()
	c.me, c.meAt = me, c.clock.Now()
	c.mu.Unlock()

	u := *me
	return &u, nil
}

// ---------------------------------------------------------------------------
// Writes
// ---------------------------------------------------------------------------

// CreateCard forwards the mutation and invalidates deckID on success.
func (c *Client) CreateCard(ctx context.Context, deckID string, form domain.CardForm) error {
	if err := c.next.CreateCard(ctx, deckID, form); err != nil {
		return err
	}
	c.Invalidate(ctx, deckID)
	return nil
}

// UpdateCard forwards the mutation and invalidates the card's deck.
func (c *Client) UpdateCard(ctx context.Context, cardID string, form domain.CardForm) error {
	if err := c.next.UpdateCard(ctx, cardID, form); err != nil {
		return err
	}
	c.invalidateCard(ctx, cardID)
	return nil
}

// DeleteCard forwards the mutation and invalidates the card's deck.
func (c *Client) DeleteCard(ctx context.Context, cardID string) error {
	if err := c.next.DeleteCard(ctx, cardID); err != nil {
		return err
	}
	c.invalidateCard(ctx, cardID)

	c.mu.Lock()
	delete(c.cardDeck, cardID)
	c.mu.Unlock()
	return nil
}

// UpdateGrade forwards the mutation and invalidates deckID; the grade column
// of cached pages is stale afterwards.
func (c *Client) UpdateGrade(ctx context.Context, deckID, cardID string, grade domain.Grade) error {
	if err := c.next.UpdateGrade(ctx, deckID, cardID, grade); err != nil {
		return err
	}
	c.Invalidate(ctx, deckID)
	return nil
}

// Invalidate drops every cached page and the cached deck of deckID.
func (c *Client) Invalidate(ctx context.Context, deckID string) {
	c.mu.Lock()
	c.gens[deckID]++
	c.mu.Unlock()

	prefix := fmt.Sprintf("%q#", deckID)
	purged := 0
	for _, key := range c.pages.Keys() {
		if strings.HasPrefix(key, prefix) {
			c.pages.Remove(key)
			purged++
		}
	}
	c.decks.Clear(ctx, deckID)

	c.log.DebugContext(ctx, "deck invalidated",
		slog.String("deck_id", deckID),
		slog.Int("pages_purged", purged),
	)
}

// invalidateCard invalidates the deck the card was last seen in. A card
// never seen in a page purges every deck.
func (c *Client) invalidateCard(ctx context.Context, cardID string) {
	c.mu.Lock()
	deckID, ok := c.cardDeck[cardID]
	c.mu.Unlock()

	if ok {
		c.Invalidate(ctx, deckID)
		return
	}
	c.invalidateAll(ctx)
}

func (c *Client) invalidateAll(ctx context.Context) {
	c.mu.Lock()
	c.epoch++
	c.mu.Unlock()

	c.pages.Purge()
	c.decks.ClearAll()
	c.log.DebugContext(ctx, "all decks invalidated")
}

// generation changes whenever cached pages of deckID become invalid.
func (c *Client) generation(deckID string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generationLocked(deckID)
}

func (c *Client) generationLocked(deckID string) uint64 {
	return c.gens[deckID] + c.epoch
}

func pageKey(deckID string, gen uint64, d query.Descriptor) string {
	return fmt.Sprintf("%q#%d#%s", deckID, gen, d.Key())
}

func clonePage(p *domain.EntityPage) *domain.EntityPage {
	out := &domain.EntityPage{
		Items:      make([]domain.Card, len(p.Items)),
		Pagination: p.Pagination,
	}
	copy(out.Items, p.Items)
	return out
}
