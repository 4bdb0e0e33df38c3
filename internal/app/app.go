package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/myenglish-cards/internal/adapter/cache"
	"github.com/heartmarshall/myenglish-cards/internal/adapter/flashcards"
	"github.com/heartmarshall/myenglish-cards/internal/auth"
	"github.com/heartmarshall/myenglish-cards/internal/config"
	"github.com/heartmarshall/myenglish-cards/internal/listview"
	"github.com/heartmarshall/myenglish-cards/internal/transport/roundtrip"
	"github.com/heartmarshall/myenglish-cards/pkg/ctxutil"
)

// App holds the client stack shared by every command: token, transport
// chain, API client and read cache.
type App struct {
	cfg    *config.Config
	log    *slog.Logger
	clock  clockwork.Clock
	tokens *auth.TokenSource
	client *cache.Client
}

// New builds the client stack on the default HTTP transport.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	return newApp(cfg, logger, http.DefaultTransport, clockwork.NewRealClock())
}

func newApp(cfg *config.Config, logger *slog.Logger, base http.RoundTripper, clock clockwork.Clock) (*App, error) {
	tokens := auth.NewTokenSource(cfg.API.AccessToken)
	if claims, err := tokens.Claims(); err == nil && !claims.ExpiresAt.IsZero() {
		logger.Debug("access token loaded",
			slog.String("subject", claims.Subject),
			slog.Time("expires_at", claims.ExpiresAt),
		)
	}

	transport := roundtrip.Chain(
		roundtrip.RequestID,
		roundtrip.Logger(logger.With("component", "http")),
		roundtrip.UserAgent(UserAgent()),
		roundtrip.Bearer(tokens),
	)(base)

	api, err := flashcards.New(flashcards.Config{
		BaseURL:         cfg.API.BaseURL,
		Timeout:         cfg.API.Timeout,
		SearchParam:     cfg.API.SearchParam,
		RetryMax:        cfg.API.RetryMax,
		RetryInitial:    cfg.API.RetryInitial,
		RateLimit:       cfg.API.RateLimit,
		RateBurst:       cfg.API.RateBurst,
		BreakerFailures: cfg.API.BreakerFailures,
		BreakerTimeout:  cfg.API.BreakerTimeout,
	}, transport, logger)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	client := cache.New(api, cache.Config{
		PageEntries: cfg.Cache.PageEntries,
		PageTTL:     cfg.Cache.PageTTL,
		UserTTL:     cfg.Cache.UserTTL,
	}, clock, logger)

	return &App{
		cfg:    cfg,
		log:    logger,
		clock:  clock,
		tokens: tokens,
		client: client,
	}, nil
}

// Client is the cached API client.
func (a *App) Client() *cache.Client {
	return a.client
}

// Config returns the loaded configuration.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Context tags ctx with the token subject so request logs carry a user id.
func (a *App) Context(ctx context.Context) context.Context {
	claims, err := a.tokens.Claims()
	if err != nil || claims.Subject == "" {
		return ctx
	}
	return ctxutil.WithUserID(ctx, claims.Subject)
}

// NewController builds a card list controller for deckID. The caller owns
// Start and Close.
func (a *App) NewController(deckID string) *listview.Controller {
	return listview.New(listview.Deps{
		Client: a.client,
		Clock:  a.clock,
		Log:    a.log,
	}, listview.Options{
		DeckID:        deckID,
		PageSize:      a.cfg.List.PageSize,
		DebounceDelay: a.cfg.List.DebounceDelay,
	})
}
