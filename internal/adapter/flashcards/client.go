// Package flashcards is the REST client of the flashcards API. It implements
// the remote side of the card list: page queries, deck and viewer lookups,
// and card mutations.
package flashcards

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL     = "https://api.flashcards.andrii.es"
	DefaultSearchParam = "answer"
)

// Config tunes the client. Zero values fall back to sensible defaults.
type Config struct {
	BaseURL         string
	Timeout         time.Duration
	SearchParam     string
	RetryMax        int
	RetryInitial    time.Duration
	RateLimit       float64
	RateBurst       int
	BreakerFailures int
	BreakerTimeout  time.Duration
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.SearchParam == "" {
		c.SearchParam = DefaultSearchParam
	}
	if c.RetryInitial <= 0 {
		c.RetryInitial = 200 * time.Millisecond
	}
	if c.RateBurst <= 0 {
		c.RateBurst = 1
	}
	if c.BreakerFailures <= 0 {
		c.BreakerFailures = 5
	}
	if c.BreakerTimeout <= 0 {
		c.BreakerTimeout = 30 * time.Second
	}
	return c
}

// Client talks to the flashcards API. Reads are retried with exponential
// backoff on transient failures; writes are sent once. Every request passes
// a rate limiter and a circuit breaker.
type Client struct {
	base    *url.URL
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	log     *slog.Logger
}

// New creates a Client. transport carries auth and request ids; nil uses
// http.DefaultTransport.
func New(cfg Config, transport http.RoundTripper, logger *slog.Logger) (*Client, error) {
	cfg = cfg.withDefaults()

	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("flashcards: parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("flashcards: base url %q must be http(s)", cfg.BaseURL)
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	log := logger.With("adapter", "flashcards")

	c := &Client{
		base:    base,
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout, Transport: transport},
		limiter: rate.NewLimiter(limit, cfg.RateBurst),
		log:     log,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "flashcards",
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(cfg.BreakerFailures)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
		// Client errors say nothing about the health of the API.
		IsSuccessful: func(err error) bool {
			return err == nil || !isTransient(err)
		},
	})
	return c, nil
}

type request struct {
	method string
	path   string
	query  url.Values
	// body builds a fresh payload and its content type.
	body func() (io.Reader, string, error)
}

// do sends r and decodes a 2xx JSON answer into out (when non-nil).
func (c *Client) do(ctx context.Context, r request, out any) error {
	attempt := func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		_, err := c.breaker.Execute(func() (any, error) {
			return nil, c.send(ctx, r, out)
		})
		return err
	}

	if r.method != http.MethodGet || c.cfg.RetryMax <= 0 {
		return attempt()
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.cfg.RetryInitial
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.cfg.RetryMax)), ctx)

	return backoff.RetryNotify(func() error {
		err := attempt()
		if err != nil && !isTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}, policy, func(err error, wait time.Duration) {
		c.log.WarnContext(ctx, "flashcards retry",
			slog.String("path", r.path),
			slog.Duration("wait", wait),
			slog.String("error", err.Error()),
		)
	})
}

func (c *Client) send(ctx context.Context, r request, out any) error {
	u := c.base.JoinPath(r.path)
	if len(r.query) > 0 {
		u.RawQuery = r.query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	if r.body != nil {
		var err error
		body, contentType, err = r.body()
		if err != nil {
			return fmt.Errorf("build body: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, data)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}

func decodeError(status int, data []byte) error {
	se := &statusError{Status: status}
	var body errorBodyDTO
	if err := json.Unmarshal(data, &body); err == nil {
		se.Message = body.Message
		se.Fields = body.fields()
	}
	if se.Message == "" && len(se.Fields) == 0 {
		se.Message = http.StatusText(status)
	}
	return se
}

func jsonBody(v any) func() (io.Reader, string, error) {
	return func() (io.Reader, string, error) {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}
