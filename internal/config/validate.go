package config

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.API.validate(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.List.validate(); err != nil {
		return fmt.Errorf("list: %w", err)
	}
	if c.Cache.PageEntries <= 0 {
		return fmt.Errorf("cache: page_entries must be > 0 (got %d)", c.Cache.PageEntries)
	}
	switch c.Log.Format {
	case "json", "text", "pretty":
	default:
		return fmt.Errorf("log: format must be json, text or pretty (got %q)", c.Log.Format)
	}
	return nil
}

func (a *APIConfig) validate() error {
	u, err := url.Parse(a.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base_url must be an absolute http(s) URL (got %q)", a.BaseURL)
	}
	if a.RateLimit <= 0 {
		return fmt.Errorf("rate_limit must be > 0 (got %v)", a.RateLimit)
	}
	if a.RetryMax < 0 {
		return fmt.Errorf("retry_max must be >= 0 (got %d)", a.RetryMax)
	}
	return nil
}

func (l *ListConfig) validate() error {
	if l.DebounceDelay <= 0 {
		return fmt.Errorf("debounce_delay must be > 0 (got %v)", l.DebounceDelay)
	}
	if l.PageSize <= 0 {
		return fmt.Errorf("page_size must be > 0 (got %d)", l.PageSize)
	}

	sizes, err := ParsePageSizes(l.PageSizesRaw)
	if err != nil {
		return fmt.Errorf("page_sizes: %w", err)
	}
	if len(sizes) > 0 && !slices.Contains(sizes, l.PageSize) {
		return fmt.Errorf("page_size %d is not one of page_sizes %v", l.PageSize, sizes)
	}
	l.PageSizes = sizes

	return nil
}

// ParsePageSizes parses a comma-separated list of positive page sizes
// (e.g. "10,20,30"). An empty string returns a nil slice.
func ParsePageSizes(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	sizes := make([]int, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid page size %q", p)
		}
		sizes = append(sizes, n)
	}

	return sizes, nil
}
