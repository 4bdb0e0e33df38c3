package config

import "time"

// Config is the root application configuration.
type Config struct {
	API   APIConfig   `yaml:"api"`
	List  ListConfig  `yaml:"list"`
	Cache CacheConfig `yaml:"cache"`
	Log   LogConfig   `yaml:"log"`
}

// APIConfig holds the remote flashcards API settings.
type APIConfig struct {
	BaseURL         string        `yaml:"base_url"         env:"API_BASE_URL"         env-default:"https://api.flashcards.andrii.es"`
	AccessToken     string        `yaml:"access_token"     env:"API_ACCESS_TOKEN"`
	Timeout         time.Duration `yaml:"timeout"          env:"API_TIMEOUT"          env-default:"10s"`
	SearchParam     string        `yaml:"search_param"     env:"API_SEARCH_PARAM"     env-default:"answer"`
	RetryMax        int           `yaml:"retry_max"        env:"API_RETRY_MAX"        env-default:"3"`
	RetryInitial    time.Duration `yaml:"retry_initial"    env:"API_RETRY_INITIAL"    env-default:"200ms"`
	RateLimit       float64       `yaml:"rate_limit"       env:"API_RATE_LIMIT"       env-default:"10"`
	RateBurst       int           `yaml:"rate_burst"       env:"API_RATE_BURST"       env-default:"5"`
	BreakerFailures int           `yaml:"breaker_failures" env:"API_BREAKER_FAILURES" env-default:"5"`
	BreakerTimeout  time.Duration `yaml:"breaker_timeout"  env:"API_BREAKER_TIMEOUT"  env-default:"30s"`
}

// ListConfig holds card list settings.
type ListConfig struct {
	DebounceDelay time.Duration `yaml:"debounce_delay" env:"LIST_DEBOUNCE_DELAY" env-default:"800ms"`
	PageSize      int           `yaml:"page_size"      env:"LIST_PAGE_SIZE"      env-default:"10"`
	PageSizesRaw  string        `yaml:"page_sizes"     env:"LIST_PAGE_SIZES"     env-default:"10,20,30,50,100"`

	// PageSizes is parsed from PageSizesRaw during validation.
	PageSizes []int `yaml:"-" env:"-"`
}

// CacheConfig sizes the read cache in front of the API.
type CacheConfig struct {
	PageEntries int           `yaml:"page_entries" env:"CACHE_PAGE_ENTRIES" env-default:"128"`
	PageTTL     time.Duration `yaml:"page_ttl"     env:"CACHE_PAGE_TTL"     env-default:"2m"`
	UserTTL     time.Duration `yaml:"user_ttl"     env:"CACHE_USER_TTL"     env-default:"10m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
