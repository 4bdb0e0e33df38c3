package roundtrip

import (
	"fmt"
	"net/http"
	"time"

	"github.com/heartmarshall/myenglish-cards/internal/domain"
)

type tokenSource interface {
	Token() string
	Expired(now time.Time) bool
}

// Bearer attaches the access token to every request. Requests without a token
// go out anonymously; an expired token fails without touching the network.
func Bearer(tokens tokenSource) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return Func(func(r *http.Request) (*http.Response, error) {
			token := tokens.Token()
			if token == "" {
				return next.RoundTrip(r)
			}
			if tokens.Expired(time.Now()) {
				return nil, fmt.Errorf("access token expired: %w", domain.ErrUnauthorized)
			}

			r = r.Clone(r.Context())
			r.Header.Set("Authorization", "Bearer "+token)
			return next.RoundTrip(r)
		})
	}
}
