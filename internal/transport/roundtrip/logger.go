package roundtrip

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/myenglish-cards/pkg/ctxutil"
)

// Logger logs each request with method, path, status code, duration and the
// context identifiers (request_id, user_id). Transport failures and 5xx responses are logged at error level.
func Logger(logger *slog.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return Func(func(r *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(r)
			duration := time.Since(start)

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Duration("duration", duration),
				slog.String("request_id", ctxutil.RequestIDFromCtx(r.Context())),
			}
			if userID, ok := ctxutil.UserIDFromCtx(r.Context()); ok {
				attrs = append(attrs, slog.String("user_id", userID))
			}

			level := slog.LevelInfo
			switch {
			case err != nil:
				level = slog.LevelError
				attrs = append(attrs, slog.String("error", err.Error()))
			default:
				attrs = append(attrs, slog.Int("status", resp.StatusCode))
				if resp.StatusCode >= 500 {
					level = slog.LevelError
				}
			}
			logger.LogAttrs(r.Context(), level, "http.request", attrs...)
			return resp, err
		})
	}
}
