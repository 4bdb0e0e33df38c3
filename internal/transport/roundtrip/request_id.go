package roundtrip

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/myenglish-cards/pkg/ctxutil"
)

// HeaderRequestID carries the request id to the server.
const HeaderRequestID = "X-Request-Id"

// RequestID tags outgoing requests with the request id stored in the context,
// or a fresh one. The id is put back into the request context so later
// middleware can log it.
func RequestID(next http.RoundTripper) http.RoundTripper {
	return Func(func(r *http.Request) (*http.Response, error) {
		id := ctxutil.RequestIDFromCtx(r.Context())
		if id == "" {
			id = r.Header.Get(HeaderRequestID)
		}
		if id == "" {
			id = uuid.New().String()
		}

		// RoundTrippers must not modify the caller's request.
		r = r.Clone(ctxutil.WithRequestID(r.Context(), id))
		r.Header.Set(HeaderRequestID, id)
		return next.RoundTrip(r)
	})
}
