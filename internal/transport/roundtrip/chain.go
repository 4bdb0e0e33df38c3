// Package roundtrip holds the client-side middleware wrapped around every
// request sent to the remote API.
package roundtrip

import "net/http"

// Middleware wraps an http.RoundTripper.
type Middleware func(http.RoundTripper) http.RoundTripper

// Func adapts an ordinary function to http.RoundTripper.
type Func func(*http.Request) (*http.Response, error)

func (f Func) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// Chain combines multiple middleware into a single Middleware.
// Chain(mw1, mw2)(rt) results in mw1(mw2(rt)), so mw1 sees the request first.
func Chain(mws ...Middleware) Middleware {
	return func(final http.RoundTripper) http.RoundTripper {
		if final == nil {
			final = http.DefaultTransport
		}
		for i := len(mws) - 1; i >= 0; i-- {
			final = mws[i](final)
		}
		return final
	}
}
