// Package responsewriter makes the response writer of a request reachable
// from its context, for handlers that only receive a context but still
// have to set cookies.
package responsewriter

import (
	"context"
	"errors"
	"net/http"
)

type responseWriterKey struct{}

var ErrNotInContext = errors.New("response writer not found in context")

// Middleware stores the response writer in the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), responseWriterKey{}, w)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromContext returns the response writer stored by Middleware.
func FromContext(ctx context.Context) (http.ResponseWriter, error) {
	w, ok := ctx.Value(responseWriterKey{}).(http.ResponseWriter)
	if !ok {
		return nil, ErrNotInContext
	}
	return w, nil
}
