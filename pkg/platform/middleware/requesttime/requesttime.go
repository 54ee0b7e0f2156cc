// Package requesttime pins one "now" per HTTP request so report timestamps,
// audit events and logs within a request agree.
package requesttime

import (
	"net/http"
	"time"

	"consortium/pkg/requestcontext"
)

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
