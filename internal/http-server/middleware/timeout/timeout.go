package timeout

import (
	"context"
	"net/http"
	"time"
)

// Timeout cancels the request context after the given number of minutes.
// Chat turns can spend several model round-trips, so the budget is
// generous compared to plain CRUD routes.
func Timeout(minutes int) func(next http.Handler) http.Handler {
	duration := time.Duration(minutes) * time.Minute

	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), duration)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}
