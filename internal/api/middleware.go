// Package api implements the organizer REST API using chi.
package api

import "net/http"

// KeyHeader carries the static shared secret.
const KeyHeader = "X-Key"

// AuthMiddleware returns middleware that compares the X-Key header against
// the configured key. An empty configured key disables authentication
// entirely. Mismatches get a bare 401 with no body detail.
func AuthMiddleware(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key != "" && r.Header.Get(KeyHeader) != key {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
