// Package api implements the trigger endpoints of the digest publisher
// using chi.
package api

import (
	"crypto/subtle"
	"net/http"
)

// SecretMiddleware returns middleware validating the shared secret carried
// in the "secret" query parameter. Comparison is constant time.
func SecretMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			supplied := r.URL.Query().Get("secret")
			if subtle.ConstantTimeCompare([]byte(supplied), []byte(secret)) != 1 {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
