package middleware

import "net/http"

// SecurityHeaders sets headers for all responses. File content is user
// supplied, so browsers must never sniff it into an active type or run it.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Content-Security-Policy", "default-src 'none'; img-src 'self'; sandbox")
		next.ServeHTTP(w, r)
	})
}
