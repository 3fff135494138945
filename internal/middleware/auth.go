package middleware

import (
	"net/http"
	"strings"

	"github.com/clementroume/holbertonschool-files-manager/internal/ctxkeys"
)

// TokenHeader is the header carrying the session token.
// "Authorization: Bearer <token>" is accepted as well.
const TokenHeader = "X-Token"

// Token copies the session token of the request, if any, into the context.
// It does not validate it: every protected operation resolves the token itself.
func Token(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(ctxkeys.WithToken(r.Context(), token)))
	})
}

func extractToken(r *http.Request) string {
	if token := strings.TrimSpace(r.Header.Get(TokenHeader)); token != "" {
		return token
	}

	auth := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(auth, " ")
	if ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return ""
}

// RequireToken rejects requests that carry no token at all.
func RequireToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.Token(r.Context()) == "" {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next(w, r)
	}
}
