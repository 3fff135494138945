package handler

import (
	"net/http"

	"github.com/clementroume/holbertonschool-files-manager/internal/ctxkeys"
	"github.com/clementroume/holbertonschool-files-manager/internal/service"
)

type authHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *authHandler {
	return &authHandler{authService: authService}
}

// Connect signs in with HTTP Basic credentials and returns a session token.
func (h *authHandler) Connect(w http.ResponseWriter, r *http.Request) {
	email, password, ok := r.BasicAuth()
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	token, err := h.authService.Issue(r.Context(), email, password)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Disconnect ends the session of the token sent with the request.
func (h *authHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	token := ctxkeys.Token(r.Context())

	_, err := h.authService.Resolve(r.Context(), token)
	if err != nil {
		handleError(w, r, err)
		return
	}

	err = h.authService.Revoke(r.Context(), token)
	if err != nil {
		handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
