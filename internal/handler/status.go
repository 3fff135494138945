package handler

import (
	"net/http"

	"github.com/clementroume/holbertonschool-files-manager/internal/service"
)

type statusHandler struct {
	statusService *service.StatusService
}

func NewStatusHandler(statusService *service.StatusService) *statusHandler {
	return &statusHandler{statusService: statusService}
}

func (h *statusHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.statusService.Status(r.Context()))
}

func (h *statusHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statusService.Stats(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
