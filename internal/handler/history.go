package handler

import (
	"net/http"

	"github.com/vaultpass/passforge-go/internal/middleware"
	"github.com/vaultpass/passforge-go/internal/service"
)

// HistoryHandler serves an account's generation history.
type HistoryHandler struct {
	service *service.HistoryService
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(svc *service.HistoryService) *HistoryHandler {
	return &HistoryHandler{service: svc}
}

// HandleList handles GET /api/v1/history requests.
func (h *HistoryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	events, err := h.service.List(r.Context(), accountID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, events)
}
