package handler

import (
	"errors"
	"net/http"

	"github.com/vaultpass/passforge-go/internal/advisor"
	"github.com/vaultpass/passforge-go/internal/middleware"
	"github.com/vaultpass/passforge-go/internal/model"
	"github.com/vaultpass/passforge-go/internal/service"
)

// SuggestionHandler handles separator suggestion requests.
type SuggestionHandler struct {
	service *service.SuggestionService
}

// NewSuggestionHandler creates a new SuggestionHandler.
func NewSuggestionHandler(svc *service.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{service: svc}
}

// HandleSuggest handles POST /api/v1/suggest-separators requests. The body is
// always a SuggestionResult.
func (h *SuggestionHandler) HandleSuggest(w http.ResponseWriter, r *http.Request) {
	var req model.SuggestRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	accountID, _ := middleware.AccountIDFromContext(r.Context())
	s, err := h.service.Suggest(r.Context(), accountID, req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, advisor.SuggestionResult{
			SuggestedSeparator: s.SuggestedSeparator,
			Reasoning:          s.Reasoning,
		})
	case errors.Is(err, advisor.ErrInputTooShort):
		writeJSON(w, http.StatusBadRequest, advisor.SuggestionResult{Error: advisor.MsgInputTooShort})
	default:
		writeJSON(w, http.StatusBadGateway, advisor.SuggestionResult{Error: advisor.MsgUnavailable})
	}
}
