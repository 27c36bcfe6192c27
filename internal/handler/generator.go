package handler

import (
	"errors"
	"net/http"

	"github.com/vaultpass/passforge-go/internal/crypto"
	"github.com/vaultpass/passforge-go/internal/middleware"
	"github.com/vaultpass/passforge-go/internal/model"
	"github.com/vaultpass/passforge-go/internal/service"
)

// GeneratorHandler handles HTTP requests for password generation.
type GeneratorHandler struct {
	service *service.GeneratorService
}

// NewGeneratorHandler creates a new GeneratorHandler.
func NewGeneratorHandler(svc *service.GeneratorService) *GeneratorHandler {
	return &GeneratorHandler{service: svc}
}

// HandleGenerate handles POST /api/v1/generate requests.
func (h *GeneratorHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req model.GenerateRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}

	accountID, _ := middleware.AccountIDFromContext(r.Context())
	resp, err := h.service.Generate(r.Context(), accountID, req)
	if err != nil {
		if isValidationError(err) {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, resp)
}

func isValidationError(err error) bool {
	return errors.Is(err, crypto.ErrLengthTooShort) ||
		errors.Is(err, service.ErrLengthTooLong)
}
