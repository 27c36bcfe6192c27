package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/vaultpass/passforge-go/internal/middleware"
	"github.com/vaultpass/passforge-go/internal/model"
	"github.com/vaultpass/passforge-go/internal/repository"
	"github.com/vaultpass/passforge-go/internal/service"
)

// accountErrors maps account service failures to a status. The sentinel's
// own text is safe to show; anything unlisted becomes a 500.
var accountErrors = []struct {
	err    error
	status int
}{
	{service.ErrEmailRequired, http.StatusBadRequest},
	{service.ErrPasswordRequired, http.StatusBadRequest},
	{service.ErrEmailTaken, http.StatusConflict},
	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{repository.ErrAccountNotFound, http.StatusNotFound},
}

func accountErrorStatus(err error) (int, string) {
	for _, e := range accountErrors {
		if errors.Is(err, e.err) {
			return e.status, e.err.Error()
		}
	}
	return http.StatusInternalServerError, "internal server error"
}

// AccountHandler serves registration, login and the caller's own account.
type AccountHandler struct {
	accounts *service.AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(svc *service.AccountService) *AccountHandler {
	return &AccountHandler{accounts: svc}
}

// HandleRegister handles POST /api/v1/auth/register. A new account gets a
// token straight away so clients can record history without a second call.
func (h *AccountHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	resp, err := h.accounts.Register(r.Context(), req)
	if err != nil {
		h.fail(w, r, "register", err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// HandleLogin handles POST /api/v1/auth/login.
func (h *AccountHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	resp, err := h.accounts.Login(r.Context(), req)
	if err != nil {
		h.fail(w, r, "login", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleMe handles GET /api/v1/auth/me.
func (h *AccountHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}
	acct, err := h.accounts.GetAccount(r.Context(), accountID)
	if err != nil {
		h.fail(w, r, "load account", err)
		return
	}
	writeJSON(w, http.StatusOK, acct)
}

func (h *AccountHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, msg := accountErrorStatus(err)
	if status == http.StatusInternalServerError {
		slog.Error("account request failed", "op", op, "error", err,
			"request_id", middleware.RequestIDFromContext(r.Context()))
	}
	writeJSON(w, status, errorResponse(msg))
}
