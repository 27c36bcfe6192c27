package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vaultpass/passforge-go/internal/advisor"
	"github.com/vaultpass/passforge-go/internal/crypto"
	"github.com/vaultpass/passforge-go/internal/middleware"
	"github.com/vaultpass/passforge-go/internal/model"
	"github.com/vaultpass/passforge-go/internal/repository"
	"github.com/vaultpass/passforge-go/internal/service"
)

const testSecret = "test-secret"

type stubAdvisor struct {
	resp  advisor.Suggestion
	err   error
	calls int
}

func (s *stubAdvisor) SuggestSeparators(ctx context.Context, password string) (advisor.Suggestion, error) {
	s.calls++
	return s.resp, s.err
}

type memAccounts struct {
	accounts []model.Account
}

func (m *memAccounts) Create(ctx context.Context, acct *model.Account) error {
	for _, a := range m.accounts {
		if a.Email == acct.Email {
			return repository.ErrDuplicateEmail
		}
	}
	acct.ID = int64(len(m.accounts) + 1)
	m.accounts = append(m.accounts, *acct)
	return nil
}

func (m *memAccounts) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	for _, a := range m.accounts {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, repository.ErrAccountNotFound
}

func (m *memAccounts) GetByID(ctx context.Context, id int64) (*model.Account, error) {
	for _, a := range m.accounts {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, repository.ErrAccountNotFound
}

type memHistory struct {
	events []model.HistoryEvent
	err    error
}

func (m *memHistory) Record(ctx context.Context, ev *model.HistoryEvent) error {
	m.events = append(m.events, *ev)
	return nil
}

func (m *memHistory) ListByAccount(ctx context.Context, accountID int64, limit int) ([]model.HistoryEvent, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []model.HistoryEvent
	for _, e := range m.events {
		if e.AccountID == accountID {
			out = append(out, e)
		}
	}
	return out, nil
}

type testServer struct {
	router  http.Handler
	advisor *stubAdvisor
	history *memHistory
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		advisor: &stubAdvisor{resp: advisor.Suggestion{SuggestedSeparator: "-", Reasoning: "Split at word boundaries."}},
		history: &memHistory{},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hasher := crypto.NewArgon2Hasher(crypto.HashParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})

	gen := NewGeneratorHandler(service.NewGeneratorService(crypto.NewSeededSource(1), 256, ts.history))
	sug := NewSuggestionHandler(service.NewSuggestionService(advisor.NewGateway(ts.advisor, time.Second, logger), ts.history))
	accounts := NewAccountHandler(service.NewAccountService(&memAccounts{}, hasher, testSecret, time.Hour))
	hist := NewHistoryHandler(service.NewHistoryService(ts.history))

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalAuth(testSecret))
		r.Post("/api/v1/generate", gen.HandleGenerate)
		r.Post("/api/v1/suggest-separators", sug.HandleSuggest)
	})
	r.Post("/api/v1/auth/register", accounts.HandleRegister)
	r.Post("/api/v1/auth/login", accounts.HandleLogin)
	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(testSecret))
		r.Get("/api/v1/auth/me", accounts.HandleMe)
		r.Get("/api/v1/history", hist.HandleList)
	})
	ts.router = r
	return ts
}

func (ts *testServer) do(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body %q", rec.Body.String())
	return v
}

func TestHandleGenerate(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name        string
		body        string
		wantLen     int
		wantClasses []string
	}{
		{"empty body uses defaults", "", 16, []string{"lowercase", "uppercase", "numbers"}},
		{"empty object uses defaults", "{}", 16, []string{"lowercase", "uppercase", "numbers"}},
		{"letters digits", `{"length":16,"lowercase":true,"uppercase":true,"numbers":true,"symbols":false}`, 16, []string{"lowercase", "uppercase", "numbers"}},
		{"all classes at minimum", `{"length":4,"symbols":true}`, 4, []string{"lowercase", "uppercase", "numbers", "symbols"}},
		{"no classes", `{"length":10,"lowercase":false,"uppercase":false,"numbers":false,"symbols":false}`, 0, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(http.MethodPost, "/api/v1/generate", tt.body, "")
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

			resp := decodeBody[model.GenerateResponse](t, rec)
			assert.Len(t, resp.Password, tt.wantLen)
			assert.Equal(t, tt.wantLen, resp.Length)
			if diff := cmp.Diff(tt.wantClasses, resp.Classes); diff != "" {
				t.Errorf("classes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHandleGenerateRejects(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"length too short", `{"length":3,"symbols":true}`, "length 3, need at least 4"},
		{"length too long", `{"length":257}`, "exceeds the allowed maximum"},
		{"negative length", `{"length":-1}`, "invalid field Length"},
		{"malformed json", `{"length":`, "invalid request body"},
		{"wrong type", `{"length":"long"}`, "invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(http.MethodPost, "/api/v1/generate", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decodeBody[map[string]string](t, rec)["error"], tt.wantMsg)
		})
	}
}

func TestHandleGenerateBodyTooLarge(t *testing.T) {
	ts := newTestServer(t)
	body := `{"length":16,"pad":"` + strings.Repeat("x", maxBodyBytes) + `"}`
	rec := ts.do(http.MethodPost, "/api/v1/generate", body, "")
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHandleSuggest(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/v1/suggest-separators", `{"password":"correcthorsebattery"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"suggestedSeparator":"-","reasoning":"Split at word boundaries."}`, rec.Body.String())
	assert.Equal(t, 1, ts.advisor.calls)
}

func TestHandleSuggestTooShort(t *testing.T) {
	ts := newTestServer(t)

	for _, body := range []string{`{"password":"short1"}`, `{}`, `{"password":"éééé"}`} {
		rec := ts.do(http.MethodPost, "/api/v1/suggest-separators", body, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"`+advisor.MsgInputTooShort+`"}`, rec.Body.String())
	}
	assert.Zero(t, ts.advisor.calls)
}

func TestHandleSuggestUnavailable(t *testing.T) {
	ts := newTestServer(t)
	ts.advisor.err = errors.New("upstream timeout with internal detail")

	rec := ts.do(http.MethodPost, "/api/v1/suggest-separators", `{"password":"correcthorsebattery"}`, "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error":"`+advisor.MsgUnavailable+`"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "internal detail")
}

func TestGenerateThenSuggestLeavesPasswordIntact(t *testing.T) {
	ts := newTestServer(t)
	ts.advisor.err = errors.New("down")

	rec := ts.do(http.MethodPost, "/api/v1/generate", `{"length":20}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	pw := decodeBody[model.GenerateResponse](t, rec).Password

	body, err := json.Marshal(model.SuggestRequest{Password: pw})
	require.NoError(t, err)
	rec = ts.do(http.MethodPost, "/api/v1/suggest-separators", string(body), "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotContains(t, rec.Body.String(), pw)
}

func TestAccountFlowAndHistory(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/v1/auth/register", `{"email":"dev@example.com","password":"hunter2hunter2"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	reg := decodeBody[model.AuthResponse](t, rec)
	require.NotEmpty(t, reg.Token)

	rec = ts.do(http.MethodPost, "/api/v1/auth/register", `{"email":"dev@example.com","password":"hunter2hunter2"}`, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(http.MethodPost, "/api/v1/auth/login", `{"email":"dev@example.com","password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(http.MethodPost, "/api/v1/auth/login", `{"email":"dev@example.com","password":"hunter2hunter2"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	token := decodeBody[model.AuthResponse](t, rec).Token

	rec = ts.do(http.MethodGet, "/api/v1/auth/me", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dev@example.com", decodeBody[model.AccountResponse](t, rec).Email)

	rec = ts.do(http.MethodPost, "/api/v1/generate", `{"length":12,"symbols":true}`, token)
	require.Equal(t, http.StatusOK, rec.Code)
	pw := decodeBody[model.GenerateResponse](t, rec).Password
	rec = ts.do(http.MethodPost, "/api/v1/suggest-separators", `{"password":"short"}`, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodGet, "/api/v1/history", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), pw)
	events := decodeBody[[]model.HistoryEventResponse](t, rec)
	require.Len(t, events, 2)
	assert.Equal(t, model.EventGenerate, events[0].Kind)
	assert.Equal(t, []string{"lowercase", "uppercase", "numbers", "symbols"}, events[0].Classes)
	assert.Equal(t, model.OutcomeInputTooShort, events[1].Outcome)
}

func TestHandleRegisterValidation(t *testing.T) {
	ts := newTestServer(t)

	for _, body := range []string{
		`{"email":"not-an-email","password":"hunter2hunter2"}`,
		`{"email":"dev@example.com","password":"short"}`,
		`{"email":"dev@example.com"}`,
	} {
		rec := ts.do(http.MethodPost, "/api/v1/auth/register", body, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.NotContains(t, rec.Body.String(), "hunter2")
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	ts := newTestServer(t)
	for _, path := range []string{"/api/v1/auth/me", "/api/v1/history"} {
		rec := ts.do(http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestHandleHistoryError(t *testing.T) {
	ts := newTestServer(t)
	ts.history.err = errors.New("db down")

	tok, err := crypto.IssueToken(1, testSecret, time.Hour)
	require.NoError(t, err)
	rec := ts.do(http.MethodGet, "/api/v1/history", "", tok)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAccountErrorStatus(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantMsg    string
	}{
		{service.ErrEmailRequired, http.StatusBadRequest, "email is required"},
		{service.ErrPasswordRequired, http.StatusBadRequest, "password is required"},
		{service.ErrEmailTaken, http.StatusConflict, "email already taken"},
		{service.ErrInvalidCredentials, http.StatusUnauthorized, "invalid email or password"},
		{fmt.Errorf("lookup: %w", repository.ErrAccountNotFound), http.StatusNotFound, "account not found"},
		{errors.New("connection refused by 10.0.0.3"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		status, msg := accountErrorStatus(tt.err)
		assert.Equal(t, tt.wantStatus, status, "%v", tt.err)
		assert.Equal(t, tt.wantMsg, msg, "%v", tt.err)
	}
}

func TestHandleMeUnknownAccount(t *testing.T) {
	ts := newTestServer(t)
	tok, err := crypto.IssueToken(99, testSecret, time.Hour)
	require.NoError(t, err)

	rec := ts.do(http.MethodGet, "/api/v1/auth/me", "", tok)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"account not found"}`, rec.Body.String())
}

func TestHandleGenerateEmptySelectionIgnoresLengthCap(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/v1/generate",
		`{"length":5000,"lowercase":false,"uppercase":false,"numbers":false,"symbols":false}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[model.GenerateResponse](t, rec)
	assert.Empty(t, resp.Password)
	assert.Zero(t, resp.Length)
}
