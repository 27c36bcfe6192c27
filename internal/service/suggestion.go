package service

import (
	"context"
	"errors"
	"log/slog"
	"unicode/utf8"

	"github.com/vaultpass/passforge-go/internal/advisor"
	"github.com/vaultpass/passforge-go/internal/model"
)

// SuggestionService forwards separator requests to the advisor gateway.
// It has no access to the generator and cannot alter a password.
type SuggestionService struct {
	gateway *advisor.Gateway
	history HistoryRecorder
}

// NewSuggestionService creates a SuggestionService; history may be nil.
func NewSuggestionService(gw *advisor.Gateway, history HistoryRecorder) *SuggestionService {
	return &SuggestionService{gateway: gw, history: history}
}

// Suggest returns a suggestion or an error wrapping advisor.ErrInputTooShort
// or advisor.ErrUnavailable.
func (s *SuggestionService) Suggest(ctx context.Context, accountID int64, req model.SuggestRequest) (advisor.Suggestion, error) {
	sug, err := s.gateway.Suggest(ctx, req.Password)

	outcome := model.OutcomeOK
	switch {
	case errors.Is(err, advisor.ErrInputTooShort):
		outcome = model.OutcomeInputTooShort
	case err != nil:
		outcome = model.OutcomeUnavailable
	}

	if s.history != nil && accountID != 0 {
		// Detached so a cancelled request still leaves a record.
		ev := &model.HistoryEvent{
			AccountID: accountID,
			Kind:      model.EventSuggest,
			Length:    utf8.RuneCountInString(req.Password),
			Outcome:   outcome,
		}
		if rerr := s.history.Record(context.WithoutCancel(ctx), ev); rerr != nil {
			slog.Warn("recording suggestion event failed", "account_id", accountID, "error", rerr)
		}
	}
	return sug, err
}
