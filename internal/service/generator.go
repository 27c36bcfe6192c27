package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vaultpass/passforge-go/internal/crypto"
	"github.com/vaultpass/passforge-go/internal/model"
)

const defaultLength = 16

var ErrLengthTooLong = errors.New("password length exceeds the allowed maximum")

// HistoryRecorder stores history events.
type HistoryRecorder interface {
	Record(ctx context.Context, ev *model.HistoryEvent) error
}

// GeneratorService handles password generation requests.
type GeneratorService struct {
	rng       crypto.RandomSource
	maxLength int
	history   HistoryRecorder
}

// NewGeneratorService creates a GeneratorService. A maxLength of zero means
// no limit; history may be nil.
func NewGeneratorService(rng crypto.RandomSource, maxLength int, history HistoryRecorder) *GeneratorService {
	return &GeneratorService{rng: rng, maxLength: maxLength, history: history}
}

// Generate produces a password for req. accountID is zero for anonymous callers.
func (s *GeneratorService) Generate(ctx context.Context, accountID int64, req model.GenerateRequest) (model.GenerateResponse, error) {
	cfg := ConfigFromRequest(req)
	// An empty selection yields "" for any length, so the cap does not apply.
	if s.maxLength > 0 && cfg.Length > s.maxLength && len(cfg.Classes()) > 0 {
		return model.GenerateResponse{}, fmt.Errorf("%w: %d > %d", ErrLengthTooLong, cfg.Length, s.maxLength)
	}

	password, err := crypto.Generate(cfg, s.rng)
	switch {
	case errors.Is(err, crypto.ErrLengthTooShort):
		s.record(ctx, accountID, cfg, model.OutcomeLengthTooShort)
		return model.GenerateResponse{}, err
	case err != nil:
		return model.GenerateResponse{}, err
	}

	outcome := model.OutcomeOK
	if password == "" {
		outcome = model.OutcomeEmptySelection
	}
	s.record(ctx, accountID, cfg, outcome)

	return model.GenerateResponse{
		Password: password,
		Length:   len(password),
		Classes:  ClassNames(cfg.Classes()),
	}, nil
}

func (s *GeneratorService) record(ctx context.Context, accountID int64, cfg crypto.GenerationConfig, outcome string) {
	if s.history == nil || accountID == 0 {
		return
	}
	ev := &model.HistoryEvent{
		AccountID: accountID,
		Kind:      model.EventGenerate,
		Length:    cfg.Length,
		Classes:   strings.Join(ClassNames(cfg.Classes()), ","),
		Outcome:   outcome,
	}
	if err := s.history.Record(ctx, ev); err != nil {
		slog.Warn("recording generation event failed", "account_id", accountID, "error", err)
	}
}

// ConfigFromRequest applies the defaults for omitted fields: 16 characters
// with lowercase, uppercase and numbers enabled and symbols disabled.
func ConfigFromRequest(req model.GenerateRequest) crypto.GenerationConfig {
	def := crypto.DefaultGenerationConfig()
	cfg := crypto.GenerationConfig{
		Length:    req.Length,
		Lowercase: boolOrDefault(req.Lowercase, def.Lowercase),
		Uppercase: boolOrDefault(req.Uppercase, def.Uppercase),
		Digits:    boolOrDefault(req.Numbers, def.Digits),
		Symbols:   boolOrDefault(req.Symbols, def.Symbols),
	}
	if cfg.Length == 0 {
		cfg.Length = defaultLength
	}
	return cfg
}

// ClassNames returns the names of classes, never nil.
func ClassNames(classes []crypto.CharacterClass) []string {
	names := make([]string, 0, len(classes))
	for _, c := range classes {
		names = append(names, c.String())
	}
	return names
}

// boolOrDefault returns the dereferenced pointer value, or the fallback if nil.
func boolOrDefault(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}
