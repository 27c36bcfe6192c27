// Package advisor asks an external service for human-readable separators
// for an already generated password. Suggestions are advisory: nothing here
// changes or regenerates the password, and every failure is reported as a
// recoverable error for display.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"
)

// MinPasswordLength is the shortest password the gateway forwards, counted
// in characters rather than bytes.
const MinPasswordLength = 8

var (
	ErrInputTooShort = errors.New("password too short for a suggestion")
	ErrUnavailable   = errors.New("separator advisor unavailable")
)

// Messages shown to users in place of the underlying error.
const (
	MsgInputTooShort = "Password must be at least 8 characters long for a suggestion."
	MsgUnavailable   = "An unexpected error occurred while generating a suggestion."
)

// Suggestion is a separator proposal with the advisor's reasoning.
type Suggestion struct {
	SuggestedSeparator string `json:"suggestedSeparator"`
	Reasoning          string `json:"reasoning"`
}

// Advisor is the external suggestion service.
type Advisor interface {
	SuggestSeparators(ctx context.Context, password string) (Suggestion, error)
}

// SuggestionResult is either a suggestion or an error message, never both.
type SuggestionResult struct {
	SuggestedSeparator string `json:"suggestedSeparator,omitempty"`
	Reasoning          string `json:"reasoning,omitempty"`
	Error              string `json:"error,omitempty"`
}

// OK reports whether r holds a suggestion.
func (r SuggestionResult) OK() bool { return r.Error == "" }

// Gateway validates requests before they reach the Advisor and folds every
// advisor failure into ErrUnavailable.
type Gateway struct {
	advisor Advisor
	timeout time.Duration
	logger  *slog.Logger
}

// NewGateway returns a Gateway in front of a. A nil a is allowed and makes
// every suggestion unavailable. A timeout of zero disables the per-call limit.
func NewGateway(a Advisor, timeout time.Duration, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{advisor: a, timeout: timeout, logger: logger}
}

// Enabled reports whether an advisor is configured.
func (g *Gateway) Enabled() bool { return g.advisor != nil }

// Suggest returns a separator suggestion for password.
func (g *Gateway) Suggest(ctx context.Context, password string) (Suggestion, error) {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return Suggestion{}, ErrInputTooShort
	}
	if g.advisor == nil {
		g.logger.Warn("separator advisor not configured")
		return Suggestion{}, ErrUnavailable
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	s, err := g.advisor.SuggestSeparators(ctx, password)
	if err == nil && (s.SuggestedSeparator == "" || s.Reasoning == "") {
		err = errors.New("advisor returned an incomplete suggestion")
	}
	if err != nil {
		g.logger.Warn("separator suggestion failed",
			"error", err, "length", utf8.RuneCountInString(password), "elapsed", time.Since(start))
		return Suggestion{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return s, nil
}

// Result is Suggest in tagged form. The error text is always MsgInputTooShort
// or MsgUnavailable.
func (g *Gateway) Result(ctx context.Context, password string) SuggestionResult {
	s, err := g.Suggest(ctx, password)
	switch {
	case err == nil:
		return SuggestionResult{SuggestedSeparator: s.SuggestedSeparator, Reasoning: s.Reasoning}
	case errors.Is(err, ErrInputTooShort):
		return SuggestionResult{Error: MsgInputTooShort}
	default:
		return SuggestionResult{Error: MsgUnavailable}
	}
}
