package model

import "time"

// Event kinds.
const (
	EventGenerate = "generate"
	EventSuggest  = "suggest"
)

// Event outcomes.
const (
	OutcomeOK             = "ok"
	OutcomeEmptySelection = "empty_selection"
	OutcomeLengthTooShort = "length_too_short"
	OutcomeInputTooShort  = "input_too_short"
	OutcomeUnavailable    = "unavailable"
)

// HistoryEvent records that an account generated a password or asked for a
// suggestion. It never holds the password itself.
type HistoryEvent struct {
	ID        string
	AccountID int64
	Kind      string
	Length    int
	Classes   string // comma separated class names
	Outcome   string
	CreatedAt time.Time
}

// HistoryEventResponse represents a single event in a history listing.
type HistoryEventResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Length    int       `json:"length"`
	Classes   []string  `json:"classes"`
	Outcome   string    `json:"outcome"`
	CreatedAt time.Time `json:"created_at"`
}
