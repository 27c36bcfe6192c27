package service

import (
	"context"
	"strings"

	"github.com/vaultpass/passforge-go/internal/model"
)

const historyLimit = 50

// HistoryLister lists stored events.
type HistoryLister interface {
	ListByAccount(ctx context.Context, accountID int64, limit int) ([]model.HistoryEvent, error)
}

// HistoryService exposes an account's generation history.
type HistoryService struct {
	store HistoryLister
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(store HistoryLister) *HistoryService {
	return &HistoryService{store: store}
}

// List returns the most recent events for accountID.
func (s *HistoryService) List(ctx context.Context, accountID int64) ([]model.HistoryEventResponse, error) {
	events, err := s.store.ListByAccount(ctx, accountID, historyLimit)
	if err != nil {
		return nil, err
	}
	return eventsToResponse(events), nil
}

// eventsToResponse never returns nil so the JSON form is [] rather than null.
func eventsToResponse(events []model.HistoryEvent) []model.HistoryEventResponse {
	out := make([]model.HistoryEventResponse, 0, len(events))
	for _, e := range events {
		classes := []string{}
		if e.Classes != "" {
			classes = strings.Split(e.Classes, ",")
		}
		out = append(out, model.HistoryEventResponse{
			ID:        e.ID,
			Kind:      e.Kind,
			Length:    e.Length,
			Classes:   classes,
			Outcome:   e.Outcome,
			CreatedAt: e.CreatedAt,
		})
	}
	return out
}
