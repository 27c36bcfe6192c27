package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/vaultpass/passforge-go/internal/model"
)

const (
	insertEventQuery = `INSERT INTO history_events (id, account_id, kind, length, classes, outcome)
		VALUES (?, ?, ?, ?, ?, ?)`

	listEventsQuery = `SELECT id, account_id, kind, length, classes, outcome, created_at
		FROM history_events WHERE account_id = ? ORDER BY created_at DESC LIMIT ?`
)

// HistoryRepository stores generation and suggestion events.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new HistoryRepository.
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Record inserts ev, assigning a new ID when ev.ID is empty.
func (r *HistoryRepository) Record(ctx context.Context, ev *model.HistoryEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, insertEventQuery,
		ev.ID, ev.AccountID, ev.Kind, ev.Length, ev.Classes, ev.Outcome)
	return err
}

// ListByAccount returns up to limit events for accountID, newest first.
func (r *HistoryRepository) ListByAccount(ctx context.Context, accountID int64, limit int) ([]model.HistoryEvent, error) {
	rows, err := r.db.QueryContext(ctx, listEventsQuery, accountID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.HistoryEvent
	for rows.Next() {
		var e model.HistoryEvent
		if err := rows.Scan(&e.ID, &e.AccountID, &e.Kind, &e.Length, &e.Classes, &e.Outcome, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
