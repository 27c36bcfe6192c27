package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id         BIGINT AUTO_INCREMENT PRIMARY KEY,
		email      VARCHAR(254) NOT NULL UNIQUE,
		auth_hash  VARCHAR(255) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS history_events (
		id         CHAR(36) PRIMARY KEY,
		account_id BIGINT NOT NULL,
		kind       VARCHAR(16) NOT NULL,
		length     INT NOT NULL,
		classes    VARCHAR(64) NOT NULL,
		outcome    VARCHAR(32) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_history_account (account_id, created_at),
		FOREIGN KEY (account_id) REFERENCES accounts(id) ON DELETE CASCADE
	)`,
}

// NewDB opens a MySQL connection pool and verifies it with a ping.
func NewDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

// Migrate creates any missing tables.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	slog.Info("database schema ready", "tables", len(schema))
	return nil
}
