package sync

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// CursorStore persists the per-mailbox history cursor. The engine only
// writes it after a diff batch has been fully attempted.
type CursorStore interface {
	// Get returns the stored cursor and whether one exists.
	Get(ctx context.Context, mailbox string) (uint64, bool, error)

	// Set stores the cursor, creating the row on first sync.
	Set(ctx context.Context, mailbox string, historyID uint64) error
}

// SQLCursorStore is the MySQL-backed cursor store.
type SQLCursorStore struct {
	db *sqlx.DB
}

// NewSQLCursorStore creates a cursor store backed by the given database.
func NewSQLCursorStore(db *sqlx.DB) *SQLCursorStore {
	return &SQLCursorStore{db: db}
}

func (s *SQLCursorStore) Get(ctx context.Context, mailbox string) (uint64, bool, error) {
	var historyID uint64
	err := s.db.GetContext(ctx, &historyID, `
		SELECT last_history_id FROM sync_cursors WHERE mailbox = ?
	`, mailbox)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read cursor for %s: %w", mailbox, err)
	}
	return historyID, true, nil
}

func (s *SQLCursorStore) Set(ctx context.Context, mailbox string, historyID uint64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_cursors (mailbox, last_history_id, updated_at)
		VALUES (?, ?, NOW())
		ON DUPLICATE KEY UPDATE last_history_id = VALUES(last_history_id), updated_at = NOW()
	`, mailbox, historyID)
	if err != nil {
		return fmt.Errorf("failed to store cursor for %s: %w", mailbox, err)
	}
	return nil
}
