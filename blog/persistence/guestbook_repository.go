package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chad0920kim/cheer-factory/blog/domain"
	"github.com/chad0920kim/cheer-factory/shared/db"
)

var _ domain.GuestbookRepository = (*SQLiteGuestbookRepository)(nil)

// SQLiteGuestbookRepository implements domain.GuestbookRepository on the
// shared SQLite database.
type SQLiteGuestbookRepository struct {
	db *sql.DB
}

// NewGuestbookRepository creates a new SQLiteGuestbookRepository from a
// standard sql.DB
func NewGuestbookRepository(db *sql.DB) *SQLiteGuestbookRepository {
	return &SQLiteGuestbookRepository{
		db: db,
	}
}

const createEntryQuery = `
	INSERT INTO guestbook (id, author, message, created_at)
	VALUES (?, ?, ?, ?)
`

// CreateEntry validates and stores a guestbook entry, assigning an id
// and timestamp when absent.
func (r *SQLiteGuestbookRepository) CreateEntry(ctx context.Context, e *domain.GuestbookEntry) error {
	if e == nil {
		return fmt.Errorf("%w: entry cannot be nil", domain.ErrValidation)
	}
	if err := e.Validate(); err != nil {
		return err
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	executor := db.GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, createEntryQuery, e.ID, e.Author, e.Message, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert guestbook entry: %w", err)
	}
	return nil
}

const listEntriesQuery = `
	SELECT id, author, message, created_at
	FROM guestbook
	ORDER BY created_at DESC
	LIMIT ?
`

// ListEntries retrieves entries newest first.
func (r *SQLiteGuestbookRepository) ListEntries(ctx context.Context, limit int) ([]*domain.GuestbookEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, listEntriesQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list guestbook entries: %w", err)
	}
	defer rows.Close()

	entries := make([]*domain.GuestbookEntry, 0)
	for rows.Next() {
		var e domain.GuestbookEntry
		if err := rows.Scan(&e.ID, &e.Author, &e.Message, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan guestbook row: %w", err)
		}
		entries = append(entries, &e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating guestbook rows: %w", err)
	}
	return entries, nil
}

const deleteEntryQuery = `
	DELETE FROM guestbook WHERE id = ?
`

// DeleteEntry removes an entry by id. ErrNotFound when no row matched.
func (r *SQLiteGuestbookRepository) DeleteEntry(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: entry id cannot be empty", domain.ErrValidation)
	}

	result, err := r.db.ExecContext(ctx, deleteEntryQuery, id)
	if err != nil {
		return fmt.Errorf("failed to delete guestbook entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: guestbook entry %s", domain.ErrNotFound, id)
	}
	return nil
}
