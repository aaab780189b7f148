package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxGuestbookAuthor  = 40
	maxGuestbookMessage = 500
)

// GuestbookEntry is a visitor message on the guestbook page.
type GuestbookEntry struct {
	ID        string
	Author    string
	Message   string
	CreatedAt time.Time
}

// Validate rejects empty or oversized fields before any I/O.
func (e *GuestbookEntry) Validate() error {
	author := strings.TrimSpace(e.Author)
	message := strings.TrimSpace(e.Message)
	if author == "" || message == "" {
		return fmt.Errorf("%w: author and message are required", ErrValidation)
	}
	if utf8.RuneCountInString(author) > maxGuestbookAuthor {
		return fmt.Errorf("%w: author exceeds %d characters", ErrValidation, maxGuestbookAuthor)
	}
	if utf8.RuneCountInString(message) > maxGuestbookMessage {
		return fmt.Errorf("%w: message exceeds %d characters", ErrValidation, maxGuestbookMessage)
	}
	return nil
}

type GuestbookRepository interface {
	CreateEntry(ctx context.Context, e *GuestbookEntry) error
	ListEntries(ctx context.Context, limit int) ([]*GuestbookEntry, error)
	DeleteEntry(ctx context.Context, id string) error
}
