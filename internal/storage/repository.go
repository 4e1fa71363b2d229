package storage

import (
	"context"
	"errors"
	"time"

	"github.com/vietddude/availability/internal/core/domain"
)

// ErrInvalidRecord is returned when saving a record without identifiers.
var ErrInvalidRecord = errors.New("pass record requires id and session id")

// PassRepository stores the history of availability passes.
type PassRepository interface {
	// Save stores a finished pass
	Save(ctx context.Context, rec *domain.PassRecord) error

	// GetRecent returns the newest passes of a session, newest first
	GetRecent(ctx context.Context, sessionID string, limit int) ([]*domain.PassRecord, error)

	// Count returns how many passes are stored for a session
	Count(ctx context.Context, sessionID string) (int, error)
}

// PassPruner is implemented by repositories that support retention.
type PassPruner interface {
	// DeleteOlderThan removes passes started before cutoff and returns how many
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Validate checks the fields every backend needs.
func Validate(rec *domain.PassRecord) error {
	if rec == nil || rec.ID == "" || rec.SessionID == "" {
		return ErrInvalidRecord
	}
	return nil
}
