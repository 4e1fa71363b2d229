package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/vietddude/availability/internal/core/domain"
	"github.com/vietddude/availability/internal/storage"
)

// PassRepo implements storage.PassRepository using PostgreSQL.
type PassRepo struct {
	db *DB
}

// NewPassRepo creates a new PostgreSQL pass repository.
func NewPassRepo(db *DB) *PassRepo {
	return &PassRepo{db: db}
}

type passRow struct {
	ID         string         `db:"id"`
	SessionID  string         `db:"session_id"`
	Mode       string         `db:"mode"`
	Result     string         `db:"result"`
	Detected   pq.StringArray `db:"detected"`
	Remaining  pq.StringArray `db:"remaining"`
	Strategies pq.StringArray `db:"strategies"`
	ErrorMsg   string         `db:"error_msg"`
	StartedAt  time.Time      `db:"started_at"`
	DurationMS int64          `db:"duration_ms"`
}

func (row passRow) toDomain() *domain.PassRecord {
	return &domain.PassRecord{
		ID:         row.ID,
		SessionID:  row.SessionID,
		Mode:       domain.PassMode(row.Mode),
		Result:     domain.PassResult(row.Result),
		Detected:   toKinds(row.Detected),
		Remaining:  toKinds(row.Remaining),
		Strategies: []string(row.Strategies),
		Error:      row.ErrorMsg,
		StartedAt:  row.StartedAt,
		Duration:   time.Duration(row.DurationMS) * time.Millisecond,
	}
}

// Save inserts a pass record.
func (r *PassRepo) Save(ctx context.Context, rec *domain.PassRecord) error {
	if err := storage.Validate(rec); err != nil {
		return err
	}

	query := `
		INSERT INTO passes (id, session_id, mode, result, detected, remaining, strategies, error_msg, started_at, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(
		ctx,
		query,
		rec.ID,
		rec.SessionID,
		string(rec.Mode),
		string(rec.Result),
		pq.Array(fromKinds(rec.Detected)),
		pq.Array(fromKinds(rec.Remaining)),
		pq.Array(rec.Strategies),
		rec.Error,
		rec.StartedAt,
		rec.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to save pass: %w", err)
	}
	return nil
}

// GetRecent returns the newest passes of a session.
func (r *PassRepo) GetRecent(ctx context.Context, sessionID string, limit int) ([]*domain.PassRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, session_id, mode, result, detected, remaining, strategies, error_msg, started_at, duration_ms
		FROM passes
		WHERE session_id = $1
		ORDER BY started_at DESC
		LIMIT $2
	`

	var rows []passRow
	if err := r.db.SelectContext(ctx, &rows, query, sessionID, limit); err != nil {
		return nil, fmt.Errorf("failed to get passes: %w", err)
	}

	out := make([]*domain.PassRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// GetLatest returns the newest passes across all sessions.
func (r *PassRepo) GetLatest(ctx context.Context, limit int) ([]*domain.PassRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, session_id, mode, result, detected, remaining, strategies, error_msg, started_at, duration_ms
		FROM passes
		ORDER BY started_at DESC
		LIMIT $1
	`

	var rows []passRow
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to get passes: %w", err)
	}

	out := make([]*domain.PassRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// Count returns the number of passes stored for a session.
func (r *PassRepo) Count(ctx context.Context, sessionID string) (int, error) {
	query := `SELECT COUNT(*) FROM passes WHERE session_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, sessionID); err != nil {
		return 0, fmt.Errorf("failed to count passes: %w", err)
	}
	return count, nil
}

// DeleteOlderThan removes passes started before cutoff.
func (r *PassRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM passes WHERE started_at < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune passes: %w", err)
	}
	return res.RowsAffected()
}

func fromKinds(kinds []domain.FailureKind) []string {
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}

func toKinds(values []string) []domain.FailureKind {
	out := make([]domain.FailureKind, len(values))
	for i, v := range values {
		out[i] = domain.FailureKind(v)
	}
	return out
}
