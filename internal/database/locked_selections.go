package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/benvon/morning-affirmations/internal/models"
	"github.com/google/uuid"
)

// LockedSelectionRepository stores per-session locked selections
type LockedSelectionRepository struct {
	db *DB
}

// NewLockedSelectionRepository creates a new locked selection repository
func NewLockedSelectionRepository(db *DB) *LockedSelectionRepository {
	return &LockedSelectionRepository{db: db}
}

const lockedSelectionColumns = `id, session_id, theme, affirmation, videos, locked_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLockedSelection(row rowScanner) (*models.LockedSelection, error) {
	lock := &models.LockedSelection{}
	var affirmationJSON, videosJSON []byte
	if err := row.Scan(
		&lock.ID,
		&lock.SessionID,
		&lock.Theme,
		&affirmationJSON,
		&videosJSON,
		&lock.LockedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(affirmationJSON, &lock.Affirmation); err != nil {
		return nil, fmt.Errorf("failed to unmarshal affirmation: %w", err)
	}
	if len(videosJSON) > 0 {
		if err := json.Unmarshal(videosJSON, &lock.Videos); err != nil {
			return nil, fmt.Errorf("failed to unmarshal videos: %w", err)
		}
	}
	return lock, nil
}

// GetBySessionID retrieves the lock for a session
func (r *LockedSelectionRepository) GetBySessionID(ctx context.Context, sessionID uuid.UUID) (*models.LockedSelection, error) {
	query := `SELECT ` + lockedSelectionColumns + ` FROM locked_selections WHERE session_id = $1`

	lock, err := scanLockedSelection(r.db.QueryRowContext(ctx, query, sessionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("locked selection for session %s: %w", sessionID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get locked selection: %w", err)
	}
	return lock, nil
}

// Upsert stores lock, replacing any existing lock for the session
func (r *LockedSelectionRepository) Upsert(ctx context.Context, lock *models.LockedSelection) error {
	query := `
		INSERT INTO locked_selections (` + lockedSelectionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (session_id) DO UPDATE
		SET id = EXCLUDED.id,
		    theme = EXCLUDED.theme,
		    affirmation = EXCLUDED.affirmation,
		    videos = EXCLUDED.videos,
		    locked_at = EXCLUDED.locked_at
	`

	if lock.ID == uuid.Nil {
		lock.ID = uuid.New()
	}
	if lock.LockedAt.IsZero() {
		lock.LockedAt = time.Now().UTC()
	}
	if lock.Videos == nil {
		lock.Videos = models.VideoSelection{}
	}

	affirmationJSON, err := json.Marshal(lock.Affirmation)
	if err != nil {
		return fmt.Errorf("failed to marshal affirmation: %w", err)
	}
	videosJSON, err := json.Marshal(lock.Videos)
	if err != nil {
		return fmt.Errorf("failed to marshal videos: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query,
		lock.ID,
		lock.SessionID,
		lock.Theme,
		affirmationJSON,
		videosJSON,
		lock.LockedAt,
	); err != nil {
		return fmt.Errorf("failed to upsert locked selection: %w", err)
	}
	return nil
}

// DeleteBySessionID removes a session's lock. It reports whether a lock existed.
func (r *LockedSelectionRepository) DeleteBySessionID(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM locked_selections WHERE session_id = $1`, sessionID)
	if err != nil {
		return false, fmt.Errorf("failed to delete locked selection: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

// DeleteOlderThan removes locks taken before cutoff and returns how many were removed
func (r *LockedSelectionRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM locked_selections WHERE locked_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired locked selections: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n, nil
}

// List returns the most recent locks, newest first
func (r *LockedSelectionRepository) List(ctx context.Context, limit int) ([]*models.LockedSelection, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	query := `SELECT ` + lockedSelectionColumns + ` FROM locked_selections ORDER BY locked_at DESC LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list locked selections: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var locks []*models.LockedSelection
	for rows.Next() {
		lock, err := scanLockedSelection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked selection: %w", err)
		}
		locks = append(locks, lock)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate locked selections: %w", err)
	}
	return locks, nil
}
