package database

import (
	"context"
	"time"

	"github.com/benvon/morning-affirmations/internal/models"
	"github.com/google/uuid"
)

// LockedSelectionRepositoryInterface defines the interface for locked selection operations.
// This interface enables better testability by allowing mock implementations.
type LockedSelectionRepositoryInterface interface {
	GetBySessionID(ctx context.Context, sessionID uuid.UUID) (*models.LockedSelection, error)
	Upsert(ctx context.Context, lock *models.LockedSelection) error
	DeleteBySessionID(ctx context.Context, sessionID uuid.UUID) (bool, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	List(ctx context.Context, limit int) ([]*models.LockedSelection, error)
}

// SelectionStatisticsRepositoryInterface defines the interface for selection statistics operations
type SelectionStatisticsRepositoryInterface interface {
	RecordBatch(ctx context.Context, batchID uuid.UUID, events []models.SelectionEvent) (bool, error)
	Get(ctx context.Context, kind models.ContentKind, contentID string) (*models.SelectionStatistic, error)
	Top(ctx context.Context, kinds []models.ContentKind, limit int) ([]*models.SelectionStatistic, error)
	PruneBatches(ctx context.Context, cutoff time.Time) (int64, error)
}

// Ensure concrete types implement the interfaces
var (
	_ LockedSelectionRepositoryInterface     = (*LockedSelectionRepository)(nil)
	_ SelectionStatisticsRepositoryInterface = (*SelectionStatisticsRepository)(nil)
)
