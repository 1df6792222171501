package workers

import (
	"context"
	"sync"
	"time"

	"github.com/benvon/morning-affirmations/internal/database"
	"github.com/benvon/morning-affirmations/internal/models"
	"github.com/benvon/morning-affirmations/internal/queue"
	"github.com/google/uuid"
)

// mockPublisher records enqueued jobs
type mockPublisher struct {
	mu          sync.Mutex
	jobs        []*queue.Job
	enqueueFunc func(ctx context.Context, job *queue.Job) error
}

var _ queue.Publisher = (*mockPublisher)(nil)

func (m *mockPublisher) Enqueue(ctx context.Context, job *queue.Job) error {
	if m.enqueueFunc != nil {
		if err := m.enqueueFunc(ctx, job); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs = append(m.jobs, job)
	return nil
}

func (m *mockPublisher) enqueued() []*queue.Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*queue.Job(nil), m.jobs...)
}

// mockMessage is a mock implementation of MessageInterface
type mockMessage struct {
	job      *queue.Job
	acked    bool
	nacked   bool
	requeued bool
}

var _ queue.MessageInterface = (*mockMessage)(nil)

func (m *mockMessage) Ack() error {
	m.acked = true
	return nil
}

func (m *mockMessage) Nack(requeue bool) error {
	m.nacked = true
	m.requeued = requeue
	return nil
}

func (m *mockMessage) GetJob() *queue.Job {
	return m.job
}

// mockStatsRepo is a mock implementation of SelectionStatisticsRepositoryInterface
type mockStatsRepo struct {
	recordBatchFunc  func(ctx context.Context, batchID uuid.UUID, events []models.SelectionEvent) (bool, error)
	pruneBatchesFunc func(ctx context.Context, cutoff time.Time) (int64, error)
}

var _ database.SelectionStatisticsRepositoryInterface = (*mockStatsRepo)(nil)

func (m *mockStatsRepo) RecordBatch(ctx context.Context, batchID uuid.UUID, events []models.SelectionEvent) (bool, error) {
	if m.recordBatchFunc != nil {
		return m.recordBatchFunc(ctx, batchID, events)
	}
	return true, nil
}

func (m *mockStatsRepo) Get(ctx context.Context, kind models.ContentKind, contentID string) (*models.SelectionStatistic, error) {
	return nil, database.ErrNotFound
}

func (m *mockStatsRepo) Top(ctx context.Context, kinds []models.ContentKind, limit int) ([]*models.SelectionStatistic, error) {
	return nil, nil
}

func (m *mockStatsRepo) PruneBatches(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.pruneBatchesFunc != nil {
		return m.pruneBatchesFunc(ctx, cutoff)
	}
	return 0, nil
}

// mockLockRepo is a mock implementation of LockedSelectionRepositoryInterface
type mockLockRepo struct {
	deleteOlderThanFunc func(ctx context.Context, cutoff time.Time) (int64, error)
}

var _ database.LockedSelectionRepositoryInterface = (*mockLockRepo)(nil)

func (m *mockLockRepo) GetBySessionID(ctx context.Context, sessionID uuid.UUID) (*models.LockedSelection, error) {
	return nil, database.ErrNotFound
}

func (m *mockLockRepo) Upsert(ctx context.Context, lock *models.LockedSelection) error {
	return nil
}

func (m *mockLockRepo) DeleteBySessionID(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	return false, nil
}

func (m *mockLockRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.deleteOlderThanFunc != nil {
		return m.deleteOlderThanFunc(ctx, cutoff)
	}
	return 0, nil
}

func (m *mockLockRepo) List(ctx context.Context, limit int) ([]*models.LockedSelection, error) {
	return nil, nil
}

func timePtr(t time.Time) *time.Time {
	return &t
}
