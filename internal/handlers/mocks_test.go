package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/benvon/morning-affirmations/internal/cache"
	"github.com/benvon/morning-affirmations/internal/database"
	"github.com/benvon/morning-affirmations/internal/models"
	"github.com/google/uuid"
)

// memoryLockRepo keeps locks in memory
type memoryLockRepo struct {
	mu    sync.Mutex
	locks map[uuid.UUID]models.LockedSelection
}

var _ database.LockedSelectionRepositoryInterface = (*memoryLockRepo)(nil)

func newMemoryLockRepo() *memoryLockRepo {
	return &memoryLockRepo{locks: make(map[uuid.UUID]models.LockedSelection)}
}

func (m *memoryLockRepo) GetBySessionID(ctx context.Context, sessionID uuid.UUID) (*models.LockedSelection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.locks[sessionID]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &lock, nil
}

func (m *memoryLockRepo) Upsert(ctx context.Context, lock *models.LockedSelection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locks[lock.SessionID] = *lock
	return nil
}

func (m *memoryLockRepo) DeleteBySessionID(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.locks[sessionID]
	delete(m.locks, sessionID)
	return ok, nil
}

func (m *memoryLockRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func (m *memoryLockRepo) List(ctx context.Context, limit int) ([]*models.LockedSelection, error) {
	return nil, nil
}

// memoryPreferenceStore keeps preferences in memory
type memoryPreferenceStore struct {
	mu    sync.Mutex
	prefs map[uuid.UUID]models.Preferences
}

var _ cache.PreferenceStoreInterface = (*memoryPreferenceStore)(nil)

func newMemoryPreferenceStore() *memoryPreferenceStore {
	return &memoryPreferenceStore{prefs: make(map[uuid.UUID]models.Preferences)}
}

func (m *memoryPreferenceStore) Get(ctx context.Context, sessionID uuid.UUID) (*models.Preferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefs, ok := m.prefs[sessionID]
	if !ok {
		return nil, cache.ErrNoPreferences
	}
	return &prefs, nil
}

func (m *memoryPreferenceStore) Save(ctx context.Context, prefs *models.Preferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs[prefs.SessionID] = *prefs
	return nil
}

func (m *memoryPreferenceStore) Delete(ctx context.Context, sessionID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.prefs, sessionID)
	return nil
}

// mockStatsRepo answers Top with topFunc
type mockStatsRepo struct {
	topFunc func(ctx context.Context, kinds []models.ContentKind, limit int) ([]*models.SelectionStatistic, error)
}

var _ database.SelectionStatisticsRepositoryInterface = (*mockStatsRepo)(nil)

func (m *mockStatsRepo) RecordBatch(ctx context.Context, batchID uuid.UUID, events []models.SelectionEvent) (bool, error) {
	return true, nil
}

func (m *mockStatsRepo) Get(ctx context.Context, kind models.ContentKind, contentID string) (*models.SelectionStatistic, error) {
	return nil, database.ErrNotFound
}

func (m *mockStatsRepo) Top(ctx context.Context, kinds []models.ContentKind, limit int) ([]*models.SelectionStatistic, error) {
	if m.topFunc != nil {
		return m.topFunc(ctx, kinds, limit)
	}
	return nil, nil
}

func (m *mockStatsRepo) PruneBatches(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}
