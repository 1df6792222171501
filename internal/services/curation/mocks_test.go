package curation

import (
	"context"
	"sync"
	"time"

	"github.com/benvon/morning-affirmations/internal/cache"
	"github.com/benvon/morning-affirmations/internal/database"
	"github.com/benvon/morning-affirmations/internal/models"
	"github.com/benvon/morning-affirmations/internal/queue"
	"github.com/google/uuid"
)

// mockLockRepo keeps locks in memory
type mockLockRepo struct {
	mu        sync.Mutex
	locks     map[uuid.UUID]*models.LockedSelection
	upsertErr error
	getErr    error
}

var _ database.LockedSelectionRepositoryInterface = (*mockLockRepo)(nil)

func newMockLockRepo() *mockLockRepo {
	return &mockLockRepo{locks: make(map[uuid.UUID]*models.LockedSelection)}
}

func (m *mockLockRepo) GetBySessionID(ctx context.Context, sessionID uuid.UUID) (*models.LockedSelection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	lock, ok := m.locks[sessionID]
	if !ok {
		return nil, database.ErrNotFound
	}
	copied := *lock
	return &copied, nil
}

func (m *mockLockRepo) Upsert(ctx context.Context, lock *models.LockedSelection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	copied := *lock
	m.locks[lock.SessionID] = &copied
	return nil
}

func (m *mockLockRepo) DeleteBySessionID(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.locks[sessionID]
	delete(m.locks, sessionID)
	return ok, nil
}

func (m *mockLockRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func (m *mockLockRepo) List(ctx context.Context, limit int) ([]*models.LockedSelection, error) {
	return nil, nil
}

// mockPreferenceStore keeps preferences in memory
type mockPreferenceStore struct {
	mu     sync.Mutex
	prefs  map[uuid.UUID]models.Preferences
	getErr error
}

var _ cache.PreferenceStoreInterface = (*mockPreferenceStore)(nil)

func newMockPreferenceStore() *mockPreferenceStore {
	return &mockPreferenceStore{prefs: make(map[uuid.UUID]models.Preferences)}
}

func (m *mockPreferenceStore) Get(ctx context.Context, sessionID uuid.UUID) (*models.Preferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	prefs, ok := m.prefs[sessionID]
	if !ok {
		return nil, cache.ErrNoPreferences
	}
	return &prefs, nil
}

func (m *mockPreferenceStore) Save(ctx context.Context, prefs *models.Preferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs[prefs.SessionID] = *prefs
	return nil
}

func (m *mockPreferenceStore) Delete(ctx context.Context, sessionID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.prefs, sessionID)
	return nil
}

// mockPublisher records enqueued jobs
type mockPublisher struct {
	mu   sync.Mutex
	jobs []*queue.Job
	err  error
}

var _ queue.Publisher = (*mockPublisher)(nil)

func (m *mockPublisher) Enqueue(ctx context.Context, job *queue.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.jobs = append(m.jobs, job)
	return nil
}

func (m *mockPublisher) events() []models.SelectionEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.SelectionEvent
	for _, job := range m.jobs {
		out = append(out, job.Events...)
	}
	return out
}
