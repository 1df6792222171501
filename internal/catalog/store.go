package catalog

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Store holds the current content snapshot. Readers never block; reloads are serialized
// and replace the snapshot atomically.
type Store struct {
	dir     string
	logger  *zap.Logger
	current atomic.Pointer[Snapshot]

	mu        sync.Mutex
	listeners []func(*Snapshot)
}

// NewStore loads dir with per-file fallbacks and returns a store serving it
func NewStore(dir string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{dir: dir, logger: logger}
	snap := LoadWithFallback(dir, logger)
	s.current.Store(snap)
	logger.Info("content_loaded",
		zap.String("dir", dir),
		zap.Int("affirmations", len(snap.ActiveAffirmations())),
		zap.Int("videos", len(snap.ActiveVideos())),
		zap.Int("welcome_sets", len(snap.WelcomeSets)),
		zap.Strings("fallbacks", snap.Fallbacks),
	)
	return s
}

// NewStaticStore serves a fixed snapshot. Reload re-reads snap.Dir when it is set.
func NewStaticStore(snap *Snapshot) *Store {
	s := &Store{dir: snap.Dir, logger: zap.NewNop()}
	if snap.affirmationsByID == nil {
		snap.index(snap.LoadedAt)
	}
	s.current.Store(snap)
	return s
}

// Dir returns the content directory
func (s *Store) Dir() string { return s.dir }

// Snapshot returns the current content
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// OnReload registers fn to run after every successful reload
func (s *Store) OnReload(fn func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Reload strictly re-reads the content directory. On failure the previous snapshot keeps
// serving and the error is returned.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := Load(s.dir)
	if err != nil {
		s.logger.Warn("content_reload_failed",
			zap.String("dir", s.dir),
			zap.Error(err),
		)
		return err
	}
	s.current.Store(snap)
	s.logger.Info("content_reloaded",
		zap.Int("affirmations", len(snap.ActiveAffirmations())),
		zap.Int("videos", len(snap.ActiveVideos())),
		zap.Int("welcome_sets", len(snap.WelcomeSets)),
	)
	for _, fn := range s.listeners {
		fn(snap)
	}
	return nil
}
