// Package curation decides what a session sees: it resolves the session's theme, serves
// its locked selection when one exists and otherwise asks the selector for fresh content,
// publishing every fresh pick for the statistics worker.
package curation

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/benvon/morning-affirmations/internal/cache"
	"github.com/benvon/morning-affirmations/internal/catalog"
	"github.com/benvon/morning-affirmations/internal/database"
	"github.com/benvon/morning-affirmations/internal/queue"
	"github.com/benvon/morning-affirmations/internal/selector"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var (
	// ErrLockedContentUnavailable means a lock references content that is no longer active
	ErrLockedContentUnavailable = errors.New("locked content is no longer available")
	// ErrNoLock means the session has no locked selection
	ErrNoLock = errors.New("no locked selection")
	// ErrInvalidTheme means a requested theme is not supported
	ErrInvalidTheme = errors.New("invalid theme")
	// ErrFeatureDisabled means the app config turned the requested feature off
	ErrFeatureDisabled = errors.New("feature disabled")
)

// SnapshotSource provides the current content
type SnapshotSource interface {
	Snapshot() *catalog.Snapshot
}

// Service orchestrates content selection for sessions
type Service struct {
	content   SnapshotSource
	selector  *selector.Selector
	locks     database.LockedSelectionRepositoryInterface
	prefs     cache.PreferenceStoreInterface
	publisher queue.Publisher
	location  *time.Location
	logger    *zap.Logger
	tracer    trace.Tracer
	now       func() time.Time
	intN      func(int) int
}

// Option configures a Service
type Option func(*Service)

// WithPublisher sets where selection events are published. Without one, events are dropped.
func WithPublisher(publisher queue.Publisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

// WithLocation sets the zone welcome messages are resolved in
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithClock sets the clock used for lock and event timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIntN sets the random source used to pick a theme for random-theme sessions
func WithIntN(intN func(int) int) Option {
	return func(s *Service) {
		if intN != nil {
			s.intN = intN
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a curation service
func NewService(
	content SnapshotSource,
	sel *selector.Selector,
	locks database.LockedSelectionRepositoryInterface,
	prefs cache.PreferenceStoreInterface,
	opts ...Option,
) *Service {
	s := &Service{
		content:  content,
		selector: sel,
		locks:    locks,
		prefs:    prefs,
		location: time.Local,
		logger:   zap.NewNop(),
		tracer:   otel.Tracer("curation"),
		now:      time.Now,
		intN:     rand.IntN,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Selector returns the shared selector
func (s *Service) Selector() *selector.Selector {
	return s.selector
}

// Snapshot returns the current content
func (s *Service) Snapshot() *catalog.Snapshot {
	return s.content.Snapshot()
}
