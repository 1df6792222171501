// Package selector chooses which affirmation, videos and welcome message to show while
// avoiding short-term repeats.
//
// A Selector keeps an in-memory usage history partitioned into buckets. Every selection
// is drawn uniformly from the candidates whose last use in the bucket is older than the
// bucket's avoidance window; when no candidate qualifies the bucket is reset and the full
// candidate set is used instead, so selection never fails because of exhaustion.
//
// One Selector is meant to be shared by every caller in a process. All methods are safe
// for concurrent use and run to completion under a single lock, so a recording made by
// one call is visible to the next.
package selector

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/benvon/morning-affirmations/internal/models"
	"go.uber.org/zap"
)

const (
	// AffirmationAvoidance is how long an affirmation stays out of rotation after use
	AffirmationAvoidance = 7 * 24 * time.Hour
	// VideoAvoidance is how long a video stays out of rotation within its category
	VideoAvoidance = 5 * 24 * time.Hour
	// WelcomeAvoidance is how long a welcome message stays out of rotation within its time range
	WelcomeAvoidance = 24 * time.Hour
)

// AffirmationBucket is the usage bucket for affirmations
const AffirmationBucket = "affirmations"

// ErrNoContent is returned when there is nothing to select from
var ErrNoContent = errors.New("no content available")

// errEmptyCandidates is the panic value of pickRandom
var errEmptyCandidates = fmt.Errorf("selector: cannot select from an empty candidate list: %w", ErrNoContent)

// VideoBucket returns the usage bucket for a video category
func VideoBucket(category models.VideoCategory) string {
	return "videos-" + string(category)
}

// WelcomeBucket returns the usage bucket for a theme's time range
func WelcomeBucket(theme models.Theme, timeRangeID string) string {
	return fmt.Sprintf("welcome-%s-%s", theme, timeRangeID)
}

// Selector is the content selection engine
type Selector struct {
	mu         sync.Mutex
	history    map[string]*usageRecord
	categories []models.VideoCategory
	now        func() time.Time
	rng        *rand.Rand
	logger     *zap.Logger
}

// Option configures a Selector
type Option func(*Selector)

// WithClock sets the clock used to timestamp and age selections
func WithClock(now func() time.Time) Option {
	return func(s *Selector) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRand sets the random source. The selector serializes access to it.
func WithRand(rng *rand.Rand) Option {
	return func(s *Selector) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// WithCategories sets the ordered video category list
func WithCategories(categories []models.VideoCategory) Option {
	return func(s *Selector) {
		if len(categories) > 0 {
			s.categories = append([]models.VideoCategory(nil), categories...)
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Selector) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a selector with an empty usage history
func New(opts ...Option) *Selector {
	s := &Selector{
		history:    make(map[string]*usageRecord),
		categories: models.DefaultVideoCategories(),
		now:        time.Now,
		rng:        rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64())),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Categories returns the ordered video category list
func (s *Selector) Categories() []models.VideoCategory {
	return append([]models.VideoCategory(nil), s.categories...)
}

type identified interface {
	GetID() string
}

// SelectAffirmation picks an affirmation. When theme is non-empty, candidates are
// restricted to affirmations tagged with it unless that leaves nothing, in which case
// the whole list is used.
func (s *Selector) SelectAffirmation(affirmations []models.Affirmation, theme models.Theme) (models.Affirmation, error) {
	candidates := affirmations
	if theme != "" {
		if themed := filterByTheme(affirmations, theme); len(themed) > 0 {
			candidates = themed
		}
	}
	if len(candidates) == 0 {
		return models.Affirmation{}, fmt.Errorf("select affirmation: %w", ErrNoContent)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return selectAvoiding(s, candidates, AffirmationBucket, AffirmationAvoidance), nil
}

// SelectVideos picks one theme-tagged video per configured category. Categories
// without a matching video are left out of the result.
func (s *Selector) SelectVideos(videos []models.Video, theme models.Theme) models.VideoSelection {
	themed := filterByTheme(videos, theme)
	selection := make(models.VideoSelection, 0, len(s.categories))

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, category := range s.categories {
		inCategory := make([]models.Video, 0, len(themed))
		for _, v := range themed {
			if v.Category == category {
				inCategory = append(inCategory, v)
			}
		}
		if len(inCategory) == 0 {
			continue
		}
		picked := selectAvoiding(s, inCategory, VideoBucket(category), VideoAvoidance)
		selection = append(selection, models.CategoryVideo{Category: category, Video: picked})
	}
	return selection
}

// WelcomeSelection describes a resolved welcome message
type WelcomeSelection struct {
	Message     string `json:"message"`
	TimeRangeID string `json:"time_range_id,omitempty"`
	MessageID   string `json:"message_id,omitempty"`
	Fallback    bool   `json:"fallback"`
}

type welcomeCandidate struct {
	id   string
	text string
}

func (c welcomeCandidate) GetID() string { return c.id }

// SelectWelcome resolves the welcome message for theme at the wall-clock time of now
func (s *Selector) SelectWelcome(sets []models.WelcomeMessageSet, theme models.Theme, now time.Time) WelcomeSelection {
	fallback := WelcomeSelection{Message: models.FallbackWelcomeMessage, Fallback: true}

	set, ok := activeMessageSet(sets, theme)
	if !ok {
		return fallback
	}
	active, ok := activeTimeRange(set.TimeRanges, minuteOfDay(now))
	if !ok || len(active.Messages) == 0 {
		return fallback
	}

	candidates := make([]welcomeCandidate, len(active.Messages))
	for i, msg := range active.Messages {
		candidates[i] = welcomeCandidate{id: fmt.Sprintf("%s-%d", active.ID, i), text: msg}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	picked := selectAvoiding(s, candidates, WelcomeBucket(theme, active.ID), WelcomeAvoidance)
	return WelcomeSelection{Message: picked.text, TimeRangeID: active.ID, MessageID: picked.id}
}

// SelectWelcomeMessage returns only the text of SelectWelcome
func (s *Selector) SelectWelcomeMessage(sets []models.WelcomeMessageSet, theme models.Theme, now time.Time) string {
	return s.SelectWelcome(sets, theme, now).Message
}

// AvailableContent summarizes what could be shown for theme
type AvailableContent struct {
	AffirmationsCount int                          `json:"affirmations_count"`
	VideosCount       int                          `json:"videos_count"`
	CategoryCounts    map[models.VideoCategory]int `json:"category_counts"`
}

// AvailableContent counts content for theme without touching the usage history.
// Affirmations are counted unfiltered.
func (s *Selector) AvailableContent(affirmations []models.Affirmation, videos []models.Video, theme models.Theme) AvailableContent {
	themed := filterByTheme(videos, theme)
	counts := make(map[models.VideoCategory]int, len(s.categories))
	for _, category := range s.categories {
		counts[category] = 0
	}
	for _, v := range themed {
		if _, tracked := counts[v.Category]; tracked {
			counts[v.Category]++
		}
	}
	return AvailableContent{
		AffirmationsCount: len(affirmations),
		VideosCount:       len(themed),
		CategoryCounts:    counts,
	}
}

// UsageStats reports each bucket's size and its most recent ids
func (s *Selector) UsageStats() map[string]BucketStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := make(map[string]BucketStats, len(s.history))
	for key, record := range s.history {
		stats[key] = record.stats()
	}
	return stats
}

// ClearUsageHistory forgets every recorded selection
func (s *Selector) ClearUsageHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = make(map[string]*usageRecord)
	s.logger.Info("usage_history_cleared")
}

type themeTagged interface {
	HasTheme(models.Theme) bool
}

func filterByTheme[T themeTagged](items []T, theme models.Theme) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if item.HasTheme(theme) {
			out = append(out, item)
		}
	}
	return out
}

// selectAvoiding picks from items while avoiding ids used within window in bucket.
// Callers must hold s.mu and pass a non-empty list.
func selectAvoiding[T identified](s *Selector, items []T, bucket string, window time.Duration) T {
	now := s.now()
	available := filterRecentlyUsed(s.history[bucket], items, now.Add(-window))
	if len(available) == 0 {
		delete(s.history, bucket)
		s.logger.Debug("usage_bucket_reset",
			zap.String("bucket", bucket),
			zap.Int("candidates", len(items)),
		)
		available = items
	}

	picked := pickRandom(s.rng, available)
	record, ok := s.history[bucket]
	if !ok {
		record = &usageRecord{}
		s.history[bucket] = record
	}
	record.record(picked.GetID(), now)
	return picked
}

// filterRecentlyUsed keeps items never used in record or last used before cutoff
func filterRecentlyUsed[T identified](record *usageRecord, items []T, cutoff time.Time) []T {
	if record == nil {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		last, used := record.lastUsed(item.GetID())
		if !used || last.Before(cutoff) {
			out = append(out, item)
		}
	}
	return out
}

// pickRandom returns a uniformly chosen element. An empty list is a caller bug.
func pickRandom[T any](rng *rand.Rand, items []T) T {
	if len(items) == 0 {
		panic(errEmptyCandidates)
	}
	return items[rng.IntN(len(items))]
}
