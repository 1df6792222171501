package selector

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/benvon/morning-affirmations/internal/models"
	"github.com/google/go-cmp/cmp"
)

// fakeClock is a manually advanced clock
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 20, 8, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestSelector(clock *fakeClock, opts ...Option) *Selector {
	base := []Option{
		WithClock(clock.Now),
		WithRand(rand.New(rand.NewPCG(1, 2))),
	}
	return New(append(base, opts...)...)
}

func affirmationPool(n int, themes ...models.Theme) []models.Affirmation {
	pool := make([]models.Affirmation, n)
	for i := range pool {
		pool[i] = models.Affirmation{
			ID:       fmt.Sprintf("a%d", i+1),
			Text:     fmt.Sprintf("affirmation %d", i+1),
			Category: "self-love",
			Themes:   themes,
			Active:   true,
		}
	}
	return pool
}

func video(id string, category models.VideoCategory, themes ...models.Theme) models.Video {
	return models.Video{
		ID:       id,
		Title:    "video " + id,
		URL:      "https://example.com/" + id,
		Category: category,
		Themes:   themes,
		Active:   true,
	}
}

func TestSelectAffirmation_ScenarioA_NoRepeatsAtSameInstant(t *testing.T) {
	t.Parallel()

	s := newTestSelector(newFakeClock())
	pool := affirmationPool(3)

	seen := make(map[string]bool)
	for i := 0; i < 3; i++ {
		got, err := s.SelectAffirmation(pool, "")
		if err != nil {
			t.Fatalf("SelectAffirmation() error = %v", err)
		}
		if seen[got.ID] {
			t.Fatalf("call %d repeated id %s", i+1, got.ID)
		}
		seen[got.ID] = true
	}
	if len(seen) != 3 {
		t.Errorf("expected 3 distinct ids, got %d", len(seen))
	}
}

func TestSelectAffirmation_NoRepeatWithinWindow(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	s := newTestSelector(clock)
	pool := affirmationPool(6)

	// Six selections, one per day: every id appears once before the pool is exhausted.
	lastSeen := make(map[string]time.Time)
	for i := 0; i < len(pool); i++ {
		got, err := s.SelectAffirmation(pool, "")
		if err != nil {
			t.Fatalf("SelectAffirmation() error = %v", err)
		}
		if at, ok := lastSeen[got.ID]; ok {
			t.Fatalf("id %s repeated after %v, inside the avoidance window", got.ID, clock.Now().Sub(at))
		}
		lastSeen[got.ID] = clock.Now()
		clock.Advance(24 * time.Hour)
	}

	// Day 6: only the first pick is older than seven days.
	clock.Advance(24*time.Hour + time.Minute)
	got, err := s.SelectAffirmation(pool, "")
	if err != nil {
		t.Fatalf("SelectAffirmation() error = %v", err)
	}
	if age := clock.Now().Sub(lastSeen[got.ID]); age <= AffirmationAvoidance {
		t.Errorf("picked %s last used %v ago, want older than %v", got.ID, age, AffirmationAvoidance)
	}
}

func TestSelectAffirmation_ResetOnExhaustionNeverFails(t *testing.T) {
	t.Parallel()

	s := newTestSelector(newFakeClock())
	pool := affirmationPool(2)

	first, err := s.SelectAffirmation(pool, "")
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := s.SelectAffirmation(pool, "")
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if first.ID == second.ID {
		t.Fatalf("first two calls returned the same id %s", first.ID)
	}

	for i := 0; i < 20; i++ {
		got, err := s.SelectAffirmation(pool, "")
		if err != nil {
			t.Fatalf("call %d: %v", i+3, err)
		}
		if got.ID != "a1" && got.ID != "a2" {
			t.Fatalf("call %d returned unknown id %s", i+3, got.ID)
		}
	}

	stats := s.UsageStats()[AffirmationBucket]
	if stats.Count < 1 || stats.Count > 2 {
		t.Errorf("bucket count after resets = %d, want 1 or 2", stats.Count)
	}
}

func TestSelectAffirmation_ThemeFilter(t *testing.T) {
	t.Parallel()

	pool := append(affirmationPool(3, models.ThemeEnergetic), models.Affirmation{
		ID:     "calm",
		Text:   "Breathe",
		Themes: []models.Theme{models.ThemePeaceful},
	})

	t.Run("matching theme restricts candidates", func(t *testing.T) {
		t.Parallel()
		s := newTestSelector(newFakeClock())
		for i := 0; i < 5; i++ {
			got, err := s.SelectAffirmation(pool, models.ThemePeaceful)
			if err != nil {
				t.Fatalf("SelectAffirmation() error = %v", err)
			}
			if got.ID != "calm" {
				t.Fatalf("got %s, want calm", got.ID)
			}
		}
	})

	t.Run("no match falls back to full list", func(t *testing.T) {
		t.Parallel()
		s := newTestSelector(newFakeClock())
		got, err := s.SelectAffirmation(pool, models.ThemeRestorative)
		if err != nil {
			t.Fatalf("SelectAffirmation() error = %v", err)
		}
		if got.ID == "" {
			t.Error("expected an affirmation from the unfiltered list")
		}
	})
}

func TestSelectAffirmation_EmptyPool(t *testing.T) {
	t.Parallel()

	s := newTestSelector(newFakeClock())
	_, err := s.SelectAffirmation(nil, models.ThemePeaceful)
	if !errors.Is(err, ErrNoContent) {
		t.Errorf("SelectAffirmation(nil) error = %v, want ErrNoContent", err)
	}
	if len(s.UsageStats()) != 0 {
		t.Error("failed selection must not create a bucket")
	}
}

func TestUsageRecord_EvictsOldestBeyondCapacity(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	s := newTestSelector(clock)
	pool := affirmationPool(historyCapacity + 1)
	start := clock.Now()

	var picks []string
	for i := 0; i < historyCapacity+1; i++ {
		got, err := s.SelectAffirmation(pool, "")
		if err != nil {
			t.Fatalf("SelectAffirmation() error = %v", err)
		}
		picks = append(picks, got.ID)
		clock.Advance(time.Minute)
	}

	record := s.history[AffirmationBucket]
	if len(record.usedIDs) != historyCapacity || len(record.usedAt) != historyCapacity {
		t.Fatalf("history length = %d/%d, want %d", len(record.usedIDs), len(record.usedAt), historyCapacity)
	}
	if diff := cmp.Diff(picks[1:], record.usedIDs); diff != "" {
		t.Errorf("remaining ids mismatch (-want +got):\n%s", diff)
	}
	if !record.usedAt[0].Equal(start.Add(time.Minute)) {
		t.Errorf("oldest remaining timestamp = %v, want %v", record.usedAt[0], start.Add(time.Minute))
	}
	if _, ok := record.lastUsed(picks[0]); ok {
		t.Errorf("evicted id %s still present", picks[0])
	}
}

func TestSelectVideos_ThemeFilterAndOrder(t *testing.T) {
	t.Parallel()

	videos := []models.Video{
		video("y1", models.VideoCategoryYoga, models.ThemePeaceful),
		video("y2", models.VideoCategoryYoga, models.ThemeEnergetic),
		video("b1", models.VideoCategoryBible, models.ThemePeaceful, models.ThemeRestorative),
		video("b2", models.VideoCategoryBible, models.ThemeEnergetic),
		video("a1", models.VideoCategoryAffirmations, models.ThemePeaceful),
		video("c1", models.VideoCategoryArtsyCreative, models.ThemePeaceful),
		video("c2", models.VideoCategoryArtsyCreative, models.ThemeRestorative),
		video("m1", models.VideoCategoryMeditation, models.ThemePeaceful),
	}

	s := newTestSelector(newFakeClock())
	for i := 0; i < 50; i++ {
		got := s.SelectVideos(videos, models.ThemePeaceful)
		if diff := cmp.Diff(models.DefaultVideoCategories(), got.Categories()); diff != "" {
			t.Fatalf("category order mismatch (-want +got):\n%s", diff)
		}
		for _, entry := range got {
			if !entry.Video.HasTheme(models.ThemePeaceful) {
				t.Fatalf("video %s is not tagged peaceful", entry.Video.ID)
			}
			if entry.Video.Category != entry.Category {
				t.Fatalf("video %s filed under %s, has category %s", entry.Video.ID, entry.Category, entry.Video.Category)
			}
		}
	}
}

func TestSelectVideos_SkipsEmptyCategoriesAndHonorsConfiguredList(t *testing.T) {
	t.Parallel()

	videos := []models.Video{
		video("m1", models.VideoCategoryMeditation, models.ThemeRestorative),
		video("y1", models.VideoCategoryYoga, models.ThemeRestorative),
	}
	s := newTestSelector(newFakeClock(), WithCategories([]models.VideoCategory{
		models.VideoCategoryMeditation,
		models.VideoCategoryBible,
		models.VideoCategoryYoga,
	}))

	got := s.SelectVideos(videos, models.ThemeRestorative)
	want := []models.VideoCategory{models.VideoCategoryMeditation, models.VideoCategoryYoga}
	if diff := cmp.Diff(want, got.Categories()); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}

	if empty := s.SelectVideos(videos, models.ThemeEnergetic); len(empty) != 0 {
		t.Errorf("expected empty selection for theme without videos, got %d", len(empty))
	}
}

func TestSelectVideos_AvoidsRepeatsPerCategory(t *testing.T) {
	t.Parallel()

	videos := []models.Video{
		video("y1", models.VideoCategoryYoga, models.ThemePeaceful),
		video("y2", models.VideoCategoryYoga, models.ThemePeaceful),
	}
	s := newTestSelector(newFakeClock())

	first := s.SelectVideos(videos, models.ThemePeaceful)
	second := s.SelectVideos(videos, models.ThemePeaceful)
	v1, _ := first.Get(models.VideoCategoryYoga)
	v2, _ := second.Get(models.VideoCategoryYoga)
	if v1.ID == v2.ID {
		t.Errorf("consecutive selections repeated %s inside the avoidance window", v1.ID)
	}
	// Third call exhausts the bucket and must still return a video.
	if third := s.SelectVideos(videos, models.ThemePeaceful); len(third) != 1 {
		t.Errorf("expected one category after reset, got %d", len(third))
	}
}

func energeticMorning() []models.WelcomeMessageSet {
	return []models.WelcomeMessageSet{{
		Themes:   []models.Theme{models.ThemeEnergetic},
		IsActive: true,
		TimeRanges: []models.TimeRange{{
			ID:        "morning",
			StartTime: "09:00",
			EndTime:   "11:59",
			Messages:  []string{"Good morning!", "Rise and shine!"},
		}},
	}}
}

func at(hour, minute int) time.Time {
	return time.Date(2024, 3, 20, hour, minute, 0, 0, time.UTC)
}

func TestSelectWelcomeMessage_ScenarioB(t *testing.T) {
	t.Parallel()

	s := newTestSelector(newFakeClock())
	sets := energeticMorning()

	first := s.SelectWelcomeMessage(sets, models.ThemeEnergetic, at(10, 30))
	if first != "Good morning!" && first != "Rise and shine!" {
		t.Fatalf("unexpected message %q", first)
	}
	second := s.SelectWelcomeMessage(sets, models.ThemeEnergetic, at(10, 30))
	if second == first {
		t.Errorf("second call repeated %q inside the one-day window", first)
	}

	stats := s.UsageStats()[WelcomeBucket(models.ThemeEnergetic, "morning")]
	if stats.Count != 2 {
		t.Errorf("welcome bucket count = %d, want 2", stats.Count)
	}
}

func TestSelectWelcome_ReportsIDs(t *testing.T) {
	t.Parallel()

	s := newTestSelector(newFakeClock())
	got := s.SelectWelcome(energeticMorning(), models.ThemeEnergetic, at(9, 0))
	if got.Fallback {
		t.Fatal("expected a configured message")
	}
	if got.TimeRangeID != "morning" {
		t.Errorf("TimeRangeID = %q, want morning", got.TimeRangeID)
	}
	if got.MessageID != "morning-0" && got.MessageID != "morning-1" {
		t.Errorf("MessageID = %q, want morning-0 or morning-1", got.MessageID)
	}
}

func TestSelectWelcomeMessage_Fallbacks(t *testing.T) {
	t.Parallel()

	inactive := energeticMorning()
	inactive[0].IsActive = false

	noMessages := energeticMorning()
	noMessages[0].TimeRanges[0].Messages = nil

	tests := []struct {
		name  string
		sets  []models.WelcomeMessageSet
		theme models.Theme
		now   time.Time
	}{
		{"no sets", nil, models.ThemePeaceful, at(10, 0)},
		{"theme not present", energeticMorning(), models.ThemePeaceful, at(10, 0)},
		{"inactive set", inactive, models.ThemeEnergetic, at(10, 0)},
		{"outside every range", energeticMorning(), models.ThemeEnergetic, at(12, 0)},
		{"range without messages", noMessages, models.ThemeEnergetic, at(10, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := newTestSelector(newFakeClock())
			got := s.SelectWelcome(tt.sets, tt.theme, tt.now)
			if got.Message != "Good morning!" || !got.Fallback {
				t.Errorf("SelectWelcome() = %+v, want fallback", got)
			}
			if len(s.UsageStats()) != 0 {
				t.Error("fallback must not record usage")
			}
		})
	}
}

func TestSelectWelcomeMessage_OvernightRangeAndListOrder(t *testing.T) {
	t.Parallel()

	sets := []models.WelcomeMessageSet{{
		Themes:   []models.Theme{models.ThemePeaceful, models.ThemeRestorative},
		IsActive: true,
		TimeRanges: []models.TimeRange{
			{ID: "night", StartTime: "21:00", EndTime: "04:59", Messages: []string{"Rest well"}},
			{ID: "late", StartTime: "23:00", EndTime: "23:59", Messages: []string{"Too late"}},
			{ID: "day", StartTime: "05:00", EndTime: "20:59", Messages: []string{"Hello"}},
		},
	}}

	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"before midnight", at(23, 30), "Rest well"},
		{"after midnight", at(2, 0), "Rest well"},
		{"range end inclusive", at(4, 59), "Rest well"},
		{"noon", at(12, 0), "Hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := newTestSelector(newFakeClock())
			if got := s.SelectWelcomeMessage(sets, models.ThemeRestorative, tt.now); got != tt.want {
				t.Errorf("SelectWelcomeMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAvailableContent_ScenarioC(t *testing.T) {
	t.Parallel()

	affirmations := affirmationPool(5)
	videos := []models.Video{
		video("p1", models.VideoCategoryYoga, models.ThemePeaceful),
		video("p2", models.VideoCategoryBible, models.ThemePeaceful),
		video("p3", models.VideoCategoryYoga, models.ThemePeaceful, models.ThemeEnergetic),
	}
	for i := 0; i < 7; i++ {
		videos = append(videos, video(fmt.Sprintf("e%d", i), models.VideoCategoryArtsyCreative, models.ThemeEnergetic))
	}

	s := newTestSelector(newFakeClock())
	got := s.AvailableContent(affirmations, videos, models.ThemePeaceful)

	want := AvailableContent{
		AffirmationsCount: 5,
		VideosCount:       3,
		CategoryCounts: map[models.VideoCategory]int{
			models.VideoCategoryAffirmations:  0,
			models.VideoCategoryYoga:          2,
			models.VideoCategoryBible:         1,
			models.VideoCategoryArtsyCreative: 0,
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("AvailableContent() mismatch (-want +got):\n%s", diff)
	}
	if len(s.UsageStats()) != 0 {
		t.Error("AvailableContent must not record usage")
	}
}

func TestUsageStats_LastFiveAndClear(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	s := newTestSelector(clock)
	pool := affirmationPool(8)

	var picks []string
	for i := 0; i < 7; i++ {
		got, err := s.SelectAffirmation(pool, "")
		if err != nil {
			t.Fatalf("SelectAffirmation() error = %v", err)
		}
		picks = append(picks, got.ID)
	}

	stats := s.UsageStats()
	want := map[string]BucketStats{
		AffirmationBucket: {Count: 7, LastUsedIDs: picks[2:]},
	}
	if diff := cmp.Diff(want, stats); diff != "" {
		t.Errorf("UsageStats() mismatch (-want +got):\n%s", diff)
	}

	s.ClearUsageHistory()
	if len(s.UsageStats()) != 0 {
		t.Error("expected no buckets after ClearUsageHistory")
	}
}

func TestPickRandom_PanicsOnEmptyList(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("expected panic for empty candidate list")
		}
	}()
	pickRandom[string](rand.New(rand.NewPCG(1, 1)), nil)
}

func TestSelector_ConcurrentCallers(t *testing.T) {
	t.Parallel()

	s := New()
	pool := affirmationPool(10)
	videos := []models.Video{video("y1", models.VideoCategoryYoga, models.ThemePeaceful)}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				if _, err := s.SelectAffirmation(pool, ""); err != nil {
					t.Errorf("SelectAffirmation() error = %v", err)
					return
				}
				s.SelectVideos(videos, models.ThemePeaceful)
				_ = s.UsageStats()
			}
		}()
	}
	wg.Wait()

	if got := s.UsageStats()[AffirmationBucket].Count; got > historyCapacity {
		t.Errorf("bucket grew to %d, capacity is %d", got, historyCapacity)
	}
}
