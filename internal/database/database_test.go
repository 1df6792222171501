package database

import (
	"strings"
	"testing"
	"time"

	"github.com/benvon/morning-affirmations/internal/models"
	"github.com/google/go-cmp/cmp"
)

func TestMigrations_OrderedAndEmbedded(t *testing.T) {
	t.Parallel()

	migrations, err := Migrations()
	if err != nil {
		t.Fatalf("Migrations() error = %v", err)
	}
	if len(migrations) < 2 {
		t.Fatalf("expected at least 2 migrations, got %d", len(migrations))
	}
	for i := 1; i < len(migrations); i++ {
		if migrations[i-1].Version >= migrations[i].Version {
			t.Errorf("migrations out of order: %s before %s", migrations[i-1].Version, migrations[i].Version)
		}
	}

	tables := map[string]bool{}
	for _, m := range migrations {
		for _, table := range []string{"locked_selections", "selection_statistics", "selection_event_batches"} {
			if strings.Contains(m.SQL, "CREATE TABLE IF NOT EXISTS "+table) {
				tables[table] = true
			}
		}
	}
	if len(tables) != 3 {
		t.Errorf("missing table definitions, found %v", tables)
	}
}

func TestAggregateEvents(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2024, 3, 20, 8, 0, 0, 0, time.UTC)
	events := []models.SelectionEvent{
		{Kind: models.ContentKindVideo, ContentID: "v1", Bucket: "videos-yoga", SelectedAt: t0},
		{Kind: models.ContentKindAffirmation, ContentID: "a1", Bucket: "affirmations", SelectedAt: t0.Add(time.Minute)},
		{Kind: models.ContentKindVideo, ContentID: "v1", Bucket: "videos-yoga", SelectedAt: t0.Add(2 * time.Minute)},
		{Kind: models.ContentKindAffirmation, ContentID: "a1", Bucket: "affirmations", SelectedAt: t0},
		{Kind: models.ContentKindWelcome, ContentID: "", Bucket: "welcome-peaceful-morning", SelectedAt: t0},
	}

	got := aggregateEvents(events)
	want := []statisticDelta{
		{Kind: models.ContentKindAffirmation, ContentID: "a1", Count: 2, LastSelectedAt: t0.Add(time.Minute)},
		{Kind: models.ContentKindVideo, ContentID: "v1", Count: 2, LastSelectedAt: t0.Add(2 * time.Minute)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("aggregateEvents() mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregateEvents_Empty(t *testing.T) {
	t.Parallel()

	if got := aggregateEvents(nil); len(got) != 0 {
		t.Errorf("aggregateEvents(nil) = %v, want empty", got)
	}
}

func TestLockedSelectionRepository_RoundTrip(t *testing.T) {
	// Requires a live Postgres (DATABASE_URL); covered by integration runs
	t.Skip("Requires database setup - implement with testcontainers or integration test setup")
}

func TestLockedSelectionRepository_DeleteOlderThan(t *testing.T) {
	t.Skip("Requires database setup - implement with testcontainers or integration test setup")
}

func TestSelectionStatisticsRepository_RecordBatchIdempotent(t *testing.T) {
	t.Skip("Requires database setup - implement with testcontainers or integration test setup")
}

func TestDB_HealthCheckNil(t *testing.T) {
	t.Parallel()

	var db *DB
	if err := db.HealthCheck(t.Context()); err == nil {
		t.Error("HealthCheck() on nil DB: want error")
	}
}
