package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/benvon/morning-affirmations/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// SelectionStatisticsRepository aggregates selection events per content item
type SelectionStatisticsRepository struct {
	db *DB
}

// NewSelectionStatisticsRepository creates a new selection statistics repository
func NewSelectionStatisticsRepository(db *DB) *SelectionStatisticsRepository {
	return &SelectionStatisticsRepository{db: db}
}

// statisticDelta is the contribution of one batch to one row
type statisticDelta struct {
	Kind           models.ContentKind
	ContentID      string
	Count          int64
	LastSelectedAt time.Time
}

// aggregateEvents folds events into one delta per (kind, content id), ordered by key so
// concurrent batches lock rows in the same order
func aggregateEvents(events []models.SelectionEvent) []statisticDelta {
	type key struct {
		kind models.ContentKind
		id   string
	}
	byKey := make(map[key]*statisticDelta, len(events))
	for _, e := range events {
		if e.ContentID == "" {
			continue
		}
		k := key{e.Kind, e.ContentID}
		d, ok := byKey[k]
		if !ok {
			d = &statisticDelta{Kind: e.Kind, ContentID: e.ContentID}
			byKey[k] = d
		}
		d.Count++
		if e.SelectedAt.After(d.LastSelectedAt) {
			d.LastSelectedAt = e.SelectedAt
		}
	}

	out := make([]statisticDelta, 0, len(byKey))
	for _, d := range byKey {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].ContentID < out[j].ContentID
	})
	return out
}

// RecordBatch adds a batch of events to the statistics. A batch id that was already
// recorded is ignored so redelivered jobs are not double counted; applied reports
// whether the batch changed anything.
func (r *SelectionStatisticsRepository) RecordBatch(ctx context.Context, batchID uuid.UUID, events []models.SelectionEvent) (applied bool, err error) {
	deltas := aggregateEvents(events)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin statistics transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO selection_event_batches (batch_id, event_count, recorded_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (batch_id) DO NOTHING
	`, batchID, len(events), time.Now())
	if err != nil {
		return false, fmt.Errorf("failed to record batch: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	} else if n == 0 {
		return false, nil
	}

	upsert := `
		INSERT INTO selection_statistics (kind, content_id, selection_count, last_selected_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (kind, content_id) DO UPDATE
		SET selection_count = selection_statistics.selection_count + EXCLUDED.selection_count,
		    last_selected_at = GREATEST(selection_statistics.last_selected_at, EXCLUDED.last_selected_at),
		    updated_at = EXCLUDED.updated_at
	`
	now := time.Now()
	for _, d := range deltas {
		if _, err := tx.ExecContext(ctx, upsert, d.Kind, d.ContentID, d.Count, d.LastSelectedAt, now); err != nil {
			return false, fmt.Errorf("failed to upsert statistic %s/%s: %w", d.Kind, d.ContentID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit statistics: %w", err)
	}
	return true, nil
}

const selectionStatisticColumns = `kind, content_id, selection_count, last_selected_at, created_at, updated_at`

func scanSelectionStatistic(row rowScanner) (*models.SelectionStatistic, error) {
	s := &models.SelectionStatistic{}
	if err := row.Scan(&s.Kind, &s.ContentID, &s.SelectionCount, &s.LastSelectedAt, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return s, nil
}

// Get retrieves the statistic of one content item
func (r *SelectionStatisticsRepository) Get(ctx context.Context, kind models.ContentKind, contentID string) (*models.SelectionStatistic, error) {
	query := `SELECT ` + selectionStatisticColumns + ` FROM selection_statistics WHERE kind = $1 AND content_id = $2`
	s, err := scanSelectionStatistic(r.db.QueryRowContext(ctx, query, kind, contentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("statistic %s/%s: %w", kind, contentID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get selection statistic: %w", err)
	}
	return s, nil
}

// Top returns the most selected items of the given kinds (every kind when empty)
func (r *SelectionStatisticsRepository) Top(ctx context.Context, kinds []models.ContentKind, limit int) ([]*models.SelectionStatistic, error) {
	if limit <= 0 || limit > 500 {
		limit = 20
	}
	raw := make([]string, 0, len(kinds))
	for _, k := range kinds {
		raw = append(raw, string(k))
	}

	query := `
		SELECT ` + selectionStatisticColumns + `
		FROM selection_statistics
		WHERE cardinality($1::text[]) = 0 OR kind = ANY($1::text[])
		ORDER BY selection_count DESC, last_selected_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(raw), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query selection statistics: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*models.SelectionStatistic
	for rows.Next() {
		s, err := scanSelectionStatistic(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan selection statistic: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate selection statistics: %w", err)
	}
	return out, nil
}

// PruneBatches forgets processed batch ids older than cutoff
func (r *SelectionStatisticsRepository) PruneBatches(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM selection_event_batches WHERE recorded_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune selection batches: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n, nil
}
