package curation

import (
	"context"
	"time"

	"github.com/benvon/morning-affirmations/internal/models"
	"github.com/benvon/morning-affirmations/internal/queue"
	"github.com/benvon/morning-affirmations/internal/selector"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func affirmationEvent(a models.Affirmation, at time.Time) models.SelectionEvent {
	return models.SelectionEvent{
		Kind:       models.ContentKindAffirmation,
		ContentID:  a.ID,
		Bucket:     selector.AffirmationBucket,
		SelectedAt: at.UTC(),
	}
}

func videoEvents(videos models.VideoSelection, at time.Time) []models.SelectionEvent {
	events := make([]models.SelectionEvent, 0, len(videos))
	for _, entry := range videos {
		events = append(events, models.SelectionEvent{
			Kind:       models.ContentKindVideo,
			ContentID:  entry.Video.ID,
			Bucket:     selector.VideoBucket(entry.Category),
			SelectedAt: at.UTC(),
		})
	}
	return events
}

// welcomeEvent is false for the fallback greeting, which has no id
func welcomeEvent(w selector.WelcomeSelection, theme models.Theme, at time.Time) (models.SelectionEvent, bool) {
	if w.Fallback || w.MessageID == "" {
		return models.SelectionEvent{}, false
	}
	return models.SelectionEvent{
		Kind:       models.ContentKindWelcome,
		ContentID:  w.MessageID,
		Bucket:     selector.WelcomeBucket(theme, w.TimeRangeID),
		SelectedAt: at.UTC(),
	}, true
}

// publishSelections hands events to the statistics worker. Statistics are best effort,
// so a publish failure never fails the request.
func (s *Service) publishSelections(ctx context.Context, sessionID uuid.UUID, events []models.SelectionEvent) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	job := queue.NewSelectionRecordedJob(sessionID, events)
	if err := s.publisher.Enqueue(ctx, job); err != nil {
		s.logger.Warn("failed_to_publish_selection_events",
			zap.String("job_id", job.ID.String()),
			zap.Int("events", len(events)),
			zap.Error(err),
		)
	}
}
