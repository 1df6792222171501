package curation

import (
	"context"
	"fmt"

	"github.com/benvon/morning-affirmations/internal/models"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// LockRequest names the content to freeze. Missing items are selected fresh.
type LockRequest struct {
	Theme         models.Theme                    `json:"theme,omitempty"`
	AffirmationID string                          `json:"affirmation_id,omitempty"`
	VideoIDs      map[models.VideoCategory]string `json:"video_ids,omitempty"`
}

// Lock freezes the session's selection. Ids in req must refer to active content of the
// matching category; unknown ids fail with ErrLockedContentUnavailable.
func (s *Service) Lock(ctx context.Context, sessionID uuid.UUID, req LockRequest) (*models.LockedSelection, error) {
	ctx, span := s.tracer.Start(ctx, "curation.Lock", trace.WithAttributes(
		attribute.String("session.id", sessionID.String()),
	))
	defer span.End()

	snap := s.content.Snapshot()
	theme := s.ResolveTheme(ctx, sessionID, req.Theme)

	lock := &models.LockedSelection{
		SessionID: sessionID,
		Theme:     theme,
		LockedAt:  s.now().UTC(),
	}

	var events []models.SelectionEvent
	if req.AffirmationID != "" {
		affirmation, ok := snap.Affirmation(req.AffirmationID)
		if !ok {
			return nil, fmt.Errorf("%w: affirmation %s", ErrLockedContentUnavailable, req.AffirmationID)
		}
		lock.Affirmation = affirmation
	} else {
		affirmation, err := s.selector.SelectAffirmation(snap.ActiveAffirmations(), theme)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		lock.Affirmation = affirmation
		events = append(events, affirmationEvent(affirmation, s.now()))
	}

	if len(req.VideoIDs) > 0 {
		videos, err := s.videosByID(req.VideoIDs)
		if err != nil {
			return nil, err
		}
		lock.Videos = videos
	} else {
		lock.Videos = s.selector.SelectVideos(snap.ActiveVideos(), theme)
		events = append(events, videoEvents(lock.Videos, s.now())...)
	}

	if err := s.locks.Upsert(ctx, lock); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to store locked selection: %w", err)
	}

	s.setLockedFlag(ctx, sessionID, true)
	s.publishSelections(ctx, sessionID, events)
	s.logger.Info("content_locked",
		zap.String("session_id", sessionID.String()),
		zap.String("theme", string(theme)),
		zap.String("affirmation_id", lock.Affirmation.ID),
		zap.Int("videos", len(lock.Videos)),
	)
	return lock, nil
}

// videosByID resolves requested ids in configured category order
func (s *Service) videosByID(ids map[models.VideoCategory]string) (models.VideoSelection, error) {
	snap := s.content.Snapshot()
	selection := make(models.VideoSelection, 0, len(ids))
	seen := 0
	for _, category := range s.selector.Categories() {
		id, ok := ids[category]
		if !ok {
			continue
		}
		seen++
		video, ok := snap.Video(id)
		if !ok || video.Category != category {
			return nil, fmt.Errorf("%w: video %s", ErrLockedContentUnavailable, id)
		}
		selection = append(selection, models.CategoryVideo{Category: category, Video: video})
	}
	if seen != len(ids) {
		return nil, fmt.Errorf("%w: video category not shown", ErrLockedContentUnavailable)
	}
	return selection, nil
}

// Unlock removes the session's lock. It returns ErrNoLock when there was none.
func (s *Service) Unlock(ctx context.Context, sessionID uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "curation.Unlock", trace.WithAttributes(
		attribute.String("session.id", sessionID.String()),
	))
	defer span.End()

	deleted, err := s.locks.DeleteBySessionID(ctx, sessionID)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete locked selection: %w", err)
	}
	s.setLockedFlag(ctx, sessionID, false)
	if !deleted {
		return ErrNoLock
	}
	s.logger.Info("content_unlocked", zap.String("session_id", sessionID.String()))
	return nil
}

// CurrentLock returns the session's lock. A lock whose content is no longer active is
// returned together with ErrLockedContentUnavailable.
func (s *Service) CurrentLock(ctx context.Context, sessionID uuid.UUID) (*models.LockedSelection, error) {
	lock, err := s.lookupLock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if lock == nil {
		return nil, ErrNoLock
	}
	if !lockAvailable(s.content.Snapshot(), lock) {
		return lock, ErrLockedContentUnavailable
	}
	return lock, nil
}
