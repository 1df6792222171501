package curation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benvon/morning-affirmations/internal/catalog"
	"github.com/benvon/morning-affirmations/internal/database"
	"github.com/benvon/morning-affirmations/internal/models"
	"github.com/benvon/morning-affirmations/internal/selector"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Content is everything the front page shows. LockUnavailable reports a lock that could
// not be served because its content is gone.
type Content struct {
	Theme           models.Theme              `json:"theme"`
	Affirmation     models.Affirmation        `json:"affirmation"`
	Videos          models.VideoSelection     `json:"videos"`
	Welcome         selector.WelcomeSelection `json:"welcome"`
	Locked          bool                      `json:"locked"`
	LockedAt        *time.Time                `json:"locked_at,omitempty"`
	LockUnavailable bool                      `json:"lock_unavailable,omitempty"`
}

// Content returns the session's locked selection when it has one that is still available,
// and a fresh selection otherwise. The welcome message always follows the clock.
func (s *Service) Content(ctx context.Context, sessionID uuid.UUID, requested models.Theme, at time.Time) (*Content, error) {
	ctx, span := s.tracer.Start(ctx, "curation.Content", trace.WithAttributes(
		attribute.String("session.id", sessionID.String()),
		attribute.String("theme.requested", string(requested)),
	))
	defer span.End()

	snap := s.content.Snapshot()
	theme := s.ResolveTheme(ctx, sessionID, requested)
	span.SetAttributes(attribute.String("theme", string(theme)))

	out := &Content{Theme: theme}

	lock, err := s.lookupLock(ctx, sessionID)
	if err != nil {
		span.RecordError(err)
		s.logger.Warn("failed_to_load_locked_selection",
			zap.String("session_id", sessionID.String()),
			zap.Error(err),
		)
	}
	if lock != nil {
		if lockAvailable(snap, lock) {
			out.Affirmation = lock.Affirmation
			out.Videos = lock.Videos
			out.Locked = true
			lockedAt := lock.LockedAt
			out.LockedAt = &lockedAt
		} else {
			out.LockUnavailable = true
			s.logger.Info("locked_selection_unavailable",
				zap.String("session_id", sessionID.String()),
			)
		}
	}

	var events []models.SelectionEvent
	if !out.Locked {
		affirmation, err := s.selector.SelectAffirmation(snap.ActiveAffirmations(), theme)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "no affirmations")
			return nil, err
		}
		out.Affirmation = affirmation
		out.Videos = s.selector.SelectVideos(snap.ActiveVideos(), theme)
		events = append(events, affirmationEvent(affirmation, s.now()))
		events = append(events, videoEvents(out.Videos, s.now())...)
	}

	out.Welcome = s.selector.SelectWelcome(snap.WelcomeSets, theme, at.In(s.location))
	if e, ok := welcomeEvent(out.Welcome, theme, s.now()); ok {
		events = append(events, e)
	}

	s.publishSelections(ctx, sessionID, events)
	return out, nil
}

// Affirmation selects a fresh affirmation
func (s *Service) Affirmation(ctx context.Context, sessionID uuid.UUID, requested models.Theme) (models.Affirmation, models.Theme, error) {
	theme := s.ResolveTheme(ctx, sessionID, requested)
	affirmation, err := s.selector.SelectAffirmation(s.content.Snapshot().ActiveAffirmations(), theme)
	if err != nil {
		return models.Affirmation{}, theme, err
	}
	s.publishSelections(ctx, sessionID, []models.SelectionEvent{affirmationEvent(affirmation, s.now())})
	return affirmation, theme, nil
}

// Videos selects one fresh video per configured category
func (s *Service) Videos(ctx context.Context, sessionID uuid.UUID, requested models.Theme) (models.VideoSelection, models.Theme) {
	theme := s.ResolveTheme(ctx, sessionID, requested)
	videos := s.selector.SelectVideos(s.content.Snapshot().ActiveVideos(), theme)
	s.publishSelections(ctx, sessionID, videoEvents(videos, s.now()))
	return videos, theme
}

// Welcome selects the welcome message for the wall-clock time of at
func (s *Service) Welcome(ctx context.Context, sessionID uuid.UUID, requested models.Theme, at time.Time) (selector.WelcomeSelection, models.Theme) {
	theme := s.ResolveTheme(ctx, sessionID, requested)
	welcome := s.selector.SelectWelcome(s.content.Snapshot().WelcomeSets, theme, at.In(s.location))
	if e, ok := welcomeEvent(welcome, theme, s.now()); ok {
		s.publishSelections(ctx, sessionID, []models.SelectionEvent{e})
	}
	return welcome, theme
}

// Available counts the content that could be shown for the resolved theme
func (s *Service) Available(ctx context.Context, sessionID uuid.UUID, requested models.Theme) (selector.AvailableContent, models.Theme) {
	theme := s.ResolveTheme(ctx, sessionID, requested)
	snap := s.content.Snapshot()
	return s.selector.AvailableContent(snap.ActiveAffirmations(), snap.ActiveVideos(), theme), theme
}

// Now returns the current time in the configured zone
func (s *Service) Now() time.Time {
	return s.now().In(s.location)
}

// Location returns the zone welcome messages are resolved in
func (s *Service) Location() *time.Location {
	return s.location
}

// lookupLock returns nil without error when the session has no lock
func (s *Service) lookupLock(ctx context.Context, sessionID uuid.UUID) (*models.LockedSelection, error) {
	if s.locks == nil || sessionID == uuid.Nil {
		return nil, nil
	}
	lock, err := s.locks.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load locked selection: %w", err)
	}
	return lock, nil
}

// lockAvailable reports whether every item in lock is still active in snap
func lockAvailable(snap *catalog.Snapshot, lock *models.LockedSelection) bool {
	if _, ok := snap.Affirmation(lock.Affirmation.ID); !ok {
		return false
	}
	for _, entry := range lock.Videos {
		if _, ok := snap.Video(entry.Video.ID); !ok {
			return false
		}
	}
	return true
}
