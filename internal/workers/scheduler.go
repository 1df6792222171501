package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/benvon/morning-affirmations/internal/queue"
	"go.uber.org/zap"
)

const (
	// DefaultMaintenanceHour is the local hour the nightly maintenance job runs
	DefaultMaintenanceHour = 3
	// maintenanceWindow bounds how late a maintenance job may still run
	maintenanceWindow = 6 * time.Hour
)

// Scheduler enqueues the nightly maintenance job
type Scheduler struct {
	publisher queue.Publisher
	location  *time.Location
	hour      int
	logger    *zap.Logger
	now       func() time.Time
	after     func(time.Duration) <-chan time.Time
}

// NewScheduler creates a scheduler running maintenance at hour o'clock in loc
func NewScheduler(publisher queue.Publisher, loc *time.Location, hour int, logger *zap.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	if hour < 0 || hour > 23 {
		hour = DefaultMaintenanceHour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		publisher: publisher,
		location:  loc,
		hour:      hour,
		logger:    logger,
		now:       time.Now,
		after:     time.After,
	}
}

// NextRun returns the first scheduled run strictly after now
func (s *Scheduler) NextRun(now time.Time) time.Time {
	local := now.In(s.location)
	next := time.Date(local.Year(), local.Month(), local.Day(), s.hour, 0, 0, 0, s.location)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, s.hour, 0, 0, 0, s.location)
	}
	return next
}

// Schedule enqueues the maintenance job for runAt
func (s *Scheduler) Schedule(ctx context.Context, runAt time.Time) error {
	job := queue.NewMaintenanceJob(runAt, maintenanceWindow)
	if err := s.publisher.Enqueue(ctx, job); err != nil {
		return fmt.Errorf("failed to enqueue maintenance job: %w", err)
	}
	s.logger.Info("scheduled_maintenance_job",
		zap.String("job_id", job.ID.String()),
		zap.Time("run_at", runAt),
	)
	return nil
}

// Start waits for each scheduled time and enqueues that night's job, until ctx is done
func (s *Scheduler) Start(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		runAt := s.NextRun(s.now())
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.after(runAt.Sub(s.now())):
		}
		if err := s.Schedule(ctx, runAt); err != nil {
			s.logger.Error("failed_to_schedule_maintenance", zap.Error(err))
		}
	}
}
