// Package workers processes queued jobs: it folds selection events into statistics,
// runs nightly maintenance and schedules that maintenance.
package workers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benvon/morning-affirmations/internal/database"
	"github.com/benvon/morning-affirmations/internal/queue"
	"go.uber.org/zap"
)

const (
	// DefaultBatchRetention is how long processed batch ids are remembered for deduplication
	DefaultBatchRetention = 7 * 24 * time.Hour

	baseRetryDelay = 30 * time.Second
	maxRetryDelay  = 15 * time.Minute
)

// Processor dispatches queue jobs to their handlers
type Processor struct {
	stats          database.SelectionStatisticsRepositoryInterface
	locks          database.LockedSelectionRepositoryInterface
	publisher      queue.Publisher // For re-enqueueing jobs with delays
	logger         *zap.Logger
	lockMaxAge     time.Duration
	batchRetention time.Duration
	now            func() time.Time
}

// ProcessorOption configures a Processor
type ProcessorOption func(*Processor)

// WithBatchRetention sets how long processed batch ids are kept
func WithBatchRetention(retention time.Duration) ProcessorOption {
	return func(p *Processor) {
		if retention > 0 {
			p.batchRetention = retention
		}
	}
}

// WithProcessorClock sets the clock used for expiry cutoffs and retry delays
func WithProcessorClock(now func() time.Time) ProcessorOption {
	return func(p *Processor) {
		if now != nil {
			p.now = now
		}
	}
}

// NewProcessor creates a job processor
func NewProcessor(
	stats database.SelectionStatisticsRepositoryInterface,
	locks database.LockedSelectionRepositoryInterface,
	publisher queue.Publisher,
	lockMaxAge time.Duration,
	logger *zap.Logger,
	opts ...ProcessorOption,
) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Processor{
		stats:          stats,
		locks:          locks,
		publisher:      publisher,
		logger:         logger,
		lockMaxAge:     lockMaxAge,
		batchRetention: DefaultBatchRetention,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProcessJob processes a job based on its type and settles the message
func (p *Processor) ProcessJob(ctx context.Context, msg queue.MessageInterface) error {
	job := msg.GetJob()

	if job.NotAfter != nil && p.now().After(*job.NotAfter) {
		p.logger.Info("job_expired_skipped",
			zap.String("job_id", job.ID.String()),
			zap.String("job_type", string(job.Type)),
		)
		if ackErr := msg.Ack(); ackErr != nil {
			return fmt.Errorf("failed to ack expired job: %w", ackErr)
		}
		return nil
	}

	var err error
	switch job.Type {
	case queue.JobTypeSelectionRecorded:
		err = p.recordSelections(ctx, job)
	case queue.JobTypeMaintenance:
		err = p.runMaintenance(ctx)
	default:
		if nackErr := msg.Nack(false); nackErr != nil { // Unknown job type, send to DLQ
			p.logger.Warn("failed_to_nack_unknown_job", zap.Error(nackErr))
		}
		return fmt.Errorf("unknown job type: %s", job.Type)
	}

	if err != nil {
		return p.handleJobError(ctx, msg, job, err)
	}
	if ackErr := msg.Ack(); ackErr != nil {
		return fmt.Errorf("failed to ack job: %w", ackErr)
	}
	return nil
}

// handleJobError re-enqueues a failed job with backoff until it runs out of retries,
// then dead-letters it. A redelivered message would carry the old retry count, so
// retries are published as new messages.
func (p *Processor) handleJobError(ctx context.Context, msg queue.MessageInterface, job *queue.Job, jobErr error) error {
	fields := []zap.Field{
		zap.String("job_id", job.ID.String()),
		zap.String("job_type", string(job.Type)),
		zap.Int("retry_count", job.RetryCount),
		zap.Int("max_retries", job.MaxRetries),
		zap.Error(jobErr),
	}

	if !job.CanRetry() || p.publisher == nil {
		p.logger.Error("job_failed_sending_to_dlq", fields...)
		if nackErr := msg.Nack(false); nackErr != nil {
			p.logger.Warn("failed_to_nack_job_to_dlq", zap.Error(nackErr))
		}
		return fmt.Errorf("job failed (max retries): %w", jobErr)
	}

	delay := retryDelay(job.RetryCount)
	notBefore := p.now().Add(delay)
	retry := *job
	retry.IncrementRetry()
	retry.NotBefore = &notBefore

	if enqueueErr := p.publisher.Enqueue(ctx, &retry); enqueueErr != nil {
		p.logger.Warn("failed_to_reenqueue_job", append(fields, zap.NamedError("enqueue_error", enqueueErr))...)
		if nackErr := msg.Nack(true); nackErr != nil {
			p.logger.Warn("failed_to_nack_job", zap.Error(nackErr))
		}
		return fmt.Errorf("job failed, re-enqueue failed: %w", errors.Join(jobErr, enqueueErr))
	}

	if ackErr := msg.Ack(); ackErr != nil {
		p.logger.Warn("failed_to_ack_job_after_reenqueue", zap.Error(ackErr))
	}
	p.logger.Warn("job_failed_will_retry", append(fields, zap.Duration("retry_delay", delay))...)
	return fmt.Errorf("job failed (will retry): %w", jobErr)
}

// retryDelay doubles from 30s per attempt, capped at 15 minutes
func retryDelay(retryCount int) time.Duration {
	if retryCount < 0 {
		retryCount = 0
	}
	if retryCount > 10 {
		return maxRetryDelay
	}
	delay := baseRetryDelay * time.Duration(1<<uint(retryCount))
	if delay > maxRetryDelay {
		return maxRetryDelay
	}
	return delay
}
