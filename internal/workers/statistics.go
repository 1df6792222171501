package workers

import (
	"context"
	"fmt"

	"github.com/benvon/morning-affirmations/internal/queue"
	"go.uber.org/zap"
)

// recordSelections folds a job's selection events into the statistics table. The job id
// is the batch id, so a redelivered job is not counted twice.
func (p *Processor) recordSelections(ctx context.Context, job *queue.Job) error {
	if len(job.Events) == 0 {
		return nil
	}

	applied, err := p.stats.RecordBatch(ctx, job.ID, job.Events)
	if err != nil {
		return fmt.Errorf("failed to record selection events: %w", err)
	}

	if !applied {
		p.logger.Info("selection_batch_already_recorded",
			zap.String("job_id", job.ID.String()),
		)
		return nil
	}

	p.logger.Debug("selection_batch_recorded",
		zap.String("job_id", job.ID.String()),
		zap.Int("events", len(job.Events)),
	)
	return nil
}
