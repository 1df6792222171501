package workers

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// runMaintenance deletes locks older than the configured maximum age and forgets
// processed batch ids past their retention. Both steps run even if one fails.
func (p *Processor) runMaintenance(ctx context.Context) error {
	now := p.now()
	var errs []error

	if p.lockMaxAge > 0 {
		expired, err := p.locks.DeleteOlderThan(ctx, now.Add(-p.lockMaxAge))
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to expire locked selections: %w", err))
		} else {
			p.logger.Info("locked_selections_expired",
				zap.Int64("deleted", expired),
				zap.Duration("max_age", p.lockMaxAge),
			)
		}
	}

	pruned, err := p.stats.PruneBatches(ctx, now.Add(-p.batchRetention))
	if err != nil {
		errs = append(errs, fmt.Errorf("failed to prune selection batches: %w", err))
	} else {
		p.logger.Info("selection_batches_pruned",
			zap.Int64("deleted", pruned),
			zap.Duration("retention", p.batchRetention),
		)
	}

	return errors.Join(errs...)
}
