package db

import (
	"context"
	"time"

	"lasalleserve/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SweepOverdue pushes approved loans whose end date has passed without
// a return into awaiting_return. One guarded UPDATE, so repeated runs
// only ever touch loans still matching the predicate.
func (r *Repo) SweepOverdue(ctx context.Context) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&models.Loan{}).
		Where("status = ? AND end_date < CURRENT_DATE AND returned_at IS NULL",
			models.StatusApproved).
		Updates(map[string]interface{}{
			"status":     models.StatusAwaitingReturn,
			"updated_at": gorm.Expr("NOW()"),
		})
	return res.RowsAffected, res.Error
}

// nextSweepAt is 00:01 of the following day relative to now, or 00:01
// today if that is still ahead.
func nextSweepAt(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), 0, 1, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// StartSweeper runs one sweep immediately, then daily at 00:01 until
// ctx is cancelled.
func StartSweeper(ctx context.Context, repo *Repo, log *zap.Logger) {
	run := func() {
		n, err := repo.SweepOverdue(ctx)
		if err != nil {
			log.Error("overdue sweep failed", zap.Error(err))
			return
		}
		if n > 0 {
			log.Info("overdue loans moved to awaiting_return", zap.Int64("count", n))
		}
	}

	go func() {
		run()
		for {
			timer := time.NewTimer(time.Until(nextSweepAt(time.Now())))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
				run()
			}
		}
	}()
}
