package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ameliahb/datagrid-gateway/internal/infrastructure/persistence"
)

// AvailabilityWorker flips replicas marked temporarily unavailable back to
// available once their expiry passes.
type AvailabilityWorker struct {
	db        *persistence.DB
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
}

func NewAvailabilityWorker(db *persistence.DB, interval time.Duration, batchSize int, logger *slog.Logger) *AvailabilityWorker {
	return &AvailabilityWorker{
		db:        db,
		interval:  interval,
		batchSize: batchSize,
		logger:    logger,
	}
}

func (w *AvailabilityWorker) Start(ctx context.Context) {
	w.logger.Info("availability worker started", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("availability worker stopping")
			return
		case <-ticker.C:
			if _, err := w.ReleaseExpired(ctx); err != nil {
				w.logger.Error("availability release failed", "error", err)
			}
		}
	}
}

// ReleaseExpired re-enables one batch of expired unavailable replicas and
// reports how many were flipped.
func (w *AvailabilityWorker) ReleaseExpired(ctx context.Context) (int64, error) {
	query := `
		UPDATE replicas
		SET state = 'AVAILABLE', expires_at = NULL
		WHERE id IN (
			SELECT id
			FROM replicas
			WHERE state = 'TEMPORARY_UNAVAILABLE'
			  AND expires_at IS NOT NULL
			  AND expires_at <= NOW()
			ORDER BY expires_at ASC
			LIMIT $1
		)
	`

	tag, err := w.db.Pool.Exec(ctx, query, w.batchSize)
	if err != nil {
		return 0, fmt.Errorf("release expired replicas: %w", err)
	}

	released := tag.RowsAffected()
	if released > 0 {
		w.logger.Info("released unavailable replicas", "count", released)
	}
	return released, nil
}
