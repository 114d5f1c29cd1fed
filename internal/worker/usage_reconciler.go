package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ameliahb/datagrid-gateway/internal/infrastructure/persistence"
)

// UsageReconciler periodically recomputes per-account, per-RSE byte usage
// from the replica table. Quota enforcement elsewhere reads the usage
// table instead of aggregating replicas on every request.
type UsageReconciler struct {
	db       *persistence.DB
	interval time.Duration
	logger   *slog.Logger
}

func NewUsageReconciler(db *persistence.DB, interval time.Duration, logger *slog.Logger) *UsageReconciler {
	return &UsageReconciler{
		db:       db,
		interval: interval,
		logger:   logger,
	}
}

func (w *UsageReconciler) Start(ctx context.Context) {
	w.logger.Info("usage reconciler started", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("usage reconciler stopping")
			return
		case <-ticker.C:
			if err := w.Reconcile(ctx); err != nil {
				w.logger.Error("usage reconciliation failed", "error", err)
			}
		}
	}
}

// Reconcile rebuilds the usage table from current replicas in one pass.
func (w *UsageReconciler) Reconcile(ctx context.Context) error {
	upsert := `
		INSERT INTO account_usage (account, rse_id, bytes, files, updated_at)
		SELECT d.account, p.rse_id, COALESCE(SUM(p.bytes), 0), COUNT(*), NOW()
		FROM replicas p
		JOIN dids d ON d.scope = p.scope AND d.name = p.name
		GROUP BY d.account, p.rse_id
		ON CONFLICT (account, rse_id)
		DO UPDATE SET bytes = EXCLUDED.bytes, files = EXCLUDED.files, updated_at = NOW()
	`

	tag, err := w.db.Pool.Exec(ctx, upsert)
	if err != nil {
		return fmt.Errorf("recompute account usage: %w", err)
	}

	prune := `
		DELETE FROM account_usage u
		WHERE NOT EXISTS (
			SELECT 1
			FROM replicas p
			JOIN dids d ON d.scope = p.scope AND d.name = p.name
			WHERE d.account = u.account AND p.rse_id = u.rse_id
		)
	`

	if _, err := w.db.Pool.Exec(ctx, prune); err != nil {
		return fmt.Errorf("prune stale usage rows: %w", err)
	}

	w.logger.Debug("usage reconciled", "rows", tag.RowsAffected())
	return nil
}
