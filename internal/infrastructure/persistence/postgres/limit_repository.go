package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ameliahb/datagrid-gateway/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrLimitNotFound = errors.New("account limit not found")

type LimitRepository struct {
	db *pgxpool.Pool
}

func NewLimitRepository(db *pgxpool.Pool) *LimitRepository {
	return &LimitRepository{db: db}
}

// UpsertLocal creates or updates the byte quota for an account on one RSE.
func (r *LimitRepository) UpsertLocal(ctx context.Context, account, rseID string, bytes int64) error {
	query := `
		INSERT INTO account_limits (account, rse_id, bytes, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (account, rse_id)
		DO UPDATE SET bytes = EXCLUDED.bytes, updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, account, rseID, bytes)
	if err != nil {
		return fmt.Errorf("failed to upsert local limit: %w", err)
	}
	return nil
}

func (r *LimitRepository) DeleteLocal(ctx context.Context, account, rseID string) error {
	query := `DELETE FROM account_limits WHERE account = $1 AND rse_id = $2`
	_, err := r.db.Exec(ctx, query, account, rseID)
	if err != nil {
		return fmt.Errorf("failed to delete local limit: %w", err)
	}
	return nil
}

func (r *LimitRepository) GetLocal(ctx context.Context, account, rseID string) (*domain.AccountLimit, error) {
	query := `
		SELECT l.account, r.name, l.bytes, l.updated_at
		FROM account_limits l
		JOIN rses r ON r.id = l.rse_id
		WHERE l.account = $1 AND l.rse_id = $2
	`

	var limit domain.AccountLimit
	err := r.db.QueryRow(ctx, query, account, rseID).Scan(
		&limit.Account,
		&limit.RSE,
		&limit.Bytes,
		&limit.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLimitNotFound
		}
		return nil, fmt.Errorf("failed to get local limit: %w", err)
	}
	return &limit, nil
}

// UpsertGlobal creates or updates the byte quota for an account over an RSE
// expression. The expression is stored verbatim; resolution happens at read
// and enforcement time.
func (r *LimitRepository) UpsertGlobal(ctx context.Context, account, expression string, bytes int64) error {
	query := `
		INSERT INTO account_global_limits (account, rse_expression, bytes, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (account, rse_expression)
		DO UPDATE SET bytes = EXCLUDED.bytes, updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, account, expression, bytes)
	if err != nil {
		return fmt.Errorf("failed to upsert global limit: %w", err)
	}
	return nil
}

func (r *LimitRepository) DeleteGlobal(ctx context.Context, account, expression string) error {
	query := `DELETE FROM account_global_limits WHERE account = $1 AND rse_expression = $2`
	_, err := r.db.Exec(ctx, query, account, expression)
	if err != nil {
		return fmt.Errorf("failed to delete global limit: %w", err)
	}
	return nil
}

func (r *LimitRepository) GetGlobal(ctx context.Context, account, expression string) (*domain.GlobalAccountLimit, error) {
	query := `
		SELECT account, rse_expression, bytes, updated_at
		FROM account_global_limits
		WHERE account = $1 AND rse_expression = $2
	`

	var limit domain.GlobalAccountLimit
	err := r.db.QueryRow(ctx, query, account, expression).Scan(
		&limit.Account,
		&limit.RSEExpression,
		&limit.Bytes,
		&limit.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLimitNotFound
		}
		return nil, fmt.Errorf("failed to get global limit: %w", err)
	}
	return &limit, nil
}
