package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ameliahb/datagrid-gateway/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrAccountNotFound = errors.New("account not found")

type AccountRepository struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (name, vo, status)
		VALUES ($1, $2, $3)
	`
	_, err := r.db.Exec(ctx, query, account.Name, account.VO, account.Status)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// FindByName retrieves an active account within a VO.
func (r *AccountRepository) FindByName(ctx context.Context, name, vo string) (*domain.Account, error) {
	query := `
		SELECT name, vo, status, created_at
		FROM accounts
		WHERE name = $1 AND vo = $2 AND status = 'ACTIVE'
	`

	var a domain.Account
	err := r.db.QueryRow(ctx, query, name, vo).Scan(&a.Name, &a.VO, &a.Status, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find account %s: %w", name, err)
	}
	return &a, nil
}
