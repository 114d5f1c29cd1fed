package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ameliahb/datagrid-gateway/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrRSENotFound = errors.New("rse not found")

type RSERepository struct {
	db *pgxpool.Pool
}

func NewRSERepository(db *pgxpool.Pool) *RSERepository {
	return &RSERepository{db: db}
}

func (r *RSERepository) Create(ctx context.Context, rse *domain.RSE) error {
	if rse.ID == "" {
		rse.ID = uuid.New().String()
	}
	query := `
		INSERT INTO rses (id, name, vo, availability_read, availability_write, availability_delete)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query,
		rse.ID,
		rse.Name,
		rse.VO,
		rse.Availability.Read,
		rse.Availability.Write,
		rse.Availability.Delete,
	)
	if err != nil {
		return fmt.Errorf("failed to create rse: %w", err)
	}
	return nil
}

func (r *RSERepository) FindByName(ctx context.Context, name, vo string) (*domain.RSE, error) {
	query := `
		SELECT id, name, vo, availability_read, availability_write, availability_delete
		FROM rses
		WHERE name = $1 AND vo = $2
	`

	var rse domain.RSE
	err := r.db.QueryRow(ctx, query, name, vo).Scan(
		&rse.ID,
		&rse.Name,
		&rse.VO,
		&rse.Availability.Read,
		&rse.Availability.Write,
		&rse.Availability.Delete,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRSENotFound
		}
		return nil, fmt.Errorf("failed to find rse %s: %w", name, err)
	}
	return &rse, nil
}

// FindByNames resolves a list of RSE names. Names with no matching RSE are
// skipped; the caller decides whether an empty result is an error.
func (r *RSERepository) FindByNames(ctx context.Context, names []string, vo string) ([]*domain.RSE, error) {
	query := `
		SELECT id, name, vo, availability_read, availability_write, availability_delete
		FROM rses
		WHERE name = ANY($1) AND vo = $2
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query, names, vo)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve rse names: %w", err)
	}
	defer rows.Close()

	var rses []*domain.RSE
	for rows.Next() {
		var rse domain.RSE
		if err := rows.Scan(
			&rse.ID,
			&rse.Name,
			&rse.VO,
			&rse.Availability.Read,
			&rse.Availability.Write,
			&rse.Availability.Delete,
		); err != nil {
			return nil, fmt.Errorf("failed to scan rse row: %w", err)
		}
		rses = append(rses, &rse)
	}
	return rses, rows.Err()
}
