package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ameliahb/datagrid-gateway/internal/domain"
	"github.com/ameliahb/datagrid-gateway/internal/infrastructure/persistence"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrDIDNotFound   = errors.New("data identifier not found")
	ErrDIDExists     = errors.New("data identifier already exists")
	ErrReplicaExists = errors.New("replica already exists")
)

// ReplicaRepository persists data identifiers, dataset contents and file
// replicas. Mutating methods take an Executor so a bulk registration can
// run atomically inside one transaction.
type ReplicaRepository struct {
	db *pgxpool.Pool
}

func NewReplicaRepository(db *pgxpool.Pool) *ReplicaRepository {
	return &ReplicaRepository{db: db}
}

func (r *ReplicaRepository) executor(q persistence.Executor) persistence.Executor {
	if q != nil {
		return q
	}
	return r.db
}

func (r *ReplicaRepository) FindDID(ctx context.Context, q persistence.Executor, scope, name string) (*domain.DID, error) {
	query := `
		SELECT scope, name, did_type, account, bytes, adler32, guid, is_open, created_at
		FROM dids
		WHERE scope = $1 AND name = $2
	`

	row := r.executor(q).QueryRow(ctx, query, scope, name)

	var d dbDID
	err := row.Scan(&d.Scope, &d.Name, &d.Type, &d.Account, &d.Bytes, &d.Adler32, &d.GUID, &d.IsOpen, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDIDNotFound
		}
		return nil, fmt.Errorf("failed to find did %s:%s: %w", scope, name, err)
	}
	return d.toDomain(), nil
}

func (r *ReplicaRepository) InsertDID(ctx context.Context, q persistence.Executor, did *domain.DID) error {
	query := `
		INSERT INTO dids (scope, name, did_type, account, bytes, adler32, guid, is_open)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.executor(q).Exec(ctx, query,
		did.Scope,
		did.Name,
		did.Type,
		did.Account,
		did.Bytes,
		nullIfEmpty(did.Adler32),
		nullIfEmpty(did.GUID),
		did.IsOpen,
	)
	if err != nil {
		if persistence.IsUniqueViolation(err) {
			return ErrDIDExists
		}
		return fmt.Errorf("failed to insert did %s:%s: %w", did.Scope, did.Name, err)
	}
	return nil
}

// AttachToDataset records dataset membership. Re-attaching an existing
// child is a no-op.
func (r *ReplicaRepository) AttachToDataset(ctx context.Context, q persistence.Executor, scope, dataset, child string) error {
	query := `
		INSERT INTO dataset_contents (scope, dataset_name, child_name)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING
	`
	_, err := r.executor(q).Exec(ctx, query, scope, dataset, child)
	if err != nil {
		return fmt.Errorf("failed to attach %s to dataset %s: %w", child, dataset, err)
	}
	return nil
}

func (r *ReplicaRepository) InsertReplica(ctx context.Context, q persistence.Executor, replica *domain.Replica, rseID string) error {
	query := `
		INSERT INTO replicas (id, scope, name, rse_id, bytes, state, pfn, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.executor(q).Exec(ctx, query,
		replica.ID,
		replica.Scope,
		replica.Name,
		rseID,
		replica.Bytes,
		replica.State,
		nullIfEmpty(replica.PFN),
		replica.ExpiresAt,
	)
	if err != nil {
		if persistence.IsUniqueViolation(err) {
			return ErrReplicaExists
		}
		return fmt.Errorf("failed to insert replica %s:%s: %w", replica.Scope, replica.Name, err)
	}
	return nil
}

// FindReplica retrieves one replica of a file on a named RSE.
func (r *ReplicaRepository) FindReplica(ctx context.Context, scope, name, rse string) (*domain.Replica, error) {
	query := `
		SELECT p.id, p.scope, p.name, r.name, p.bytes, p.state, COALESCE(p.pfn, ''), p.expires_at, p.created_at
		FROM replicas p
		JOIN rses r ON r.id = p.rse_id
		WHERE p.scope = $1 AND p.name = $2 AND r.name = $3
	`

	var rep domain.Replica
	err := r.db.QueryRow(ctx, query, scope, name, rse).Scan(
		&rep.ID,
		&rep.Scope,
		&rep.Name,
		&rep.RSE,
		&rep.Bytes,
		&rep.State,
		&rep.PFN,
		&rep.ExpiresAt,
		&rep.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDIDNotFound
		}
		return nil, fmt.Errorf("failed to find replica %s:%s on %s: %w", scope, name, rse, err)
	}
	return &rep, nil
}
