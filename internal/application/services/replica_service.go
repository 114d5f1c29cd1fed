package services

import (
	"context"
	"errors"

	"github.com/ameliahb/datagrid-gateway/internal/application"
	"github.com/ameliahb/datagrid-gateway/internal/domain"
	"github.com/ameliahb/datagrid-gateway/internal/infrastructure/persistence"
	"github.com/ameliahb/datagrid-gateway/internal/infrastructure/persistence/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ReplicaService registers file replicas in the catalog in bulk. A request
// either registers every file or none: the whole batch runs in one
// transaction.
type ReplicaService struct {
	rseRepo     *postgres.RSERepository
	replicaRepo *postgres.ReplicaRepository
	db          *persistence.DB
	authorizer  *application.Authorizer
}

func NewReplicaService(
	rseRepo *postgres.RSERepository,
	replicaRepo *postgres.ReplicaRepository,
	db *persistence.DB,
	authorizer *application.Authorizer,
) *ReplicaService {
	return &ReplicaService{
		rseRepo:     rseRepo,
		replicaRepo: replicaRepo,
		db:          db,
		authorizer:  authorizer,
	}
}

func (s *ReplicaService) AddFiles(ctx context.Context, issuer domain.Identity, lfns []domain.FileDescriptor, ignoreAvailability bool) error {
	if err := s.authorizer.Authorize(issuer, "add file replicas"); err != nil {
		return err
	}

	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		for _, f := range lfns {
			if err := s.addFile(ctx, tx, issuer, f, ignoreAvailability); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if _, ok := domain.KindOf(err); ok {
			return err
		}
		return domain.NewDatabaseException(err)
	}
	return nil
}

func (s *ReplicaService) addFile(ctx context.Context, tx pgx.Tx, issuer domain.Identity, f domain.FileDescriptor, ignoreAvailability bool) error {
	scope, dataset, err := domain.ExtractScope(f.LFN)
	if err != nil {
		return err
	}

	rse, err := s.rseRepo.FindByName(ctx, f.RSE, issuer.VO)
	if err != nil {
		if errors.Is(err, postgres.ErrRSENotFound) {
			return domain.NewRSENotFound(f.RSE)
		}
		return err
	}
	if !rse.Availability.Write && !ignoreAvailability {
		return domain.NewResourceTemporaryUnavailable(rse.Name)
	}

	if err := s.registerFileDID(ctx, tx, issuer, scope, f); err != nil {
		return err
	}
	if err := s.registerDataset(ctx, tx, issuer, scope, dataset, f.LFN); err != nil {
		return err
	}

	replica := &domain.Replica{
		ID:    uuid.New().String(),
		Scope: scope,
		Name:  f.LFN,
		RSE:   rse.Name,
		Bytes: f.Bytes,
		State: domain.ReplicaAvailable,
		PFN:   f.PFN,
	}
	if err := s.replicaRepo.InsertReplica(ctx, tx, replica, rse.ID); err != nil {
		if errors.Is(err, postgres.ErrReplicaExists) {
			return domain.NewDuplicate(scope, f.LFN, rse.Name)
		}
		return err
	}
	return nil
}

// registerFileDID creates the file's data identifier. A file already
// registered with the same size and checksum is the same file and may gain
// replicas on further RSEs; anything else is a conflicting identifier.
func (s *ReplicaService) registerFileDID(ctx context.Context, tx pgx.Tx, issuer domain.Identity, scope string, f domain.FileDescriptor) error {
	existing, err := s.replicaRepo.FindDID(ctx, tx, scope, f.LFN)
	if err != nil && !errors.Is(err, postgres.ErrDIDNotFound) {
		return err
	}
	if existing != nil {
		if existing.Type == domain.DIDFile && existing.Bytes == f.Bytes && existing.Adler32 == f.Adler32 {
			return nil
		}
		return domain.NewDataIdentifierAlreadyExists(scope, f.LFN)
	}

	did := &domain.DID{
		Scope:   scope,
		Name:    f.LFN,
		Type:    domain.DIDFile,
		Account: issuer.Account,
		Bytes:   f.Bytes,
		Adler32: f.Adler32,
		GUID:    f.GUID,
	}
	if err := s.replicaRepo.InsertDID(ctx, tx, did); err != nil {
		if errors.Is(err, postgres.ErrDIDExists) {
			return domain.NewDataIdentifierAlreadyExists(scope, f.LFN)
		}
		return err
	}
	return nil
}

// registerDataset ensures the parent dataset exists and is open, then
// attaches the file to it.
func (s *ReplicaService) registerDataset(ctx context.Context, tx pgx.Tx, issuer domain.Identity, scope, dataset, child string) error {
	existing, err := s.replicaRepo.FindDID(ctx, tx, scope, dataset)
	if err != nil && !errors.Is(err, postgres.ErrDIDNotFound) {
		return err
	}
	switch {
	case existing == nil:
		did := &domain.DID{
			Scope:   scope,
			Name:    dataset,
			Type:    domain.DIDDataset,
			Account: issuer.Account,
			IsOpen:  true,
		}
		if err := s.replicaRepo.InsertDID(ctx, tx, did); err != nil && !errors.Is(err, postgres.ErrDIDExists) {
			return err
		}
	case !existing.IsOpen:
		return domain.NewUnsupportedOperation("cannot add files to a closed dataset " + scope + ":" + dataset)
	}

	return s.replicaRepo.AttachToDataset(ctx, tx, scope, dataset, child)
}
