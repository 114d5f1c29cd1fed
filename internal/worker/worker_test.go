package worker_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/suite"

	"github.com/ameliahb/datagrid-gateway/internal/application/services/testhelpers"
	"github.com/ameliahb/datagrid-gateway/internal/domain"
	"github.com/ameliahb/datagrid-gateway/internal/infrastructure/persistence/postgres"
	"github.com/ameliahb/datagrid-gateway/internal/worker"
)

type WorkerSuite struct {
	suite.Suite
	td     *testhelpers.TestDatabase
	ctx    context.Context
	logger *slog.Logger
}

func TestWorkerSuite(t *testing.T) {
	suite.Run(t, new(WorkerSuite))
}

func (s *WorkerSuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s.td = testhelpers.SetupTestDatabase(s.T())
}

func (s *WorkerSuite) TearDownSuite() {
	s.td.Cleanup(s.T())
}

func (s *WorkerSuite) SetupTest() {
	s.td.CleanTables(s.T())
}

func (s *WorkerSuite) seedFileWithReplica(account, scope, name, rseID string, bytes int64, state domain.ReplicaState, expiresAt *time.Time) {
	repo := postgres.NewReplicaRepository(s.td.DB.Pool)
	err := repo.InsertDID(s.ctx, nil, &domain.DID{
		Scope:   scope,
		Name:    name,
		Type:    domain.DIDFile,
		Account: account,
		Bytes:   bytes,
	})
	s.Require().NoError(err)

	err = repo.InsertReplica(s.ctx, nil, &domain.Replica{
		ID:        uuid.NewString(),
		Scope:     scope,
		Name:      name,
		Bytes:     bytes,
		State:     state,
		ExpiresAt: expiresAt,
	}, rseID)
	s.Require().NoError(err)
}

func (s *WorkerSuite) usageFor(account, rseID string) (bytes, files int64, found bool) {
	err := s.td.DB.Pool.QueryRow(s.ctx,
		`SELECT bytes, files FROM account_usage WHERE account = $1 AND rse_id = $2`,
		account, rseID).Scan(&bytes, &files)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, 0, false
	}
	s.Require().NoError(err)
	return bytes, files, true
}

func (s *WorkerSuite) Test_Reconcile_AggregatesReplicasPerAccountAndRSE() {
	testhelpers.SeedAccount(s.T(), s.td, "alice")
	rseID := testhelpers.SeedRSE(s.T(), s.td, "SITE1_DISK")

	s.seedFileWithReplica("alice", "mc", "/mc/run2024/file.1", rseID, 100, domain.ReplicaAvailable, nil)
	s.seedFileWithReplica("alice", "mc", "/mc/run2024/file.2", rseID, 250, domain.ReplicaAvailable, nil)

	w := worker.NewUsageReconciler(s.td.DB, time.Minute, s.logger)
	s.Require().NoError(w.Reconcile(s.ctx))

	bytes, files, found := s.usageFor("alice", rseID)
	s.Require().True(found)
	s.Equal(int64(350), bytes)
	s.Equal(int64(2), files)
}

func (s *WorkerSuite) Test_Reconcile_SeparatesRSEs() {
	testhelpers.SeedAccount(s.T(), s.td, "alice")
	rse1 := testhelpers.SeedRSE(s.T(), s.td, "SITE1_DISK")
	rse2 := testhelpers.SeedRSE(s.T(), s.td, "SITE2_DISK")

	s.seedFileWithReplica("alice", "mc", "/mc/run2024/file.1", rse1, 100, domain.ReplicaAvailable, nil)
	s.seedFileWithReplica("alice", "mc", "/mc/run2024/file.2", rse2, 40, domain.ReplicaAvailable, nil)

	w := worker.NewUsageReconciler(s.td.DB, time.Minute, s.logger)
	s.Require().NoError(w.Reconcile(s.ctx))

	bytes, _, found := s.usageFor("alice", rse1)
	s.Require().True(found)
	s.Equal(int64(100), bytes)

	bytes, _, found = s.usageFor("alice", rse2)
	s.Require().True(found)
	s.Equal(int64(40), bytes)
}

func (s *WorkerSuite) Test_Reconcile_UpdatesAndPrunes() {
	testhelpers.SeedAccount(s.T(), s.td, "alice")
	rseID := testhelpers.SeedRSE(s.T(), s.td, "SITE1_DISK")

	s.seedFileWithReplica("alice", "mc", "/mc/run2024/file.1", rseID, 100, domain.ReplicaAvailable, nil)

	w := worker.NewUsageReconciler(s.td.DB, time.Minute, s.logger)
	s.Require().NoError(w.Reconcile(s.ctx))

	_, _, found := s.usageFor("alice", rseID)
	s.Require().True(found)

	_, err := s.td.DB.Pool.Exec(s.ctx, `DELETE FROM replicas`)
	s.Require().NoError(err)

	s.Require().NoError(w.Reconcile(s.ctx))

	_, _, found = s.usageFor("alice", rseID)
	s.False(found, "usage rows without backing replicas should be pruned")
}

func (s *WorkerSuite) replicaState(scope, name string) string {
	var state string
	err := s.td.DB.Pool.QueryRow(s.ctx,
		`SELECT state FROM replicas WHERE scope = $1 AND name = $2`, scope, name).Scan(&state)
	s.Require().NoError(err)
	return state
}

func (s *WorkerSuite) Test_ReleaseExpired_FlipsOnlyExpiredReplicas() {
	testhelpers.SeedAccount(s.T(), s.td, "alice")
	rseID := testhelpers.SeedRSE(s.T(), s.td, "SITE1_DISK")

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)
	s.seedFileWithReplica("alice", "mc", "/mc/run2024/file.1", rseID, 100, domain.ReplicaTemporaryUnavailable, &past)
	s.seedFileWithReplica("alice", "mc", "/mc/run2024/file.2", rseID, 100, domain.ReplicaTemporaryUnavailable, &future)
	s.seedFileWithReplica("alice", "mc", "/mc/run2024/file.3", rseID, 100, domain.ReplicaAvailable, nil)

	w := worker.NewAvailabilityWorker(s.td.DB, time.Minute, 100, s.logger)
	released, err := w.ReleaseExpired(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), released)

	s.Equal(string(domain.ReplicaAvailable), s.replicaState("mc", "/mc/run2024/file.1"))
	s.Equal(string(domain.ReplicaTemporaryUnavailable), s.replicaState("mc", "/mc/run2024/file.2"))
}

func (s *WorkerSuite) Test_ReleaseExpired_RespectsBatchSize() {
	testhelpers.SeedAccount(s.T(), s.td, "alice")
	rseID := testhelpers.SeedRSE(s.T(), s.td, "SITE1_DISK")

	past := time.Now().Add(-time.Hour)
	for _, name := range []string{"/mc/run2024/file.1", "/mc/run2024/file.2", "/mc/run2024/file.3"} {
		s.seedFileWithReplica("alice", "mc", name, rseID, 100, domain.ReplicaTemporaryUnavailable, &past)
	}

	w := worker.NewAvailabilityWorker(s.td.DB, time.Minute, 2, s.logger)

	released, err := w.ReleaseExpired(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(2), released)

	released, err = w.ReleaseExpired(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), released)

	released, err = w.ReleaseExpired(s.ctx)
	s.Require().NoError(err)
	s.Zero(released)
}

func (s *WorkerSuite) Test_ReleaseExpired_NothingToDo() {
	w := worker.NewAvailabilityWorker(s.td.DB, time.Minute, 100, s.logger)
	released, err := w.ReleaseExpired(s.ctx)
	s.Require().NoError(err)
	s.Zero(released)
}
