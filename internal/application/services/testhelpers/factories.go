package testhelpers

import (
	"context"
	"testing"

	"github.com/ameliahb/datagrid-gateway/internal/domain"
	"github.com/ameliahb/datagrid-gateway/internal/infrastructure/persistence/postgres"
	"github.com/stretchr/testify/require"
)

// SeedAccount creates an active account in the default VO.
func SeedAccount(t *testing.T, td *TestDatabase, name string) {
	repo := postgres.NewAccountRepository(td.DB.Pool)
	err := repo.Create(context.Background(), &domain.Account{
		Name:   name,
		VO:     domain.DefaultVO,
		Status: domain.AccountActive,
	})
	require.NoError(t, err)
}

// SeedRSE creates a fully available RSE in the default VO and returns its id.
func SeedRSE(t *testing.T, td *TestDatabase, name string) string {
	return seedRSE(t, td, name, true)
}

// SeedUnavailableRSE creates an RSE that refuses writes.
func SeedUnavailableRSE(t *testing.T, td *TestDatabase, name string) string {
	return seedRSE(t, td, name, false)
}

func seedRSE(t *testing.T, td *TestDatabase, name string, writable bool) string {
	repo := postgres.NewRSERepository(td.DB.Pool)
	rse := &domain.RSE{
		Name: name,
		VO:   domain.DefaultVO,
		Availability: domain.Availability{
			Read:   true,
			Write:  writable,
			Delete: true,
		},
	}
	err := repo.Create(context.Background(), rse)
	require.NoError(t, err)
	return rse.ID
}

// CloseDataset marks a dataset DID as closed.
func CloseDataset(t *testing.T, td *TestDatabase, scope, name string) {
	_, err := td.DB.Pool.Exec(context.Background(),
		`UPDATE dids SET is_open = FALSE WHERE scope = $1 AND name = $2`, scope, name)
	require.NoError(t, err)
}

// AdminIdentity is the issuer used by tests that must pass authorization.
func AdminIdentity() domain.Identity {
	return domain.Identity{Account: "root", VO: domain.DefaultVO}
}
