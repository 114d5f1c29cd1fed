package handlers

import (
	"context"
	"log/slog"

	"github.com/ameliahb/datagrid-gateway/internal/domain"
)

// LimitService is the downstream quota API the limit handlers forward to.
type LimitService interface {
	SetLocalLimit(ctx context.Context, issuer domain.Identity, account, rse string, bytes int64) error
	DeleteLocalLimit(ctx context.Context, issuer domain.Identity, account, rse string) error
	GetLocalLimit(ctx context.Context, issuer domain.Identity, account, rse string) (*domain.AccountLimit, error)
	SetGlobalLimit(ctx context.Context, issuer domain.Identity, account, expression string, bytes int64) error
	DeleteGlobalLimit(ctx context.Context, issuer domain.Identity, account, expression string) error
	GetGlobalLimit(ctx context.Context, issuer domain.Identity, account, expression string) (*domain.GlobalAccountLimit, error)
}

// ReplicaService is the downstream registration API the file handlers
// forward to.
type ReplicaService interface {
	AddFiles(ctx context.Context, issuer domain.Identity, lfns []domain.FileDescriptor, ignoreAvailability bool) error
}

// Handlers holds the handler set for the gateway. Handlers are stateless;
// everything request-scoped travels through the request itself.
type Handlers struct {
	limits   LimitService
	replicas ReplicaService
	logger   *slog.Logger
}

func NewHandlers(limits LimitService, replicas ReplicaService, logger *slog.Logger) *Handlers {
	return &Handlers{
		limits:   limits,
		replicas: replicas,
		logger:   logger,
	}
}
