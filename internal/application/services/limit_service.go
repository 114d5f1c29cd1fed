package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ameliahb/datagrid-gateway/internal/application"
	"github.com/ameliahb/datagrid-gateway/internal/domain"
	"github.com/ameliahb/datagrid-gateway/internal/infrastructure/persistence/postgres"
)

// LimitService owns account storage quotas, local (one RSE) and global
// (an RSE expression).
type LimitService struct {
	accountRepo *postgres.AccountRepository
	rseRepo     *postgres.RSERepository
	limitRepo   *postgres.LimitRepository
	authorizer  *application.Authorizer
}

func NewLimitService(
	accountRepo *postgres.AccountRepository,
	rseRepo *postgres.RSERepository,
	limitRepo *postgres.LimitRepository,
	authorizer *application.Authorizer,
) *LimitService {
	return &LimitService{
		accountRepo: accountRepo,
		rseRepo:     rseRepo,
		limitRepo:   limitRepo,
		authorizer:  authorizer,
	}
}

func (s *LimitService) SetLocalLimit(ctx context.Context, issuer domain.Identity, account, rse string, bytes int64) error {
	if err := s.authorizer.Authorize(issuer, fmt.Sprintf("set local account limit for %s", account)); err != nil {
		return err
	}

	rseRow, err := s.resolveRSE(ctx, rse, issuer.VO)
	if err != nil {
		return err
	}
	if err := s.checkAccount(ctx, account, issuer.VO); err != nil {
		return err
	}

	return s.limitRepo.UpsertLocal(ctx, account, rseRow.ID, bytes)
}

func (s *LimitService) DeleteLocalLimit(ctx context.Context, issuer domain.Identity, account, rse string) error {
	if err := s.authorizer.Authorize(issuer, fmt.Sprintf("delete local account limit for %s", account)); err != nil {
		return err
	}

	rseRow, err := s.resolveRSE(ctx, rse, issuer.VO)
	if err != nil {
		return err
	}
	if err := s.checkAccount(ctx, account, issuer.VO); err != nil {
		return err
	}

	return s.limitRepo.DeleteLocal(ctx, account, rseRow.ID)
}

// GetLocalLimit returns nil when no quota is set for the account on the RSE.
func (s *LimitService) GetLocalLimit(ctx context.Context, issuer domain.Identity, account, rse string) (*domain.AccountLimit, error) {
	rseRow, err := s.resolveRSE(ctx, rse, issuer.VO)
	if err != nil {
		return nil, err
	}
	if err := s.checkAccount(ctx, account, issuer.VO); err != nil {
		return nil, err
	}

	limit, err := s.limitRepo.GetLocal(ctx, account, rseRow.ID)
	if errors.Is(err, postgres.ErrLimitNotFound) {
		return nil, nil
	}
	return limit, err
}

func (s *LimitService) SetGlobalLimit(ctx context.Context, issuer domain.Identity, account, expression string, bytes int64) error {
	if err := s.authorizer.Authorize(issuer, fmt.Sprintf("set global account limit for %s", account)); err != nil {
		return err
	}

	if err := s.resolveExpression(ctx, expression, issuer.VO); err != nil {
		return err
	}
	if err := s.checkAccount(ctx, account, issuer.VO); err != nil {
		return err
	}

	return s.limitRepo.UpsertGlobal(ctx, account, expression, bytes)
}

func (s *LimitService) DeleteGlobalLimit(ctx context.Context, issuer domain.Identity, account, expression string) error {
	if err := s.authorizer.Authorize(issuer, fmt.Sprintf("delete global account limit for %s", account)); err != nil {
		return err
	}

	if err := s.resolveExpression(ctx, expression, issuer.VO); err != nil {
		return err
	}
	if err := s.checkAccount(ctx, account, issuer.VO); err != nil {
		return err
	}

	return s.limitRepo.DeleteGlobal(ctx, account, expression)
}

// GetGlobalLimit returns nil when no quota is set for the expression.
func (s *LimitService) GetGlobalLimit(ctx context.Context, issuer domain.Identity, account, expression string) (*domain.GlobalAccountLimit, error) {
	if err := s.resolveExpression(ctx, expression, issuer.VO); err != nil {
		return nil, err
	}
	if err := s.checkAccount(ctx, account, issuer.VO); err != nil {
		return nil, err
	}

	limit, err := s.limitRepo.GetGlobal(ctx, account, expression)
	if errors.Is(err, postgres.ErrLimitNotFound) {
		return nil, nil
	}
	return limit, err
}

func (s *LimitService) checkAccount(ctx context.Context, account, vo string) error {
	_, err := s.accountRepo.FindByName(ctx, account, vo)
	if errors.Is(err, postgres.ErrAccountNotFound) {
		return domain.NewAccountNotFound(account)
	}
	return err
}

func (s *LimitService) resolveRSE(ctx context.Context, rse, vo string) (*domain.RSE, error) {
	rseRow, err := s.rseRepo.FindByName(ctx, rse, vo)
	if errors.Is(err, postgres.ErrRSENotFound) {
		return nil, domain.NewRSENotFound(rse)
	}
	return rseRow, err
}

// resolveExpression fails with RSENotFound when the expression matches no
// RSE, mirroring how an unresolvable expression surfaces on a global limit.
func (s *LimitService) resolveExpression(ctx context.Context, expression, vo string) error {
	names := domain.ParseRSEExpression(expression)
	if len(names) == 0 {
		return domain.NewRSENotFound(expression)
	}
	rses, err := s.rseRepo.FindByNames(ctx, names, vo)
	if err != nil {
		return err
	}
	if len(rses) == 0 {
		return domain.NewRSENotFound(expression)
	}
	return nil
}
