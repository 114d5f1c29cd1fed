package application

import "github.com/ameliahb/datagrid-gateway/internal/domain"

// Authorizer decides whether an issuer may run privileged catalog
// operations. The admin set comes from configuration and is immutable
// after construction, so it is safe to share across requests.
type Authorizer struct {
	admins map[string]struct{}
}

func NewAuthorizer(adminAccounts []string) *Authorizer {
	admins := make(map[string]struct{}, len(adminAccounts))
	for _, a := range adminAccounts {
		admins[a] = struct{}{}
	}
	return &Authorizer{admins: admins}
}

// Authorize returns an AccessDenied failure unless the issuer is an admin.
// All quota and registration mutations are admin-only.
func (a *Authorizer) Authorize(issuer domain.Identity, action string) error {
	if issuer.Account == "root" {
		return nil
	}
	if _, ok := a.admins[issuer.Account]; ok {
		return nil
	}
	return domain.NewAccessDenied(issuer.Account, action)
}
