package middleware

import (
	"context"
	"net/http"

	"github.com/ameliahb/datagrid-gateway/internal/domain"
	"github.com/ameliahb/datagrid-gateway/internal/interfaces/rest"
)

// Header names the auth layer reads. The account header is mandatory; the
// VO header defaults when absent.
const (
	HeaderAccount = "X-Auth-Account"
	HeaderVO      = "X-Auth-VO"
)

type contextKey struct{}

var identityKey contextKey

// Auth extracts the caller identity from request headers and stores it in
// the request context. Requests without an account header are rejected
// before any handler runs.
func Auth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			account := r.Header.Get(HeaderAccount)
			if account == "" {
				rest.WriteHTTPError(w, http.StatusUnauthorized, domain.KindAccessDenied,
					"cannot authenticate: no account header present")
				return
			}

			vo := r.Header.Get(HeaderVO)
			if vo == "" {
				vo = domain.DefaultVO
			}

			identity := domain.Identity{Account: account, VO: vo}
			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFrom returns the caller identity stored by Auth. The zero
// identity comes back for contexts that never passed through it.
func IdentityFrom(ctx context.Context) domain.Identity {
	identity, _ := ctx.Value(identityKey).(domain.Identity)
	return identity
}
