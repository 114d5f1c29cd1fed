package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ameliahb/datagrid-gateway/internal/domain"
	"github.com/ameliahb/datagrid-gateway/internal/interfaces/rest"
	"github.com/ameliahb/datagrid-gateway/internal/interfaces/rest/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureIdentity(got *domain.Identity) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = middleware.IdentityFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuth_IdentityInContext(t *testing.T) {
	var got domain.Identity
	handler := middleware.Auth()(captureIdentity(&got))

	req := httptest.NewRequest(http.MethodGet, "/limits", nil)
	req.Header.Set(middleware.HeaderAccount, "alice")
	req.Header.Set(middleware.HeaderVO, "atlas")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.Identity{Account: "alice", VO: "atlas"}, got)
}

func TestAuth_DefaultVO(t *testing.T) {
	var got domain.Identity
	handler := middleware.Auth()(captureIdentity(&got))

	req := httptest.NewRequest(http.MethodGet, "/limits", nil)
	req.Header.Set(middleware.HeaderAccount, "alice")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, domain.DefaultVO, got.VO)
}

func TestAuth_MissingAccountRejected(t *testing.T) {
	called := false
	handler := middleware.Auth()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/limits", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body rest.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, string(domain.KindAccessDenied), body.ExceptionClass)
	assert.Contains(t, body.ExceptionMessage, "no account header present")
}

func TestIdentityFrom_ZeroWithoutAuth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/limits", nil)
	assert.Equal(t, domain.Identity{}, middleware.IdentityFrom(req.Context()))
}
