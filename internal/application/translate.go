package application

import (
	"net/http"

	"github.com/ameliahb/datagrid-gateway/internal/domain"
)

// statusByKind is the fixed mapping from failure kind to HTTP status.
// Kinds not listed here fall through to 500.
var statusByKind = map[string]int{
	domain.KindInvalidPath:                  http.StatusBadRequest,
	domain.KindAccessDenied:                 http.StatusUnauthorized,
	domain.KindRSENotFound:                  http.StatusNotFound,
	domain.KindAccountNotFound:              http.StatusNotFound,
	domain.KindUnsupportedOperation:         http.StatusMethodNotAllowed,
	domain.KindDuplicate:                    http.StatusConflict,
	domain.KindDataIdentifierAlreadyExists:  http.StatusConflict,
	domain.KindDatabaseException:            http.StatusServiceUnavailable,
	domain.KindResourceTemporaryUnavailable: http.StatusServiceUnavailable,
}

// ToHTTPStatus maps a service failure to its HTTP status code.
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if kind, ok := domain.KindOf(err); ok {
		if status, found := statusByKind[kind]; found {
			return status
		}
	}
	return http.StatusInternalServerError
}
