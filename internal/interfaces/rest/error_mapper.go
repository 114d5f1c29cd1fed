package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ameliahb/datagrid-gateway/internal/application"
	"github.com/ameliahb/datagrid-gateway/internal/domain"
)

// ErrorResponse is the structured error envelope. ExceptionClass is the
// stable failure kind clients branch on.
type ErrorResponse struct {
	ExceptionClass   string `json:"ExceptionClass"`
	ExceptionMessage string `json:"ExceptionMessage"`
}

// WriteHTTPError writes the structured envelope with the given status.
func WriteHTTPError(w http.ResponseWriter, status int, kind, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		ExceptionClass:   kind,
		ExceptionMessage: message,
	})
}

// WriteError translates a service failure into its HTTP response. Failures
// carrying a known kind map through the fixed status table; kinds outside
// the table keep their own name with a 500. Anything without a kind is an
// unexpected error: it is logged and surfaced as a bare 500 with the raw
// error text so no request ever hangs without a response.
func WriteError(w http.ResponseWriter, err error, logger *slog.Logger) {
	var domErr *domain.Error
	if !errors.As(err, &domErr) {
		logger.Error("unclassified failure", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(err.Error()))
		return
	}

	WriteHTTPError(w, application.ToHTTPStatus(err), domErr.Kind, domErr.Message)
}
