package handlers

import (
	"errors"
	"net/http"

	"github.com/ameliahb/datagrid-gateway/internal/interfaces/rest"
	"github.com/ameliahb/datagrid-gateway/internal/interfaces/rest/middleware"
	"github.com/gorilla/mux"
)

// decodeBytesField runs the shared decode/validate sequence for the limit
// creation endpoints: the body must be a JSON object carrying an integer
// bytes field. It writes the 400 response itself and reports success.
func decodeBytesField(w http.ResponseWriter, r *http.Request) (int64, bool) {
	params, err := rest.DecodeParameterMap(r)
	if err != nil {
		if errors.Is(err, rest.ErrBodyNotObject) {
			rest.WriteHTTPError(w, http.StatusBadRequest, "TypeError", "body must be a json dictionary")
			return 0, false
		}
		rest.WriteHTTPError(w, http.StatusBadRequest, "ValueError", "cannot decode json parameter dictionary")
		return 0, false
	}

	bytes, err := rest.Int64Field(params, "bytes")
	if err != nil {
		var missing *rest.MissingFieldError
		if errors.As(err, &missing) {
			rest.WriteHTTPError(w, http.StatusBadRequest, "KeyError", missing.Error())
			return 0, false
		}
		rest.WriteHTTPError(w, http.StatusBadRequest, "TypeError", err.Error())
		return 0, false
	}
	return bytes, true
}

// SetLocalLimit creates or updates the quota for an account on one RSE.
func (h *Handlers) SetLocalLimit(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	issuer := middleware.IdentityFrom(r.Context())

	bytes, ok := decodeBytesField(w, r)
	if !ok {
		return
	}

	if err := h.limits.SetLocalLimit(r.Context(), issuer, vars["account"], vars["rse"], bytes); err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteCreated(w)
}

// DeleteLocalLimit removes the quota for an account on one RSE.
func (h *Handlers) DeleteLocalLimit(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	issuer := middleware.IdentityFrom(r.Context())

	if err := h.limits.DeleteLocalLimit(r.Context(), issuer, vars["account"], vars["rse"]); err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteOK(w)
}

// GetLocalLimit reads the quota for an account on one RSE. A missing quota
// reads as a null byte count, not an error.
func (h *Handlers) GetLocalLimit(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	issuer := middleware.IdentityFrom(r.Context())

	limit, err := h.limits.GetLocalLimit(r.Context(), issuer, vars["account"], vars["rse"])
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	body := map[string]any{"bytes": nil}
	if limit != nil {
		body["bytes"] = limit.Bytes
	}
	rest.WriteJSON(w, http.StatusOK, body)
}

// SetGlobalLimit creates or updates the quota for an account over an RSE
// expression.
func (h *Handlers) SetGlobalLimit(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	issuer := middleware.IdentityFrom(r.Context())

	bytes, ok := decodeBytesField(w, r)
	if !ok {
		return
	}

	if err := h.limits.SetGlobalLimit(r.Context(), issuer, vars["account"], vars["rse_expression"], bytes); err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteCreated(w)
}

// DeleteGlobalLimit removes the quota for an account over an RSE expression.
func (h *Handlers) DeleteGlobalLimit(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	issuer := middleware.IdentityFrom(r.Context())

	if err := h.limits.DeleteGlobalLimit(r.Context(), issuer, vars["account"], vars["rse_expression"]); err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteOK(w)
}

// GetGlobalLimit reads the quota for an account over an RSE expression.
func (h *Handlers) GetGlobalLimit(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	issuer := middleware.IdentityFrom(r.Context())

	limit, err := h.limits.GetGlobalLimit(r.Context(), issuer, vars["account"], vars["rse_expression"])
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	body := map[string]any{"bytes": nil}
	if limit != nil {
		body["bytes"] = limit.Bytes
	}
	rest.WriteJSON(w, http.StatusOK, body)
}
