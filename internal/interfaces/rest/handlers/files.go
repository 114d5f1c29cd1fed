package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ameliahb/datagrid-gateway/internal/domain"
	"github.com/ameliahb/datagrid-gateway/internal/interfaces/rest"
	"github.com/ameliahb/datagrid-gateway/internal/interfaces/rest/middleware"
)

// lfnDescriptor is the wire shape of one file in a registration request.
type lfnDescriptor struct {
	LFN     string `json:"lfn"`
	RSE     string `json:"rse"`
	Bytes   int64  `json:"bytes"`
	Adler32 string `json:"adler32"`
	GUID    string `json:"guid,omitempty"`
	PFN     string `json:"pfn,omitempty"`
}

// AddFiles registers a batch of file replicas.
func (h *Handlers) AddFiles(w http.ResponseWriter, r *http.Request) {
	issuer := middleware.IdentityFrom(r.Context())

	params, err := rest.DecodeParameterMap(r)
	if err != nil {
		rest.WriteHTTPError(w, http.StatusBadRequest, "ValueError", "Cannot decode json parameter list")
		return
	}

	rawLFNs, ok := params["lfns"]
	if !ok {
		rest.WriteHTTPError(w, http.StatusBadRequest, "KeyError", "lfns not defined")
		return
	}

	var descriptors []lfnDescriptor
	if err := json.Unmarshal(rawLFNs, &descriptors); err != nil {
		rest.WriteHTTPError(w, http.StatusBadRequest, "ValueError", "Cannot decode json parameter list")
		return
	}

	ignoreAvailability, err := rest.OptionalBoolField(params, "ignore_availability", false)
	if err != nil {
		var wrongType *rest.WrongTypeError
		if errors.As(err, &wrongType) {
			rest.WriteHTTPError(w, http.StatusBadRequest, "TypeError", wrongType.Error())
			return
		}
		rest.WriteHTTPError(w, http.StatusBadRequest, "ValueError", "Cannot decode json parameter list")
		return
	}

	lfns := make([]domain.FileDescriptor, 0, len(descriptors))
	for _, d := range descriptors {
		lfns = append(lfns, domain.FileDescriptor{
			LFN:     d.LFN,
			RSE:     d.RSE,
			Bytes:   d.Bytes,
			Adler32: d.Adler32,
			GUID:    d.GUID,
			PFN:     d.PFN,
		})
	}

	if err := h.replicas.AddFiles(r.Context(), issuer, lfns, ignoreAvailability); err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteCreated(w)
}
