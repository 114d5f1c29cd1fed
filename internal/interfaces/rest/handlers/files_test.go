package handlers_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/ameliahb/datagrid-gateway/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const addFilesBody = `{
	"lfns": [
		{"lfn": "/mc/run2024/events/file.1", "rse": "SITE1_DISK", "bytes": 2048, "adler32": "0cc737eb"},
		{"lfn": "/mc/run2024/events/file.2", "rse": "SITE1_DISK", "bytes": 4096, "adler32": "1ad849fc", "pfn": "srm://site1/mc/file.2"}
	]
}`

func TestAddFiles_Created(t *testing.T) {
	replicas := &stubReplicaService{}
	handler := newTestServer(&stubLimitService{}, replicas)

	rec := doRequest(t, handler, http.MethodPost, "/addfiles", addFilesBody, true)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Created", rec.Body.String())
	require.Len(t, replicas.lastLFNs, 2)
	assert.Equal(t, "/mc/run2024/events/file.1", replicas.lastLFNs[0].LFN)
	assert.Equal(t, "SITE1_DISK", replicas.lastLFNs[0].RSE)
	assert.Equal(t, int64(2048), replicas.lastLFNs[0].Bytes)
	assert.Equal(t, "srm://site1/mc/file.2", replicas.lastLFNs[1].PFN)
	assert.False(t, replicas.lastIgnoreAvailability)
}

func TestAddFiles_TrailingSlash(t *testing.T) {
	replicas := &stubReplicaService{}
	handler := newTestServer(&stubLimitService{}, replicas)

	rec := doRequest(t, handler, http.MethodPost, "/addfiles/", addFilesBody, true)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, replicas.called)
}

func TestAddFiles_IgnoreAvailability(t *testing.T) {
	replicas := &stubReplicaService{}
	handler := newTestServer(&stubLimitService{}, replicas)

	body := `{"lfns": [], "ignore_availability": true}`
	rec := doRequest(t, handler, http.MethodPost, "/addfiles", body, true)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, replicas.lastIgnoreAvailability)
}

func TestAddFiles_MalformedBody(t *testing.T) {
	replicas := &stubReplicaService{}
	handler := newTestServer(&stubLimitService{}, replicas)

	rec := doRequest(t, handler, http.MethodPost, "/addfiles", `lfns?`, true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeErrorBody(t, rec)
	assert.Equal(t, "ValueError", body.ExceptionClass)
	assert.Equal(t, "Cannot decode json parameter list", body.ExceptionMessage)
	assert.False(t, replicas.called)
}

func TestAddFiles_MissingLFNs(t *testing.T) {
	handler := newTestServer(&stubLimitService{}, &stubReplicaService{})

	rec := doRequest(t, handler, http.MethodPost, "/addfiles", `{}`, true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeErrorBody(t, rec)
	assert.Equal(t, "KeyError", body.ExceptionClass)
	assert.Contains(t, body.ExceptionMessage, "lfns")
}

func TestAddFiles_LFNsNotAList(t *testing.T) {
	handler := newTestServer(&stubLimitService{}, &stubReplicaService{})

	rec := doRequest(t, handler, http.MethodPost, "/addfiles", `{"lfns": "file.1"}`, true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeErrorBody(t, rec)
	assert.Equal(t, "ValueError", body.ExceptionClass)
}

func TestAddFiles_FailureKinds(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{"access denied", domain.NewAccessDenied("alice", "add file replicas"), http.StatusUnauthorized, "AccessDenied"},
		{"rse not found", domain.NewRSENotFound("SITE1_DISK"), http.StatusNotFound, "RSENotFound"},
		{"invalid path", domain.NewInvalidPath("/mc/file.1"), http.StatusBadRequest, "InvalidPath"},
		{"closed dataset", domain.NewUnsupportedOperation("cannot add files to a closed dataset"), http.StatusMethodNotAllowed, "UnsupportedOperation"},
		{"duplicate replica", domain.NewDuplicate("mc", "/mc/run2024/events/file.1", "SITE1_DISK"), http.StatusConflict, "Duplicate"},
		{"identifier exists", domain.NewDataIdentifierAlreadyExists("mc", "/mc/run2024/events/file.1"), http.StatusConflict, "DataIdentifierAlreadyExists"},
		{"database failure", domain.NewDatabaseException(errors.New("deadlock detected")), http.StatusServiceUnavailable, "DatabaseException"},
		{"rse unavailable", domain.NewResourceTemporaryUnavailable("SITE1_DISK"), http.StatusServiceUnavailable, "ResourceTemporaryUnavailable"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := newTestServer(&stubLimitService{}, &stubReplicaService{err: tc.err})

			rec := doRequest(t, handler, http.MethodPost, "/addfiles", addFilesBody, true)

			assert.Equal(t, tc.wantStatus, rec.Code)
			body := decodeErrorBody(t, rec)
			assert.Equal(t, tc.wantKind, body.ExceptionClass)
			assert.NotEmpty(t, body.ExceptionMessage)
		})
	}
}

func TestAddFiles_UnlistedKindFallsBackTo500(t *testing.T) {
	err := &domain.Error{Kind: "ConfigurationError", Message: "no scheme defined for protocol"}
	handler := newTestServer(&stubLimitService{}, &stubReplicaService{err: err})

	rec := doRequest(t, handler, http.MethodPost, "/addfiles", addFilesBody, true)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeErrorBody(t, rec)
	assert.Equal(t, "ConfigurationError", body.ExceptionClass)
}

func TestAddFiles_UnexpectedErrorIsRawText(t *testing.T) {
	handler := newTestServer(&stubLimitService{}, &stubReplicaService{err: errors.New("boom")})

	rec := doRequest(t, handler, http.MethodPost, "/addfiles", addFilesBody, true)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "boom", rec.Body.String())
}
