package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// maxBodySize is the maximum allowed request body size (4 MB); bulk
// registration requests carry many descriptors.
const maxBodySize = 4 << 20

var (
	// ErrBodyMalformed means the body is not valid JSON at all.
	ErrBodyMalformed = errors.New("request body is not valid json")
	// ErrBodyNotObject means the body is valid JSON but not an object.
	ErrBodyNotObject = errors.New("request body is not a json object")
)

// MissingFieldError reports a required field absent from the decoded body.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s not defined", e.Field)
}

// WrongTypeError reports a field present with an unusable type.
type WrongTypeError struct {
	Field string
	Want  string
}

func (e *WrongTypeError) Error() string {
	return fmt.Sprintf("%s must be %s", e.Field, e.Want)
}

// DecodeParameterMap reads the request body and decodes it as a JSON
// object, keeping the field values raw for per-field extraction.
func DecodeParameterMap(r *http.Request) (map[string]json.RawMessage, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return nil, ErrBodyMalformed
	}

	params := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &params); err == nil {
		return params, nil
	}

	// Distinguish malformed JSON from well-formed non-object JSON.
	var probe any
	if json.Unmarshal(data, &probe) == nil {
		return nil, ErrBodyNotObject
	}
	return nil, ErrBodyMalformed
}

// Int64Field extracts a required integer field from a decoded body.
func Int64Field(params map[string]json.RawMessage, field string) (int64, error) {
	raw, ok := params[field]
	if !ok {
		return 0, &MissingFieldError{Field: field}
	}
	var value int64
	if err := json.Unmarshal(raw, &value); err != nil {
		return 0, &WrongTypeError{Field: field, Want: "an integer"}
	}
	return value, nil
}

// OptionalBoolField extracts a boolean field, returning the fallback when
// the field is absent.
func OptionalBoolField(params map[string]json.RawMessage, field string, fallback bool) (bool, error) {
	raw, ok := params[field]
	if !ok {
		return fallback, nil
	}
	var value bool
	if err := json.Unmarshal(raw, &value); err != nil {
		return false, &WrongTypeError{Field: field, Want: "a boolean"}
	}
	return value, nil
}

// WriteCreated writes the fixed creation success response.
func WriteCreated(w http.ResponseWriter) {
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write([]byte("Created"))
}

// WriteOK writes an empty 200 response.
func WriteOK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
}

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
