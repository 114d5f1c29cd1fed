package domain

import (
	"strings"
	"time"
)

// FileDescriptor is one logical file in a bulk registration request.
type FileDescriptor struct {
	LFN     string
	RSE     string
	Bytes   int64
	Adler32 string
	GUID    string
	PFN     string
}

type DIDType string

const (
	DIDFile      DIDType = "FILE"
	DIDDataset   DIDType = "DATASET"
	DIDContainer DIDType = "CONTAINER"
)

// DID is a catalog data identifier: a scoped name for a file or a dataset.
type DID struct {
	Scope     string
	Name      string
	Type      DIDType
	Account   string
	Bytes     int64
	Adler32   string
	GUID      string
	IsOpen    bool
	CreatedAt time.Time
}

type ReplicaState string

const (
	ReplicaAvailable            ReplicaState = "AVAILABLE"
	ReplicaTemporaryUnavailable ReplicaState = "TEMPORARY_UNAVAILABLE"
)

// Replica is a physical copy of a file DID on an RSE.
type Replica struct {
	ID        string
	Scope     string
	Name      string
	RSE       string
	Bytes     int64
	State     ReplicaState
	PFN       string
	ExpiresAt *time.Time
	CreatedAt time.Time
}

// ExtractScope derives the scope and the parent dataset from an LFN path.
// LFNs are rooted paths of the form /<scope>/<dir>.../<file>; the scope is
// the first path component and the parent dataset is the directory holding
// the file. Paths too shallow to carry both fail with InvalidPath.
func ExtractScope(lfn string) (scope, dataset string, err error) {
	if !strings.HasPrefix(lfn, "/") {
		return "", "", NewInvalidPath(lfn)
	}
	trimmed := strings.TrimSuffix(lfn, "/")
	parts := strings.Split(trimmed, "/")
	// parts[0] is the empty string before the leading slash
	if len(parts) < 4 {
		return "", "", NewInvalidPath(lfn)
	}
	scope = parts[1]
	dataset = strings.Join(parts[:len(parts)-1], "/")
	if scope == "" || parts[len(parts)-1] == "" {
		return "", "", NewInvalidPath(lfn)
	}
	return scope, dataset, nil
}
