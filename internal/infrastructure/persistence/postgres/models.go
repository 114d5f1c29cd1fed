package postgres

import (
	"database/sql"
	"time"

	"github.com/ameliahb/datagrid-gateway/internal/domain"
)

// dbDID mirrors the dids table row; nullable columns use sql.Null types.
type dbDID struct {
	Scope     string
	Name      string
	Type      string
	Account   string
	Bytes     int64
	Adler32   sql.NullString
	GUID      sql.NullString
	IsOpen    bool
	CreatedAt time.Time
}

func (d *dbDID) toDomain() *domain.DID {
	return &domain.DID{
		Scope:     d.Scope,
		Name:      d.Name,
		Type:      domain.DIDType(d.Type),
		Account:   d.Account,
		Bytes:     d.Bytes,
		Adler32:   d.Adler32.String,
		GUID:      d.GUID.String,
		IsOpen:    d.IsOpen,
		CreatedAt: d.CreatedAt,
	}
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
