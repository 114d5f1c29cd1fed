package domain

import "time"

type AccountStatus string

const (
	AccountActive  AccountStatus = "ACTIVE"
	AccountDeleted AccountStatus = "DELETED"
)

type Account struct {
	Name      string
	VO        string
	Status    AccountStatus
	CreatedAt time.Time
}

// AccountLimit is a byte quota for an account on a single RSE.
type AccountLimit struct {
	Account   string
	RSE       string
	Bytes     int64
	UpdatedAt time.Time
}

// GlobalAccountLimit is a byte quota for an account over the set of RSEs
// matched by an RSE expression.
type GlobalAccountLimit struct {
	Account       string
	RSEExpression string
	Bytes         int64
	UpdatedAt     time.Time
}

// AccountUsage tracks how many bytes an account currently occupies on an RSE.
type AccountUsage struct {
	Account   string
	RSE       string
	Bytes     int64
	Files     int64
	UpdatedAt time.Time
}
