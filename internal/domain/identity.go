package domain

// DefaultVO is the tenant qualifier assumed when a request does not carry one.
const DefaultVO = "def"

// Identity is the authenticated caller of a request, established by the
// auth middleware before any handler runs.
type Identity struct {
	Account string
	VO      string
}
