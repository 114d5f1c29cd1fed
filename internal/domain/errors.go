package domain

import (
	"errors"
	"fmt"
)

// Error is a typed failure raised by the service core. Kind is the stable
// identifier callers branch on; it is what ends up in the ExceptionClass
// field of an error response.
type Error struct {
	Kind    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *Error) Unwrap() error {
	return e.Err
}

// Failure kinds raised by the service core
const (
	KindAccessDenied                 = "AccessDenied"
	KindAccountNotFound              = "AccountNotFound"
	KindRSENotFound                  = "RSENotFound"
	KindInvalidPath                  = "InvalidPath"
	KindUnsupportedOperation         = "UnsupportedOperation"
	KindDuplicate                    = "Duplicate"
	KindDataIdentifierAlreadyExists  = "DataIdentifierAlreadyExists"
	KindDatabaseException            = "DatabaseException"
	KindResourceTemporaryUnavailable = "ResourceTemporaryUnavailable"
)

func NewAccessDenied(issuer, action string) *Error {
	return &Error{
		Kind:    KindAccessDenied,
		Message: fmt.Sprintf("account %s can not %s", issuer, action),
	}
}

func NewAccountNotFound(account string) *Error {
	return &Error{
		Kind:    KindAccountNotFound,
		Message: fmt.Sprintf("account %s does not exist", account),
	}
}

func NewRSENotFound(rse string) *Error {
	return &Error{
		Kind:    KindRSENotFound,
		Message: fmt.Sprintf("RSE %s does not exist", rse),
	}
}

func NewInvalidPath(lfn string) *Error {
	return &Error{
		Kind:    KindInvalidPath,
		Message: fmt.Sprintf("cannot extract scope from lfn %s", lfn),
	}
}

func NewUnsupportedOperation(reason string) *Error {
	return &Error{
		Kind:    KindUnsupportedOperation,
		Message: reason,
	}
}

func NewDuplicate(scope, name, rse string) *Error {
	return &Error{
		Kind:    KindDuplicate,
		Message: fmt.Sprintf("replica %s:%s already exists on %s", scope, name, rse),
	}
}

func NewDataIdentifierAlreadyExists(scope, name string) *Error {
	return &Error{
		Kind:    KindDataIdentifierAlreadyExists,
		Message: fmt.Sprintf("data identifier %s:%s already exists", scope, name),
	}
}

func NewDatabaseException(err error) *Error {
	return &Error{
		Kind:    KindDatabaseException,
		Message: "database operation failed",
		Err:     err,
	}
}

func NewResourceTemporaryUnavailable(rse string) *Error {
	return &Error{
		Kind:    KindResourceTemporaryUnavailable,
		Message: fmt.Sprintf("RSE %s is temporarily unavailable for writing", rse),
	}
}

// KindOf extracts the failure kind from err. The second return is false
// when err carries no kind, i.e. it is not an *Error.
func KindOf(err error) (string, bool) {
	var domErr *Error
	if errors.As(err, &domErr) {
		return domErr.Kind, true
	}
	return "", false
}

// IsKind checks if an error is an *Error with a specific kind
func IsKind(err error, kind string) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
