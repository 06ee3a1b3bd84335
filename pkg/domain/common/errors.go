// Package common holds the error taxonomy shared by all domain packages.
//
// Every expected business failure is a sentinel *Error carrying a Kind from
// a closed set. Callers match sentinels with errors.Is and classify unknown
// errors with KindOf. Only Unavailable errors are safe to retry.
package common

import "errors"

// Kind classifies a domain error into one of the closed failure categories.
type Kind uint8

const (
	// KindUnknown marks errors that did not originate in the domain.
	KindUnknown Kind = iota
	// KindNotFound marks lookups of absent accounts, transactions,
	// requests or users.
	KindNotFound
	// KindValidation marks malformed input: non-positive amounts, unknown
	// account types, same-account transfers.
	KindValidation
	// KindConflict marks state conflicts: insufficient balance, inactive
	// account, already-settled transaction, already-resolved request.
	KindConflict
	// KindAuthorization marks access violations, including admin
	// self-dealing and self-provisioning.
	KindAuthorization
	// KindUnavailable marks transient store failures (timeouts, version
	// conflicts that exhausted retries). Retrying is safe.
	KindUnavailable
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuthorization:
		return "authorization"
	case KindUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Error is a typed domain error. Sentinel instances are declared in the
// domain packages; identity comparison via errors.Is is the expected way to
// match a specific failure.
type Error struct {
	kind Kind
	msg  string
}

// NewError creates a sentinel domain error with the given kind and message.
func NewError(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.msg
}

// Kind returns the failure category of the error.
func (e *Error) Kind() Kind {
	return e.kind
}

// KindOf extracts the Kind from err, unwrapping as needed. Errors that are
// not domain errors report KindUnknown.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind()
	}
	return KindUnknown
}
