// Package apierrors defines the closed set of error kinds the registry
// core surfaces to its HTTP layer, and the status codes they map to.
package apierrors

import (
	"errors"
	"fmt"
)

// Kind is a closed enum of error categories the core can return.
type Kind int

const (
	// KindBadRequest covers malformed identifiers, failed tarball checks,
	// bounds violations, and diff ambiguity.
	KindBadRequest Kind = iota
	// KindUnauthorized covers missing bearer tokens, unknown tokens, and
	// unknown login sessions on poll.
	KindUnauthorized
	// KindNotFound covers cache and upstream both reporting a miss.
	KindNotFound
	// KindUpstream covers network/protocol failures talking to the
	// upstream registry or OAuth provider.
	KindUpstream
	// KindStorage covers cache I/O failure not attributable to a missing key.
	KindStorage
	// KindNotImplemented covers an unfilled policy capability slot.
	KindNotImplemented
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindUpstream:
		return "upstream"
	case KindStorage:
		return "storage"
	case KindNotImplemented:
		return "not_implemented"
	default:
		return "unknown"
	}
}

// Error is a typed error carrying a Kind alongside the usual wrapped cause.
type Error struct {
	Kind   Kind
	Reason string
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an *Error of the given kind with a reason and no wrapped cause.
func New(kind Kind, reason string) *Error {
	return &Error{Kind: kind, Reason: reason}
}

// Wrap builds an *Error of the given kind, wrapping cause.
func Wrap(kind Kind, reason string, cause error) *Error {
	return &Error{Kind: kind, Reason: reason, Cause: cause}
}

// BadRequest constructs a KindBadRequest error.
func BadRequest(reason string) *Error { return New(KindBadRequest, reason) }

// BadRequestf constructs a KindBadRequest error with a formatted reason.
func BadRequestf(format string, args ...interface{}) *Error {
	return New(KindBadRequest, fmt.Sprintf(format, args...))
}

// Unauthorized constructs a KindUnauthorized error.
func Unauthorized(reason string) *Error { return New(KindUnauthorized, reason) }

// NotFound constructs a KindNotFound error.
func NotFound(reason string) *Error { return New(KindNotFound, reason) }

// Upstream constructs a KindUpstream error wrapping cause.
func Upstream(reason string, cause error) *Error { return Wrap(KindUpstream, reason, cause) }

// Storage constructs a KindStorage error wrapping cause.
func Storage(reason string, cause error) *Error { return Wrap(KindStorage, reason, cause) }

// NotImplemented constructs a KindNotImplemented error.
func NotImplemented(capability string) *Error {
	return New(KindNotImplemented, capability+" is not implemented")
}

// KindOf reports the Kind of err if it is (or wraps) an *Error, and whether
// one was found.
func KindOf(err error) (Kind, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}
	return 0, false
}

// Is reports whether err is (or wraps) an *Error of the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
