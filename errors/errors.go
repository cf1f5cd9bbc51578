package errors

import (
	"fmt"
	"strings"
)

// Kind categorizes the failure. Callers branch on the kind (via Is or
// IsKind) rather than on distinct error types.
type Kind string

const (
	KindDuplicateIdentity Kind = "duplicate_identity"
	KindNotFound          Kind = "not_found"
	KindKindMismatch      Kind = "kind_mismatch"
	KindEventNotFound     Kind = "event_not_found"
	KindBusy              Kind = "busy"
)

// Error is the structured error type used throughout the module.
// Every failing operation returns one of these; Name/ResourceKind
// carry the identity of the resource involved when one is known.
type Error struct {
	Cause        error
	Kind         Kind
	Name         string
	ResourceKind string
	Detail       string
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(string(e.Kind))

	if e.Name != "" || e.ResourceKind != "" {
		b.WriteString(": resource ")
		if e.Name != "" {
			fmt.Fprintf(&b, "%q", e.Name)
		}
		if e.ResourceKind != "" {
			if e.Name != "" {
				b.WriteByte(' ')
			}
			b.WriteByte('(')
			b.WriteString(e.ResourceKind)
			b.WriteByte(')')
		}
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. Two Errors match when
// their kinds are equal, so sentinel values like &Error{Kind:
// KindNotFound} work with the standard errors.Is.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}

// Convenience constructors for the module's error taxonomy.

// DuplicateIdentity signals registration under an identity that is
// already live.
func DuplicateIdentity(name, kind string) *Error {
	return &Error{
		Kind:         KindDuplicateIdentity,
		Name:         name,
		ResourceKind: kind,
		Detail:       "identity already registered",
	}
}

// NotFound signals a lookup, mutation, or removal against an unknown
// identity.
func NotFound(name, kind string) *Error {
	return &Error{
		Kind:         KindNotFound,
		Name:         name,
		ResourceKind: kind,
		Detail:       "no such resource",
	}
}

// KindMismatch signals that an identity is live but its recorded kind
// differs from what the caller expected.
func KindMismatch(name, want, got string) *Error {
	return &Error{
		Kind:         KindKindMismatch,
		Name:         name,
		ResourceKind: got,
		Detail:       fmt.Sprintf("expected kind %q, stored kind is %q", want, got),
	}
}

// EventNotFound signals resolution or acknowledgement of an event
// that was never raised or was already acknowledged.
func EventNotFound(name, kind string) *Error {
	return &Error{
		Kind:         KindEventNotFound,
		Name:         name,
		ResourceKind: kind,
		Detail:       "no pending event for identity",
	}
}

// Busy signals an operation that cannot run while the resource's
// handle is borrowed.
func Busy(name, kind, detail string) *Error {
	return &Error{
		Kind:         KindBusy,
		Name:         name,
		ResourceKind: kind,
		Detail:       detail,
	}
}

// Wrap attaches a cause and detail to a kind.
func Wrap(kind Kind, cause error, detail string) *Error {
	return &Error{
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
