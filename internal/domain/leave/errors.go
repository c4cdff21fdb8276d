package leave

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("leave: request not found")
	// ErrUnauthorized replaces the source system's silent redirect for
	// actors lacking the role for a transition.
	ErrUnauthorized = errors.New("leave: actor not allowed")
	// ErrInvalidTransition is returned when a request is no longer in a
	// state the attempted transition accepts, including losing a
	// compare-and-set race to another approver.
	ErrInvalidTransition = errors.New("leave: invalid state transition")
	// ErrConcurrencyConflict signals a ledger debit that lost a race and
	// must be retried after re-reading the balance.
	ErrConcurrencyConflict = errors.New("leave: balance update conflict")
)

type ValidationKind string

const (
	InvalidDateOrder    ValidationKind = "InvalidDateOrder"
	InsufficientBalance ValidationKind = "InsufficientBalance"
	MissingAttachment   ValidationKind = "MissingAttachment"
	OutOfRange          ValidationKind = "OutOfRange"
)

// ValidationError carries a user-correctable rejection of a submission. The
// message is surfaced verbatim to the caller's form.
type ValidationError struct {
	Kind    ValidationKind
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func validationErr(kind ValidationKind, field, format string, args ...any) *ValidationError {
	return &ValidationError{Kind: kind, Field: field, Message: fmt.Sprintf(format, args...)}
}
