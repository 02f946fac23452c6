// Package coreerr defines the error vocabulary shared by the versioning
// core: a sentinel-wrapped *Error for conditions callers should handle,
// and a typed panic for invariant violations that only the CLI boundary
// may recover.
package coreerr

import (
	"errors"
	"fmt"
)

// Kind classifies an Error for errors.Is-style matching.
type Kind int

const (
	// KindOutOfRange marks a line number or timeline index outside
	// current bounds.
	KindOutOfRange Kind = iota
	// KindOverlap marks a rejected create_child call: the requested
	// range overlaps an existing sibling.
	KindOverlap
	// KindNotFound marks an unknown id.
	KindNotFound
	// KindStorageError marks a failure surfaced from the store.
	KindStorageError
	// KindConflict marks a rejected create_tag call: the requested name
	// is already taken.
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindOutOfRange:
		return "out_of_range"
	case KindOverlap:
		return "overlap"
	case KindNotFound:
		return "not_found"
	case KindStorageError:
		return "storage_error"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Sentinels one per Kind, so callers can `errors.Is(err, coreerr.ErrNotFound)`
// without reaching into the *Error value.
var (
	ErrOutOfRange = errors.New("out of range")
	ErrOverlap    = errors.New("overlap")
	ErrNotFound   = errors.New("not found")
	ErrStorage    = errors.New("storage error")
	ErrConflict   = errors.New("conflict")
)

func sentinelFor(kind Kind) error {
	switch kind {
	case KindOutOfRange:
		return ErrOutOfRange
	case KindOverlap:
		return ErrOverlap
	case KindNotFound:
		return ErrNotFound
	case KindStorageError:
		return ErrStorage
	case KindConflict:
		return ErrConflict
	default:
		return errors.New("unknown error kind")
	}
}

// Error is the core's error type. Op names the failing operation
// (e.g. "block.create_child"); Kind classifies it; Err carries any
// underlying cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}

	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

// Unwrap exposes both the Kind sentinel and the wrapped cause to
// errors.Is/errors.As.
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{sentinelFor(e.Kind), e.Err}
	}

	return []error{sentinelFor(e.Kind)}
}

// New builds an Error of the given kind for operation op, optionally
// wrapping cause (may be nil).
func New(kind Kind, op string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Err: cause}
}

// OutOfRange is a convenience constructor for the common case.
func OutOfRange(op string, cause error) *Error { return New(KindOutOfRange, op, cause) }

// Overlap is a convenience constructor for the common case.
func Overlap(op string, cause error) *Error { return New(KindOverlap, op, cause) }

// NotFound is a convenience constructor for the common case.
func NotFound(op string, cause error) *Error { return New(KindNotFound, op, cause) }

// Storage is a convenience constructor for the common case.
func Storage(op string, cause error) *Error { return New(KindStorageError, op, cause) }

// Conflict is a convenience constructor for the common case.
func Conflict(op string, cause error) *Error { return New(KindConflict, op, cause) }

// InvariantViolation is panicked, never returned, when the core detects a
// state that should be structurally impossible (e.g. a File finding no
// order-key room between two neighbors even after renumbering). internal/ package
// APIs never recover it; only cmd/lineforge's command dispatch does, so a
// library embedder sees the crash instead of a silently swallowed error.
type InvariantViolation struct {
	Op  string
	Err error
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation in %s: %v", e.Op, e.Err)
}

func (e *InvariantViolation) Unwrap() error { return e.Err }

// PanicInvariant raises an InvariantViolation for operation op.
func PanicInvariant(op string, cause error) {
	panic(&InvariantViolation{Op: op, Err: cause})
}

// Recover turns a panicked *InvariantViolation into a returned error. It is
// meant to be called via `defer coreerr.Recover(&err)` at the single
// recovery boundary (cmd/lineforge's command dispatch); any other panic
// value is re-raised.
func Recover(errOut *error) {
	r := recover()
	if r == nil {
		return
	}

	iv, ok := r.(*InvariantViolation)
	if !ok {
		panic(r)
	}

	*errOut = iv
}
