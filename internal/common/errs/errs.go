package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a business failure so call sites and the HTTP layer can
// branch on it without string matching.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalidTransition
	KindInsufficientCapacity
	KindDuplicateBid
	KindConcurrencyConflict
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidTransition:
		return "invalid_transition"
	case KindInsufficientCapacity:
		return "insufficient_capacity"
	case KindDuplicateBid:
		return "duplicate_bid"
	case KindConcurrencyConflict:
		return "concurrency_conflict"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Error is the typed business error returned by every service operation.
type Error struct {
	Kind   Kind
	Entity string
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	if e.Entity != "" {
		return fmt.Sprintf("%s: %s", e.Entity, e.Msg)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of err, or KindUnknown for untyped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given Kind.
func Is(err error, k Kind) bool {
	return KindOf(err) == k
}

func NotFound(entity, id string) error {
	return &Error{Kind: KindNotFound, Entity: entity, Msg: fmt.Sprintf("not found with id %s", id)}
}

func InvalidTransition(entity, status, action string) error {
	return &Error{Kind: KindInvalidTransition, Entity: entity, Msg: fmt.Sprintf("cannot %s while in status %s", action, status)}
}

func InsufficientCapacity(truckType string, requested, available int) error {
	return &Error{
		Kind:   KindInsufficientCapacity,
		Entity: "CapacityPool",
		Msg:    fmt.Sprintf("insufficient %s trucks: requested %d, available %d", truckType, requested, available),
	}
}

func DuplicateBid(loadID, transporterID string) error {
	return &Error{
		Kind:   KindDuplicateBid,
		Entity: "Bid",
		Msg:    fmt.Sprintf("transporter %s already has a bid on load %s", transporterID, loadID),
	}
}

func ConcurrencyConflict(entity, msg string) error {
	return &Error{Kind: KindConcurrencyConflict, Entity: entity, Msg: msg}
}

func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// Conflictf marks a failure where the requested mutation clashes with already
// committed state, e.g. a second booking attempt against the same bid.
func Conflictf(entity, format string, args ...any) error {
	return &Error{Kind: KindConcurrencyConflict, Entity: entity, Msg: fmt.Sprintf(format, args...)}
}
