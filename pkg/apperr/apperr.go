// Package apperr defines the tagged error kinds returned by the ledger,
// lifecycle and review operations.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState is returned when an entity is not in a state that allows the operation.
	ErrInvalidState = errors.New("invalid state")

	// ErrInsufficientFunds is returned when a debit would drive a balance below zero.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrValidation is returned for malformed input, e.g. a rating out of range.
	ErrValidation = errors.New("validation error")

	// ErrContention is returned when the atomic update scope could not be obtained.
	// Callers may retry it with backoff.
	ErrContention = errors.New("contention")

	// ErrPersistence is returned for repository-level failures.
	ErrPersistence = errors.New("persistence failure")
)

// Kind labels, used for metrics and API error bodies.
const (
	KindNotFound          = "not_found"
	KindInvalidState      = "invalid_state"
	KindInsufficientFunds = "insufficient_funds"
	KindValidation        = "validation_error"
	KindContention        = "contention"
	KindPersistence       = "persistence_failure"
	KindUnknown           = "unknown"
	KindOK                = "ok"
)

// StateError reports a rejected state transition together with the state the
// entity was actually in.
type StateError struct {
	Entity  string
	ID      string
	Current string
	Op      string
	Allowed []string
}

func (e *StateError) Error() string {
	msg := fmt.Sprintf("%s: cannot %s %s %s in state %q", ErrInvalidState, e.Op, e.Entity, e.ID, e.Current)
	if len(e.Allowed) > 0 {
		msg += fmt.Sprintf(" (allowed from: %s)", strings.Join(e.Allowed, ", "))
	}
	return msg
}

// Is makes errors.Is(err, ErrInvalidState) hold for every StateError.
func (e *StateError) Is(target error) bool {
	return target == ErrInvalidState
}

// FundsError reports a debit that was rejected for lack of credits.
type FundsError struct {
	AccountID string
	Balance   int64
	Requested int64
}

func (e *FundsError) Error() string {
	return fmt.Sprintf("%s: account %s has %d credits, %d requested", ErrInsufficientFunds, e.AccountID, e.Balance, e.Requested)
}

func (e *FundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// Validation builds an ErrValidation with a formatted reason.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFound builds an ErrNotFound for the given entity.
func NotFound(entity, id string) error {
	return fmt.Errorf("%s %s %w", entity, id, ErrNotFound)
}

// Persistence tags a backend error as a persistence failure, keeping the
// original error in the chain.
func Persistence(msg string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, msg, err)
}

// Retryable reports whether the caller may retry the operation as-is.
func Retryable(err error) bool {
	return errors.Is(err, ErrContention)
}

// Kind returns the label of the error kind in err's chain.
func Kind(err error) string {
	switch {
	case err == nil:
		return KindOK
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidState):
		return KindInvalidState
	case errors.Is(err, ErrInsufficientFunds):
		return KindInsufficientFunds
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrContention):
		return KindContention
	case errors.Is(err, ErrPersistence):
		return KindPersistence
	default:
		return KindUnknown
	}
}
