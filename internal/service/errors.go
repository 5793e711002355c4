// Package service implements the group-order coordination core: the order
// lifecycle state machine, the participant join/leave protocol, the per-item
// mutation ledger with price recomputation, summary aggregation, the
// modification audit trail with its permission window, and the background
// expiration sweep.  Expected business-rule failures are returned as the
// typed errors below, never as panics; HTTP and other transport layers map
// them to their own error surface with errors.Is / errors.As.
package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/neotai/Order-page/internal/model"
)

// ErrParticipantNotFound is returned when an order has no participant with
// the given id.
var ErrParticipantNotFound = errors.New("participant not found")

// ErrItemNotFound is returned when a participant has no item with the given id.
var ErrItemNotFound = errors.New("order item not found")

// ErrPermissionDenied is returned when a caller attempts an action reserved
// for someone else, such as a non-creator closing an order.  It is never
// retried and is surfaced to the caller as-is.
var ErrPermissionDenied = errors.New("permission denied")

// ErrCapacityExceeded is returned when a join would push an order past its
// max participant setting.  It is deliberately distinct from ConflictError
// so callers can tell "order full" apart from "nickname taken".
var ErrCapacityExceeded = errors.New("order capacity exceeded")

// ConflictError reports a uniqueness violation during join.  Reason is a
// machine readable code ("nickname_taken", "already_joined") so the caller
// can offer alternatives.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s", e.Reason)
}

// StateError reports a mutation attempted against an order that no longer
// accepts it: the order is closed or expired, or its deadline has passed.
// Status carries the order's current state; Remaining carries the time left
// until the deadline when one exists and has not yet passed.
type StateError struct {
	Status    model.OrderStatus
	Reason    string
	Remaining time.Duration
}

func (e *StateError) Error() string {
	return fmt.Sprintf("order not modifiable: %s (status=%s)", e.Reason, e.Status)
}

// ValidationError reports malformed input rejected before any state was
// touched, such as a non-positive quantity or a bad nickname.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

// notActiveError builds the StateError for a mutation against an order in a
// terminal state.
func notActiveError(o *model.Order) *StateError {
	return &StateError{Status: o.Status, Reason: "order is " + string(o.Status)}
}

// deadlinePassedError builds the StateError for a mutation after the
// order's deadline.
func deadlinePassedError(o *model.Order) *StateError {
	return &StateError{Status: o.Status, Reason: "deadline passed"}
}
