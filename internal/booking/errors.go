// Package booking implements the room-availability check and the
// booking lifecycle state machine. All mutations go through Service,
// which evaluates authorization and state preconditions before writing
// and serializes check-then-write sequences per room.
package booking

import "errors"

// Sentinel errors returned by Service and by Store implementations.
// Handlers translate them into HTTP responses; anything else coming out
// of a Service method is an unexpected storage failure and maps to 500.
var (
	// ErrRoomNotFound is returned when the referenced room does not exist.
	ErrRoomNotFound = errors.New("room not found")

	// ErrBookingNotFound is returned when the referenced booking does not exist.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrInvalidInterval is returned when a candidate interval does not
	// satisfy end > start. This is caught before the availability check runs.
	ErrInvalidInterval = errors.New("end time must be after start time")

	// ErrConflict is returned when the candidate interval overlaps an
	// existing pending or approved booking on the same room.
	ErrConflict = errors.New("room is not available for the selected time slot")

	// ErrForbidden is returned when the actor is neither the booking's
	// owner nor an administrator, or lacks the role a transition requires.
	ErrForbidden = errors.New("forbidden")

	// ErrImmutableState is returned when an edit or delete targets a
	// booking whose state no longer permits it (approved for the owner,
	// rejected for edits).
	ErrImmutableState = errors.New("booking state does not permit this change")

	// ErrAlreadyInState is returned by Approve/Reject when the booking is
	// already in the requested terminal state. The guard exists so that
	// repeated admin clicks do not emit duplicate lifecycle events.
	ErrAlreadyInState = errors.New("booking already in requested state")
)
