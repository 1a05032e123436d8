// Package booking implements the room-booking admission core: interval
// conflict detection, the reservation status machine and the admission
// controller that decides which reservation requests are committed to
// the ledger.  Every operation returns a definite, typed outcome so
// callers branch on error identity, never on message text.
package booking

import (
	"errors"
	"fmt"
)

// ErrConflict is returned when a candidate time window overlaps an
// existing confirmed reservation on the same room and day.  It is a
// first-class outcome rather than a failure; callers are expected to
// handle it as a normal branch and offer an alternative slot.
var ErrConflict = errors.New("room not available for the selected time")

// ErrRoomNotFound is returned when the referenced room does not exist.
var ErrRoomNotFound = errors.New("room not found")

// ErrReservationNotFound is returned when the referenced ledger entry
// does not exist.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrForbidden is returned when the acting user lacks the rights to
// mutate an entry, e.g. cancelling someone else's reservation without
// the admin role.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidTransition is returned when a status change is requested
// that the reservation state machine does not allow, such as
// re-confirming a cancelled entry.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrUnavailable marks infrastructure failures (ledger or registry
// unreachable).  Callers may retry with backoff; the core guarantees no
// partial state was committed when this is returned.
var ErrUnavailable = errors.New("storage unavailable")

// ValidationError reports malformed or policy-violating input: a bad
// interval, a disabled room, an unknown branch, a past date.  It is
// never retried automatically and is surfaced to the caller verbatim.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// validationf builds a ValidationError from a format string.
func validationf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
