package model

import "time"

// Reservation is a single entry in the reservations ledger.  The ledger
// is append-only: once a row is written its room, day and time window
// never change, and cancellation is recorded as a status transition
// rather than a delete so the booking history stays auditable.
//
// The time window is a half-open interval [StartMin, EndMin) expressed
// in minutes from midnight of Day.  An entry ending at 10:00 therefore
// never conflicts with one starting at 10:00.
//
// Fields:
//  ID          – primary key identifier.
//  RoomID      – room being reserved.
//  RequesterID – user who submitted the reservation.
//  Day         – calendar day in YYYY-MM-DD form.
//  StartMin    – start of the window, minutes from midnight (inclusive).
//  EndMin      – end of the window, minutes from midnight (exclusive).
//  Status      – PENDING, CONFIRMED or CANCELLED.
//  CreatedAt   – when the entry was appended to the ledger.
type Reservation struct {
	ID          uint64    // reservations.id
	RoomID      uint64    // reservations.room_id
	RequesterID uint64    // reservations.requester_id
	Day         string    // reservations.day (YYYY-MM-DD)
	StartMin    int       // reservations.start_min
	EndMin      int       // reservations.end_min
	Status      string    // reservations.status
	CreatedAt   time.Time // reservations.created_at
}
