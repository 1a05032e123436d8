package booking

import (
	"context"
	"time"

	"github.com/iliyamo/coworking-room-reservation/internal/model"
)

// dayLayout is the wire and storage format for calendar days.
const dayLayout = "2006-01-02"

// RoomStore is the read view of the room registry the admission
// controller needs.  The MySQL repository implements it; tests use an
// in-memory fake.
type RoomStore interface {
	// GetByID returns the room or ErrRoomNotFound.
	GetByID(ctx context.Context, id uint64) (model.Room, error)
}

// Ledger is the authoritative store of reservation entries.  Insert
// must be atomic: no partial row may become visible to a concurrent
// reader.  SetStatus must be a compare-and-set on the current status so
// a lost race surfaces as ErrInvalidTransition instead of silently
// overwriting a concurrent transition.
type Ledger interface {
	// ConfirmedIntervals returns the time windows of all CONFIRMED
	// entries for a room and day.  This is the consistent snapshot every
	// admission decision is based on.
	ConfirmedIntervals(ctx context.Context, roomID uint64, day string) ([]Interval, error)
	// Insert appends a new entry and populates its ID and CreatedAt.
	Insert(ctx context.Context, e *model.Reservation) error
	// GetByID returns the entry or ErrReservationNotFound.
	GetByID(ctx context.Context, id uint64) (model.Reservation, error)
	// SetStatus transitions an entry from one status to another.
	SetStatus(ctx context.Context, id uint64, from, to string) error
}

// Policy carries the deployment's booking rules.  Operating hours bound
// every reservation window; ManualApproval switches submissions from
// auto-confirmed to pending-until-approved.  The product historically
// ran both modes at different times, so the choice is a single explicit
// flag rather than two coexisting code paths.
type Policy struct {
	OpenMin        int  // first bookable minute of the day
	CloseMin       int  // reservations must end at or before this minute
	ManualApproval bool // insert as PENDING and require admin approval
	SlotMinutes    int  // granularity of the availability grid
}

// Actor identifies the user performing an operation.  The role comes
// from the verified JWT; the core trusts it and performs no credential
// checks of its own.
type Actor struct {
	ID    uint64
	Admin bool
}

// SubmitRequest is a reservation attempt as received from the API
// layer, already reduced to minutes-from-midnight bounds.
type SubmitRequest struct {
	RoomID    uint64
	Day       string // YYYY-MM-DD
	Start     int
	End       int
	Requester uint64
}

// Slot is one cell of the availability grid returned for a room/day.
type Slot struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Available bool   `json:"available"`
}

// Service is the booking admission controller.  It validates input,
// consults the conflict detector under a per-(room, day) exclusion
// scope and commits or rejects atomically.  A single Service instance
// is shared by all HTTP handlers; all methods are safe for concurrent
// use.
type Service struct {
	rooms  RoomStore
	ledger Ledger
	locks  *KeyLock
	policy Policy
	now    func() time.Time
}

// NewService constructs the admission controller.  It panics on nil
// stores since the service is wired once at startup.
func NewService(rooms RoomStore, ledger Ledger, policy Policy) *Service {
	if rooms == nil || ledger == nil {
		panic("nil store passed to booking.NewService")
	}
	if policy.SlotMinutes <= 0 {
		policy.SlotMinutes = 30
	}
	return &Service{
		rooms:  rooms,
		ledger: ledger,
		locks:  NewKeyLock(),
		policy: policy,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Submit decides a reservation request.  On success the returned entry
// is CONFIRMED (or PENDING in manual-approval mode) and already
// persisted.  The read-check-insert sequence runs under the
// per-(room, day) lock, so two concurrent submissions for overlapping
// windows on the same room and day can never both succeed.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (model.Reservation, error) {
	var none model.Reservation

	day, err := time.Parse(dayLayout, req.Day)
	if err != nil {
		return none, validationf("invalid date %q, expected YYYY-MM-DD", req.Day)
	}
	if err := s.validateWindow(req.Start, req.End); err != nil {
		return none, err
	}
	if err := s.rejectPast(day, req.Start); err != nil {
		return none, err
	}

	room, err := s.rooms.GetByID(ctx, req.RoomID)
	if err != nil {
		return none, err
	}
	if !room.Enabled {
		return none, validationf("room %q is not open for booking", room.Name)
	}

	unlock := s.locks.Lock(admissionKey(req.RoomID, req.Day))
	defer unlock()

	confirmed, err := s.ledger.ConfirmedIntervals(ctx, req.RoomID, req.Day)
	if err != nil {
		return none, err
	}
	if HasConflict(confirmed, Interval{Start: req.Start, End: req.End}) {
		return none, ErrConflict
	}

	status := StatusConfirmed
	if s.policy.ManualApproval {
		status = StatusPending
	}
	entry := model.Reservation{
		RoomID:      req.RoomID,
		RequesterID: req.Requester,
		Day:         req.Day,
		StartMin:    req.Start,
		EndMin:      req.End,
		Status:      status,
	}
	if err := s.ledger.Insert(ctx, &entry); err != nil {
		return none, err
	}
	return entry, nil
}

// Cancel transitions an entry to CANCELLED on behalf of its requester
// or an admin.  Cancelling an already-cancelled entry is a no-op
// success, making retries safe.  Non-admin callers may only cancel
// entries that have not started yet.
func (s *Service) Cancel(ctx context.Context, entryID uint64, actor Actor) error {
	e, err := s.ledger.GetByID(ctx, entryID)
	if err != nil {
		return err
	}
	if !actor.Admin && e.RequesterID != actor.ID {
		return ErrForbidden
	}
	if e.Status == StatusCancelled {
		return nil
	}
	if !actor.Admin {
		day, err := time.Parse(dayLayout, e.Day)
		if err == nil {
			if s.started(day, e.StartMin) {
				return validationf("reservation has already started and cannot be cancelled")
			}
		}
	}
	return s.ledger.SetStatus(ctx, e.ID, e.Status, StatusCancelled)
}

// AdminCancel is the forced cancellation path: same terminal
// transition, no ownership check and no upcoming-only restriction.
func (s *Service) AdminCancel(ctx context.Context, entryID uint64) error {
	return s.Cancel(ctx, entryID, Actor{Admin: true})
}

// Approve confirms a pending entry.  The conflict check is re-run
// under the same exclusion scope as Submit, because other entries may
// have been confirmed for the window while this one sat pending.
func (s *Service) Approve(ctx context.Context, entryID uint64) error {
	e, err := s.ledger.GetByID(ctx, entryID)
	if err != nil {
		return err
	}
	if e.Status == StatusConfirmed {
		return nil
	}
	if !CanTransition(e.Status, StatusConfirmed) {
		return ErrInvalidTransition
	}

	unlock := s.locks.Lock(admissionKey(e.RoomID, e.Day))
	defer unlock()

	confirmed, err := s.ledger.ConfirmedIntervals(ctx, e.RoomID, e.Day)
	if err != nil {
		return err
	}
	if HasConflict(confirmed, Interval{Start: e.StartMin, End: e.EndMin}) {
		return ErrConflict
	}
	return s.ledger.SetStatus(ctx, e.ID, StatusPending, StatusConfirmed)
}

// Reject cancels a pending entry during manual review.  Rejecting an
// entry that is already cancelled is a no-op success.
func (s *Service) Reject(ctx context.Context, entryID uint64) error {
	e, err := s.ledger.GetByID(ctx, entryID)
	if err != nil {
		return err
	}
	if e.Status == StatusCancelled {
		return nil
	}
	if !CanTransition(e.Status, StatusCancelled) {
		return ErrInvalidTransition
	}
	return s.ledger.SetStatus(ctx, e.ID, e.Status, StatusCancelled)
}

// Availability derives the slot grid for a room and day from the
// confirmed ledger entries.  The grid spans the operating hours in
// Policy.SlotMinutes steps; a slot is available when no confirmed
// window overlaps it.  This is the only occupancy view the system
// exposes; the room's Enabled flag is never consulted here, nor
// updated from bookings.
func (s *Service) Availability(ctx context.Context, roomID uint64, dayStr string) ([]Slot, error) {
	if _, err := time.Parse(dayLayout, dayStr); err != nil {
		return nil, validationf("invalid date %q, expected YYYY-MM-DD", dayStr)
	}
	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		return nil, err
	}
	confirmed, err := s.ledger.ConfirmedIntervals(ctx, roomID, dayStr)
	if err != nil {
		return nil, err
	}
	slots := make([]Slot, 0, (s.policy.CloseMin-s.policy.OpenMin)/s.policy.SlotMinutes)
	for t := s.policy.OpenMin; t+s.policy.SlotMinutes <= s.policy.CloseMin; t += s.policy.SlotMinutes {
		cell := Interval{Start: t, End: t + s.policy.SlotMinutes}
		slots = append(slots, Slot{
			Start:     FormatClock(cell.Start),
			End:       FormatClock(cell.End),
			Available: !HasConflict(confirmed, cell),
		})
	}
	return slots, nil
}

// validateWindow enforces the static interval rules: well-formed
// bounds, non-zero length and containment in the operating hours.
func (s *Service) validateWindow(start, end int) error {
	if start < 0 || end > minutesPerDay {
		return validationf("time window out of range")
	}
	if start >= end {
		return validationf("end time must be after start time")
	}
	if start < s.policy.OpenMin || end > s.policy.CloseMin {
		return validationf("reservations are only accepted between %s and %s",
			FormatClock(s.policy.OpenMin), FormatClock(s.policy.CloseMin))
	}
	return nil
}

// rejectPast refuses windows that begin in the past relative to
// submission time.  Same-day future times are allowed.
func (s *Service) rejectPast(day time.Time, start int) error {
	if s.started(day, start) {
		return validationf("reservation date and time must be in the future")
	}
	return nil
}

// started reports whether the instant (day, start minutes) is at or
// before the current time.
func (s *Service) started(day time.Time, start int) bool {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	switch {
	case day.Before(today):
		return true
	case day.After(today):
		return false
	default:
		return start <= now.Hour()*60+now.Minute()
	}
}
