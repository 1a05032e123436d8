package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/iliyamo/coworking-room-reservation/internal/model"
)

// fakeRooms is an in-memory room registry for admission tests.
type fakeRooms struct {
	mu    sync.Mutex
	rooms map[uint64]model.Room
}

func (f *fakeRooms) GetByID(_ context.Context, id uint64) (model.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rooms[id]
	if !ok {
		return model.Room{}, ErrRoomNotFound
	}
	return r, nil
}

// fakeLedger is an in-memory reservations ledger.  It mirrors the
// contract of the MySQL repository: atomic appends and compare-and-set
// status writes.
type fakeLedger struct {
	mu      sync.Mutex
	nextID  uint64
	entries map[uint64]model.Reservation
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{nextID: 1, entries: make(map[uint64]model.Reservation)}
}

func (f *fakeLedger) ConfirmedIntervals(_ context.Context, roomID uint64, day string) ([]Interval, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Interval
	for _, e := range f.entries {
		if e.RoomID == roomID && e.Day == day && e.Status == StatusConfirmed {
			out = append(out, Interval{Start: e.StartMin, End: e.EndMin})
		}
	}
	return out, nil
}

func (f *fakeLedger) Insert(_ context.Context, e *model.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = f.nextID
	f.nextID++
	e.CreatedAt = time.Now().UTC()
	f.entries[e.ID] = *e
	return nil
}

func (f *fakeLedger) GetByID(_ context.Context, id uint64) (model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[id]
	if !ok {
		return model.Reservation{}, ErrReservationNotFound
	}
	return e, nil
}

func (f *fakeLedger) SetStatus(_ context.Context, id uint64, from, to string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[id]
	if !ok {
		return ErrReservationNotFound
	}
	if e.Status != from || !CanTransition(from, to) {
		return ErrInvalidTransition
	}
	e.Status = to
	f.entries[id] = e
	return nil
}

// testNow is the fixed submission instant used by every test:
// 2026-09-01 07:00 UTC, one hour before opening.
var testNow = time.Date(2026, 9, 1, 7, 0, 0, 0, time.UTC)

const testDay = "2026-09-01"

func newTestService(policy Policy) (*Service, *fakeLedger) {
	rooms := &fakeRooms{rooms: map[uint64]model.Room{
		1: {ID: 1, Name: "Innovation Hub", Location: "Agadir", Capacity: 8, Enabled: true},
		2: {ID: 2, Name: "Creative Studio", Location: "Marrakech", Capacity: 10, Enabled: true},
		3: {ID: 3, Name: "Boardroom Prime", Location: "Casablanca", Capacity: 16, Enabled: false},
	}}
	ledger := newFakeLedger()
	if policy.OpenMin == 0 && policy.CloseMin == 0 {
		policy.OpenMin = 480   // 08:00
		policy.CloseMin = 1200 // 20:00
	}
	svc := NewService(rooms, ledger, policy)
	svc.now = func() time.Time { return testNow }
	return svc, ledger
}

func submit(t *testing.T, svc *Service, roomID uint64, start, end int) (model.Reservation, error) {
	t.Helper()
	return svc.Submit(context.Background(), SubmitRequest{
		RoomID: roomID, Day: testDay, Start: start, End: end, Requester: 7,
	})
}

func mustSubmit(t *testing.T, svc *Service, roomID uint64, start, end int) model.Reservation {
	t.Helper()
	e, err := submit(t, svc, roomID, start, end)
	if err != nil {
		t.Fatalf("submit [%s,%s) room %d: %v", FormatClock(start), FormatClock(end), roomID, err)
	}
	return e
}

func TestSubmitAutoConfirms(t *testing.T) {
	svc, _ := newTestService(Policy{})
	e := mustSubmit(t, svc, 1, 540, 600)
	if e.Status != StatusConfirmed {
		t.Fatalf("status = %s, want %s", e.Status, StatusConfirmed)
	}
	if e.ID == 0 {
		t.Fatal("submit did not allocate an entry id")
	}
}

func TestExactOverlapRejected(t *testing.T) {
	svc, _ := newTestService(Policy{})
	mustSubmit(t, svc, 1, 540, 600)
	if _, err := submit(t, svc, 1, 540, 600); !errors.Is(err, ErrConflict) {
		t.Fatalf("second identical submit: err = %v, want ErrConflict", err)
	}
}

func TestPartialOverlapRejected(t *testing.T) {
	svc, _ := newTestService(Policy{})
	mustSubmit(t, svc, 1, 540, 660) // [09:00,11:00)

	if _, err := submit(t, svc, 1, 600, 720); !errors.Is(err, ErrConflict) {
		t.Fatalf("candidate [10:00,12:00): err = %v, want ErrConflict", err)
	}
	// Ends exactly when the existing booking starts.
	mustSubmit(t, svc, 1, 480, 540) // [08:00,09:00)
}

func TestBackToBackIsNotAConflict(t *testing.T) {
	svc, _ := newTestService(Policy{})
	mustSubmit(t, svc, 1, 540, 600) // [09:00,10:00)
	mustSubmit(t, svc, 1, 600, 660) // [10:00,11:00)
}

func TestCrossRoomIndependence(t *testing.T) {
	svc, _ := newTestService(Policy{})
	mustSubmit(t, svc, 1, 540, 600)
	mustSubmit(t, svc, 2, 540, 600)
}

func TestConcurrentSubmitsAdmitExactlyOne(t *testing.T) {
	svc, _ := newTestService(Policy{})
	const attempts = 40

	var wg sync.WaitGroup
	errs := make([]error, attempts)
	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = submit(t, svc, 1, 540, 600)
		}(i)
	}
	wg.Wait()

	var ok, conflict int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrConflict):
			conflict++
		default:
			t.Fatalf("unexpected error kind: %v", err)
		}
	}
	if ok != 1 {
		t.Fatalf("%d concurrent identical submits succeeded, want exactly 1", ok)
	}
	if conflict != attempts-1 {
		t.Fatalf("conflict count = %d, want %d", conflict, attempts-1)
	}
}

func TestCancellationFreesTheSlot(t *testing.T) {
	svc, _ := newTestService(Policy{})
	e := mustSubmit(t, svc, 1, 540, 600)

	if err := svc.Cancel(context.Background(), e.ID, Actor{ID: 7}); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	// The window is free again for anyone.
	mustSubmit(t, svc, 1, 540, 600)
}

func TestCancelIsIdempotent(t *testing.T) {
	svc, ledger := newTestService(Policy{})
	e := mustSubmit(t, svc, 1, 540, 600)
	other := mustSubmit(t, svc, 1, 660, 720)

	for i := 0; i < 3; i++ {
		if err := svc.Cancel(context.Background(), e.ID, Actor{ID: 7}); err != nil {
			t.Fatalf("cancel attempt %d: %v", i+1, err)
		}
	}
	got, err := ledger.GetByID(context.Background(), other.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != StatusConfirmed {
		t.Fatalf("unrelated entry status = %s, want %s", got.Status, StatusConfirmed)
	}
}

func TestCancelByStrangerForbidden(t *testing.T) {
	svc, ledger := newTestService(Policy{})
	e := mustSubmit(t, svc, 1, 540, 600)

	err := svc.Cancel(context.Background(), e.ID, Actor{ID: 99})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger cancel: err = %v, want ErrForbidden", err)
	}
	got, _ := ledger.GetByID(context.Background(), e.ID)
	if got.Status != StatusConfirmed {
		t.Fatalf("entry status changed to %s after forbidden cancel", got.Status)
	}
}

func TestAdminCancelBypassesOwnership(t *testing.T) {
	svc, ledger := newTestService(Policy{})
	e := mustSubmit(t, svc, 1, 540, 600)

	if err := svc.AdminCancel(context.Background(), e.ID); err != nil {
		t.Fatalf("admin cancel: %v", err)
	}
	got, _ := ledger.GetByID(context.Background(), e.ID)
	if got.Status != StatusCancelled {
		t.Fatalf("status = %s, want %s", got.Status, StatusCancelled)
	}
}

func TestEntryWindowIsImmutable(t *testing.T) {
	svc, ledger := newTestService(Policy{})
	e := mustSubmit(t, svc, 1, 540, 600)
	if err := svc.Cancel(context.Background(), e.ID, Actor{ID: 7}); err != nil {
		t.Fatal(err)
	}
	got, _ := ledger.GetByID(context.Background(), e.ID)
	if got.RoomID != e.RoomID || got.Day != e.Day || got.StartMin != e.StartMin || got.EndMin != e.EndMin {
		t.Fatalf("cancel mutated the entry window: %+v vs %+v", got, e)
	}
}

func TestSubmitValidation(t *testing.T) {
	svc, _ := newTestService(Policy{})

	cases := []struct {
		name string
		req  SubmitRequest
	}{
		{"zero-length window", SubmitRequest{RoomID: 1, Day: testDay, Start: 540, End: 540, Requester: 7}},
		{"inverted window", SubmitRequest{RoomID: 1, Day: testDay, Start: 600, End: 540, Requester: 7}},
		{"before opening", SubmitRequest{RoomID: 1, Day: testDay, Start: 420, End: 540, Requester: 7}},
		{"past closing", SubmitRequest{RoomID: 1, Day: testDay, Start: 1140, End: 1260, Requester: 7}},
		{"past day", SubmitRequest{RoomID: 1, Day: "2026-08-31", Start: 540, End: 600, Requester: 7}},
		{"malformed day", SubmitRequest{RoomID: 1, Day: "31/08/2026", Start: 540, End: 600, Requester: 7}},
		{"disabled room", SubmitRequest{RoomID: 3, Day: testDay, Start: 540, End: 600, Requester: 7}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), tc.req)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
		})
	}
}

func TestSubmitSameDayPastTimeRejected(t *testing.T) {
	svc, _ := newTestService(Policy{CloseMin: 1200, OpenMin: 300})
	// testNow is 07:00; a window starting 06:00 the same day is gone.
	_, err := svc.Submit(context.Background(), SubmitRequest{
		RoomID: 1, Day: testDay, Start: 360, End: 420, Requester: 7,
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestSubmitUnknownRoom(t *testing.T) {
	svc, _ := newTestService(Policy{})
	_, err := submit(t, svc, 42, 540, 600)
	if !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("err = %v, want ErrRoomNotFound", err)
	}
}

func TestManualApprovalFlow(t *testing.T) {
	svc, ledger := newTestService(Policy{ManualApproval: true})

	first := mustSubmit(t, svc, 1, 540, 600)
	if first.Status != StatusPending {
		t.Fatalf("manual mode submit status = %s, want %s", first.Status, StatusPending)
	}
	// Pending entries never block admission.
	second := mustSubmit(t, svc, 1, 540, 600)

	if err := svc.Approve(context.Background(), first.ID); err != nil {
		t.Fatalf("approve first: %v", err)
	}
	// Approving the overlapping second entry must now hit the re-check.
	if err := svc.Approve(context.Background(), second.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("approve overlapping pending: err = %v, want ErrConflict", err)
	}
	if err := svc.Reject(context.Background(), second.ID); err != nil {
		t.Fatalf("reject second: %v", err)
	}
	got, _ := ledger.GetByID(context.Background(), second.ID)
	if got.Status != StatusCancelled {
		t.Fatalf("rejected entry status = %s, want %s", got.Status, StatusCancelled)
	}
	// A cancelled entry can never come back.
	if err := svc.Approve(context.Background(), second.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("approve cancelled: err = %v, want ErrInvalidTransition", err)
	}
	// Approving an already-confirmed entry is a no-op success.
	if err := svc.Approve(context.Background(), first.ID); err != nil {
		t.Fatalf("approve confirmed: %v", err)
	}
}

func TestAvailabilityGrid(t *testing.T) {
	svc, _ := newTestService(Policy{})
	mustSubmit(t, svc, 1, 540, 600) // [09:00,10:00)

	slots, err := svc.Availability(context.Background(), 1, testDay)
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if len(slots) != 24 { // 08:00..20:00 in 30-minute steps
		t.Fatalf("slot count = %d, want 24", len(slots))
	}
	byStart := make(map[string]Slot, len(slots))
	for _, s := range slots {
		byStart[s.Start] = s
	}
	for start, wantFree := range map[string]bool{
		"08:30": true,
		"09:00": false,
		"09:30": false,
		"10:00": true,
	} {
		s, ok := byStart[start]
		if !ok {
			t.Fatalf("missing slot starting at %s", start)
		}
		if s.Available != wantFree {
			t.Errorf("slot %s available = %v, want %v", start, s.Available, wantFree)
		}
	}
}

func TestAvailabilityUnknownRoom(t *testing.T) {
	svc, _ := newTestService(Policy{})
	if _, err := svc.Availability(context.Background(), 42, testDay); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("err = %v, want ErrRoomNotFound", err)
	}
}
