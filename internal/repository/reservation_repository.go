package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/coworking-room-reservation/internal/booking"
	"github.com/iliyamo/coworking-room-reservation/internal/model"
)

// ReservationRepo is the MySQL implementation of the reservations
// ledger.  The table is append-only: rows are inserted once and only
// their status column is ever updated, via a compare-and-set so a lost
// race against a concurrent transition is reported instead of silently
// overwritten.  All timestamp columns are stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle for callers that need to open
// transactions spanning multiple repositories.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

// ConfirmedIntervals returns the [start,end) windows of every CONFIRMED
// entry for the room and day.  The admission controller calls this
// inside its per-(room, day) exclusion scope, so the snapshot it sees
// stays valid until its own insert commits.
func (r *ReservationRepo) ConfirmedIntervals(ctx context.Context, roomID uint64, day string) ([]booking.Interval, error) {
	const q = `SELECT start_min, end_min FROM reservations
	           WHERE room_id = ? AND day = ? AND status = ?`
	rows, err := r.db.QueryContext(ctx, q, roomID, day, booking.StatusConfirmed)
	if err != nil {
		return nil, infra("select confirmed intervals", err)
	}
	defer rows.Close()
	var out []booking.Interval
	for rows.Next() {
		var iv booking.Interval
		if err := rows.Scan(&iv.Start, &iv.End); err != nil {
			return nil, infra("scan interval", err)
		}
		out = append(out, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, infra("iterate intervals", err)
	}
	return out, nil
}

// Insert appends a new ledger entry and populates the generated ID and
// creation timestamp on the provided record.  The insert runs in its
// own transaction so no partial row is visible to concurrent readers.
func (r *ReservationRepo) Insert(ctx context.Context, e *model.Reservation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return infra("begin insert", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const q = `INSERT INTO reservations (room_id, requester_id, day, start_min, end_min, status)
	           VALUES (?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q, e.RoomID, e.RequesterID, e.Day, e.StartMin, e.EndMin, e.Status)
	if err != nil {
		return infra("insert reservation", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return infra("last insert id", err)
	}
	e.ID = uint64(id)
	// Query back the creation timestamp the database assigned.
	if err := tx.QueryRowContext(ctx, `SELECT created_at FROM reservations WHERE id = ?`, e.ID).
		Scan(&e.CreatedAt); err != nil {
		return infra("reload reservation", err)
	}
	if err := tx.Commit(); err != nil {
		return infra("commit insert", err)
	}
	committed = true
	return nil
}

// GetByID returns a single ledger entry or booking.ErrReservationNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
	const q = `SELECT id, room_id, requester_id, day, start_min, end_min, status, created_at
	           FROM reservations WHERE id = ?`
	var e model.Reservation
	var day time.Time
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&e.ID, &e.RoomID, &e.RequesterID, &day, &e.StartMin, &e.EndMin, &e.Status, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Reservation{}, booking.ErrReservationNotFound
		}
		return model.Reservation{}, infra("select reservation", err)
	}
	e.Day = day.Format("2006-01-02")
	return e, nil
}

// SetStatus performs the compare-and-set status transition.  When no
// row is updated the entry either does not exist or its status moved
// underneath us; the two cases map to distinct errors.
func (r *ReservationRepo) SetStatus(ctx context.Context, id uint64, from, to string) error {
	if !booking.CanTransition(from, to) {
		return booking.ErrInvalidTransition
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE reservations SET status = ? WHERE id = ? AND status = ?`, to, id, from)
	if err != nil {
		return infra("update status", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return infra("rows affected", err)
	}
	if n == 1 {
		return nil
	}
	var exists int
	err = r.db.QueryRowContext(ctx, `SELECT 1 FROM reservations WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return booking.ErrReservationNotFound
	}
	if err != nil {
		return infra("check reservation", err)
	}
	return booking.ErrInvalidTransition
}

// ReservationDetail is a ledger entry joined with its room for display
// to clients.  Times are rendered as HH:MM wall-clock strings.
type ReservationDetail struct {
	ID             uint64    `json:"id"`
	RoomID         uint64    `json:"room_id"`
	RoomName       string    `json:"room_name"`
	Location       string    `json:"location"`
	RequesterID    uint64    `json:"requester_id"`
	RequesterEmail string    `json:"requester_email,omitempty"`
	Day            string    `json:"date"`
	StartTime      string    `json:"start_time"`
	EndTime        string    `json:"end_time"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// ListByRequester returns all entries submitted by a user, newest
// first, optionally filtered by status.  An empty slice is returned
// when the user has no reservations.
func (r *ReservationRepo) ListByRequester(ctx context.Context, userID uint64, status string) ([]ReservationDetail, error) {
	q := `SELECT r.id, r.room_id, s.name, s.location, r.requester_id, r.day,
	             r.start_min, r.end_min, r.status, r.created_at
	      FROM reservations r
	      JOIN rooms s ON s.id = r.room_id
	      WHERE r.requester_id = ?`
	args := []interface{}{userID}
	if status != "" {
		q += ` AND r.status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY r.created_at DESC`
	return r.queryDetails(ctx, q, args...)
}

// AdminListFilter narrows the admin reservation listing.  Zero values
// mean "no restriction".
type AdminListFilter struct {
	Status    string
	RoomID    uint64
	Day       string
	Requester uint64
}

// ListForAdmin returns ledger entries across all users with the
// requester's email joined in, newest first.
func (r *ReservationRepo) ListForAdmin(ctx context.Context, f AdminListFilter) ([]ReservationDetail, error) {
	q := `SELECT r.id, r.room_id, s.name, s.location, r.requester_id, u.email, r.day,
	             r.start_min, r.end_min, r.status, r.created_at
	      FROM reservations r
	      JOIN rooms s ON s.id = r.room_id
	      JOIN users u ON u.id = r.requester_id`
	var conds []string
	var args []interface{}
	if f.Status != "" {
		conds = append(conds, "r.status = ?")
		args = append(args, f.Status)
	}
	if f.RoomID != 0 {
		conds = append(conds, "r.room_id = ?")
		args = append(args, f.RoomID)
	}
	if f.Day != "" {
		conds = append(conds, "r.day = ?")
		args = append(args, f.Day)
	}
	if f.Requester != 0 {
		conds = append(conds, "r.requester_id = ?")
		args = append(args, f.Requester)
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += ` ORDER BY r.created_at DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, infra("list reservations", err)
	}
	defer rows.Close()
	details := make([]ReservationDetail, 0)
	for rows.Next() {
		var d ReservationDetail
		var day time.Time
		var startMin, endMin int
		if err := rows.Scan(&d.ID, &d.RoomID, &d.RoomName, &d.Location, &d.RequesterID,
			&d.RequesterEmail, &day, &startMin, &endMin, &d.Status, &d.CreatedAt); err != nil {
			return nil, infra("scan reservation", err)
		}
		d.Day = day.Format("2006-01-02")
		d.StartTime = booking.FormatClock(startMin)
		d.EndTime = booking.FormatClock(endMin)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, infra("iterate reservations", err)
	}
	return details, nil
}

// queryDetails runs a detail query without the requester email column.
func (r *ReservationRepo) queryDetails(ctx context.Context, q string, args ...interface{}) ([]ReservationDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, infra("list reservations", err)
	}
	defer rows.Close()
	details := make([]ReservationDetail, 0)
	for rows.Next() {
		var d ReservationDetail
		var day time.Time
		var startMin, endMin int
		if err := rows.Scan(&d.ID, &d.RoomID, &d.RoomName, &d.Location, &d.RequesterID,
			&day, &startMin, &endMin, &d.Status, &d.CreatedAt); err != nil {
			return nil, infra("scan reservation", err)
		}
		d.Day = day.Format("2006-01-02")
		d.StartTime = booking.FormatClock(startMin)
		d.EndTime = booking.FormatClock(endMin)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, infra("iterate reservations", err)
	}
	return details, nil
}

// GetDetail returns a single joined entry, used for the reservation
// detail endpoint.  Ownership checks stay in the booking core; this is
// a plain read.
func (r *ReservationRepo) GetDetail(ctx context.Context, id uint64) (*ReservationDetail, error) {
	const q = `SELECT r.id, r.room_id, s.name, s.location, r.requester_id, r.day,
	                  r.start_min, r.end_min, r.status, r.created_at
	           FROM reservations r
	           JOIN rooms s ON s.id = r.room_id
	           WHERE r.id = ?`
	var d ReservationDetail
	var day time.Time
	var startMin, endMin int
	err := r.db.QueryRowContext(ctx, q, id).Scan(&d.ID, &d.RoomID, &d.RoomName, &d.Location,
		&d.RequesterID, &day, &startMin, &endMin, &d.Status, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrReservationNotFound
		}
		return nil, infra("select reservation detail", err)
	}
	d.Day = day.Format("2006-01-02")
	d.StartTime = booking.FormatClock(startMin)
	d.EndTime = booking.FormatClock(endMin)
	return &d, nil
}

// infra tags a driver error as a retryable infrastructure failure.
func infra(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", booking.ErrUnavailable, op, err)
}
