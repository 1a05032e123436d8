package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/coworking-room-reservation/internal/booking"
	"github.com/iliyamo/coworking-room-reservation/internal/model"
)

// RoomRepo provides persistence for the room registry.  Rooms are
// reference data: created and edited by administrators, read by
// everyone, and soft-disabled rather than deleted once the ledger
// references them.  Amenities live in the room_amenities join table.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo returns a RoomRepo bound to the given database.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

const roomColumns = `id, name, location, capacity, image_url, enabled, price_per_hour_cents, created_at, updated_at`

// scanRoom reads one rooms row from a row scanner.
func scanRoom(scan func(dest ...interface{}) error) (model.Room, error) {
	var r model.Room
	var imageURL sql.NullString
	var price sql.NullInt64
	err := scan(&r.ID, &r.Name, &r.Location, &r.Capacity, &imageURL, &r.Enabled,
		&price, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return model.Room{}, err
	}
	if imageURL.Valid {
		u := imageURL.String
		r.ImageURL = &u
	}
	if price.Valid {
		p := uint32(price.Int64)
		r.PricePerHourCents = &p
	}
	r.Amenities = []string{}
	return r, nil
}

// GetByID returns a room with its amenities or booking.ErrRoomNotFound.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (model.Room, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = ?`, id)
	room, err := scanRoom(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Room{}, booking.ErrRoomNotFound
		}
		return model.Room{}, infra("select room", err)
	}
	if err := r.loadAmenities(ctx, map[uint64]*model.Room{room.ID: &room}); err != nil {
		return model.Room{}, err
	}
	return room, nil
}

// RoomFilter narrows the room listing.  Zero values mean "no
// restriction".
type RoomFilter struct {
	Location    string
	MinCapacity int
	EnabledOnly bool
}

// List returns rooms matching the filter, ordered by location then
// name, with amenities populated in a single follow-up query.
func (r *RoomRepo) List(ctx context.Context, f RoomFilter) ([]model.Room, error) {
	q := `SELECT ` + roomColumns + ` FROM rooms`
	var conds []string
	var args []interface{}
	if f.Location != "" {
		conds = append(conds, "location = ?")
		args = append(args, f.Location)
	}
	if f.MinCapacity > 0 {
		conds = append(conds, "capacity >= ?")
		args = append(args, f.MinCapacity)
	}
	if f.EnabledOnly {
		conds = append(conds, "enabled = 1")
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY location, name"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, infra("list rooms", err)
	}
	defer rows.Close()
	out := make([]model.Room, 0)
	for rows.Next() {
		room, err := scanRoom(rows.Scan)
		if err != nil {
			return nil, infra("scan room", err)
		}
		out = append(out, room)
	}
	if err := rows.Err(); err != nil {
		return nil, infra("iterate rooms", err)
	}
	if len(out) == 0 {
		return out, nil
	}
	index := make(map[uint64]*model.Room, len(out))
	for i := range out {
		index[out[i].ID] = &out[i]
	}
	if err := r.loadAmenities(ctx, index); err != nil {
		return nil, err
	}
	return out, nil
}

// loadAmenities populates the Amenities slices of the given rooms in
// one IN query.
func (r *RoomRepo) loadAmenities(ctx context.Context, rooms map[uint64]*model.Room) error {
	if len(rooms) == 0 {
		return nil
	}
	placeholders := make([]string, 0, len(rooms))
	args := make([]interface{}, 0, len(rooms))
	for id := range rooms {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	q := `SELECT room_id, name FROM room_amenities
	      WHERE room_id IN (` + strings.Join(placeholders, ",") + `)
	      ORDER BY room_id, name`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return infra("list amenities", err)
	}
	defer rows.Close()
	for rows.Next() {
		var roomID uint64
		var name string
		if err := rows.Scan(&roomID, &name); err != nil {
			return infra("scan amenity", err)
		}
		if room, ok := rooms[roomID]; ok {
			room.Amenities = append(room.Amenities, name)
		}
	}
	if err := rows.Err(); err != nil {
		return infra("iterate amenities", err)
	}
	return nil
}

// Create inserts a room and its amenities in one transaction and
// populates the generated ID and timestamps on the provided record.
func (r *RoomRepo) Create(ctx context.Context, room *model.Room) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return infra("begin create room", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const q = `INSERT INTO rooms (name, location, capacity, image_url, enabled, price_per_hour_cents)
	           VALUES (?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q, room.Name, room.Location, room.Capacity,
		nullString(room.ImageURL), room.Enabled, nullUint32(room.PricePerHourCents))
	if err != nil {
		return infra("insert room", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return infra("last insert id", err)
	}
	room.ID = uint64(id)
	if err := insertAmenitiesTx(ctx, tx, room.ID, room.Amenities); err != nil {
		return err
	}
	if err := tx.QueryRowContext(ctx, `SELECT created_at, updated_at FROM rooms WHERE id = ?`, room.ID).
		Scan(&room.CreatedAt, &room.UpdatedAt); err != nil {
		return infra("reload room", err)
	}
	if err := tx.Commit(); err != nil {
		return infra("commit create room", err)
	}
	committed = true
	return nil
}

// RoomPatch carries the fields an admin update may change.  Nil fields
// are left untouched; the whole patch applies atomically in one
// transaction (last writer wins per update, never per field).
type RoomPatch struct {
	Name              *string
	Location          *string
	Capacity          *int
	ImageURL          *string
	PricePerHourCents *uint32
	Amenities         *[]string
}

// Update applies a patch to a room and returns the updated record.
func (r *RoomRepo) Update(ctx context.Context, id uint64, patch RoomPatch) (model.Room, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Room{}, infra("begin update room", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	row := tx.QueryRowContext(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = ? FOR UPDATE`, id)
	cur, err := scanRoom(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Room{}, booking.ErrRoomNotFound
		}
		return model.Room{}, infra("select room for update", err)
	}
	if patch.Name != nil {
		cur.Name = *patch.Name
	}
	if patch.Location != nil {
		cur.Location = *patch.Location
	}
	if patch.Capacity != nil {
		cur.Capacity = *patch.Capacity
	}
	if patch.ImageURL != nil {
		cur.ImageURL = patch.ImageURL
	}
	if patch.PricePerHourCents != nil {
		cur.PricePerHourCents = patch.PricePerHourCents
	}
	const q = `UPDATE rooms SET name = ?, location = ?, capacity = ?, image_url = ?, price_per_hour_cents = ?
	           WHERE id = ?`
	if _, err := tx.ExecContext(ctx, q, cur.Name, cur.Location, cur.Capacity,
		nullString(cur.ImageURL), nullUint32(cur.PricePerHourCents), id); err != nil {
		return model.Room{}, infra("update room", err)
	}
	if patch.Amenities != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM room_amenities WHERE room_id = ?`, id); err != nil {
			return model.Room{}, infra("clear amenities", err)
		}
		if err := insertAmenitiesTx(ctx, tx, id, *patch.Amenities); err != nil {
			return model.Room{}, err
		}
		cur.Amenities = append([]string{}, *patch.Amenities...)
	}
	if err := tx.QueryRowContext(ctx, `SELECT updated_at FROM rooms WHERE id = ?`, id).
		Scan(&cur.UpdatedAt); err != nil {
		return model.Room{}, infra("reload room", err)
	}
	if err := tx.Commit(); err != nil {
		return model.Room{}, infra("commit update room", err)
	}
	committed = true
	if patch.Amenities == nil {
		if err := r.loadAmenities(ctx, map[uint64]*model.Room{id: &cur}); err != nil {
			return model.Room{}, err
		}
	}
	return cur, nil
}

// SetEnabled flips the long-term decommission flag.  Bookings never
// touch this column.
func (r *RoomRepo) SetEnabled(ctx context.Context, id uint64, enabled bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE rooms SET enabled = ? WHERE id = ?`, enabled, id)
	if err != nil {
		return infra("update enabled", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return infra("rows affected", err)
	}
	if n == 0 {
		var exists int
		err := r.db.QueryRowContext(ctx, `SELECT 1 FROM rooms WHERE id = ?`, id).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return booking.ErrRoomNotFound
		}
		if err != nil {
			return infra("check room", err)
		}
	}
	return nil
}

// Count returns the number of rooms, used to decide whether to seed
// defaults in dev.
func (r *RoomRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rooms`).Scan(&n); err != nil {
		return 0, infra("count rooms", err)
	}
	return n, nil
}

// insertAmenitiesTx bulk-inserts amenity rows for a room within the
// provided transaction.  Passing an empty slice has no effect.
func insertAmenitiesTx(ctx context.Context, tx *sql.Tx, roomID uint64, amenities []string) error {
	if len(amenities) == 0 {
		return nil
	}
	q := `INSERT INTO room_amenities (room_id, name) VALUES `
	args := make([]interface{}, 0, len(amenities)*2)
	for i, a := range amenities {
		if i > 0 {
			q += ","
		}
		q += "(?, ?)"
		args = append(args, roomID, a)
	}
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return infra("insert amenities", err)
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil || strings.TrimSpace(*s) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullUint32(n *uint32) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}
