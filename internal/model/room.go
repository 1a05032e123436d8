package model

import "time"

// Room represents a bookable meeting room in one of the co-working
// branches.  Rooms are created and maintained by administrators and
// are never physically deleted once reservations reference them;
// decommissioning is expressed through the Enabled flag instead.
//
// Fields:
//  ID                – primary key identifier.
//  Name              – display name of the room.
//  Location          – branch the room belongs to (fixed set, see booking.Branches).
//  Capacity          – number of people the room accommodates (always > 0).
//  ImageURL          – optional photo shown by clients.
//  Enabled           – long-term availability switch.  This flag is an
//                      administrative decommission marker only; it is never
//                      toggled by bookings or cancellations.  Transient
//                      occupancy is always derived from the reservations
//                      ledger.
//  PricePerHourCents – optional hourly price in cents (nil when the branch
//                      does not price rooms individually).
//  Amenities         – equipment available in the room, stored in the
//                      room_amenities table.
//  CreatedAt         – creation timestamp.
//  UpdatedAt         – last update timestamp.
type Room struct {
	ID                uint64    `json:"id"`                  // rooms.id
	Name              string    `json:"name"`                // rooms.name
	Location          string    `json:"location"`            // rooms.location
	Capacity          int       `json:"capacity"`            // rooms.capacity
	ImageURL          *string   `json:"image_url,omitempty"` // rooms.image_url (nullable)
	Enabled           bool      `json:"enabled"`             // rooms.enabled
	PricePerHourCents *uint32   `json:"price_per_hour_cents,omitempty"` // rooms.price_per_hour_cents (nullable)
	Amenities         []string  `json:"amenities"`           // room_amenities.name rows
	CreatedAt         time.Time `json:"created_at"`          // rooms.created_at
	UpdatedAt         time.Time `json:"updated_at"`          // rooms.updated_at
}
