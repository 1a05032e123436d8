// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationConfirmedEvent is published when a reservation reaches the
// CONFIRMED status, either by immediate admission or by admin approval.
// It carries enough information for downstream consumers to log, notify
// or trigger analytics without querying the primary database.
type ReservationConfirmedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	RoomID        uint64 `json:"room_id"`
	RoomName      string `json:"room_name"`
	Location      string `json:"location"`
	RequesterID   uint64 `json:"requester_id"`
	Date          string `json:"date"`       // YYYY-MM-DD
	StartTime     string `json:"start_time"` // HH:MM
	EndTime       string `json:"end_time"`   // HH:MM
	ConfirmedAt   string `json:"confirmed_at"`
}
