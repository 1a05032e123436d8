package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coworking-room-reservation/internal/booking"
	"github.com/iliyamo/coworking-room-reservation/internal/model"
	"github.com/iliyamo/coworking-room-reservation/internal/queue"
	"github.com/iliyamo/coworking-room-reservation/internal/repository"
	publisher "github.com/iliyamo/coworking-room-reservation/internal/service"
)

// ReservationHandler exposes the booking flow to authenticated users:
// submitting a reservation request, listing own reservations and
// cancelling an upcoming one.  Admission decisions are delegated to the
// booking service; this layer only translates HTTP to domain calls and
// domain errors back to status codes.
type ReservationHandler struct {
	Booking      *booking.Service
	Rooms        *repository.RoomRepo
	Reservations *repository.ReservationRepo
}

func NewReservationHandler(svc *booking.Service, rooms *repository.RoomRepo, res *repository.ReservationRepo) *ReservationHandler {
	if svc == nil || rooms == nil || res == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	return &ReservationHandler{Booking: svc, Rooms: rooms, Reservations: res}
}

type submitReq struct {
	RoomID    uint64 `json:"room_id"`
	Date      string `json:"date"`       // YYYY-MM-DD
	StartTime string `json:"start_time"` // HH:MM
	EndTime   string `json:"end_time"`   // HH:MM
}

type reservationResp struct {
	ID        uint64    `json:"id"`
	RoomID    uint64    `json:"room_id"`
	Date      string    `json:"date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func toReservationResp(e model.Reservation) reservationResp {
	return reservationResp{
		ID:        e.ID,
		RoomID:    e.RoomID,
		Date:      e.Day,
		StartTime: booking.FormatClock(e.StartMin),
		EndTime:   booking.FormatClock(e.EndMin),
		Status:    e.Status,
		CreatedAt: e.CreatedAt,
	}
}

// Submit handles POST /v1/reservations.  The body names a room, a day
// and a wall-clock window; the booking service decides admission.  A
// granted request returns 201 with the stored entry; a room already
// taken for the window returns 409 with code "conflict".
func (h *ReservationHandler) Submit(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req submitReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.RoomID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_id is required"})
	}
	start, err := booking.ParseClock(strings.TrimSpace(req.StartTime))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start_time, expected HH:MM"})
	}
	end, err := booking.ParseClock(strings.TrimSpace(req.EndTime))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end_time, expected HH:MM"})
	}

	entry, err := h.Booking.Submit(c.Request().Context(), booking.SubmitRequest{
		RoomID:    req.RoomID,
		Day:       strings.TrimSpace(req.Date),
		Start:     start,
		End:       end,
		Requester: userID,
	})
	if err != nil {
		return bookingError(c, err)
	}

	if entry.Status == booking.StatusConfirmed {
		h.publishConfirmed(c.Request().Context(), entry)
	}
	return c.JSON(http.StatusCreated, toReservationResp(entry))
}

// List handles GET /v1/reservations.  Returns the caller's own entries,
// newest first; ?status=CONFIRMED narrows by status.
func (h *ReservationHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))
	if status != "" && !booking.ValidStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}
	items, err := h.Reservations.ListByRequester(c.Request().Context(), userID, status)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": items})
}

// Get handles GET /v1/reservations/:id.  Users may only read their own
// entries; the existence of someone else's reservation is not revealed.
func (h *ReservationHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	detail, err := h.Reservations.GetDetail(c.Request().Context(), id)
	if err != nil {
		return bookingError(c, err)
	}
	if detail.RequesterID != userID && !isAdmin(c) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	}
	return c.JSON(http.StatusOK, detail)
}

// Cancel handles POST /v1/reservations/:id/cancel.  Only the requester
// may cancel, and only while the reservation has not started yet.
// Cancelling an already cancelled entry succeeds without effect.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	actor := booking.Actor{ID: userID, Admin: isAdmin(c)}
	if err := h.Booking.Cancel(c.Request().Context(), id, actor); err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": booking.StatusCancelled})
}

// publishConfirmed emits a reservation.confirmed event for downstream
// consumers.  Publishing is best effort; a broker outage never fails
// the booking that already committed.
func (h *ReservationHandler) publishConfirmed(ctx context.Context, e model.Reservation) {
	room, err := h.Rooms.GetByID(ctx, e.RoomID)
	if err != nil {
		room = model.Room{ID: e.RoomID}
	}
	evt := queue.ReservationConfirmedEvent{
		ReservationID: e.ID,
		RoomID:        e.RoomID,
		RoomName:      room.Name,
		Location:      room.Location,
		RequesterID:   e.RequesterID,
		Date:          e.Day,
		StartTime:     booking.FormatClock(e.StartMin),
		EndTime:       booking.FormatClock(e.EndMin),
		ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	go func() { _ = publisher.PublishReservationConfirmed(context.Background(), evt) }()
}
