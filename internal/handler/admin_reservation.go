package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coworking-room-reservation/internal/booking"
	"github.com/iliyamo/coworking-room-reservation/internal/model"
	"github.com/iliyamo/coworking-room-reservation/internal/queue"
	"github.com/iliyamo/coworking-room-reservation/internal/repository"
	publisher "github.com/iliyamo/coworking-room-reservation/internal/service"
)

// AdminReservationHandler gives administrators oversight of the ledger:
// listing every reservation, approving or rejecting pending requests in
// manual-approval mode, and cancelling any reservation regardless of
// who submitted it.
type AdminReservationHandler struct {
	Booking      *booking.Service
	Rooms        *repository.RoomRepo
	Reservations *repository.ReservationRepo
}

func NewAdminReservationHandler(svc *booking.Service, rooms *repository.RoomRepo, res *repository.ReservationRepo) *AdminReservationHandler {
	if svc == nil || rooms == nil || res == nil {
		panic("nil dependency passed to NewAdminReservationHandler")
	}
	return &AdminReservationHandler{Booking: svc, Rooms: rooms, Reservations: res}
}

// List handles GET /v1/admin/reservations with optional filters
// ?status=, ?room_id=, ?date= and ?requester_id=.
func (h *AdminReservationHandler) List(c echo.Context) error {
	var f repository.AdminListFilter

	if status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status"))); status != "" {
		if !booking.ValidStatus(status) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
		}
		f.Status = status
	}
	if raw := c.QueryParam("room_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room_id"})
		}
		f.RoomID = id
	}
	if raw := strings.TrimSpace(c.QueryParam("date")); raw != "" {
		if _, err := time.Parse("2006-01-02", raw); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
		}
		f.Day = raw
	}
	if raw := c.QueryParam("requester_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid requester_id"})
		}
		f.Requester = id
	}

	items, err := h.Reservations.ListForAdmin(c.Request().Context(), f)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": items})
}

// Approve handles POST /v1/admin/reservations/:id/approve.  The
// conflict check runs again at approval time: another reservation may
// have been confirmed for the window since the request was submitted,
// in which case the approval fails with 409 and the entry stays
// pending.
func (h *AdminReservationHandler) Approve(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	if err := h.Booking.Approve(c.Request().Context(), id); err != nil {
		return bookingError(c, err)
	}
	h.publishConfirmed(c.Request().Context(), id)
	return c.JSON(http.StatusOK, echo.Map{"status": booking.StatusConfirmed})
}

// Reject handles POST /v1/admin/reservations/:id/reject.
func (h *AdminReservationHandler) Reject(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	if err := h.Booking.Reject(c.Request().Context(), id); err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": booking.StatusCancelled})
}

// Cancel handles POST /v1/admin/reservations/:id/cancel.  Admin
// cancellation is not bound by the ownership or upcoming-only rules.
func (h *AdminReservationHandler) Cancel(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	if err := h.Booking.AdminCancel(c.Request().Context(), id); err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": booking.StatusCancelled})
}

func (h *AdminReservationHandler) publishConfirmed(ctx context.Context, id uint64) {
	e, err := h.Reservations.GetByID(ctx, id)
	if err != nil {
		return
	}
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
