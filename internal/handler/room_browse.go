package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coworking-room-reservation/internal/booking"
	"github.com/iliyamo/coworking-room-reservation/internal/repository"
)

// RoomBrowseHandler serves the public, unauthenticated room catalog.
// Listing and availability are read-only and sit behind the Redis
// response cache, so repeated catalog hits never reach MySQL.
type RoomBrowseHandler struct {
	Rooms   *repository.RoomRepo
	Booking *booking.Service
}

func NewRoomBrowseHandler(rooms *repository.RoomRepo, svc *booking.Service) *RoomBrowseHandler {
	if rooms == nil || svc == nil {
		panic("nil dependency passed to NewRoomBrowseHandler")
	}
	return &RoomBrowseHandler{Rooms: rooms, Booking: svc}
}

// ListRooms handles GET /v1/rooms.  Optional query parameters narrow
// the catalog: ?location=Agadir filters by branch, ?min_capacity=8
// drops rooms that seat fewer people.  Decommissioned rooms are never
// shown to the public.
func (h *RoomBrowseHandler) ListRooms(c echo.Context) error {
	f := repository.RoomFilter{EnabledOnly: true}

	if loc := strings.TrimSpace(c.QueryParam("location")); loc != "" {
		if !booking.ValidBranch(loc) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown location"})
		}
		f.Location = loc
	}
	if raw := c.QueryParam("min_capacity"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid min_capacity"})
		}
		f.MinCapacity = n
	}

	rooms, err := h.Rooms.List(c.Request().Context(), f)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"rooms": rooms})
}

// GetRoom handles GET /v1/rooms/:id.
func (h *RoomBrowseHandler) GetRoom(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	room, err := h.Rooms.GetByID(c.Request().Context(), id)
	if err != nil {
		return bookingError(c, err)
	}
	if !room.Enabled {
		// Decommissioned rooms are invisible to the public catalog.
		return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
	}
	return c.JSON(http.StatusOK, room)
}

// Availability handles GET /v1/rooms/:id/availability?date=YYYY-MM-DD.
// It returns the slot grid for one room and day: every slot within
// operating hours with a flag saying whether a confirmed reservation
// covers any part of it.
func (h *RoomBrowseHandler) Availability(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	date := strings.TrimSpace(c.QueryParam("date"))
	if date == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date query parameter required"})
	}

	slots, err := h.Booking.Availability(c.Request().Context(), id, date)
	if err != nil {
		if errors.Is(err, booking.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"room_id": id,
		"date":    date,
		"slots":   slots,
	})
}
