package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coworking-room-reservation/internal/booking"
	"github.com/iliyamo/coworking-room-reservation/internal/model"
	"github.com/iliyamo/coworking-room-reservation/internal/repository"
)

// AdminRoomHandler lets administrators manage the room registry:
// registering rooms, editing their attributes and decommissioning
// them.  Disabling a room stops new reservations but leaves existing
// ledger entries untouched.
type AdminRoomHandler struct {
	Rooms *repository.RoomRepo
}

func NewAdminRoomHandler(rooms *repository.RoomRepo) *AdminRoomHandler {
	if rooms == nil {
		panic("nil repository passed to NewAdminRoomHandler")
	}
	return &AdminRoomHandler{Rooms: rooms}
}

type roomCreateReq struct {
	Name              string   `json:"name"`
	Location          string   `json:"location"`
	Capacity          int      `json:"capacity"`
	ImageURL          *string  `json:"image_url"`
	PricePerHourCents *uint32  `json:"price_per_hour_cents"`
	Amenities         []string `json:"amenities"`
}

type roomUpdateReq struct {
	Name              *string   `json:"name"`
	Location          *string   `json:"location"`
	Capacity          *int      `json:"capacity"`
	ImageURL          *string   `json:"image_url"`
	PricePerHourCents *uint32   `json:"price_per_hour_cents"`
	Amenities         *[]string `json:"amenities"`
}

// ListRooms handles GET /v1/admin/rooms.  Unlike the public catalog it
// includes decommissioned rooms so admins can re-enable or audit them.
func (h *AdminRoomHandler) ListRooms(c echo.Context) error {
	f := repository.RoomFilter{}
	if loc := strings.TrimSpace(c.QueryParam("location")); loc != "" {
		f.Location = loc
	}
	rooms, err := h.Rooms.List(c.Request().Context(), f)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"rooms": rooms})
}

// CreateRoom handles POST /v1/admin/rooms.
func (h *AdminRoomHandler) CreateRoom(c echo.Context) error {
	var req roomCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Location = strings.TrimSpace(req.Location)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if !booking.ValidBranch(req.Location) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown location"})
	}
	if req.Capacity < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be at least 1"})
	}

	room := model.Room{
		Name:              req.Name,
		Location:          req.Location,
		Capacity:          req.Capacity,
		ImageURL:          req.ImageURL,
		Enabled:           true,
		PricePerHourCents: req.PricePerHourCents,
		Amenities:         normalizeAmenities(req.Amenities),
	}
	if err := h.Rooms.Create(c.Request().Context(), &room); err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusCreated, room)
}

// UpdateRoom handles PATCH /v1/admin/rooms/:id.  Only fields present in
// the body change; omitted fields keep their stored value.
func (h *AdminRoomHandler) UpdateRoom(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	var req roomUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	patch := repository.RoomPatch{
		ImageURL:          req.ImageURL,
		PricePerHourCents: req.PricePerHourCents,
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name cannot be empty"})
		}
		patch.Name = &name
	}
	if req.Location != nil {
		loc := strings.TrimSpace(*req.Location)
		if !booking.ValidBranch(loc) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown location"})
		}
		patch.Location = &loc
	}
	if req.Capacity != nil {
		if *req.Capacity < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be at least 1"})
		}
		patch.Capacity = req.Capacity
	}
	if req.Amenities != nil {
		cleaned := normalizeAmenities(*req.Amenities)
		patch.Amenities = &cleaned
	}

	room, err := h.Rooms.Update(c.Request().Context(), id, patch)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, room)
}

// SetEnabled handles POST /v1/admin/rooms/:id/enable and .../disable.
// The route decides the direction; the handler is shared.
func (h *AdminRoomHandler) SetEnabled(enabled bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := pathID(c)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
		}
		if err := h.Rooms.SetEnabled(c.Request().Context(), id, enabled); err != nil {
			return bookingError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"id": id, "enabled": enabled})
	}
}

// normalizeAmenities trims entries and drops empties and duplicates
// while preserving order.
func normalizeAmenities(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, a := range in {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		key := strings.ToLower(a)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, a)
	}
	return out
}
