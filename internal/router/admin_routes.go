package router

// This file registers admin-only routes for managing the room registry
// and overseeing the reservation ledger.  They are separate from the
// user routes to keep concerns isolated.

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coworking-room-reservation/internal/handler"
	"github.com/iliyamo/coworking-room-reservation/internal/middleware"
)

// RegisterAdmin registers ADMIN-scoped endpoints under /v1/admin.  All
// routes require a valid JWT and the ADMIN role.
func RegisterAdmin(e *echo.Echo, rooms *handler.AdminRoomHandler, res *handler.AdminReservationHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)

	// ---- Rooms ----
	g.GET("/rooms", rooms.ListRooms)
	g.POST("/rooms", rooms.CreateRoom)
	g.PATCH("/rooms/:id", rooms.UpdateRoom)
	g.PUT("/rooms/:id", rooms.UpdateRoom) // alias for clients that use PUT
	g.POST("/rooms/:id/disable", rooms.SetEnabled(false))
	g.POST("/rooms/:id/enable", rooms.SetEnabled(true))

	// ---- Reservations ----
	g.GET("/reservations", res.List)
	g.POST("/reservations/:id/approve", res.Approve)
	g.POST("/reservations/:id/reject", res.Reject)
	g.POST("/reservations/:id/cancel", res.Cancel)
}
