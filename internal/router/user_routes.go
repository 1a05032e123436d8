package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coworking-room-reservation/internal/handler"
	"github.com/iliyamo/coworking-room-reservation/internal/middleware"
)

// RegisterUser registers user-scoped reservation endpoints under /v1.
// All routes require a valid JWT and the USER or ADMIN role: admins can
// submit and cancel reservations of their own like any member.
func RegisterUser(e *echo.Echo, h *handler.ReservationHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("USER", "ADMIN"),
	)
	g.POST("/reservations", h.Submit)
	g.GET("/reservations", h.List)
	g.GET("/reservations/:id", h.Get)
	g.POST("/reservations/:id/cancel", h.Cancel)
}
