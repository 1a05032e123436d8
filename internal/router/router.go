package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/coworking-room-reservation/internal/handler"    // handlers that implement business logic
	"github.com/iliyamo/coworking-room-reservation/internal/middleware" // JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Used by load balancers or monitoring systems to verify that the
	// service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the unauthenticated room catalog.  Guests can
// browse rooms and check availability without an account; booking
// requires registration.  The supplied middleware (the Redis response
// cache) wraps every catalog route.
func RegisterPublic(e *echo.Echo, p *handler.RoomBrowseHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mw...)
	g.GET("/rooms", p.ListRooms)
	g.GET("/rooms/:id", p.GetRoom)
	g.GET("/rooms/:id/availability", p.Availability)
}

// RegisterAuth registers all authentication-related routes.
// Unauthenticated operations live under /v1/auth, while protected
// endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Operations that do not require an existing session.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token; refresh-access issues a new
	// access token without rotation.
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout with a refresh_token in the body works without a bearer.
	g.POST("/logout", a.Logout)

	// Protected endpoints.  JWTAuth validates the bearer and stores the
	// user ID and role in the context.
	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	// Logout with a bearer and no body revokes every session.
	auth.POST("/logout", a.Logout)
}
