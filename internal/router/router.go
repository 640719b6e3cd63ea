package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/hotel-reservation/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/hotel-reservation/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication‑related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Operations that do not require an existing session: register, login
	// and the two refresh flavours.  Each handler generates or exchanges
	// tokens itself.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotating refresh: the presented refresh token is revoked and replaced.
	g.POST("/refresh", a.Refresh)
	// Non-rotating refresh: issue a new access token only.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout accepts a refresh token in the body or a bearer token in the
	// Authorization header; it does not require the JWT middleware.
	g.POST("/logout", a.Logout)

	// Routes that require a valid access token live under /v1.  Both roles
	// may call them; the middleware rejects missing or unknown roles.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("OWNER", "CUSTOMER"))
	auth.GET("/me", a.Me)

	// Alias kept at the top level so clients can log out with just a
	// refresh token in the body.
	e.POST("/v1/logout", a.Logout)
}

// RegisterPublic registers unauthenticated browse endpoints on the provided
// Echo instance.  The PublicHandler returns sanitized data for hotels, rooms
// and availability.  These routes apply no JWT or role middleware and are
// intended for guests planning a stay.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler) {
	// List active hotels, optionally filtered by ?city=
	e.GET("/v1/hotels", p.GetHotels)
	// Rooms of one active hotel
	e.GET("/v1/hotels/:id/rooms", p.GetHotelRooms)
	// Availability search: city + date range + rooms count
	e.GET("/v1/search", p.SearchAvailability)
}
