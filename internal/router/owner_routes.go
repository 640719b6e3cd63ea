package router // router defines how HTTP routes are registered for the API

import (
	"github.com/iliyamo/hotel-reservation/internal/handler"    // owner handlers
	"github.com/iliyamo/hotel-reservation/internal/middleware" // JWT + role middlewares
	"github.com/labstack/echo/v4"
)

// RegisterOwner registers OWNER-scoped endpoints under /v1/owner.
// All routes require a valid JWT and OWNER role.
func RegisterOwner(e *echo.Echo, o *handler.OwnerHandler, jwtSecret string) {
	// Attach middlewares at group construction time for clarity.
	g := e.Group(
		"/v1/owner",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OWNER"),
	)

	// ---- Hotels ----
	g.POST("/hotels", o.CreateHotel)
	g.GET("/hotels", o.ListHotels)
	g.PUT("/hotels/:id", o.UpdateHotel)
	g.PATCH("/hotels/:id", o.UpdateHotel) // allow partial updates via PATCH as well
	g.POST("/hotels/:id/activate", o.ActivateHotel)
	g.POST("/hotels/:id/deactivate", o.DeactivateHotel)
	g.DELETE("/hotels/:id", o.DeleteHotel)

	// ---- Rooms ----
	g.POST("/hotels/:id/rooms", o.CreateRoom)
	g.GET("/hotels/:id/rooms", o.ListRooms)
	g.DELETE("/hotels/:id/rooms/:roomID", o.DeleteRoom)

	// ---- Demand ----
	g.PUT("/hotels/:id/rooms/:roomID/surge", o.SetSurge)
}
