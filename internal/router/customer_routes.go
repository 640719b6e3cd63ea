package router

import (
	"github.com/iliyamo/hotel-reservation/internal/handler"
	"github.com/iliyamo/hotel-reservation/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterBookings registers customer-scoped booking endpoints under
// /v1.  All routes require a valid JWT and the CUSTOMER role.
// Customers walk the booking lifecycle here: reserve a range, attach
// guests, open a checkout session, poll status and cancel.
func RegisterBookings(e *echo.Echo, h *handler.BookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER"),
	)
	g.POST("/bookings", h.Initiate)
	g.POST("/bookings/:id/guests", h.AddGuests)
	g.POST("/bookings/:id/payments", h.InitiatePayment)
	g.GET("/bookings/:id/status", h.Status)
	g.DELETE("/bookings/:id", h.Cancel)
	g.GET("/my-bookings", h.MyBookings)
}

// RegisterPayments registers the checkout completion endpoint.  The
// payment provider redirects here with the session ID as its own
// credential, so no JWT middleware applies.
func RegisterPayments(e *echo.Echo, h *handler.PaymentHandler) {
	e.GET("/v1/payments/confirm", h.Confirm)
}
