package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/booking"
	"github.com/iliyamo/hotel-reservation/internal/inventory"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/payment"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// BookingHandler exposes the customer booking lifecycle over HTTP.
// All methods assume JWT authentication has run; the caller's user ID
// is read from the context and passed explicitly into the lifecycle
// manager, which enforces ownership on every transition.
type BookingHandler struct {
	Manager     *booking.Manager
	BookingRepo *repository.BookingRepo
	FrontendURL string
}

func NewBookingHandler(mgr *booking.Manager, repo *repository.BookingRepo, frontendURL string) *BookingHandler {
	if mgr == nil || repo == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Manager: mgr, BookingRepo: repo, FrontendURL: frontendURL}
}

type initiateReq struct {
	HotelID    uint64 `json:"hotel_id"`
	RoomID     uint64 `json:"room_id"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	RoomsCount int    `json:"rooms_count"`
}

type bookingResp struct {
	ID          uint64  `json:"id"`
	HotelID     uint64  `json:"hotel_id"`
	RoomID      uint64  `json:"room_id"`
	CheckIn     string  `json:"check_in"`
	CheckOut    string  `json:"check_out"`
	RoomsCount  int     `json:"rooms_count"`
	Status      string  `json:"status"`
	AmountCents int64   `json:"amount_cents"`
	Amount      float64 `json:"amount"`
}

func toBookingResp(b *model.Booking) bookingResp {
	return bookingResp{
		ID:          b.ID,
		HotelID:     b.HotelID,
		RoomID:      b.RoomID,
		CheckIn:     b.CheckIn.Format("2006-01-02"),
		CheckOut:    b.CheckOut.Format("2006-01-02"),
		RoomsCount:  b.RoomsCount,
		Status:      string(b.Status),
		AmountCents: b.AmountCents,
		Amount:      float64(b.AmountCents) / 100.0,
	}
}

// Initiate handles POST /v1/bookings. It reserves the requested range
// atomically, prices the stay and returns the new RESERVED booking.
func (h *BookingHandler) Initiate(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req initiateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.HotelID == 0 || req.RoomID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hotel_id/room_id required"})
	}
	checkIn, ok := parseDate(req.CheckIn)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in must be YYYY-MM-DD"})
	}
	checkOut, ok := parseDate(req.CheckOut)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out must be YYYY-MM-DD"})
	}
	if checkOut.Before(checkIn) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out before check_in"})
	}
	if req.RoomsCount <= 0 {
		req.RoomsCount = 1
	}

	b, err := h.Manager.Initiate(c.Request().Context(), userID, booking.InitiateRequest{
		HotelID:    req.HotelID,
		RoomID:     req.RoomID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		RoomsCount: req.RoomsCount,
	})
	if err != nil {
		return bookingErr(c, err)
	}
	return c.JSON(http.StatusCreated, toBookingResp(b))
}

type guestReq struct {
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
}

// AddGuests handles POST /v1/bookings/:id/guests.
func (h *BookingHandler) AddGuests(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req struct {
		Guests []guestReq `json:"guests"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if len(req.Guests) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "guests is required"})
	}
	guests := make([]model.Guest, 0, len(req.Guests))
	for _, g := range req.Guests {
		name := strings.TrimSpace(g.Name)
		if name == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "guest name required"})
		}
		guests = append(guests, model.Guest{Name: name, Age: g.Age, Gender: strings.ToUpper(strings.TrimSpace(g.Gender))})
	}
	b, err := h.Manager.AddGuests(c.Request().Context(), userID, id, guests)
	if err != nil {
		return bookingErr(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResp(b))
}

// InitiatePayment handles POST /v1/bookings/:id/payments. It opens a
// checkout session and returns its redirect URL.
func (h *BookingHandler) InitiatePayment(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	successURL := h.FrontendURL + "/payments/success?session_id={CHECKOUT_SESSION_ID}"
	failureURL := h.FrontendURL + "/payments/failure"
	url, err := h.Manager.InitiatePayment(c.Request().Context(), userID, id, successURL, failureURL)
	if err != nil {
		return bookingErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"checkout_url": url})
}

// Status handles GET /v1/bookings/:id/status with lazy expiry applied.
func (h *BookingHandler) Status(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx := c.Request().Context()
	status, err := h.Manager.Status(ctx, userID, id)
	if err != nil {
		return bookingErr(c, err)
	}
	guests, err := h.BookingRepo.GuestsByBooking(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load guests failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": string(status), "guests": guests})
}

// Cancel handles DELETE /v1/bookings/:id. Cancellation releases the
// booked units first; the refund is best-effort and its failure is
// reported without undoing the cancellation.
func (h *BookingHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	if err := h.Manager.Cancel(c.Request().Context(), userID, id); err != nil {
		if errors.Is(err, payment.ErrGatewayFailure) {
			return c.JSON(http.StatusOK, echo.Map{
				"status": string(model.StatusCancelled),
				"refund": "pending",
			})
		}
		return bookingErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status": string(model.StatusCancelled),
		"refund": "requested",
	})
}

// MyBookings handles GET /v1/my-bookings.
func (h *BookingHandler) MyBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	list, err := h.BookingRepo.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list bookings failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": list})
}

// bookingErr maps lifecycle and ledger sentinels to HTTP responses.
func bookingErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, booking.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case errors.Is(err, booking.ErrUnauthorized):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your booking"})
	case errors.Is(err, booking.ErrExpired):
		return c.JSON(http.StatusGone, echo.Map{"error": "booking expired"})
	case errors.Is(err, booking.ErrInvalidState):
		return c.JSON(http.StatusConflict, echo.Map{"error": "invalid booking state"})
	case errors.Is(err, booking.ErrIncomplete):
		return c.JSON(http.StatusConflict, echo.Map{"error": "room has no inventory for part of the range"})
	case errors.Is(err, inventory.ErrInsufficientCapacity):
		return c.JSON(http.StatusConflict, echo.Map{"error": "not enough rooms available"})
	case errors.Is(err, inventory.ErrRangeUnavailable):
		return c.JSON(http.StatusConflict, echo.Map{"error": "range unavailable"})
	case errors.Is(err, payment.ErrGatewayFailure):
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "payment gateway error"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
