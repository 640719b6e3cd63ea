package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/booking"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/queue"
	"github.com/iliyamo/hotel-reservation/internal/repository"
	queue_publisher "github.com/iliyamo/hotel-reservation/internal/service"
)

// PaymentHandler completes the checkout flow. The confirm endpoint is
// hit by the redirect back from the payment provider; the session ID in
// the query string is the only credential, so this route stays outside
// the JWT group.
type PaymentHandler struct {
	Manager   *booking.Manager
	HotelRepo *repository.HotelRepo
	RoomRepo  *repository.RoomRepo
}

func NewPaymentHandler(mgr *booking.Manager, hotelRepo *repository.HotelRepo, roomRepo *repository.RoomRepo) *PaymentHandler {
	if mgr == nil || hotelRepo == nil || roomRepo == nil {
		panic("nil dependency passed to NewPaymentHandler")
	}
	return &PaymentHandler{Manager: mgr, HotelRepo: hotelRepo, RoomRepo: roomRepo}
}

// Confirm handles GET /v1/payments/confirm?session_id=... It moves the
// booking from PAYMENTS_PENDING to CONFIRMED, turns the ledger hold
// into booked units, and publishes a booking.confirmed event. Publish
// failures are logged and ignored; the booking is already confirmed.
func (h *PaymentHandler) Confirm(c echo.Context) error {
	sessionID := strings.TrimSpace(c.QueryParam("session_id"))
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "session_id required"})
	}
	b, err := h.Manager.ConfirmPayment(c.Request().Context(), sessionID)
	if err != nil {
		return bookingErr(c, err)
	}

	go h.publishConfirmed(b)

	return c.JSON(http.StatusOK, toBookingResp(b))
}

// publishConfirmed enriches the booking with hotel and room details
// and publishes it to the broker. Runs detached from the request.
func (h *PaymentHandler) publishConfirmed(b *model.Booking) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ev := queue.BookingConfirmedEvent{
		BookingID:        b.ID,
		UserID:           b.UserID,
		HotelID:          b.HotelID,
		RoomID:           b.RoomID,
		CheckIn:          b.CheckIn.Format("2006-01-02"),
		CheckOut:         b.CheckOut.Format("2006-01-02"),
		RoomsCount:       b.RoomsCount,
		TotalAmountCents: b.AmountCents,
		ConfirmedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	if hotel, err := h.HotelRepo.GetByID(ctx, b.HotelID); err == nil {
		ev.HotelName = hotel.Name
		ev.City = hotel.City
	}
	if room, err := h.RoomRepo.GetByID(ctx, b.RoomID); err == nil {
		ev.RoomType = room.Type
	}
	if err := queue_publisher.PublishBookingConfirmed(ctx, ev); err != nil {
		log.Printf("payment: publish booking.confirmed for %d: %v", b.ID, err)
	}
}
