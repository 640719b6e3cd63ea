// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a booking is successfully confirmed.
// It contains enough information for downstream consumers to log, notify, or
// trigger analytics without querying the primary database.
type BookingConfirmedEvent struct {
    BookingID        uint64 `json:"booking_id"`
    UserID           uint64 `json:"user_id"`
    HotelID          uint64 `json:"hotel_id"`
    HotelName        string `json:"hotel_name"`
    City             string `json:"city"`
    RoomID           uint64 `json:"room_id"`
    RoomType         string `json:"room_type"`
    CheckIn          string `json:"check_in"`
    CheckOut         string `json:"check_out"`
    RoomsCount       int    `json:"rooms_count"`
    TotalAmountCents int64  `json:"total_amount_cents"`
    ConfirmedAt      string `json:"confirmed_at"`
}
