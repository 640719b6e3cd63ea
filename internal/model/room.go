package model

import "time"

// Room describes a bookable room category inside a hotel, for
// example "Deluxe Double". TotalCount is the number of physical
// units of this category; it seeds the per-day capacity of the
// inventory rows created when the hotel is activated.
//
// Fields:
//  ID             – primary key identifier.
//  HotelID        – hotel to which the room belongs.
//  Type           – room category label.
//  BasePriceCents – base nightly rate in cents, input to pricing.
//  TotalCount     – number of units of this room category.
//  Capacity       – maximum guests per unit.
//  CreatedAt      – timestamp when the row was inserted.
//  UpdatedAt      – timestamp of the last modification.
type Room struct {
	ID             uint64    // rooms.id
	HotelID        uint64    // rooms.hotel_id
	Type           string    // rooms.type
	BasePriceCents int64     // rooms.base_price_cents
	TotalCount     int       // rooms.total_count
	Capacity       int       // rooms.capacity
	CreatedAt      time.Time // rooms.created_at
	UpdatedAt      time.Time // rooms.updated_at
}
