package model

import "time"

// InventoryDay is one room's capacity record for one calendar date.
// It is the unit of locking and mutation for the reservation core:
// reservations increment ReservedCount, payment confirmation moves
// units into BookedCount, and cancellation or expiry decrements
// them again. The counters must satisfy
// 0 <= BookedCount <= ReservedCount <= TotalCount on every row at
// all times; mutations happen only under a row lock spanning the
// whole affected date range.
//
// Fields:
//  ID             – primary key identifier.
//  HotelID        – hotel owning the room (denormalized for search).
//  RoomID         – room this capacity record belongs to.
//  Date           – calendar date (UTC midnight).
//  TotalCount     – capacity for this day.
//  ReservedCount  – units soft-held by pending bookings.
//  BookedCount    – units confirmed after payment.
//  SurgeFactor    – externally supplied demand multiplier (>= 1.0 typically).
//  BasePriceCents – base nightly rate snapshot from the room, in cents.
//  CreatedAt      – timestamp when the row was inserted.
//  UpdatedAt      – timestamp of the last modification.
type InventoryDay struct {
	ID             uint64    // room_inventory.id
	HotelID        uint64    // room_inventory.hotel_id
	RoomID         uint64    // room_inventory.room_id
	Date           time.Time // room_inventory.date
	TotalCount     int       // room_inventory.total_count
	ReservedCount  int       // room_inventory.reserved_count
	BookedCount    int       // room_inventory.booked_count
	SurgeFactor    float64   // room_inventory.surge_factor
	BasePriceCents int64     // room_inventory.base_price_cents
	CreatedAt      time.Time // room_inventory.created_at
	UpdatedAt      time.Time // room_inventory.updated_at
}
