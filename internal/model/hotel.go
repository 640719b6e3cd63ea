package model

import "time"

// Hotel represents a property listed on the platform. Each hotel is
// owned by a single OWNER user and contains one or more rooms.
// Inventory rows for the hotel's rooms are only created once the
// hotel is activated; until then it cannot be booked or searched.
//
// Fields:
//  ID        – primary key identifier.
//  OwnerID   – users.id of the hotel owner.
//  Name      – display name of the hotel.
//  City      – city used by availability search.
//  Active    – whether the hotel is open for bookings.
//  CreatedAt – timestamp when the row was inserted.
//  UpdatedAt – timestamp of the last modification.
type Hotel struct {
	ID        uint64    // hotels.id
	OwnerID   uint64    // hotels.owner_id
	Name      string    // hotels.name
	City      string    // hotels.city
	Active    bool      // hotels.active
	CreatedAt time.Time // hotels.created_at
	UpdatedAt time.Time // hotels.updated_at
}
