// Package repository contains data access logic separated from HTTP
// handlers and the booking core. This file defines error values reused
// across multiple repositories. These sentinel values allow higher
// layers to distinguish between failure scenarios: ErrForbidden means
// the current user is not allowed to touch a resource owned by someone
// else, while ErrConflict signals that an operation cannot proceed due
// to existing dependent records (e.g. deleting a room that still has
// bookings).
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers should translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot be performed
// because of conflicting state. Handlers should translate this into an
// HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrHotelNotFound is returned when a hotel cannot be found.
var ErrHotelNotFound = errors.New("hotel not found")

// ErrRoomNotFound is returned when a room cannot be found.
var ErrRoomNotFound = errors.New("room not found")
