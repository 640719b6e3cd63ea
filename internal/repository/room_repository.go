package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// RoomRepo encapsulates database operations for rooms. A room is a
// bookable category inside a hotel; its TotalCount seeds the per-day
// capacity of the inventory rows created on activation.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo constructs a RoomRepo given a DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

// Create inserts a new room and populates its ID and timestamps.
func (r *RoomRepo) Create(ctx context.Context, rm *model.Room) error {
	const qInsert = "INSERT INTO rooms (hotel_id, type, base_price_cents, total_count, capacity) VALUES (?, ?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, rm.HotelID, rm.Type, rm.BasePriceCents, rm.TotalCount, rm.Capacity)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rm.ID = uint64(id)

	const qSelect = "SELECT hotel_id, type, base_price_cents, total_count, capacity, created_at, updated_at FROM rooms WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, rm.ID).
		Scan(&rm.HotelID, &rm.Type, &rm.BasePriceCents, &rm.TotalCount, &rm.Capacity, &rm.CreatedAt, &rm.UpdatedAt)
}

// GetByID fetches a room by its ID. It returns ErrRoomNotFound when no
// row exists.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	const q = "SELECT id, hotel_id, type, base_price_cents, total_count, capacity, created_at, updated_at FROM rooms WHERE id = ?"
	var rm model.Room
	if err := r.db.QueryRowContext(ctx, q, id).
		Scan(&rm.ID, &rm.HotelID, &rm.Type, &rm.BasePriceCents, &rm.TotalCount, &rm.Capacity, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &rm, nil
}

// ListByHotel returns all rooms of a hotel ordered by id.
func (r *RoomRepo) ListByHotel(ctx context.Context, hotelID uint64) ([]model.Room, error) {
	const q = "SELECT id, hotel_id, type, base_price_cents, total_count, capacity, created_at, updated_at FROM rooms WHERE hotel_id = ? ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Room, 0)
	for rows.Next() {
		var rm model.Room
		if err := rows.Scan(&rm.ID, &rm.HotelID, &rm.Type, &rm.BasePriceCents, &rm.TotalCount, &rm.Capacity, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

// Delete removes a room row. The caller must have removed the room's
// inventory first.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) error {
	const q = "DELETE FROM rooms WHERE id = ?"
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRoomNotFound
	}
	return nil
}
