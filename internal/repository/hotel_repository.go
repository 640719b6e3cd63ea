package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// HotelRepo encapsulates all database queries related to hotels. It
// depends on a sql.DB connection which should be configured elsewhere.
type HotelRepo struct {
	db *sql.DB
}

// NewHotelRepo constructs a HotelRepo with the provided DB handle.
// This allows dependency injection of the database in tests and at
// startup.
func NewHotelRepo(db *sql.DB) *HotelRepo {
	return &HotelRepo{db: db}
}

// Create inserts a new hotel into the database. On success the hotel's
// ID field is populated with the auto-generated value; a follow-up
// SELECT fills the default timestamp fields so callers receive a fully
// populated record. New hotels start inactive.
func (r *HotelRepo) Create(ctx context.Context, h *model.Hotel) error {
	const qInsert = "INSERT INTO hotels (owner_id, name, city, active) VALUES (?, ?, ?, 0)"
	res, err := r.db.ExecContext(ctx, qInsert, h.OwnerID, h.Name, h.City)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)

	const qSelect = "SELECT owner_id, name, city, active, created_at, updated_at FROM hotels WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, h.ID).
		Scan(&h.OwnerID, &h.Name, &h.City, &h.Active, &h.CreatedAt, &h.UpdatedAt)
}

// GetByID fetches a hotel by its ID regardless of owner. It returns
// ErrHotelNotFound if no row is found.
func (r *HotelRepo) GetByID(ctx context.Context, id uint64) (*model.Hotel, error) {
	const q = "SELECT id, owner_id, name, city, active, created_at, updated_at FROM hotels WHERE id = ?"
	var h model.Hotel
	if err := r.db.QueryRowContext(ctx, q, id).
		Scan(&h.ID, &h.OwnerID, &h.Name, &h.City, &h.Active, &h.CreatedAt, &h.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHotelNotFound
		}
		return nil, err
	}
	return &h, nil
}

// GetByIDAndOwner fetches a hotel by id but only if it belongs to the
// specified owner. If the hotel does not exist ErrHotelNotFound is
// returned; if it is owned by someone else, ErrForbidden.
func (r *HotelRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*model.Hotel, error) {
	h, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if h.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return h, nil
}

// ListByOwner returns all hotels belonging to an owner, oldest first.
func (r *HotelRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Hotel, error) {
	const q = "SELECT id, owner_id, name, city, active, created_at, updated_at FROM hotels WHERE owner_id = ? ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Hotel
	for rows.Next() {
		var h model.Hotel
		if err := rows.Scan(&h.ID, &h.OwnerID, &h.Name, &h.City, &h.Active, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// ListActiveByCity returns active hotels, optionally filtered by city
// (case-insensitive exact match). Used by the public browse endpoints.
func (r *HotelRepo) ListActiveByCity(ctx context.Context, city string) ([]model.Hotel, error) {
	q := "SELECT id, owner_id, name, city, active, created_at, updated_at FROM hotels WHERE active = 1"
	args := []any{}
	if city != "" {
		q += " AND LOWER(city) = LOWER(?)"
		args = append(args, city)
	}
	q += " ORDER BY name"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Hotel
	for rows.Next() {
		var h model.Hotel
		if err := rows.Scan(&h.ID, &h.OwnerID, &h.Name, &h.City, &h.Active, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// Update changes the mutable fields of a hotel.
func (r *HotelRepo) Update(ctx context.Context, h *model.Hotel) error {
	const q = "UPDATE hotels SET name = ?, city = ? WHERE id = ?"
	_, err := r.db.ExecContext(ctx, q, h.Name, h.City, h.ID)
	return err
}

// SetActive flips the hotel's active flag. Activation is what makes a
// hotel bookable; the caller is responsible for initializing inventory
// for its rooms afterwards.
func (r *HotelRepo) SetActive(ctx context.Context, id uint64, active bool) error {
	const q = "UPDATE hotels SET active = ? WHERE id = ?"
	res, err := r.db.ExecContext(ctx, q, active, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrHotelNotFound
	}
	return nil
}

// Delete removes a hotel row. Rooms and inventory must already have
// been removed by the caller; a foreign key violation surfaces as a
// plain DB error.
func (r *HotelRepo) Delete(ctx context.Context, id uint64) error {
	const q = "DELETE FROM hotels WHERE id = ?"
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrHotelNotFound
	}
	return nil
}
