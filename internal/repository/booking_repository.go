package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/booking"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

// BookingRepo persists bookings and their guests. It implements
// booking.Store.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingCols = "id, user_id, hotel_id, room_id, check_in, check_out, rooms_count, status, amount_cents, payment_session_id, created_at, updated_at"

func scanBooking(row *sql.Row) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(&b.ID, &b.UserID, &b.HotelID, &b.RoomID, &b.CheckIn, &b.CheckOut,
		&b.RoomsCount, &b.Status, &b.AmountCents, &b.PaymentSessionID, &b.CreatedAt, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, booking.ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateBooking inserts a new booking and fills in the generated ID
// and timestamps.
func (r *BookingRepo) CreateBooking(ctx context.Context, b *model.Booking) error {
	const q = `INSERT INTO bookings (user_id, hotel_id, room_id, check_in, check_out, rooms_count, status, amount_cents)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, b.UserID, b.HotelID, b.RoomID,
		b.CheckIn.Format("2006-01-02"), b.CheckOut.Format("2006-01-02"),
		b.RoomsCount, b.Status, b.AmountCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	row := r.db.QueryRowContext(ctx, "SELECT "+bookingCols+" FROM bookings WHERE id = ?", id)
	stored, err := scanBooking(row)
	if err != nil {
		return err
	}
	*b = *stored
	return nil
}

// GetBooking loads one booking by ID.
func (r *BookingRepo) GetBooking(ctx context.Context, id uint64) (*model.Booking, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+bookingCols+" FROM bookings WHERE id = ?", id)
	return scanBooking(row)
}

// GetBookingBySession loads the booking that owns a checkout session.
func (r *BookingRepo) GetBookingBySession(ctx context.Context, sessionID string) (*model.Booking, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+bookingCols+" FROM bookings WHERE payment_session_id = ?", sessionID)
	return scanBooking(row)
}

// UpdateBookingStatusIf moves a booking to the given status only when
// its current status is one of from. The conditional WHERE clause makes
// the swap atomic; RowsAffected tells the caller whether it won.
func (r *BookingRepo) UpdateBookingStatusIf(ctx context.Context, id uint64, to model.BookingStatus, from ...model.BookingStatus) (bool, error) {
	if len(from) == 0 {
		return false, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(from)), ",")
	q := "UPDATE bookings SET status = ? WHERE id = ? AND status IN (" + placeholders + ")"
	args := make([]any, 0, len(from)+2)
	args = append(args, to, id)
	for _, s := range from {
		args = append(args, s)
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// SetPaymentSession records the checkout session handle on a booking.
func (r *BookingRepo) SetPaymentSession(ctx context.Context, id uint64, sessionID string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE bookings SET payment_session_id = ? WHERE id = ?", sessionID, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return booking.ErrBookingNotFound
	}
	return nil
}

// AddGuests inserts all guests of a booking in one statement.
func (r *BookingRepo) AddGuests(ctx context.Context, bookingID uint64, guests []model.Guest) error {
	if len(guests) == 0 {
		return nil
	}
	q := "INSERT INTO guests (booking_id, name, age, gender) VALUES "
	args := make([]any, 0, len(guests)*4)
	placeholders := make([]string, 0, len(guests))
	for _, g := range guests {
		placeholders = append(placeholders, "(?, ?, ?, ?)")
		args = append(args, bookingID, g.Name, g.Age, g.Gender)
	}
	q += strings.Join(placeholders, ",")
	_, err := r.db.ExecContext(ctx, q, args...)
	return err
}

// GuestsByBooking lists the guests attached to a booking.
func (r *BookingRepo) GuestsByBooking(ctx context.Context, bookingID uint64) ([]model.Guest, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, booking_id, name, age, gender FROM guests WHERE booking_id = ? ORDER BY id", bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Guest
	for rows.Next() {
		var g model.Guest
		if err := rows.Scan(&g.ID, &g.BookingID, &g.Name, &g.Age, &g.Gender); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// BookingDetail is a booking joined with the hotel and room it refers
// to, as shown on a user's booking list.
type BookingDetail struct {
	model.Booking
	HotelName string `json:"hotel_name"`
	City      string `json:"city"`
	RoomType  string `json:"room_type"`
}

// ListByUser returns the user's bookings newest first, joined with
// hotel and room details.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	const q = `SELECT b.id, b.user_id, b.hotel_id, b.room_id, b.check_in, b.check_out,
	                  b.rooms_count, b.status, b.amount_cents, b.payment_session_id,
	                  b.created_at, b.updated_at,
	                  h.name, h.city, r.type
	           FROM bookings b
	           JOIN hotels h ON h.id = b.hotel_id
	           JOIN rooms r ON r.id = b.room_id
	           WHERE b.user_id = ?
	           ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []BookingDetail
	for rows.Next() {
		var d BookingDetail
		err := rows.Scan(&d.ID, &d.UserID, &d.HotelID, &d.RoomID, &d.CheckIn, &d.CheckOut,
			&d.RoomsCount, &d.Status, &d.AmountCents, &d.PaymentSessionID,
			&d.CreatedAt, &d.UpdatedAt, &d.HotelName, &d.City, &d.RoomType)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ExpiryCandidates lists bookings that sat in a pre-confirmation state
// longer than the hold window. The background sweeper feeds them back
// through the lifecycle manager; the conditional status swap there
// keeps the release exactly-once even when a request races the sweep.
func (r *BookingRepo) ExpiryCandidates(ctx context.Context, olderThan time.Time, limit int) ([]uint64, error) {
	const q = `SELECT id FROM bookings
	           WHERE status IN (?, ?, ?) AND created_at < ?
	           ORDER BY created_at ASC
	           LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q,
		model.StatusReserved, model.StatusGuestsAdded, model.StatusPaymentsPending,
		olderThan, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
