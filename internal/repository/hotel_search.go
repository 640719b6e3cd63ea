package repository

import (
	"context"
	"strings"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/inventory"
)

// AvailabilityQuery defines filters & pagination for searching rooms.
type AvailabilityQuery struct {
	City       string
	CheckIn    time.Time
	CheckOut   time.Time
	RoomsCount int
	Page       int
	PageSize   int
}

type AvailableRoomRow struct {
	HotelID        uint64  `json:"hotel_id"`
	HotelName      string  `json:"hotel_name"`
	City           string  `json:"city"`
	RoomID         uint64  `json:"room_id"`
	RoomType       string  `json:"room_type"`
	Capacity       int     `json:"capacity"`
	BasePriceCents int64   `json:"base_price_cents"`
	BasePrice      float64 `json:"base_price"`
}

// SearchAvailable finds rooms that still have at least RoomsCount free
// units on every day of the inclusive stay range, in active hotels of
// the given city. A room qualifies only when it has an inventory row
// for every day of the range (HAVING COUNT) and the worst day still
// leaves enough free units (HAVING MIN).
func (r *HotelRepo) SearchAvailable(ctx context.Context, q AvailabilityQuery) ([]AvailableRoomRow, int64, error) {
	days := inventory.DaysIn(q.CheckIn, q.CheckOut)
	from := inventory.Day(q.CheckIn).Format("2006-01-02")
	to := inventory.Day(q.CheckOut).Format("2006-01-02")

	where := []string{"h.active = 1", "i.date BETWEEN ? AND ?"}
	args := []any{from, to}

	if q.City != "" {
		where = append(where, "LOWER(h.city) = ?")
		args = append(args, strings.ToLower(q.City))
	}

	cond := strings.Join(where, " AND ")
	having := "COUNT(i.date) = ? AND MIN(i.total_count - i.reserved_count) >= ?"
	argsHaving := []any{days, q.RoomsCount}

	countSQL := `SELECT COUNT(*) FROM (
			SELECT rm.id
			FROM rooms rm
			JOIN hotels h ON h.id = rm.hotel_id
			JOIN room_inventory i ON i.room_id = rm.id
			WHERE ` + cond + `
			GROUP BY rm.id
			HAVING ` + having + `
		) matches`
	argsCount := append(append([]any{}, args...), argsHaving...)

	var total int64
	if err := r.db.QueryRowContext(ctx, countSQL, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize

	dataSQL := `SELECT
			h.id   AS hotel_id,
			h.name AS hotel_name,
			h.city,
			rm.id  AS room_id,
			rm.type,
			rm.capacity,
			rm.base_price_cents
		FROM rooms rm
		JOIN hotels h ON h.id = rm.hotel_id
		JOIN room_inventory i ON i.room_id = rm.id
		WHERE ` + cond + `
		GROUP BY rm.id, h.id, h.name, h.city, rm.type, rm.capacity, rm.base_price_cents
		HAVING ` + having + `
		ORDER BY rm.base_price_cents ASC, rm.id ASC
		LIMIT ? OFFSET ?`

	argsData := append(append(append([]any{}, args...), argsHaving...), limit, offset)

	rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]AvailableRoomRow, 0, limit)
	for rows.Next() {
		var d AvailableRoomRow
		if err := rows.Scan(
			&d.HotelID,
			&d.HotelName,
			&d.City,
			&d.RoomID,
			&d.RoomType,
			&d.Capacity,
			&d.BasePriceCents,
		); err != nil {
			return nil, 0, err
		}
		d.BasePrice = float64(d.BasePriceCents) / 100.0
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
