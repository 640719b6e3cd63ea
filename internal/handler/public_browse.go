package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/inventory"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// PublicHandler serves the unauthenticated browse and search
// endpoints. Responses only expose active hotels and never leak owner
// identifiers.
type PublicHandler struct {
	HotelRepo *repository.HotelRepo
	RoomRepo  *repository.RoomRepo
}

func NewPublicHandler(hotelRepo *repository.HotelRepo, roomRepo *repository.RoomRepo) *PublicHandler {
	if hotelRepo == nil || roomRepo == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{HotelRepo: hotelRepo, RoomRepo: roomRepo}
}

type publicHotel struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
	City string `json:"city"`
}

type publicRoom struct {
	ID             uint64  `json:"id"`
	Type           string  `json:"type"`
	Capacity       int     `json:"capacity"`
	BasePriceCents int64   `json:"base_price_cents"`
	BasePrice      float64 `json:"base_price"`
}

// GetHotels handles GET /v1/hotels?city=... listing active hotels.
func (p *PublicHandler) GetHotels(c echo.Context) error {
	city := strings.TrimSpace(c.QueryParam("city"))
	hotels, err := p.HotelRepo.ListActiveByCity(c.Request().Context(), city)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list hotels failed"})
	}
	out := make([]publicHotel, 0, len(hotels))
	for _, h := range hotels {
		out = append(out, publicHotel{ID: h.ID, Name: h.Name, City: h.City})
	}
	return c.JSON(http.StatusOK, echo.Map{"hotels": out})
}

// GetHotelRooms handles GET /v1/hotels/:id/rooms for one active hotel.
func (p *PublicHandler) GetHotelRooms(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	ctx := c.Request().Context()
	hotel, err := p.HotelRepo.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrHotelNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !hotel.Active {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
	}
	rooms, err := p.RoomRepo.ListByHotel(ctx, hotel.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list rooms failed"})
	}
	out := make([]publicRoom, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, publicRoom{
			ID:             r.ID,
			Type:           r.Type,
			Capacity:       r.Capacity,
			BasePriceCents: r.BasePriceCents,
			BasePrice:      float64(r.BasePriceCents) / 100.0,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"hotel": publicHotel{ID: hotel.ID, Name: hotel.Name, City: hotel.City},
		"rooms": out,
	})
}

// SearchAvailability handles GET /v1/search. Query parameters: city,
// check_in, check_out (YYYY-MM-DD, inclusive range), rooms (default 1),
// page, page_size. A room is returned only when every day of the range
// has at least the requested number of free units.
func (p *PublicHandler) SearchAvailability(c echo.Context) error {
	checkIn, ok := parseDate(c.QueryParam("check_in"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in must be YYYY-MM-DD"})
	}
	checkOut, ok := parseDate(c.QueryParam("check_out"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out must be YYYY-MM-DD"})
	}
	if checkOut.Before(checkIn) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out before check_in"})
	}
	roomsCount := 1
	if v := c.QueryParam("rooms"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "rooms must be a positive integer"})
		}
		roomsCount = n
	}
	page := 1
	if v := c.QueryParam("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	pageSize := 20
	if v := c.QueryParam("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			pageSize = n
		}
	}

	q := repository.AvailabilityQuery{
		City:       strings.TrimSpace(c.QueryParam("city")),
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		RoomsCount: roomsCount,
		Page:       page,
		PageSize:   pageSize,
	}
	rows, total, err := p.HotelRepo.SearchAvailable(c.Request().Context(), q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"results":   rows,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"nights":    inventory.DaysIn(checkIn, checkOut),
	})
}
