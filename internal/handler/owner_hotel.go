package handler

import (
	"net/http" // HTTP status codes
	"strings"  // input trimming

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/hotel-reservation/internal/model"      // domain models
	"github.com/iliyamo/hotel-reservation/internal/repository" // DB repositories
)

// OwnerHandler bundles repositories for owners to manage their hotels
// and rooms. All methods assume JWT authentication and the OWNER role
// check have already been performed by middleware; ownership of the
// specific hotel is still verified per request.
type OwnerHandler struct {
	HotelRepo     *repository.HotelRepo     // hotel persistence
	RoomRepo      *repository.RoomRepo      // room persistence
	InventoryRepo *repository.InventoryRepo // per-day inventory rows
	HorizonDays   int                       // how far ahead inventory is created on activation
}

// NewOwnerHandler constructs a new OwnerHandler and panics if any dependency is nil.
func NewOwnerHandler(hotelRepo *repository.HotelRepo, roomRepo *repository.RoomRepo, invRepo *repository.InventoryRepo, horizonDays int) *OwnerHandler {
	if hotelRepo == nil || roomRepo == nil || invRepo == nil {
		panic("nil repository passed to NewOwnerHandler")
	}
	if horizonDays <= 0 {
		horizonDays = 365
	}
	return &OwnerHandler{
		HotelRepo:     hotelRepo,
		RoomRepo:      roomRepo,
		InventoryRepo: invRepo,
		HorizonDays:   horizonDays,
	}
}

type hotelReq struct {
	Name string `json:"name"`
	City string `json:"city"`
}

// CreateHotel handles POST /v1/owner/hotels. New hotels start inactive
// and hold no inventory until activated.
func (h *OwnerHandler) CreateHotel(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req hotelReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.City = strings.TrimSpace(req.City)
	if req.Name == "" || req.City == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/city required"})
	}
	hotel := &model.Hotel{OwnerID: ownerID, Name: req.Name, City: req.City}
	if err := h.HotelRepo.Create(c.Request().Context(), hotel); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create hotel failed"})
	}
	return c.JSON(http.StatusCreated, hotel)
}

// ListHotels handles GET /v1/owner/hotels.
func (h *OwnerHandler) ListHotels(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hotels, err := h.HotelRepo.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list hotels failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"hotels": hotels})
}

// UpdateHotel handles PUT /v1/owner/hotels/:id.
func (h *OwnerHandler) UpdateHotel(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	var req hotelReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx := c.Request().Context()
	hotel, err := h.HotelRepo.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return ownerHotelErr(c, err)
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		hotel.Name = name
	}
	if city := strings.TrimSpace(req.City); city != "" {
		hotel.City = city
	}
	if err := h.HotelRepo.Update(ctx, hotel); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update hotel failed"})
	}
	return c.JSON(http.StatusOK, hotel)
}

// ActivateHotel handles POST /v1/owner/hotels/:id/activate. Activation
// opens the hotel for search and booking: every room gets one
// inventory row per day for the configured horizon, seeded with the
// room's capacity and base price.
func (h *OwnerHandler) ActivateHotel(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	ctx := c.Request().Context()
	hotel, err := h.HotelRepo.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return ownerHotelErr(c, err)
	}
	rooms, err := h.RoomRepo.ListByHotel(ctx, hotel.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list rooms failed"})
	}
	if len(rooms) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hotel has no rooms"})
	}
	for i := range rooms {
		if err := h.InventoryRepo.InitializeRoom(ctx, &rooms[i], h.HorizonDays); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "initialize inventory failed"})
		}
	}
	if err := h.HotelRepo.SetActive(ctx, hotel.ID, true); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "activate hotel failed"})
	}
	hotel.Active = true
	return c.JSON(http.StatusOK, hotel)
}

// DeactivateHotel handles POST /v1/owner/hotels/:id/deactivate. The
// hotel disappears from search; existing inventory and bookings stay.
func (h *OwnerHandler) DeactivateHotel(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	ctx := c.Request().Context()
	hotel, err := h.HotelRepo.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return ownerHotelErr(c, err)
	}
	if err := h.HotelRepo.SetActive(ctx, hotel.ID, false); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "deactivate hotel failed"})
	}
	hotel.Active = false
	return c.JSON(http.StatusOK, hotel)
}

// DeleteHotel handles DELETE /v1/owner/hotels/:id. Rooms and their
// inventory are removed first so the hotel row can go.
func (h *OwnerHandler) DeleteHotel(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	ctx := c.Request().Context()
	hotel, err := h.HotelRepo.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return ownerHotelErr(c, err)
	}
	rooms, err := h.RoomRepo.ListByHotel(ctx, hotel.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list rooms failed"})
	}
	for _, rm := range rooms {
		if err := h.InventoryRepo.DeleteByRoom(ctx, rm.ID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete inventory failed"})
		}
		if err := h.RoomRepo.Delete(ctx, rm.ID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete room failed"})
		}
	}
	if err := h.HotelRepo.Delete(ctx, hotel.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete hotel failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ownerHotelErr maps repository sentinels from hotel lookups to HTTP
// responses.
func ownerHotelErr(c echo.Context, err error) error {
	switch err {
	case repository.ErrHotelNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
	case repository.ErrForbidden:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your hotel"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
}
