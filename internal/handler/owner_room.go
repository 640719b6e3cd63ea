package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

type roomReq struct {
	Type           string `json:"type"`
	BasePriceCents int64  `json:"base_price_cents"`
	TotalCount     int    `json:"total_count"`
	Capacity       int    `json:"capacity"`
}

// CreateRoom handles POST /v1/owner/hotels/:id/rooms. When the hotel
// is already active the new room's inventory horizon is created
// immediately so it becomes bookable without re-activation.
func (h *OwnerHandler) CreateRoom(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hotelID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Type = strings.TrimSpace(req.Type)
	if req.Type == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "type required"})
	}
	if req.BasePriceCents <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "base_price_cents must be positive"})
	}
	if req.TotalCount <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_count must be positive"})
	}
	if req.Capacity <= 0 {
		req.Capacity = 2
	}
	ctx := c.Request().Context()
	hotel, err := h.HotelRepo.GetByIDAndOwner(ctx, hotelID, ownerID)
	if err != nil {
		return ownerHotelErr(c, err)
	}
	room := &model.Room{
		HotelID:        hotel.ID,
		Type:           req.Type,
		BasePriceCents: req.BasePriceCents,
		TotalCount:     req.TotalCount,
		Capacity:       req.Capacity,
	}
	if err := h.RoomRepo.Create(ctx, room); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create room failed"})
	}
	if hotel.Active {
		if err := h.InventoryRepo.InitializeRoom(ctx, room, h.HorizonDays); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "initialize inventory failed"})
		}
	}
	return c.JSON(http.StatusCreated, room)
}

// ListRooms handles GET /v1/owner/hotels/:id/rooms.
func (h *OwnerHandler) ListRooms(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hotelID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	ctx := c.Request().Context()
	hotel, err := h.HotelRepo.GetByIDAndOwner(ctx, hotelID, ownerID)
	if err != nil {
		return ownerHotelErr(c, err)
	}
	rooms, err := h.RoomRepo.ListByHotel(ctx, hotel.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list rooms failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"rooms": rooms})
}

// DeleteRoom handles DELETE /v1/owner/hotels/:id/rooms/:roomID. The
// room's inventory rows are removed alongside it.
func (h *OwnerHandler) DeleteRoom(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hotelID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	roomID, ok := pathID(c, "roomID")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	ctx := c.Request().Context()
	hotel, err := h.HotelRepo.GetByIDAndOwner(ctx, hotelID, ownerID)
	if err != nil {
		return ownerHotelErr(c, err)
	}
	room, err := h.RoomRepo.GetByID(ctx, roomID)
	if err != nil {
		if err == repository.ErrRoomNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if room.HotelID != hotel.ID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "room does not belong to hotel"})
	}
	if err := h.InventoryRepo.DeleteByRoom(ctx, room.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete inventory failed"})
	}
	if err := h.RoomRepo.Delete(ctx, room.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete room failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// SetSurge handles PUT /v1/owner/hotels/:id/rooms/:roomID/surge. The
// owner (or an upstream demand signal acting on their behalf) sets the
// demand multiplier for one day of one room.
func (h *OwnerHandler) SetSurge(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hotelID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	roomID, ok := pathID(c, "roomID")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	var req struct {
		Date   string  `json:"date"`
		Factor float64 `json:"factor"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	date, ok := parseDate(req.Date)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	if req.Factor <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "factor must be positive"})
	}
	ctx := c.Request().Context()
	hotel, err := h.HotelRepo.GetByIDAndOwner(ctx, hotelID, ownerID)
	if err != nil {
		return ownerHotelErr(c, err)
	}
	room, err := h.RoomRepo.GetByID(ctx, roomID)
	if err != nil || room.HotelID != hotel.ID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
	}
	if err := h.InventoryRepo.SetSurgeFactor(ctx, room.ID, date, req.Factor); err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no inventory for that day"})
	}
	return c.JSON(http.StatusOK, echo.Map{"room_id": room.ID, "date": req.Date, "factor": req.Factor})
}
