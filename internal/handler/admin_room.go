package handler

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/labstack/echo/v4"
)

type roomReq struct {
	Name        string  `json:"name"`
	Capacity    uint32  `json:"capacity"`
	Facilities  *string `json:"facilities"`
	Description *string `json:"description"`
}

// CreateRoom handles POST /v1/admin/rooms.
func (h *RoomHandler) CreateRoom(c echo.Context) error {
	adminID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body roomReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" || body.Capacity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and a positive capacity are required"})
	}
	rm := &model.Room{
		Name:        body.Name,
		Capacity:    body.Capacity,
		Facilities:  body.Facilities,
		Description: body.Description,
	}
	if err := h.Rooms.Create(c.Request().Context(), rm); err != nil {
		return bookingError(c, err)
	}
	log.Printf("event=room.created room_id=%d admin_id=%d", rm.ID, adminID)
	return c.JSON(http.StatusCreated, toRoomResp(rm))
}

// UpdateRoom handles PUT /v1/admin/rooms/:id.
func (h *RoomHandler) UpdateRoom(c echo.Context) error {
	adminID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	cur, err := h.Rooms.GetByID(c.Request().Context(), id)
	if err != nil {
		return bookingError(c, err)
	}
	var body roomReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if name := strings.TrimSpace(body.Name); name != "" {
		cur.Name = name
	}
	if body.Capacity != 0 {
		cur.Capacity = body.Capacity
	}
	if body.Facilities != nil {
		cur.Facilities = body.Facilities
	}
	if body.Description != nil {
		cur.Description = body.Description
	}
	if err := h.Rooms.Update(c.Request().Context(), cur); err != nil {
		return bookingError(c, err)
	}
	log.Printf("event=room.updated room_id=%d admin_id=%d", cur.ID, adminID)
	return c.JSON(http.StatusOK, toRoomResp(cur))
}

// DeleteRoom handles DELETE /v1/admin/rooms/:id. A room that still has
// bookings cannot be removed; the response is 409.
func (h *RoomHandler) DeleteRoom(c echo.Context) error {
	adminID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	if err := h.Rooms.Delete(c.Request().Context(), id); err != nil {
		return bookingError(c, err)
	}
	log.Printf("event=room.deleted room_id=%d admin_id=%d", id, adminID)
	return c.NoContent(http.StatusNoContent)
}
