package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/repository"
	"github.com/labstack/echo/v4"
)

// RoomHandler serves the public room browse endpoints and, via
// admin_room.go, the administrator CRUD.
type RoomHandler struct {
	Rooms *repository.RoomRepo
}

func NewRoomHandler(rooms *repository.RoomRepo) *RoomHandler {
	if rooms == nil {
		panic("nil repository passed to NewRoomHandler")
	}
	return &RoomHandler{Rooms: rooms}
}

type roomResp struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Capacity    uint32  `json:"capacity"`
	Facilities  *string `json:"facilities,omitempty"`
	Description *string `json:"description,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func toRoomResp(rm *model.Room) roomResp {
	return roomResp{
		ID:          rm.ID,
		Name:        rm.Name,
		Capacity:    rm.Capacity,
		Facilities:  rm.Facilities,
		Description: rm.Description,
		CreatedAt:   rm.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   rm.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// List handles GET /v1/rooms. No authentication required so users can
// browse rooms before registering.
func (h *RoomHandler) List(c echo.Context) error {
	rooms, err := h.Rooms.List(c.Request().Context())
	if err != nil {
		return bookingError(c, err)
	}
	out := make([]roomResp, 0, len(rooms))
	for i := range rooms {
		out = append(out, toRoomResp(&rooms[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get handles GET /v1/rooms/:id.
func (h *RoomHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	rm, err := h.Rooms.GetByID(c.Request().Context(), id)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toRoomResp(rm)})
}
