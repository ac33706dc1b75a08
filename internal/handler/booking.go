package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/iliyamo/room-reservation/internal/booking"
	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/labstack/echo/v4"
)

// BookingHandler exposes the booking lifecycle over HTTP. All methods
// assume JWT authentication has already run; the actor is rebuilt from
// context claims on every call and passed into the service explicitly.
type BookingHandler struct {
	Svc *booking.Service
}

func NewBookingHandler(svc *booking.Service) *BookingHandler {
	if svc == nil {
		panic("nil service passed to NewBookingHandler")
	}
	return &BookingHandler{Svc: svc}
}

type bookingReq struct {
	RoomID   uint64 `json:"room_id"`
	StartsAt string `json:"starts_at"`
	EndsAt   string `json:"ends_at"`
	Purpose  string `json:"purpose"`
}

type bookingResp struct {
	ID        uint64 `json:"id"`
	UserID    uint64 `json:"user_id"`
	RoomID    uint64 `json:"room_id"`
	StartsAt  string `json:"starts_at"`
	EndsAt    string `json:"ends_at"`
	Purpose   string `json:"purpose,omitempty"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toBookingResp(b *model.Booking) bookingResp {
	return bookingResp{
		ID:        b.ID,
		UserID:    b.UserID,
		RoomID:    b.RoomID,
		StartsAt:  b.StartsAt.UTC().Format(time.RFC3339),
		EndsAt:    b.EndsAt.UTC().Format(time.RFC3339),
		Purpose:   b.Purpose,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: b.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func parseBookingReq(c echo.Context) (booking.Request, bool) {
	var body bookingReq
	if err := c.Bind(&body); err != nil {
		return booking.Request{}, false
	}
	start, err := time.Parse(time.RFC3339, body.StartsAt)
	if err != nil {
		return booking.Request{}, false
	}
	end, err := time.Parse(time.RFC3339, body.EndsAt)
	if err != nil {
		return booking.Request{}, false
	}
	return booking.Request{
		RoomID:   body.RoomID,
		StartsAt: start.UTC(),
		EndsAt:   end.UTC(),
		Purpose:  body.Purpose,
	}, true
}

// Create handles POST /v1/bookings. The booking is created pending and
// awaits administrator approval.
func (h *BookingHandler) Create(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	req, ok := parseBookingReq(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_id, starts_at and ends_at (RFC3339) are required"})
	}
	b, err := h.Svc.Create(c.Request().Context(), actor, req)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusCreated, toBookingResp(b))
}

// ListMine handles GET /v1/my-bookings.
func (h *BookingHandler) ListMine(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Svc.ListForActor(c.Request().Context(), actor)
	if err != nil {
		return bookingError(c, err)
	}
	out := make([]bookingResp, 0, len(items))
	for i := range items {
		out = append(out, toBookingResp(&items[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get handles GET /v1/bookings/:id. Readable by the owner or an admin.
func (h *BookingHandler) Get(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.Svc.Get(c.Request().Context(), actor, id)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toBookingResp(b)})
}

// Update handles PUT /v1/bookings/:id. Only the owner may edit, only
// while pending, and the result is re-validated against the room's
// timeline excluding the booking itself.
func (h *BookingHandler) Update(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	req, ok := parseBookingReq(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_id, starts_at and ends_at (RFC3339) are required"})
	}
	b, err := h.Svc.Edit(c.Request().Context(), actor, id, req)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResp(b))
}

// Delete handles DELETE /v1/bookings/:id.
func (h *BookingHandler) Delete(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	if err := h.Svc.Delete(c.Request().Context(), actor, id); err != nil {
		return bookingError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
