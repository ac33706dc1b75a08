package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// Admin booking endpoints. Role enforcement happens twice: the admin
// route group carries the ADMIN role middleware, and the lifecycle
// service re-checks the actor's role before every transition.

// ListAll handles GET /v1/admin/bookings.
func (h *BookingHandler) ListAll(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Svc.ListAll(c.Request().Context(), actor)
	if err != nil {
		return bookingError(c, err)
	}
	out := make([]bookingResp, 0, len(items))
	for i := range items {
		out = append(out, toBookingResp(&items[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Approve handles PUT /v1/admin/bookings/:id/approve. Re-approving an
// approved booking yields 409, not a silent success.
func (h *BookingHandler) Approve(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.Svc.Approve(c.Request().Context(), actor, id)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResp(b))
}

// Reject handles PUT /v1/admin/bookings/:id/reject, with the same
// idempotence guard as Approve.
func (h *BookingHandler) Reject(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.Svc.Reject(c.Request().Context(), actor, id)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResp(b))
}
