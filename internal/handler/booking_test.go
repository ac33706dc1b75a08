package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-reservation/internal/booking"
	"github.com/iliyamo/room-reservation/internal/middleware"
	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/utils"
)

const testSecret = "test-secret"

// fakeStore is a minimal in-memory booking.Store for HTTP tests.
type fakeStore struct {
	nextID   uint64
	rooms    map[uint64]*model.Room
	bookings map[uint64]*model.Booking
}

func newFakeStore(roomIDs ...uint64) *fakeStore {
	s := &fakeStore{nextID: 1, rooms: map[uint64]*model.Room{}, bookings: map[uint64]*model.Booking{}}
	for _, id := range roomIDs {
		s.rooms[id] = &model.Room{ID: id, Name: "meeting room", Capacity: 8}
	}
	return s
}

func (s *fakeStore) GetRoom(_ context.Context, id uint64) (*model.Room, error) {
	if rm, ok := s.rooms[id]; ok {
		cp := *rm
		return &cp, nil
	}
	return nil, booking.ErrRoomNotFound
}

func (s *fakeStore) GetBooking(_ context.Context, id uint64) (*model.Booking, error) {
	if b, ok := s.bookings[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, booking.ErrBookingNotFound
}

func (s *fakeStore) ActiveByRoom(_ context.Context, roomID uint64) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range s.bookings {
		if b.RoomID == roomID && b.Status.Active() {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *fakeStore) CreateBooking(_ context.Context, b *model.Booking) error {
	b.ID = s.nextID
	s.nextID++
	cp := *b
	s.bookings[b.ID] = &cp
	return nil
}

func (s *fakeStore) UpdateBooking(_ context.Context, b *model.Booking) error {
	if _, ok := s.bookings[b.ID]; !ok {
		return booking.ErrBookingNotFound
	}
	cp := *b
	s.bookings[b.ID] = &cp
	return nil
}

func (s *fakeStore) UpdateStatus(_ context.Context, id uint64, status model.BookingStatus) error {
	b, ok := s.bookings[id]
	if !ok {
		return booking.ErrBookingNotFound
	}
	b.Status = status
	return nil
}

func (s *fakeStore) DeleteBooking(_ context.Context, id uint64) error {
	if _, ok := s.bookings[id]; !ok {
		return booking.ErrBookingNotFound
	}
	delete(s.bookings, id)
	return nil
}

func (s *fakeStore) ListByUser(_ context.Context, userID uint64) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range s.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *fakeStore) ListAll(_ context.Context) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range s.bookings {
		out = append(out, *b)
	}
	return out, nil
}

func buildTestApp(store *fakeStore) *echo.Echo {
	e := echo.New()
	h := NewBookingHandler(booking.NewService(store, nil))

	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(testSecret))
	g.Use(middleware.RequireRole(model.RoleUser, model.RoleAdmin))
	g.POST("/bookings", h.Create)
	g.GET("/my-bookings", h.ListMine)
	g.GET("/bookings/:id", h.Get)
	g.PUT("/bookings/:id", h.Update)
	g.DELETE("/bookings/:id", h.Delete)

	a := e.Group("/v1/admin")
	a.Use(middleware.JWTAuth(testSecret))
	a.Use(middleware.RequireRole(model.RoleAdmin))
	a.GET("/bookings", h.ListAll)
	a.PUT("/bookings/:id/approve", h.Approve)
	a.PUT("/bookings/:id/reject", h.Reject)
	return e
}

func signTestToken(t *testing.T, userID uint64, role string) string {
	t.Helper()
	tok, err := utils.NewAccessToken(testSecret, userID, role, 5)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok.Token
}

func doJSON(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func createBody(roomID uint64, startHour, endHour int) string {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	b, _ := json.Marshal(map[string]any{
		"room_id":   roomID,
		"starts_at": day.Add(time.Duration(startHour) * time.Hour).Format(time.RFC3339),
		"ends_at":   day.Add(time.Duration(endHour) * time.Hour).Format(time.RFC3339),
		"purpose":   "planning",
	})
	return string(b)
}

func TestBookingRoutesRequireAuth(t *testing.T) {
	e := buildTestApp(newFakeStore(1))

	if rec := doJSON(e, http.MethodPost, "/v1/bookings", "", createBody(1, 10, 11)); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: got %d, want 401", rec.Code)
	}

	user := signTestToken(t, 10, model.RoleUser)
	if rec := doJSON(e, http.MethodGet, "/v1/admin/bookings", user, ""); rec.Code != http.StatusForbidden {
		t.Fatalf("user on admin route: got %d, want 403", rec.Code)
	}
}

func TestBookingCreateFlow(t *testing.T) {
	e := buildTestApp(newFakeStore(1))
	user := signTestToken(t, 10, model.RoleUser)

	rec := doJSON(e, http.MethodPost, "/v1/bookings", user, createBody(1, 10, 11))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: got %d, body %s", rec.Code, rec.Body.String())
	}
	var resp bookingResp
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != string(model.StatusPending) || resp.UserID != 10 {
		t.Fatalf("created booking = %+v", resp)
	}

	// Overlapping request from another user is refused.
	other := signTestToken(t, 11, model.RoleUser)
	if rec := doJSON(e, http.MethodPost, "/v1/bookings", other, createBody(1, 10, 12)); rec.Code != http.StatusConflict {
		t.Fatalf("overlap: got %d, want 409", rec.Code)
	}

	// Unknown room is a 404.
	if rec := doJSON(e, http.MethodPost, "/v1/bookings", user, createBody(99, 13, 14)); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown room: got %d, want 404", rec.Code)
	}

	// Inverted interval is a 400.
	if rec := doJSON(e, http.MethodPost, "/v1/bookings", user, createBody(1, 15, 14)); rec.Code != http.StatusBadRequest {
		t.Fatalf("inverted interval: got %d, want 400", rec.Code)
	}
}

func TestBookingModerationFlow(t *testing.T) {
	e := buildTestApp(newFakeStore(1))
	user := signTestToken(t, 10, model.RoleUser)
	admin := signTestToken(t, 99, model.RoleAdmin)

	if rec := doJSON(e, http.MethodPost, "/v1/bookings", user, createBody(1, 10, 11)); rec.Code != http.StatusCreated {
		t.Fatalf("create: got %d", rec.Code)
	}

	if rec := doJSON(e, http.MethodPut, "/v1/admin/bookings/1/approve", admin, ""); rec.Code != http.StatusOK {
		t.Fatalf("approve: got %d, body %s", rec.Code, rec.Body.String())
	}
	// Repeating the approval is refused, not silently accepted.
	if rec := doJSON(e, http.MethodPut, "/v1/admin/bookings/1/approve", admin, ""); rec.Code != http.StatusConflict {
		t.Fatalf("second approve: got %d, want 409", rec.Code)
	}

	// The owner can no longer edit or delete the approved booking.
	if rec := doJSON(e, http.MethodPut, "/v1/bookings/1", user, createBody(1, 12, 13)); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("edit approved: got %d, want 422", rec.Code)
	}
	if rec := doJSON(e, http.MethodDelete, "/v1/bookings/1", user, ""); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("owner delete approved: got %d, want 422", rec.Code)
	}
}

func TestBookingVisibility(t *testing.T) {
	e := buildTestApp(newFakeStore(1))
	user := signTestToken(t, 10, model.RoleUser)
	other := signTestToken(t, 11, model.RoleUser)

	if rec := doJSON(e, http.MethodPost, "/v1/bookings", user, createBody(1, 10, 11)); rec.Code != http.StatusCreated {
		t.Fatalf("create: got %d", rec.Code)
	}

	if rec := doJSON(e, http.MethodGet, "/v1/bookings/1", other, ""); rec.Code != http.StatusForbidden {
		t.Fatalf("foreign get: got %d, want 403", rec.Code)
	}

	rec := doJSON(e, http.MethodGet, "/v1/my-bookings", other, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: got %d", rec.Code)
	}
	var list struct {
		Items []bookingResp `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Items) != 0 {
		t.Fatalf("other user sees %d bookings, want 0", len(list.Items))
	}
}
