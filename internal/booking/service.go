package booking

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/queue"
)

// Actor identifies who is performing a lifecycle transition. Handlers
// build it from the verified JWT claims; no ambient identity exists
// below the HTTP layer.
type Actor struct {
	ID   uint64
	Role string
}

// Admin reports whether the actor holds the administrator role.
func (a Actor) Admin() bool { return a.Role == model.RoleAdmin }

// Store is the persistence surface the lifecycle needs. The MySQL
// implementation lives in internal/repository; tests use an in-memory
// one. Implementations return the package sentinels for missing rows
// and may return ErrConflict from CreateBooking/UpdateBooking as a
// storage-level overlap backstop.
type Store interface {
	GetRoom(ctx context.Context, roomID uint64) (*model.Room, error)
	GetBooking(ctx context.Context, id uint64) (*model.Booking, error)

	// ActiveByRoom returns the room's bookings with status pending or
	// approved, the conflict set for the availability check.
	ActiveByRoom(ctx context.Context, roomID uint64) ([]model.Booking, error)

	CreateBooking(ctx context.Context, b *model.Booking) error
	UpdateBooking(ctx context.Context, b *model.Booking) error
	UpdateStatus(ctx context.Context, id uint64, status model.BookingStatus) error
	DeleteBooking(ctx context.Context, id uint64) error

	ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error)
	ListAll(ctx context.Context) ([]model.Booking, error)
}

// EventSink receives one lifecycle event per successful mutation.
// Publishing is observational: a sink error is logged and dropped,
// never surfaced to the caller.
type EventSink interface {
	Publish(ctx context.Context, ev queue.BookingEvent) error
}

// Request carries the user-supplied fields of a create or edit call.
type Request struct {
	RoomID   uint64
	StartsAt time.Time
	EndsAt   time.Time
	Purpose  string
}

// Service applies lifecycle transitions. Each mutating method holds the
// target room's lock for the whole check-then-write sequence, so two
// requests racing on the same room cannot both pass the availability
// check before either commits.
type Service struct {
	store  Store
	events EventSink
	locks  *roomLocks
}

// NewService returns a Service over the given store. events may be nil,
// in which case lifecycle events are not emitted.
func NewService(store Store, events EventSink) *Service {
	if store == nil {
		panic("nil store passed to booking.NewService")
	}
	return &Service{store: store, events: events, locks: newRoomLocks()}
}

// Create books a room for the actor. The booking is born pending and
// must pass the availability check against the room's pending and
// approved bookings.
func (s *Service) Create(ctx context.Context, actor Actor, req Request) (*model.Booking, error) {
	if !req.EndsAt.After(req.StartsAt) {
		return nil, ErrInvalidInterval
	}
	if _, err := s.store.GetRoom(ctx, req.RoomID); err != nil {
		return nil, err
	}

	unlock := s.locks.lock(req.RoomID)
	defer unlock()

	existing, err := s.store.ActiveByRoom(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}
	if !Available(existing, req.StartsAt, req.EndsAt, 0) {
		return nil, ErrConflict
	}

	b := &model.Booking{
		UserID:   actor.ID,
		RoomID:   req.RoomID,
		StartsAt: req.StartsAt.UTC(),
		EndsAt:   req.EndsAt.UTC(),
		Purpose:  req.Purpose,
		Status:   model.StatusPending,
	}
	if err := s.store.CreateBooking(ctx, b); err != nil {
		return nil, err
	}
	s.emit(ctx, queue.EventBookingCreated, b, actor, nil)
	return b, nil
}

// Edit revises a pending booking owned by the actor. The new interval
// is validated against the target room excluding the booking itself, so
// re-submitting the current slot always succeeds. A successful edit
// leaves the booking pending regardless of what fields changed.
func (s *Service) Edit(ctx context.Context, actor Actor, bookingID uint64, req Request) (*model.Booking, error) {
	if !req.EndsAt.After(req.StartsAt) {
		return nil, ErrInvalidInterval
	}
	if _, err := s.store.GetRoom(ctx, req.RoomID); err != nil {
		return nil, err
	}
	cur, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if cur.UserID != actor.ID {
		return nil, ErrForbidden
	}

	// Lock the current room as well as the target so a concurrent
	// transition on this booking cannot interleave with the move.
	unlock := s.locks.lock(cur.RoomID, req.RoomID)
	defer unlock()

	cur, err = s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if cur.UserID != actor.ID {
		return nil, ErrForbidden
	}
	if cur.Status != model.StatusPending {
		// Approved bookings are immutable to their owner; rejected ones
		// must be re-created rather than edited.
		return nil, ErrImmutableState
	}

	existing, err := s.store.ActiveByRoom(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}
	if !Available(existing, req.StartsAt, req.EndsAt, cur.ID) {
		return nil, ErrConflict
	}

	changes := changedFields(cur, req)
	upd := *cur
	upd.RoomID = req.RoomID
	upd.StartsAt = req.StartsAt.UTC()
	upd.EndsAt = req.EndsAt.UTC()
	upd.Purpose = req.Purpose
	upd.Status = model.StatusPending
	if err := s.store.UpdateBooking(ctx, &upd); err != nil {
		return nil, err
	}
	s.emit(ctx, queue.EventBookingUpdated, &upd, actor, changes)
	return &upd, nil
}

// Delete removes a booking. The owner may delete while the booking is
// pending or rejected; administrators may delete in any state.
func (s *Service) Delete(ctx context.Context, actor Actor, bookingID uint64) error {
	cur, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if cur.UserID != actor.ID && !actor.Admin() {
		return ErrForbidden
	}

	unlock := s.locks.lock(cur.RoomID)
	defer unlock()

	cur, err = s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if cur.UserID != actor.ID && !actor.Admin() {
		return ErrForbidden
	}
	if !actor.Admin() && cur.Status == model.StatusApproved {
		return ErrImmutableState
	}
	if err := s.store.DeleteBooking(ctx, bookingID); err != nil {
		return err
	}
	s.emit(ctx, queue.EventBookingDeleted, cur, actor, nil)
	return nil
}

// Approve moves a booking to approved. Administrator only. Approving an
// already-approved booking is a conflict, not a silent success, so
// duplicate admin actions never emit duplicate events. A rejected
// booking re-enters the room's timeline on approval, so its interval is
// re-validated first.
func (s *Service) Approve(ctx context.Context, actor Actor, bookingID uint64) (*model.Booking, error) {
	return s.setStatus(ctx, actor, bookingID, model.StatusApproved, queue.EventBookingApproved)
}

// Reject moves a booking to rejected. Administrator only, with the same
// idempotence guard as Approve.
func (s *Service) Reject(ctx context.Context, actor Actor, bookingID uint64) (*model.Booking, error) {
	return s.setStatus(ctx, actor, bookingID, model.StatusRejected, queue.EventBookingRejected)
}

func (s *Service) setStatus(ctx context.Context, actor Actor, bookingID uint64, to model.BookingStatus, kind string) (*model.Booking, error) {
	if !actor.Admin() {
		return nil, ErrForbidden
	}
	cur, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(cur.RoomID)
	defer unlock()

	cur, err = s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if cur.Status == to {
		return nil, ErrAlreadyInState
	}
	if to == model.StatusApproved && cur.Status == model.StatusRejected {
		// A rejected booking left the conflict set; make sure its slot is
		// still free before putting it back.
		existing, err := s.store.ActiveByRoom(ctx, cur.RoomID)
		if err != nil {
			return nil, err
		}
		if !Available(existing, cur.StartsAt, cur.EndsAt, cur.ID) {
			return nil, ErrConflict
		}
	}
	if err := s.store.UpdateStatus(ctx, bookingID, to); err != nil {
		return nil, err
	}
	upd := *cur
	upd.Status = to
	s.emit(ctx, kind, &upd, actor, nil)
	return &upd, nil
}

// Get returns a single booking, readable by its owner or an admin.
func (s *Service) Get(ctx context.Context, actor Actor, bookingID uint64) (*model.Booking, error) {
	b, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != actor.ID && !actor.Admin() {
		return nil, ErrForbidden
	}
	return b, nil
}

// ListForActor returns the actor's own bookings, newest first.
func (s *Service) ListForActor(ctx context.Context, actor Actor) ([]model.Booking, error) {
	return s.store.ListByUser(ctx, actor.ID)
}

// ListAll returns every booking. Administrator only.
func (s *Service) ListAll(ctx context.Context, actor Actor) ([]model.Booking, error) {
	if !actor.Admin() {
		return nil, ErrForbidden
	}
	return s.store.ListAll(ctx)
}

func (s *Service) emit(ctx context.Context, kind string, b *model.Booking, actor Actor, changes []string) {
	if s.events == nil {
		return
	}
	ev := queue.BookingEvent{
		Kind:      kind,
		BookingID: b.ID,
		RoomID:    b.RoomID,
		ActorID:   actor.ID,
		OwnerID:   b.UserID,
		Status:    string(b.Status),
		StartsAt:  b.StartsAt.UTC().Format(time.RFC3339),
		EndsAt:    b.EndsAt.UTC().Format(time.RFC3339),
		Purpose:   b.Purpose,
		Changes:   changes,
		EmittedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		log.Printf("booking: publish %s for booking %d failed: %v", kind, b.ID, err)
	}
}

func changedFields(old *model.Booking, req Request) []string {
	var out []string
	if old.RoomID != req.RoomID {
		out = append(out, "room_id")
	}
	if !old.StartsAt.Equal(req.StartsAt) {
		out = append(out, "starts_at")
	}
	if !old.EndsAt.Equal(req.EndsAt) {
		out = append(out, "ends_at")
	}
	if old.Purpose != req.Purpose {
		out = append(out, "purpose")
	}
	return out
}
