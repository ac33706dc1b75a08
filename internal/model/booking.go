package model

import "time"

// BookingStatus is the closed set of states a booking moves through.
// It is a dedicated type rather than a bare string so that transition
// code can switch over it exhaustively.
type BookingStatus string

const (
	StatusPending  BookingStatus = "pending"
	StatusApproved BookingStatus = "approved"
	StatusRejected BookingStatus = "rejected"
)

// Valid reports whether s is one of the three known states. Rows read
// back from the database are expected to always pass this check; it
// exists to catch bad writes early.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Active reports whether the booking occupies its room's timeline.
// Rejected bookings are excluded from conflict checks entirely.
func (s BookingStatus) Active() bool {
	return s == StatusPending || s == StatusApproved
}

// Booking is a reservation of one room for one time interval by one
// user. The interval is half-open: [StartsAt, EndsAt). All instants are
// stored in UTC.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the booking, fixed at creation.
//  RoomID    – room being reserved.
//  StartsAt  – start instant (inclusive).
//  EndsAt    – end instant (exclusive); strictly after StartsAt.
//  Purpose   – free-text purpose supplied by the owner.
//  Status    – current lifecycle state.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Booking struct {
	ID        uint64        // bookings.id
	UserID    uint64        // bookings.user_id
	RoomID    uint64        // bookings.room_id
	StartsAt  time.Time     // bookings.starts_at
	EndsAt    time.Time     // bookings.ends_at
	Purpose   string        // bookings.purpose
	Status    BookingStatus // bookings.status
	CreatedAt time.Time     // bookings.created_at
	UpdatedAt time.Time     // bookings.updated_at
}

// Overlaps reports whether the booking's interval shares at least one
// instant with [start, end). Touching endpoints do not overlap.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartsAt.Before(end) && b.EndsAt.After(start)
}
