// Package queue defines message payloads exchanged over the message broker.
package queue

// Lifecycle event kinds. One event is published per successful booking
// mutation; consumers use the kind to route or format entries.
const (
	EventBookingCreated  = "booking.created"
	EventBookingUpdated  = "booking.updated"
	EventBookingApproved = "booking.approved"
	EventBookingRejected = "booking.rejected"
	EventBookingDeleted  = "booking.deleted"
)

// BookingEvent is published after a booking lifecycle transition
// commits. It carries enough information for downstream consumers to
// write audit entries or notify without querying the primary database.
// Changes lists the field names an edit touched; it is empty for other
// kinds.
type BookingEvent struct {
	Kind      string   `json:"kind"`
	BookingID uint64   `json:"booking_id"`
	RoomID    uint64   `json:"room_id"`
	ActorID   uint64   `json:"actor_id"`
	OwnerID   uint64   `json:"owner_id"`
	Status    string   `json:"status"`
	StartsAt  string   `json:"starts_at"`
	EndsAt    string   `json:"ends_at"`
	Purpose   string   `json:"purpose,omitempty"`
	Changes   []string `json:"changes,omitempty"`
	EmittedAt string   `json:"emitted_at"`
}
