package booking

import (
	"time"

	"github.com/iliyamo/room-reservation/internal/model"
)

// Available reports whether the candidate interval [start, end) is free
// on a room given the room's existing bookings. Only pending and
// approved bookings occupy the timeline; rejected ones never conflict.
// excludeID names a booking to skip, used when revising a booking
// against its own room (zero means exclude nothing).
//
// Overlap is half-open: a booking ending exactly at start, or starting
// exactly at end, does not conflict. The scan is linear; per-room
// booking volume is small enough that no interval index is needed.
//
// The caller must have validated end > start already.
func Available(existing []model.Booking, start, end time.Time, excludeID uint64) bool {
	for i := range existing {
		b := &existing[i]
		if excludeID != 0 && b.ID == excludeID {
			continue
		}
		if !b.Status.Active() {
			continue
		}
		if b.Overlaps(start, end) {
			return false
		}
	}
	return true
}
