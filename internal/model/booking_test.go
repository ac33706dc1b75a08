package model

import (
	"testing"
	"time"
)

func TestBookingStatus(t *testing.T) {
	for _, s := range []BookingStatus{StatusPending, StatusApproved, StatusRejected} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if BookingStatus("cancelled").Valid() {
		t.Error("unknown status passed Valid")
	}

	if !StatusPending.Active() || !StatusApproved.Active() {
		t.Error("pending and approved must be active")
	}
	if StatusRejected.Active() {
		t.Error("rejected must not be active")
	}
}

func TestBookingOverlaps(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	h := func(hour int) time.Time { return day.Add(time.Duration(hour) * time.Hour) }

	b := &Booking{StartsAt: h(10), EndsAt: h(12)}

	cases := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"identical", h(10), h(12), true},
		{"straddles start", h(9), h(11), true},
		{"straddles end", h(11), h(13), true},
		{"contained", h(10), h(11), true},
		{"containing", h(9), h(13), true},
		{"ends at start", h(8), h(10), false},
		{"starts at end", h(12), h(14), false},
		{"disjoint before", h(6), h(8), false},
		{"disjoint after", h(14), h(16), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := b.Overlaps(tc.start, tc.end); got != tc.want {
				t.Fatalf("Overlaps(%v, %v) = %v, want %v", tc.start, tc.end, got, tc.want)
			}
		})
	}
}
