package booking

import (
	"testing"
	"time"

	"github.com/iliyamo/room-reservation/internal/model"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 3, 10, hour, min, 0, 0, time.UTC)
}

func TestAvailable(t *testing.T) {
	existing := []model.Booking{
		{ID: 1, RoomID: 7, StartsAt: at(10, 0), EndsAt: at(11, 0), Status: model.StatusApproved},
		{ID: 2, RoomID: 7, StartsAt: at(14, 0), EndsAt: at(15, 0), Status: model.StatusPending},
		{ID: 3, RoomID: 7, StartsAt: at(16, 0), EndsAt: at(17, 0), Status: model.StatusRejected},
	}

	cases := []struct {
		name    string
		start   time.Time
		end     time.Time
		exclude uint64
		want    bool
	}{
		{"free slot", at(12, 0), at(13, 0), 0, true},
		{"identical interval", at(10, 0), at(11, 0), 0, false},
		{"overlaps tail", at(10, 30), at(11, 30), 0, false},
		{"overlaps head", at(9, 30), at(10, 30), 0, false},
		{"contains existing", at(9, 0), at(12, 0), 0, false},
		{"inside existing", at(10, 15), at(10, 45), 0, false},
		{"touches end of existing", at(11, 0), at(12, 0), 0, true},
		{"touches start of existing", at(9, 0), at(10, 0), 0, true},
		{"overlaps pending", at(14, 30), at(15, 30), 0, false},
		{"overlaps rejected only", at(16, 0), at(17, 0), 0, true},
		{"excluded booking ignored", at(10, 0), at(11, 0), 1, true},
		{"exclusion limited to one id", at(10, 0), at(15, 0), 1, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Available(existing, tc.start, tc.end, tc.exclude)
			if got != tc.want {
				t.Fatalf("Available(%s-%s, exclude=%d) = %v, want %v",
					tc.start.Format("15:04"), tc.end.Format("15:04"), tc.exclude, got, tc.want)
			}
		})
	}
}

func TestAvailableEmptyRoom(t *testing.T) {
	if !Available(nil, at(9, 0), at(18, 0), 0) {
		t.Fatal("expected an empty room to be available")
	}
}
