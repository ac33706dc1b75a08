package booking

import (
	"sort"
	"sync"
)

// roomLocks hands out one mutex per room ID so that the check-then-write
// sequence for a room is serialized against concurrent mutations of the
// same room, while requests against different rooms proceed in parallel.
// Mutexes are created on first use and kept for the process lifetime;
// the room population is small and bounded.
type roomLocks struct {
	mu sync.Mutex
	m  map[uint64]*sync.Mutex
}

func newRoomLocks() *roomLocks {
	return &roomLocks{m: make(map[uint64]*sync.Mutex)}
}

func (l *roomLocks) get(roomID uint64) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	if mtx, ok := l.m[roomID]; ok {
		return mtx
	}
	mtx := &sync.Mutex{}
	l.m[roomID] = mtx
	return mtx
}

// lock acquires the mutexes for the given rooms in ascending ID order,
// skipping duplicates, and returns a func that releases them in reverse
// order. The fixed ordering prevents deadlock when an edit moves a
// booking between two rooms and a concurrent edit moves one the other
// way.
func (l *roomLocks) lock(roomIDs ...uint64) func() {
	ids := make([]uint64, 0, len(roomIDs))
	seen := make(map[uint64]struct{}, len(roomIDs))
	for _, id := range roomIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	held := make([]*sync.Mutex, 0, len(ids))
	for _, id := range ids {
		mtx := l.get(id)
		mtx.Lock()
		held = append(held, mtx)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
