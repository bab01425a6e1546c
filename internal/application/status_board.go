package application

import (
	"sync"
	"time"
)

// statusBoard publishes the most recent derived room statuses. Each
// publication carries the snapshot version it was computed from; a
// publication computed from an older snapshot than the one already shown is
// discarded rather than merged, so a slow recomputation can never roll the
// displayed state backwards.
type statusBoard struct {
	mu         sync.RWMutex
	version    uint64
	computedAt time.Time
	statuses   map[string]RoomStatus
}

func newStatusBoard() *statusBoard {
	return &statusBoard{statuses: make(map[string]RoomStatus)}
}

// Publish replaces the board contents. Re-publishing the same version is
// idempotent by construction: the same snapshot yields the same statuses.
func (b *statusBoard) Publish(version uint64, computedAt time.Time, statuses map[string]RoomStatus) error {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if version < b.version {
		return ErrStaleSnapshot
	}

	cloned := make(map[string]RoomStatus, len(statuses))
	for id, status := range statuses {
		cloned[id] = status
	}
	b.version = version
	b.computedAt = computedAt
	b.statuses = cloned
	return nil
}

// Status returns the last published status for a room.
func (b *statusBoard) Status(roomID string) (RoomStatus, bool) {
	if b == nil {
		return RoomStatus{}, false
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	status, ok := b.statuses[roomID]
	return status, ok
}

// Version returns the snapshot version of the current publication.
func (b *statusBoard) Version() uint64 {
	if b == nil {
		return 0
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.version
}
