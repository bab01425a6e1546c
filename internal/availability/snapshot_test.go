package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/14-dg/roomfinder/internal/persistence"
	"github.com/14-dg/roomfinder/internal/recurrence"
)

func TestSnapshotRoomFilters(t *testing.T) {
	snapshot := Snapshot{
		Rooms: []persistence.Room{{ID: "room-1"}, {ID: "room-2"}},
		Sessions: []recurrence.Session{
			{ID: "lecture-1", RoomID: "room-1"},
			{ID: "lecture-2", RoomID: "room-2"},
		},
		Bookings: []persistence.Booking{
			{ID: "booking-1", RoomID: "room-2"},
		},
		CheckIns: []persistence.CheckIn{
			{ID: "checkin-1", RoomID: "room-1"},
			{ID: "checkin-2", RoomID: "room-1"},
		},
	}

	room, ok := snapshot.Room("room-2")
	assert.True(t, ok)
	assert.Equal(t, "room-2", room.ID)
	_, ok = snapshot.Room("missing")
	assert.False(t, ok)

	sessions := snapshot.SessionsForRoom("room-1")
	if assert.Len(t, sessions, 1) {
		assert.Equal(t, "lecture-1", sessions[0].ID)
	}

	bookings := snapshot.BookingsForRoom("room-1")
	assert.Empty(t, bookings)

	checkIns := snapshot.CheckInsForRoom("room-1")
	assert.Len(t, checkIns, 2)
}
