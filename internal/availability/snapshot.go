package availability

import (
	"time"

	"github.com/14-dg/roomfinder/internal/persistence"
	"github.com/14-dg/roomfinder/internal/recurrence"
)

// Snapshot is an immutable view of the record store at one instant. All
// engine computations run against a snapshot plus an explicit now, so running
// the same resolution twice on the same snapshot yields the same result.
//
// Version increases monotonically with each refresh; consumers use it to
// discard recomputations that raced a newer snapshot.
type Snapshot struct {
	Version  uint64
	TakenAt  time.Time
	Rooms    []persistence.Room
	Sessions []recurrence.Session
	Bookings []persistence.Booking
	CheckIns []persistence.CheckIn
}

// Room looks up a room by id.
func (s Snapshot) Room(id string) (persistence.Room, bool) {
	for _, room := range s.Rooms {
		if room.ID == id {
			return room, true
		}
	}
	return persistence.Room{}, false
}

// SessionsForRoom returns the recurring sessions referencing the room.
func (s Snapshot) SessionsForRoom(roomID string) []recurrence.Session {
	sessions := make([]recurrence.Session, 0)
	for _, session := range s.Sessions {
		if session.RoomID == roomID {
			sessions = append(sessions, session)
		}
	}
	return sessions
}

// BookingsForRoom returns the bookings referencing the room.
func (s Snapshot) BookingsForRoom(roomID string) []persistence.Booking {
	bookings := make([]persistence.Booking, 0)
	for _, booking := range s.Bookings {
		if booking.RoomID == roomID {
			bookings = append(bookings, booking)
		}
	}
	return bookings
}

// CheckInsForRoom returns the check-ins referencing the room.
func (s Snapshot) CheckInsForRoom(roomID string) []persistence.CheckIn {
	checkIns := make([]persistence.CheckIn, 0)
	for _, checkIn := range s.CheckIns {
		if checkIn.RoomID == roomID {
			checkIns = append(checkIns, checkIn)
		}
	}
	return checkIns
}
