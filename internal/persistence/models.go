package persistence

import (
	"time"

	"github.com/14-dg/roomfinder/internal/timetable"
)

// Room represents a bookable university room.
//
// Availability is never stored on the record; it is derived per request from
// lectures, bookings and check-ins. CheckinCount is a running counter
// maintained exclusively through RoomRepository.AdjustCheckinCount.
type Room struct {
	ID            string
	Name          string
	Floor         int
	Capacity      int
	HasProjector  bool
	HasWhiteboard bool
	HasComputers  bool
	Locked        bool
	CheckinCount  int
	// SlotPattern optionally overrides the shared default pattern, in the
	// "HH:MM-HH:MM,HH:MM-HH:MM" form understood by timetable.ParsePattern.
	SlotPattern *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Lecture represents a weekly recurring session from the official timetable.
// Weekday follows the 0=Sunday..6=Saturday convention; repositories normalize
// legacy day-name values on read.
type Lecture struct {
	ID        string
	Subject   string
	Lecturer  string
	RoomID    string
	Weekday   time.Weekday
	StartTime timetable.MinuteOfDay
	EndTime   timetable.MinuteOfDay
	StartDate time.Time
	EndDate   time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Booking represents a one-off staff reservation with absolute bounds.
// Bookings may overlap each other and lectures; the store never prevents
// overlap, the resolver arbitrates it.
type Booking struct {
	ID            string
	RoomID        string
	Start         time.Time
	End           time.Time
	RequesterID   string
	RequesterRole string
	Label         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CheckIn represents a self-expiring student presence record. Expiry is a
// derived condition (now >= End); deletion is always caller triggered.
type CheckIn struct {
	ID        string
	RoomID    string
	UserID    string
	Activity  string
	Start     time.Time
	End       time.Time
	CreatedAt time.Time
}
