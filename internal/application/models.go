package application

import (
	"time"

	"github.com/14-dg/roomfinder/internal/availability"
	"github.com/14-dg/roomfinder/internal/persistence"
	"github.com/14-dg/roomfinder/internal/recurrence"
	"github.com/14-dg/roomfinder/internal/timetable"
)

// Principal represents the authenticated user invoking a service method.
// Authentication itself happens outside this module; callers hand in the
// already-established identity.
type Principal struct {
	UserID  string
	IsStaff bool
	IsAdmin bool
}

// RoomInput captures caller provided room fields.
type RoomInput struct {
	Name          string
	Floor         int
	Capacity      int
	HasProjector  bool
	HasWhiteboard bool
	HasComputers  bool
	SlotPattern   *string
}

// CreateRoomParams wraps the data required to create a room.
type CreateRoomParams struct {
	Principal Principal
	Input     RoomInput
}

// UpdateRoomParams wraps the data required to update a room.
type UpdateRoomParams struct {
	Principal Principal
	RoomID    string
	Input     RoomInput
}

// BookingInput captures caller provided booking fields.
type BookingInput struct {
	RoomID string
	Start  time.Time
	End    time.Time
	Label  string
}

// CreateBookingParams wraps the data required to create a booking.
type CreateBookingParams struct {
	Principal Principal
	Input     BookingInput
}

// CheckInInput captures caller provided check-in fields. Duration is given in
// whole minutes, matching the boundary contract.
type CheckInInput struct {
	RoomID          string
	Activity        string
	Start           time.Time
	DurationMinutes int
}

// AddCheckInParams wraps the data required to record a check-in.
type AddCheckInParams struct {
	Principal Principal
	Input     CheckInInput
}

// LectureInput captures caller provided timetable fields. Weekday and the
// time-of-day bounds arrive as strings and are normalized through the
// timetable mapping table (names or 0=Sunday numbers, "HH:MM" times).
type LectureInput struct {
	Subject   string
	Lecturer  string
	RoomID    string
	Weekday   string
	StartTime string
	EndTime   string
	StartDate time.Time
	EndDate   time.Time
}

// CreateLectureParams wraps the data required to create a lecture.
type CreateLectureParams struct {
	Principal Principal
	Input     LectureInput
}

// RoomStatus is the caller-facing derived view of one room at one instant.
type RoomStatus struct {
	Room        persistence.Room
	Occupied    bool
	Occupant    *availability.Occupant
	Locked      bool
	CheckIns    int
	Level       availability.Level
	Activity    string
	CurrentSlot *timetable.Window
	ComputedAt  time.Time
}

// WeeklySchedule is the output of the schedule aggregator for one room,
// together with any malformed records skipped while building it.
type WeeklySchedule struct {
	RoomID  string
	Days    []availability.DaySchedule
	Skipped []availability.RecordFault
}

// LectureOccurrence is one expanded instance of a recurring lecture, used to
// overlay the timetable onto the weekly grid.
type LectureOccurrence struct {
	Lecture persistence.Lecture
	Start   time.Time
	End     time.Time
}

func sessionFromLecture(lecture persistence.Lecture) recurrence.Session {
	return recurrence.Session{
		ID:        lecture.ID,
		RoomID:    lecture.RoomID,
		Subject:   lecture.Subject,
		Lecturer:  lecture.Lecturer,
		Weekday:   lecture.Weekday,
		Window:    timetable.Window{Start: lecture.StartTime, End: lecture.EndTime},
		StartDate: lecture.StartDate,
		EndDate:   lecture.EndDate,
	}
}
