package availability

import (
	"fmt"
	"sort"
	"time"

	"github.com/14-dg/roomfinder/internal/persistence"
	"github.com/14-dg/roomfinder/internal/recurrence"
	"github.com/14-dg/roomfinder/internal/timetable"
)

// OccupantKind labels which source currently claims the room.
type OccupantKind string

const (
	// OccupantBooking marks a one-off staff reservation.
	OccupantBooking OccupantKind = "booking"
	// OccupantLecture marks a recurring timetable session.
	OccupantLecture OccupantKind = "lecture"
)

// Occupant identifies the record occupying a room at the evaluated instant.
// Exactly one of Booking and Lecture is set, matching Kind.
type Occupant struct {
	Kind    OccupantKind
	Booking *persistence.Booking
	Lecture *recurrence.Session
}

// Status is the derived availability of one room at one instant. Locked is a
// separate caller-visible dimension and never folds into Occupied.
type Status struct {
	RoomID   string
	Occupied bool
	Occupant *Occupant
	Locked   bool
}

// RecordFault flags a malformed record that was skipped during evaluation.
// One corrupt booking must not abort resolution of the rest of the room.
type RecordFault struct {
	Kind     string
	RecordID string
	Err      error
}

func (f RecordFault) String() string {
	return fmt.Sprintf("%s %s: %v", f.Kind, f.RecordID, f.Err)
}

// Resolve derives the occupancy of a room at the given instant.
//
// Priority rule: an active booking always overrides an active recurring
// session for the same room at the same instant; bookings are staff-asserted
// ad-hoc claims, lectures are the default timetable. Among several active
// records of the same kind the earliest-created one wins (lowest ID on equal
// creation time), keeping overlapping source data deterministic.
func Resolve(room persistence.Room, sessions []recurrence.Session, bookings []persistence.Booking, matcher *recurrence.Matcher, now time.Time) (Status, []RecordFault) {
	status := Status{RoomID: room.ID, Locked: room.Locked}
	faults := make([]RecordFault, 0)

	if booking, ok, bookingFaults := activeBooking(room.ID, bookings, now); ok {
		faults = append(faults, bookingFaults...)
		status.Occupied = true
		status.Occupant = &Occupant{Kind: OccupantBooking, Booking: booking}
		return status, faults
	} else {
		faults = append(faults, bookingFaults...)
	}

	if session, ok, sessionFaults := activeSession(room.ID, sessions, matcher, now); ok {
		faults = append(faults, sessionFaults...)
		status.Occupied = true
		status.Occupant = &Occupant{Kind: OccupantLecture, Lecture: session}
		return status, faults
	} else {
		faults = append(faults, sessionFaults...)
	}

	return status, faults
}

func activeBooking(roomID string, bookings []persistence.Booking, now time.Time) (*persistence.Booking, bool, []RecordFault) {
	faults := make([]RecordFault, 0)
	active := make([]persistence.Booking, 0)

	for _, booking := range bookings {
		if booking.RoomID != roomID {
			continue
		}
		window := timetable.InstantWindow{Start: booking.Start, End: booking.End}
		if err := window.Validate(); err != nil {
			faults = append(faults, RecordFault{Kind: "booking", RecordID: booking.ID, Err: err})
			continue
		}
		if window.Contains(now) {
			active = append(active, booking)
		}
	}
	if len(active) == 0 {
		return nil, false, faults
	}

	sort.Slice(active, func(i, j int) bool {
		if active[i].CreatedAt.Equal(active[j].CreatedAt) {
			return active[i].ID < active[j].ID
		}
		return active[i].CreatedAt.Before(active[j].CreatedAt)
	})
	winner := active[0]
	return &winner, true, faults
}

func activeSession(roomID string, sessions []recurrence.Session, matcher *recurrence.Matcher, now time.Time) (*recurrence.Session, bool, []RecordFault) {
	faults := make([]RecordFault, 0)
	active := make([]recurrence.Session, 0)

	for _, session := range sessions {
		if session.RoomID != roomID {
			continue
		}
		ok, err := matcher.IsActive(session, now)
		if err != nil {
			faults = append(faults, RecordFault{Kind: "lecture", RecordID: session.ID, Err: err})
			continue
		}
		if ok {
			active = append(active, session)
		}
	}
	if len(active) == 0 {
		return nil, false, faults
	}

	sort.Slice(active, func(i, j int) bool {
		if active[i].Window.Start == active[j].Window.Start {
			return active[i].ID < active[j].ID
		}
		return active[i].Window.Start < active[j].Window.Start
	})
	winner := active[0]
	return &winner, true, faults
}
