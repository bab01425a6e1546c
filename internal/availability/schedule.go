package availability

import (
	"sort"
	"time"

	"github.com/14-dg/roomfinder/internal/persistence"
	"github.com/14-dg/roomfinder/internal/timetable"
)

// SlotAssignment pairs a fixed pattern slot with the booking covering it, if
// any.
type SlotAssignment struct {
	Slot    timetable.Window
	Booking *persistence.Booking
}

// DaySchedule is one weekday row of the weekly grid.
type DaySchedule struct {
	Weekday time.Weekday
	Slots   []SlotAssignment
}

// BuildSchedule renders the weekly grid for one room.
//
// For each requested weekday and each pattern slot, the first booking whose
// [start,end) interval fully covers the slot's time-of-day range on that
// weekday (judged on the booking's own calendar date) occupies the slot.
// "First" means earliest CreatedAt, lowest ID on ties, so two builds over the
// same snapshot produce identical output regardless of store ordering.
//
// Malformed bookings are skipped and flagged; they never abort the rest of
// the grid. An empty pattern is an error: without slots there is nothing to
// render and no sensible fallback.
func BuildSchedule(roomID string, pattern timetable.SlotPattern, bookings []persistence.Booking, weekdays []time.Weekday, loc *time.Location) ([]DaySchedule, []RecordFault, error) {
	if err := pattern.Validate(); err != nil {
		return nil, nil, err
	}
	if loc == nil {
		loc = time.Local
	}

	faults := make([]RecordFault, 0)
	candidates := make([]persistence.Booking, 0, len(bookings))
	for _, booking := range bookings {
		if booking.RoomID != roomID {
			continue
		}
		window := timetable.InstantWindow{Start: booking.Start, End: booking.End}
		if err := window.Validate(); err != nil {
			faults = append(faults, RecordFault{Kind: "booking", RecordID: booking.ID, Err: err})
			continue
		}
		candidates = append(candidates, booking)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].CreatedAt.Equal(candidates[j].CreatedAt) {
			return candidates[i].ID < candidates[j].ID
		}
		return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
	})

	days := make([]DaySchedule, 0, len(weekdays))
	for _, weekday := range weekdays {
		day := DaySchedule{Weekday: weekday, Slots: make([]SlotAssignment, 0, len(pattern.Slots))}
		for _, slot := range pattern.Slots {
			assignment := SlotAssignment{Slot: slot}
			for _, booking := range candidates {
				if coversSlot(booking, weekday, slot, loc) {
					occupant := booking
					assignment.Booking = &occupant
					break
				}
			}
			day.Slots = append(day.Slots, assignment)
		}
		days = append(days, day)
	}

	return days, faults, nil
}

// coversSlot reports whether the booking's time-of-day span on its own
// calendar date fully covers the slot on the given weekday. A booking that
// runs past midnight covers through end of its start day.
func coversSlot(booking persistence.Booking, weekday time.Weekday, slot timetable.Window, loc *time.Location) bool {
	start := booking.Start.In(loc)
	if start.Weekday() != weekday {
		return false
	}

	from := timetable.MinuteOf(start, loc)
	to := timetable.EndOfDay
	if timetable.SameCalendarDay(booking.Start, booking.End, loc) {
		to = timetable.MinuteOf(booking.End.In(loc), loc)
	}

	return from <= slot.Start && slot.End <= to
}
