package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/14-dg/roomfinder/internal/persistence"
	"github.com/14-dg/roomfinder/internal/timetable"
)

var (
	roomCounter    uint64
	lectureCounter uint64
	bookingCounter uint64
	checkInCounter uint64
)

// referenceTime is a Tuesday, so weekday sensitive fixtures line up with a
// teaching day by default.
var referenceTime = time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ----------------------------- Room fixtures -----------------------------

// RoomOption configures the generated room fixture.
type RoomOption func(*persistence.Room)

// NewRoomFixture returns a deterministic room record with optional overrides.
func NewRoomFixture(opts ...RoomOption) persistence.Room {
	idx := atomic.AddUint64(&roomCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	room := persistence.Room{
		ID:            fmt.Sprintf("room-%03d", idx),
		Name:          fmt.Sprintf("Room %03d", idx),
		Floor:         int(idx%4) + 1,
		Capacity:      30,
		HasProjector:  true,
		HasWhiteboard: true,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
	for _, opt := range opts {
		opt(&room)
	}
	return room
}

// WithRoomID overrides the generated room ID.
func WithRoomID(id string) RoomOption {
	return func(r *persistence.Room) {
		r.ID = id
	}
}

// WithRoomName overrides the generated room name.
func WithRoomName(name string) RoomOption {
	return func(r *persistence.Room) {
		r.Name = name
	}
}

// WithRoomFloor overrides the generated floor.
func WithRoomFloor(floor int) RoomOption {
	return func(r *persistence.Room) {
		r.Floor = floor
	}
}

// WithRoomCapacity overrides the generated capacity.
func WithRoomCapacity(capacity int) RoomOption {
	return func(r *persistence.Room) {
		r.Capacity = capacity
	}
}

// WithRoomLocked sets the lock flag on the fixture.
func WithRoomLocked(locked bool) RoomOption {
	return func(r *persistence.Room) {
		r.Locked = locked
	}
}

// WithRoomSlotPattern sets a custom slot pattern on the fixture.
func WithRoomSlotPattern(pattern string) RoomOption {
	return func(r *persistence.Room) {
		r.SlotPattern = &pattern
	}
}

// WithRoomCheckinCount sets the persisted check-in counter.
func WithRoomCheckinCount(count int) RoomOption {
	return func(r *persistence.Room) {
		r.CheckinCount = count
	}
}

// --------------------------- Lecture fixtures ----------------------------

// LectureOption configures the generated lecture fixture.
type LectureOption func(*persistence.Lecture)

// NewLectureFixture returns a deterministic lecture record. The default
// lecture runs on Tuesdays from 10:00 to 12:00 across one semester.
func NewLectureFixture(opts ...LectureOption) persistence.Lecture {
	idx := atomic.AddUint64(&lectureCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	lecture := persistence.Lecture{
		ID:        fmt.Sprintf("lecture-%03d", idx),
		Subject:   fmt.Sprintf("Subject %03d", idx),
		Lecturer:  fmt.Sprintf("Lecturer %03d", idx),
		RoomID:    "room-001",
		Weekday:   time.Tuesday,
		StartTime: timetable.MinuteOfDay(10 * 60),
		EndTime:   timetable.MinuteOfDay(12 * 60),
		StartDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC),
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&lecture)
	}
	return lecture
}

// WithLectureID overrides the generated lecture ID.
func WithLectureID(id string) LectureOption {
	return func(l *persistence.Lecture) {
		l.ID = id
	}
}

// WithLectureRoom overrides the room the lecture takes place in.
func WithLectureRoom(roomID string) LectureOption {
	return func(l *persistence.Lecture) {
		l.RoomID = roomID
	}
}

// WithLectureWeekday overrides the weekday of the lecture.
func WithLectureWeekday(day time.Weekday) LectureOption {
	return func(l *persistence.Lecture) {
		l.Weekday = day
	}
}

// WithLectureWindow sets the time-of-day bounds of the lecture.
func WithLectureWindow(start, end timetable.MinuteOfDay) LectureOption {
	return func(l *persistence.Lecture) {
		l.StartTime = start
		l.EndTime = end
	}
}

// WithLectureDates sets the active date range of the lecture.
func WithLectureDates(start, end time.Time) LectureOption {
	return func(l *persistence.Lecture) {
		l.StartDate = start
		l.EndDate = end
	}
}

// --------------------------- Booking fixtures ----------------------------

// BookingOption configures the generated booking fixture.
type BookingOption func(*persistence.Booking)

// NewBookingFixture returns a deterministic booking record. The default
// booking covers one hour starting at the reference time.
func NewBookingFixture(opts ...BookingOption) persistence.Booking {
	idx := atomic.AddUint64(&bookingCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	booking := persistence.Booking{
		ID:            fmt.Sprintf("booking-%03d", idx),
		RoomID:        "room-001",
		Start:         referenceTime,
		End:           referenceTime.Add(time.Hour),
		RequesterID:   fmt.Sprintf("staff-%03d", idx),
		RequesterRole: "staff",
		Label:         fmt.Sprintf("Booking %03d", idx),
		CreatedAt:     created,
		UpdatedAt:     created,
	}
	for _, opt := range opts {
		opt(&booking)
	}
	return booking
}

// WithBookingID overrides the generated booking ID.
func WithBookingID(id string) BookingOption {
	return func(b *persistence.Booking) {
		b.ID = id
	}
}

// WithBookingRoom overrides the booked room.
func WithBookingRoom(roomID string) BookingOption {
	return func(b *persistence.Booking) {
		b.RoomID = roomID
	}
}

// WithBookingWindow sets the booked time range.
func WithBookingWindow(start, end time.Time) BookingOption {
	return func(b *persistence.Booking) {
		b.Start = start
		b.End = end
	}
}

// WithBookingRequester sets the requesting user and role.
func WithBookingRequester(userID, role string) BookingOption {
	return func(b *persistence.Booking) {
		b.RequesterID = userID
		b.RequesterRole = role
	}
}

// WithBookingCreatedAt sets the creation timestamp, which drives the
// tie-break between overlapping bookings.
func WithBookingCreatedAt(t time.Time) BookingOption {
	return func(b *persistence.Booking) {
		b.CreatedAt = t
	}
}

// --------------------------- Check-in fixtures ---------------------------

// CheckInOption configures the generated check-in fixture.
type CheckInOption func(*persistence.CheckIn)

// NewCheckInFixture returns a deterministic check-in record. The default
// check-in covers two hours of quiet work starting at the reference time.
func NewCheckInFixture(opts ...CheckInOption) persistence.CheckIn {
	idx := atomic.AddUint64(&checkInCounter, 1)
	checkIn := persistence.CheckIn{
		ID:        fmt.Sprintf("checkin-%03d", idx),
		RoomID:    "room-001",
		UserID:    fmt.Sprintf("student-%03d", idx),
		Activity:  "quiet-work",
		Start:     referenceTime,
		End:       referenceTime.Add(2 * time.Hour),
		CreatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&checkIn)
	}
	return checkIn
}

// WithCheckInID overrides the generated check-in ID.
func WithCheckInID(id string) CheckInOption {
	return func(c *persistence.CheckIn) {
		c.ID = id
	}
}

// WithCheckInRoom overrides the room of the check-in.
func WithCheckInRoom(roomID string) CheckInOption {
	return func(c *persistence.CheckIn) {
		c.RoomID = roomID
	}
}

// WithCheckInActivity overrides the declared activity.
func WithCheckInActivity(activity string) CheckInOption {
	return func(c *persistence.CheckIn) {
		c.Activity = activity
	}
}

// WithCheckInWindow sets the active time range of the check-in.
func WithCheckInWindow(start, end time.Time) CheckInOption {
	return func(c *persistence.CheckIn) {
		c.Start = start
		c.End = end
	}
}
