package persistence

import (
	"context"
	"time"
)

// RoomRepository exposes CRUD operations for rooms plus the two mutations the
// engine's boundary requires: the lock flag and the live check-in counter.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room Room) error
	UpdateRoom(ctx context.Context, room Room) error
	GetRoom(ctx context.Context, id string) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
	DeleteRoom(ctx context.Context, id string) error
	SetRoomLock(ctx context.Context, id string, locked bool) error
	// AdjustCheckinCount changes the running counter by delta in a single
	// atomic store operation. Two concurrent check-ins within the same
	// refresh window must both be counted; implementations must not
	// read-modify-write from the client side.
	AdjustCheckinCount(ctx context.Context, id string, delta int) error
}

// LectureFilter narrows lecture queries.
type LectureFilter struct {
	RoomID string
}

// LectureRepository stores the recurring timetable.
type LectureRepository interface {
	CreateLecture(ctx context.Context, lecture Lecture) error
	GetLecture(ctx context.Context, id string) (Lecture, error)
	ListLectures(ctx context.Context, filter LectureFilter) ([]Lecture, error)
	DeleteLecture(ctx context.Context, id string) error
}

// BookingFilter narrows booking queries. EndsAfter excludes bookings already
// fully in the past relative to the given instant.
type BookingFilter struct {
	RoomID    string
	EndsAfter *time.Time
}

// BookingRepository stores one-off staff reservations.
type BookingRepository interface {
	CreateBooking(ctx context.Context, booking Booking) error
	GetBooking(ctx context.Context, id string) (Booking, error)
	ListBookings(ctx context.Context, filter BookingFilter) ([]Booking, error)
	DeleteBooking(ctx context.Context, id string) error
}

// CheckInFilter narrows check-in queries. ActiveAt selects records whose
// half-open [start,end) interval contains the instant.
type CheckInFilter struct {
	RoomID   string
	ActiveAt *time.Time
}

// CheckInRepository stores student presence records.
type CheckInRepository interface {
	CreateCheckIn(ctx context.Context, checkIn CheckIn) error
	GetCheckIn(ctx context.Context, id string) (CheckIn, error)
	ListCheckIns(ctx context.Context, filter CheckInFilter) ([]CheckIn, error)
	DeleteCheckIn(ctx context.Context, id string) error
}
