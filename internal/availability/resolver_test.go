package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/14-dg/roomfinder/internal/persistence"
	"github.com/14-dg/roomfinder/internal/recurrence"
	"github.com/14-dg/roomfinder/internal/timetable"
)

var (
	// 2024-03-04 is a Monday.
	resolverMonday = time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	semesterStart  = time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	semesterEnd    = time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)
)

func mondayLecture(id string, startHour, endHour int) recurrence.Session {
	return recurrence.Session{
		ID:        id,
		RoomID:    "room-1",
		Subject:   "Algorithms",
		Weekday:   time.Monday,
		Window:    timetable.Window{Start: timetable.MinuteOfDay(startHour * 60), End: timetable.MinuteOfDay(endHour * 60)},
		StartDate: semesterStart,
		EndDate:   semesterEnd,
	}
}

func hourBooking(id string, day time.Time, startHour, endHour int, createdAt time.Time) persistence.Booking {
	return persistence.Booking{
		ID:        id,
		RoomID:    "room-1",
		Start:     day.Add(time.Duration(startHour) * time.Hour),
		End:       day.Add(time.Duration(endHour) * time.Hour),
		CreatedAt: createdAt,
	}
}

func TestResolve(t *testing.T) {
	matcher := recurrence.NewMatcher(time.UTC)
	room := persistence.Room{ID: "room-1"}
	now := resolverMonday.Add(11 * time.Hour)

	t.Run("free room", func(t *testing.T) {
		status, faults := Resolve(room, nil, nil, matcher, now)

		require.Empty(t, faults)
		assert.False(t, status.Occupied)
		assert.Nil(t, status.Occupant)
	})

	t.Run("lecture occupies the room", func(t *testing.T) {
		sessions := []recurrence.Session{mondayLecture("lecture-1", 10, 12)}

		status, faults := Resolve(room, sessions, nil, matcher, now)

		require.Empty(t, faults)
		require.True(t, status.Occupied)
		require.NotNil(t, status.Occupant)
		assert.Equal(t, OccupantLecture, status.Occupant.Kind)
		assert.Equal(t, "lecture-1", status.Occupant.Lecture.ID)
	})

	t.Run("booking overrides a simultaneous lecture", func(t *testing.T) {
		sessions := []recurrence.Session{mondayLecture("lecture-1", 10, 12)}
		bookings := []persistence.Booking{hourBooking("booking-1", resolverMonday, 10, 12, semesterStart)}

		status, faults := Resolve(room, sessions, bookings, matcher, now)

		require.Empty(t, faults)
		require.True(t, status.Occupied)
		require.NotNil(t, status.Occupant)
		assert.Equal(t, OccupantBooking, status.Occupant.Kind)
		assert.Equal(t, "booking-1", status.Occupant.Booking.ID)
	})

	t.Run("overlapping bookings pick the earliest created", func(t *testing.T) {
		bookings := []persistence.Booking{
			hourBooking("booking-b", resolverMonday, 10, 12, semesterStart.Add(time.Hour)),
			hourBooking("booking-a", resolverMonday, 10, 13, semesterStart),
		}

		status, faults := Resolve(room, nil, bookings, matcher, now)

		require.Empty(t, faults)
		require.True(t, status.Occupied)
		assert.Equal(t, "booking-a", status.Occupant.Booking.ID)
	})

	t.Run("equal creation time breaks ties by lowest ID", func(t *testing.T) {
		bookings := []persistence.Booking{
			hourBooking("booking-b", resolverMonday, 10, 12, semesterStart),
			hourBooking("booking-a", resolverMonday, 10, 12, semesterStart),
		}

		status, _ := Resolve(room, nil, bookings, matcher, now)

		require.True(t, status.Occupied)
		assert.Equal(t, "booking-a", status.Occupant.Booking.ID)
	})

	t.Run("overlapping lectures pick the earliest window start", func(t *testing.T) {
		sessions := []recurrence.Session{
			mondayLecture("lecture-late", 11, 13),
			mondayLecture("lecture-early", 9, 12),
		}

		status, faults := Resolve(room, sessions, nil, matcher, now)

		require.Empty(t, faults)
		require.True(t, status.Occupied)
		assert.Equal(t, "lecture-early", status.Occupant.Lecture.ID)
	})

	t.Run("booking ending now no longer occupies", func(t *testing.T) {
		bookings := []persistence.Booking{hourBooking("booking-1", resolverMonday, 9, 11, semesterStart)}

		status, faults := Resolve(room, nil, bookings, matcher, now)

		require.Empty(t, faults)
		assert.False(t, status.Occupied)
	})

	t.Run("lock is reported but never implies occupancy", func(t *testing.T) {
		locked := persistence.Room{ID: "room-1", Locked: true}

		status, _ := Resolve(locked, nil, nil, matcher, now)

		assert.True(t, status.Locked)
		assert.False(t, status.Occupied)
	})

	t.Run("malformed booking is skipped and flagged", func(t *testing.T) {
		bookings := []persistence.Booking{
			{ID: "booking-bad", RoomID: "room-1", Start: now.Add(time.Hour), End: now, CreatedAt: semesterStart},
			hourBooking("booking-good", resolverMonday, 10, 12, semesterStart),
		}

		status, faults := Resolve(room, nil, bookings, matcher, now)

		require.Len(t, faults, 1)
		assert.Equal(t, "booking", faults[0].Kind)
		assert.Equal(t, "booking-bad", faults[0].RecordID)
		require.True(t, status.Occupied)
		assert.Equal(t, "booking-good", status.Occupant.Booking.ID)
	})

	t.Run("malformed lecture is skipped and flagged", func(t *testing.T) {
		bad := mondayLecture("lecture-bad", 12, 10)
		good := mondayLecture("lecture-good", 10, 12)

		status, faults := Resolve(room, []recurrence.Session{bad, good}, nil, matcher, now)

		require.Len(t, faults, 1)
		assert.Equal(t, "lecture", faults[0].Kind)
		assert.Equal(t, "lecture-bad", faults[0].RecordID)
		require.True(t, status.Occupied)
		assert.Equal(t, "lecture-good", status.Occupant.Lecture.ID)
	})

	t.Run("records of other rooms are ignored", func(t *testing.T) {
		other := hourBooking("booking-other", resolverMonday, 10, 12, semesterStart)
		other.RoomID = "room-2"

		status, faults := Resolve(room, nil, []persistence.Booking{other}, matcher, now)

		require.Empty(t, faults)
		assert.False(t, status.Occupied)
	})
}
