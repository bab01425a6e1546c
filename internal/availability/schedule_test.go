package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/14-dg/roomfinder/internal/persistence"
	"github.com/14-dg/roomfinder/internal/timetable"
)

func mustPattern(t *testing.T, value string) timetable.SlotPattern {
	t.Helper()
	pattern, err := timetable.ParsePattern(value)
	require.NoError(t, err)
	return pattern
}

func TestBuildSchedule(t *testing.T) {
	pattern := mustPattern(t, "08:00-10:00,10:00-12:00,14:00-16:00")
	weekdays := []time.Weekday{time.Monday, time.Tuesday}
	monday := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	created := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)

	t.Run("assigns a covering booking to its slot", func(t *testing.T) {
		bookings := []persistence.Booking{
			hourBooking("booking-1", monday, 10, 12, created),
		}

		days, faults, err := BuildSchedule("room-1", pattern, bookings, weekdays, time.UTC)

		require.NoError(t, err)
		require.Empty(t, faults)
		require.Len(t, days, 2)

		mondayRow := days[0]
		assert.Equal(t, time.Monday, mondayRow.Weekday)
		require.Len(t, mondayRow.Slots, 3)
		assert.Nil(t, mondayRow.Slots[0].Booking)
		require.NotNil(t, mondayRow.Slots[1].Booking)
		assert.Equal(t, "booking-1", mondayRow.Slots[1].Booking.ID)
		assert.Nil(t, mondayRow.Slots[2].Booking)

		tuesdayRow := days[1]
		for _, slot := range tuesdayRow.Slots {
			assert.Nil(t, slot.Booking)
		}
	})

	t.Run("partial coverage leaves the slot free", func(t *testing.T) {
		bookings := []persistence.Booking{
			// 10:30-12:00 does not fully cover the 10:00-12:00 slot.
			{ID: "booking-1", RoomID: "room-1", Start: monday.Add(10*time.Hour + 30*time.Minute), End: monday.Add(12 * time.Hour), CreatedAt: created},
		}

		days, _, err := BuildSchedule("room-1", pattern, bookings, weekdays, time.UTC)

		require.NoError(t, err)
		assert.Nil(t, days[0].Slots[1].Booking)
	})

	t.Run("a spanning booking occupies every covered slot", func(t *testing.T) {
		bookings := []persistence.Booking{
			hourBooking("booking-1", monday, 8, 16, created),
		}

		days, _, err := BuildSchedule("room-1", pattern, bookings, weekdays, time.UTC)

		require.NoError(t, err)
		for _, slot := range days[0].Slots {
			require.NotNil(t, slot.Booking)
			assert.Equal(t, "booking-1", slot.Booking.ID)
		}
	})

	t.Run("a booking past midnight covers through end of its start day", func(t *testing.T) {
		bookings := []persistence.Booking{
			{ID: "booking-1", RoomID: "room-1", Start: monday.Add(9 * time.Hour), End: monday.AddDate(0, 0, 1).Add(2 * time.Hour), CreatedAt: created},
		}

		days, _, err := BuildSchedule("room-1", pattern, bookings, weekdays, time.UTC)

		require.NoError(t, err)
		// Covers 10:00-12:00 and 14:00-16:00 on Monday, nothing on Tuesday:
		// coverage is judged on the booking's start day.
		require.NotNil(t, days[0].Slots[1].Booking)
		require.NotNil(t, days[0].Slots[2].Booking)
		for _, slot := range days[1].Slots {
			assert.Nil(t, slot.Booking)
		}
	})

	t.Run("contested slots resolve by creation time then ID", func(t *testing.T) {
		bookings := []persistence.Booking{
			hourBooking("booking-late", monday, 10, 12, created.Add(time.Hour)),
			hourBooking("booking-early", monday, 10, 12, created),
		}

		days, _, err := BuildSchedule("room-1", pattern, bookings, weekdays, time.UTC)

		require.NoError(t, err)
		require.NotNil(t, days[0].Slots[1].Booking)
		assert.Equal(t, "booking-early", days[0].Slots[1].Booking.ID)
	})

	t.Run("output is deterministic regardless of input order", func(t *testing.T) {
		forward := []persistence.Booking{
			hourBooking("booking-a", monday, 8, 10, created),
			hourBooking("booking-b", monday, 10, 12, created),
		}
		reversed := []persistence.Booking{forward[1], forward[0]}

		first, _, err := BuildSchedule("room-1", pattern, forward, weekdays, time.UTC)
		require.NoError(t, err)
		second, _, err := BuildSchedule("room-1", pattern, reversed, weekdays, time.UTC)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("rebuilding over the same data changes nothing", func(t *testing.T) {
		bookings := []persistence.Booking{hourBooking("booking-1", monday, 10, 12, created)}

		first, _, err := BuildSchedule("room-1", pattern, bookings, weekdays, time.UTC)
		require.NoError(t, err)
		second, _, err := BuildSchedule("room-1", pattern, bookings, weekdays, time.UTC)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("malformed bookings are flagged, not fatal", func(t *testing.T) {
		bookings := []persistence.Booking{
			{ID: "booking-bad", RoomID: "room-1", Start: monday.Add(12 * time.Hour), End: monday.Add(10 * time.Hour), CreatedAt: created},
			hourBooking("booking-good", monday, 10, 12, created),
		}

		days, faults, err := BuildSchedule("room-1", pattern, bookings, weekdays, time.UTC)

		require.NoError(t, err)
		require.Len(t, faults, 1)
		assert.Equal(t, "booking-bad", faults[0].RecordID)
		require.NotNil(t, days[0].Slots[1].Booking)
		assert.Equal(t, "booking-good", days[0].Slots[1].Booking.ID)
	})

	t.Run("empty pattern is an error", func(t *testing.T) {
		_, _, err := BuildSchedule("room-1", timetable.SlotPattern{}, nil, weekdays, time.UTC)
		require.ErrorIs(t, err, timetable.ErrEmptyPattern)
	})
}
