package recurrence

import (
	"errors"
	"fmt"
	"time"

	"github.com/14-dg/roomfinder/internal/timetable"
)

// Session describes a weekly recurring lecture: a time-of-day window on one
// weekday, active within an inclusive calendar date range.
type Session struct {
	ID        string
	RoomID    string
	Subject   string
	Lecturer  string
	Weekday   time.Weekday
	Window    timetable.Window
	StartDate time.Time
	EndDate   time.Time
}

// Occurrence is one concrete instance of a session on a specific date.
type Occurrence struct {
	SessionID string
	RoomID    string
	Start     time.Time
	End       time.Time
}

// ErrInvalidDateRange indicates a session whose active range is inverted.
var ErrInvalidDateRange = errors.New("recurrence: session date range must satisfy startDate <= endDate")

// Matcher evaluates sessions against instants in a fixed calendar location.
//
// All comparisons happen in that location rather than UTC: a Monday 10:00
// lecture is Monday 10:00 on the campus wall clock regardless of how the
// instant was transmitted.
type Matcher struct {
	location *time.Location
}

// NewMatcher constructs a Matcher normalizing to the provided location.
// If loc is nil the process-local timezone is used.
func NewMatcher(loc *time.Location) *Matcher {
	if loc == nil {
		loc = time.Local
	}
	return &Matcher{location: loc}
}

// Location exposes the calendar location the matcher evaluates in.
func (m *Matcher) Location() *time.Location {
	if m == nil || m.location == nil {
		return time.Local
	}
	return m.location
}

// IsActive reports whether the session occupies the given instant.
//
// The session is active iff all three hold:
//   - the instant's calendar date lies in [StartDate, EndDate] (inclusive),
//   - the instant's weekday equals the session weekday,
//   - the instant's time of day lies in the half-open [start,end) window,
//     so a session ending at 10:00 does not occupy the 10:00 instant.
//
// A malformed session is an error, never silently inactive.
func (m *Matcher) IsActive(session Session, instant time.Time) (bool, error) {
	if err := validateSession(session); err != nil {
		return false, err
	}

	loc := m.Location()
	local := instant.In(loc)

	day := timetable.DateOnly(local, loc)
	if day.Before(timetable.DateOnly(session.StartDate, loc)) || day.After(timetable.DateOnly(session.EndDate, loc)) {
		return false, nil
	}
	if local.Weekday() != session.Weekday {
		return false, nil
	}
	return session.Window.Contains(timetable.MinuteOf(local, loc)), nil
}

// Occurrences expands the session into concrete instances whose dates fall in
// [rangeStart, rangeEnd], clipped to the session's own active range. Results
// are chronological.
func (m *Matcher) Occurrences(session Session, rangeStart, rangeEnd time.Time) ([]Occurrence, error) {
	if err := validateSession(session); err != nil {
		return nil, err
	}

	loc := m.Location()
	lower := timetable.DateOnly(session.StartDate, loc)
	if from := timetable.DateOnly(rangeStart, loc); from.After(lower) {
		lower = from
	}
	upper := timetable.DateOnly(session.EndDate, loc)
	if to := timetable.DateOnly(rangeEnd, loc); to.Before(upper) {
		upper = to
	}
	if lower.After(upper) {
		return nil, nil
	}

	occurrences := make([]Occurrence, 0)
	for day := lower; !day.After(upper); day = day.AddDate(0, 0, 1) {
		if day.Weekday() != session.Weekday {
			continue
		}
		occurrences = append(occurrences, Occurrence{
			SessionID: session.ID,
			RoomID:    session.RoomID,
			Start:     day.Add(time.Duration(session.Window.Start) * time.Minute),
			End:       day.Add(time.Duration(session.Window.End) * time.Minute),
		})
	}
	return occurrences, nil
}

func validateSession(session Session) error {
	if err := session.Window.Validate(); err != nil {
		return err
	}
	if session.Weekday < time.Sunday || session.Weekday > time.Saturday {
		return fmt.Errorf("%w: %d", timetable.ErrMalformedWeekday, session.Weekday)
	}
	if session.StartDate.IsZero() || session.EndDate.IsZero() || session.EndDate.Before(session.StartDate) {
		return fmt.Errorf("%w: session %s", ErrInvalidDateRange, session.ID)
	}
	return nil
}
