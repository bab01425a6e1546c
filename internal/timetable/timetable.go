package timetable

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedTime indicates a time-of-day value that could not be parsed.
// Callers must treat it as a contract violation, never as "outside any window".
var ErrMalformedTime = errors.New("timetable: malformed time of day")

// MinuteOfDay identifies an instant within a calendar day as minutes since
// midnight. Valid values range from 0 (00:00) to 1440 (24:00, usable only as
// an exclusive window end).
type MinuteOfDay int

const (
	// StartOfDay is midnight, the lowest valid minute.
	StartOfDay MinuteOfDay = 0
	// EndOfDay is the exclusive upper bound of a day.
	EndOfDay MinuteOfDay = 24 * 60
)

// ParseMinuteOfDay parses an "HH:MM" string into a MinuteOfDay.
func ParseMinuteOfDay(value string) (MinuteOfDay, error) {
	trimmed := strings.TrimSpace(value)
	hh, mm, ok := strings.Cut(trimmed, ":")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, value)
	}

	hours, err := strconv.Atoi(hh)
	if err != nil || hours < 0 || hours > 24 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, value)
	}
	minutes, err := strconv.Atoi(mm)
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, value)
	}

	total := MinuteOfDay(hours*60 + minutes)
	if total > EndOfDay {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, value)
	}
	return total, nil
}

// MinuteOf extracts the calendar-local minute of day from an instant. The
// caller chooses the location; evaluating in the campus timezone rather than
// UTC keeps day boundaries aligned with the printed timetable.
func MinuteOf(instant time.Time, loc *time.Location) MinuteOfDay {
	if loc != nil {
		instant = instant.In(loc)
	}
	return MinuteOfDay(instant.Hour()*60 + instant.Minute())
}

// String renders the minute as "HH:MM".
func (m MinuteOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

// Valid reports whether the minute lies within a calendar day.
func (m MinuteOfDay) Valid() bool {
	return m >= StartOfDay && m <= EndOfDay
}

// Window is a half-open [Start,End) time-of-day interval. A window ending at
// 10:00 does not contain the 10:00 instant.
type Window struct {
	Start MinuteOfDay
	End   MinuteOfDay
}

// ParseWindow parses an "HH:MM-HH:MM" string into a Window.
func ParseWindow(value string) (Window, error) {
	from, to, ok := strings.Cut(strings.TrimSpace(value), "-")
	if !ok {
		return Window{}, fmt.Errorf("%w: %q", ErrMalformedTime, value)
	}

	start, err := ParseMinuteOfDay(from)
	if err != nil {
		return Window{}, err
	}
	end, err := ParseMinuteOfDay(to)
	if err != nil {
		return Window{}, err
	}

	window := Window{Start: start, End: end}
	if err := window.Validate(); err != nil {
		return Window{}, err
	}
	return window, nil
}

// Validate reports whether the window is well formed (start strictly before end).
func (w Window) Validate() error {
	if !w.Start.Valid() || !w.End.Valid() || w.Start >= w.End {
		return fmt.Errorf("%w: window %s-%s", ErrMalformedTime, w.Start, w.End)
	}
	return nil
}

// Contains reports whether the minute lies inside the half-open window.
func (w Window) Contains(m MinuteOfDay) bool {
	return m >= w.Start && m < w.End
}

// ContainsInstant reports whether the instant's calendar-local time of day
// lies inside the window.
func (w Window) ContainsInstant(instant time.Time, loc *time.Location) bool {
	return w.Contains(MinuteOf(instant, loc))
}

// Covers reports whether the window fully encloses other, boundary inclusive
// on both ends of other.
func (w Window) Covers(other Window) bool {
	return w.Start <= other.Start && other.End <= w.End
}

// String renders the window as "HH:MM-HH:MM".
func (w Window) String() string {
	return fmt.Sprintf("%s-%s", w.Start, w.End)
}

// InstantWindow is a half-open [Start,End) interval of absolute instants, the
// shape of bookings and check-ins. A record starting exactly at t is active
// at t; one ending exactly at t is not.
type InstantWindow struct {
	Start time.Time
	End   time.Time
}

// Validate reports whether the interval is well formed.
func (iw InstantWindow) Validate() error {
	if iw.Start.IsZero() || iw.End.IsZero() || !iw.Start.Before(iw.End) {
		return fmt.Errorf("%w: interval must satisfy start < end", ErrMalformedTime)
	}
	return nil
}

// Contains reports whether the instant lies inside the half-open interval.
func (iw InstantWindow) Contains(instant time.Time) bool {
	return !instant.Before(iw.Start) && instant.Before(iw.End)
}
