package timetable

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedWeekday indicates a weekday value that is neither a 0-6 number
// nor a recognized day name.
var ErrMalformedWeekday = errors.New("timetable: malformed weekday")

// The engine standardizes on time.Weekday (0=Sunday .. 6=Saturday). Stored
// lecture records predate that decision and carry either the numeric form or
// an English day name, so the persistence boundary normalizes both here.
var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sun":       time.Sunday,
	"mon":       time.Monday,
	"tue":       time.Tuesday,
	"wed":       time.Wednesday,
	"thu":       time.Thursday,
	"fri":       time.Friday,
	"sat":       time.Saturday,
}

// ParseWeekday normalizes a stored weekday value to time.Weekday. Accepted
// forms: "0".."6" (0=Sunday) and English day names or their three letter
// abbreviations, case insensitive.
func ParseWeekday(value string) (time.Weekday, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return 0, fmt.Errorf("%w: empty value", ErrMalformedWeekday)
	}

	if n, err := strconv.Atoi(trimmed); err == nil {
		if n < 0 || n > 6 {
			return 0, fmt.Errorf("%w: %q", ErrMalformedWeekday, value)
		}
		return time.Weekday(n), nil
	}

	if day, ok := weekdayNames[trimmed]; ok {
		return day, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrMalformedWeekday, value)
}

// SameCalendarDay reports whether two instants fall on the same calendar day
// in the provided location.
func SameCalendarDay(a, b time.Time, loc *time.Location) bool {
	if loc != nil {
		a = a.In(loc)
		b = b.In(loc)
	}
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DateOnly truncates an instant to midnight of its calendar day in the
// provided location.
func DateOnly(instant time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := instant.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
