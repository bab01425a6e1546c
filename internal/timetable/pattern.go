package timetable

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrEmptyPattern indicates a slot pattern without any slots. A room with
// neither a custom nor a default pattern cannot render a schedule at all, so
// the absence must surface as an error rather than an empty grid.
var ErrEmptyPattern = errors.New("timetable: slot pattern has no slots")

// SlotPattern is an ordered sequence of fixed time-of-day windows shared by
// every room that does not define its own pattern, e.g. six two-hour blocks
// from 08:00 to 20:00.
type SlotPattern struct {
	Slots []Window
}

// ParsePattern parses a comma separated list of "HH:MM-HH:MM" windows into a
// validated pattern. Slots must be chronologically ordered and must not
// overlap; gaps between slots are allowed.
func ParsePattern(value string) (SlotPattern, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return SlotPattern{}, ErrEmptyPattern
	}

	parts := strings.Split(trimmed, ",")
	slots := make([]Window, 0, len(parts))
	for _, part := range parts {
		window, err := ParseWindow(part)
		if err != nil {
			return SlotPattern{}, err
		}
		slots = append(slots, window)
	}

	pattern := SlotPattern{Slots: slots}
	if err := pattern.Validate(); err != nil {
		return SlotPattern{}, err
	}
	return pattern, nil
}

// Validate checks ordering and pairwise disjointness of the slots.
func (p SlotPattern) Validate() error {
	if len(p.Slots) == 0 {
		return ErrEmptyPattern
	}
	for i, slot := range p.Slots {
		if err := slot.Validate(); err != nil {
			return err
		}
		if i > 0 && slot.Start < p.Slots[i-1].End {
			return fmt.Errorf("%w: slot %s overlaps %s", ErrMalformedTime, slot, p.Slots[i-1])
		}
	}
	return nil
}

// IsZero reports whether the pattern is unset.
func (p SlotPattern) IsZero() bool {
	return len(p.Slots) == 0
}

// CurrentSlot returns the first slot whose window contains the instant's
// calendar-local time of day. The second return value is false when the
// instant falls in a gap, before opening, or after closing. The containment
// convention is the same half-open one used by the recurrence matcher.
func (p SlotPattern) CurrentSlot(instant time.Time, loc *time.Location) (Window, bool) {
	minute := MinuteOf(instant, loc)
	for _, slot := range p.Slots {
		if slot.Contains(minute) {
			return slot, true
		}
	}
	return Window{}, false
}

// String renders the pattern in the comma separated form ParsePattern accepts.
func (p SlotPattern) String() string {
	parts := make([]string, 0, len(p.Slots))
	for _, slot := range p.Slots {
		parts = append(parts, slot.String())
	}
	return strings.Join(parts, ",")
}
