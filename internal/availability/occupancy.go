package availability

import (
	"time"

	"github.com/14-dg/roomfinder/internal/persistence"
	"github.com/14-dg/roomfinder/internal/timetable"
)

// Level is the discrete occupancy classification derived from the live
// check-in count.
type Level string

const (
	// LevelEmpty means no active check-ins.
	LevelEmpty Level = "empty"
	// LevelMinimal means 1-3 active check-ins.
	LevelMinimal Level = "minimal"
	// LevelModerate means 4-10 active check-ins.
	LevelModerate Level = "moderate"
	// LevelFull means more than 10 active check-ins.
	LevelFull Level = "full"
)

// LevelFor classifies a check-in count. The thresholds are fixed; callers and
// tests rely on the exact boundaries 0, 1, 3, 4, 10, 11.
func LevelFor(count int) Level {
	switch {
	case count <= 0:
		return LevelEmpty
	case count <= 3:
		return LevelMinimal
	case count <= 10:
		return LevelModerate
	default:
		return LevelFull
	}
}

// ActiveCheckIns returns the room's check-ins whose half-open [start,end)
// interval contains the instant. A check-in ending exactly at now has already
// expired; expiry is derived, never a deletion the engine performs. Records
// with an inverted interval are skipped and flagged.
func ActiveCheckIns(checkIns []persistence.CheckIn, roomID string, now time.Time) ([]persistence.CheckIn, []RecordFault) {
	active := make([]persistence.CheckIn, 0)
	var faults []RecordFault
	for _, checkIn := range checkIns {
		if checkIn.RoomID != roomID {
			continue
		}
		window := timetable.InstantWindow{Start: checkIn.Start, End: checkIn.End}
		if err := window.Validate(); err != nil {
			faults = append(faults, RecordFault{Kind: "checkin", RecordID: checkIn.ID, Err: err})
			continue
		}
		if window.Contains(now) {
			active = append(active, checkIn)
		}
	}
	return active, faults
}

// ActivityNone is returned when no active check-in declares an activity.
const ActivityNone = "none"

// noiseRank orders declared check-in activities from quietest to loudest.
// The table is fixed so that ties between simultaneous check-ins always
// resolve the same way. Unknown labels rank below every known one.
var noiseRank = map[string]int{
	"silent-study": 1,
	"reading":      2,
	"quiet-work":   3,
	"discussion":   4,
	"group-work":   5,
	"presentation": 6,
	"event":        7,
}

// LoudestActivity returns the highest-ranked declared activity among the
// given check-ins, or ActivityNone when none of them declares one.
func LoudestActivity(checkIns []persistence.CheckIn) string {
	loudest := ActivityNone
	best := -1
	for _, checkIn := range checkIns {
		if checkIn.Activity == "" {
			continue
		}
		rank := noiseRank[checkIn.Activity]
		if rank > best || (rank == best && checkIn.Activity < loudest) {
			loudest = checkIn.Activity
			best = rank
		}
	}
	return loudest
}
