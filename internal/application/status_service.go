package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/14-dg/roomfinder/internal/availability"
	"github.com/14-dg/roomfinder/internal/persistence"
	"github.com/14-dg/roomfinder/internal/recurrence"
	"github.com/14-dg/roomfinder/internal/timetable"
)

// RoomStore captures the read operations the status engine needs from the
// room record store.
type RoomStore interface {
	GetRoom(ctx context.Context, id string) (persistence.Room, error)
	ListRooms(ctx context.Context) ([]persistence.Room, error)
}

// LectureStore exposes timetable reads.
type LectureStore interface {
	ListLectures(ctx context.Context, filter persistence.LectureFilter) ([]persistence.Lecture, error)
}

// BookingStore exposes booking reads.
type BookingStore interface {
	ListBookings(ctx context.Context, filter persistence.BookingFilter) ([]persistence.Booking, error)
}

// CheckInStore exposes check-in reads.
type CheckInStore interface {
	ListCheckIns(ctx context.Context, filter persistence.CheckInFilter) ([]persistence.CheckIn, error)
}

// Weekly grid order. Rendering starts the week on Monday even though the
// numeric weekday convention is 0=Sunday.
var weeklyOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// StatusService derives room availability, weekly schedules and occupancy
// from store snapshots. Every public operation takes the evaluation instant
// explicitly, keeping the computations pure and reproducible.
type StatusService struct {
	rooms          RoomStore
	lectures       LectureStore
	bookings       BookingStore
	checkIns       CheckInStore
	matcher        *recurrence.Matcher
	defaultPattern timetable.SlotPattern
	board          *statusBoard
	snapshotSeq    atomic.Uint64
	logger         *slog.Logger
}

// NewStatusService constructs a status service with the provided dependencies.
func NewStatusService(rooms RoomStore, lectures LectureStore, bookings BookingStore, checkIns CheckInStore, matcher *recurrence.Matcher, defaultPattern timetable.SlotPattern) *StatusService {
	return NewStatusServiceWithLogger(rooms, lectures, bookings, checkIns, matcher, defaultPattern, nil)
}

// NewStatusServiceWithLogger constructs a status service with a specified logger.
func NewStatusServiceWithLogger(rooms RoomStore, lectures LectureStore, bookings BookingStore, checkIns CheckInStore, matcher *recurrence.Matcher, defaultPattern timetable.SlotPattern, logger *slog.Logger) *StatusService {
	if matcher == nil {
		matcher = recurrence.NewMatcher(nil)
	}
	return &StatusService{
		rooms:          rooms,
		lectures:       lectures,
		bookings:       bookings,
		checkIns:       checkIns,
		matcher:        matcher,
		defaultPattern: defaultPattern,
		board:          newStatusBoard(),
		logger:         defaultLogger(logger),
	}
}

func (s *StatusService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "StatusService", operation, attrs...)
}

// Snapshot reads a consistent view of all records relevant to availability.
// Each call stamps a fresh monotonically increasing version.
func (s *StatusService) Snapshot(ctx context.Context, now time.Time) (availability.Snapshot, error) {
	if s == nil {
		return availability.Snapshot{}, fmt.Errorf("StatusService is nil")
	}

	rooms, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return availability.Snapshot{}, fmt.Errorf("list rooms: %w", err)
	}
	lectures, err := s.lectures.ListLectures(ctx, persistence.LectureFilter{})
	if err != nil {
		return availability.Snapshot{}, fmt.Errorf("list lectures: %w", err)
	}
	bookings, err := s.bookings.ListBookings(ctx, persistence.BookingFilter{})
	if err != nil {
		return availability.Snapshot{}, fmt.Errorf("list bookings: %w", err)
	}
	checkIns, err := s.checkIns.ListCheckIns(ctx, persistence.CheckInFilter{})
	if err != nil {
		return availability.Snapshot{}, fmt.Errorf("list check-ins: %w", err)
	}

	sessions := make([]recurrence.Session, 0, len(lectures))
	for _, lecture := range lectures {
		sessions = append(sessions, sessionFromLecture(lecture))
	}

	return availability.Snapshot{
		Version:  s.snapshotSeq.Add(1),
		TakenAt:  now,
		Rooms:    rooms,
		Sessions: sessions,
		Bookings: bookings,
		CheckIns: checkIns,
	}, nil
}

// ResolveAvailability derives the full status of one room at the given
// instant. An unknown room id yields ErrNotFound, never "available".
func (s *StatusService) ResolveAvailability(ctx context.Context, roomID string, now time.Time) (status RoomStatus, err error) {
	if s == nil {
		err = fmt.Errorf("StatusService is nil")
		return
	}

	logger := s.loggerWith(ctx, "ResolveAvailability", "room_id", roomID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to resolve availability", "error", err, "error_kind", ErrorKind(err))
		}
	}()

	snapshot, err := s.Snapshot(ctx, now)
	if err != nil {
		return
	}

	room, ok := snapshot.Room(roomID)
	if !ok {
		err = ErrNotFound
		return
	}

	status = s.statusFor(ctx, room, snapshot, now)
	return
}

// statusFor computes the derived view of one room from an already loaded
// snapshot. Malformed records are logged and skipped, never fatal.
func (s *StatusService) statusFor(ctx context.Context, room persistence.Room, snapshot availability.Snapshot, now time.Time) RoomStatus {
	resolved, faults := availability.Resolve(room, snapshot.SessionsForRoom(room.ID), snapshot.BookingsForRoom(room.ID), s.matcher, now)
	active, checkInFaults := availability.ActiveCheckIns(snapshot.CheckInsForRoom(room.ID), room.ID, now)
	for _, fault := range append(faults, checkInFaults...) {
		s.loggerWith(ctx, "statusFor", "room_id", room.ID).WarnContext(ctx, "skipped malformed record",
			"record_kind", fault.Kind, "record_id", fault.RecordID, "error", fault.Err)
	}

	status := RoomStatus{
		Room:       room,
		Occupied:   resolved.Occupied,
		Occupant:   resolved.Occupant,
		Locked:     resolved.Locked,
		CheckIns:   len(active),
		Level:      availability.LevelFor(len(active)),
		Activity:   availability.LoudestActivity(active),
		ComputedAt: now,
	}

	if pattern, err := s.patternFor(room); err == nil {
		if slot, ok := pattern.CurrentSlot(now, s.matcher.Location()); ok {
			status.CurrentSlot = &slot
		}
	}
	return status
}

// BuildWeeklySchedule renders the Monday-first weekly grid for one room.
// Corrupt bookings are reported in Skipped; a missing pattern is fatal for
// the room.
func (s *StatusService) BuildWeeklySchedule(ctx context.Context, roomID string, now time.Time) (schedule WeeklySchedule, err error) {
	if s == nil {
		err = fmt.Errorf("StatusService is nil")
		return
	}

	logger := s.loggerWith(ctx, "BuildWeeklySchedule", "room_id", roomID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to build weekly schedule", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("skipped_records", len(schedule.Skipped)).DebugContext(ctx, "weekly schedule built")
	}()

	room, err := s.getRoom(ctx, roomID)
	if err != nil {
		return
	}

	pattern, err := s.patternFor(room)
	if err != nil {
		return
	}

	// The grid covers the Monday-first week containing now; bookings from
	// other weeks must not bleed into it. The grid attributes a booking to
	// its start weekday, so the start must fall inside [weekStart, weekEnd):
	// a previous-week booking running past midnight into this week would
	// otherwise land in the wrong week's row.
	weekStart := startOfWeek(now, s.matcher.Location())
	weekEnd := weekStart.AddDate(0, 0, 7)

	bookings, err := s.bookings.ListBookings(ctx, persistence.BookingFilter{RoomID: roomID, EndsAfter: &weekStart})
	if err != nil {
		err = fmt.Errorf("list bookings: %w", err)
		return
	}
	inWeek := make([]persistence.Booking, 0, len(bookings))
	for _, booking := range bookings {
		if !booking.Start.Before(weekStart) && booking.Start.Before(weekEnd) {
			inWeek = append(inWeek, booking)
		}
	}

	days, skipped, err := availability.BuildSchedule(roomID, pattern, inWeek, weeklyOrder, s.matcher.Location())
	if err != nil {
		return
	}

	schedule = WeeklySchedule{RoomID: roomID, Days: days, Skipped: skipped}
	return
}

// startOfWeek returns Monday 00:00 of the calendar week containing the
// instant, in the given location.
func startOfWeek(instant time.Time, loc *time.Location) time.Time {
	day := timetable.DateOnly(instant, loc)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// OccupancyLevel classifies the room's live check-in count at the instant.
func (s *StatusService) OccupancyLevel(ctx context.Context, roomID string, now time.Time) (availability.Level, int, error) {
	if s == nil {
		return "", 0, fmt.Errorf("StatusService is nil")
	}

	if _, err := s.getRoom(ctx, roomID); err != nil {
		return "", 0, err
	}

	checkIns, err := s.checkIns.ListCheckIns(ctx, persistence.CheckInFilter{RoomID: roomID, ActiveAt: &now})
	if err != nil {
		return "", 0, fmt.Errorf("list check-ins: %w", err)
	}

	active, faults := availability.ActiveCheckIns(checkIns, roomID, now)
	s.logCheckInFaults(ctx, "OccupancyLevel", roomID, faults)
	return availability.LevelFor(len(active)), len(active), nil
}

// LoudestActivity returns the highest-ranked declared activity among the
// room's active check-ins, or availability.ActivityNone.
func (s *StatusService) LoudestActivity(ctx context.Context, roomID string, now time.Time) (string, error) {
	if s == nil {
		return "", fmt.Errorf("StatusService is nil")
	}

	if _, err := s.getRoom(ctx, roomID); err != nil {
		return "", err
	}

	checkIns, err := s.checkIns.ListCheckIns(ctx, persistence.CheckInFilter{RoomID: roomID, ActiveAt: &now})
	if err != nil {
		return "", fmt.Errorf("list check-ins: %w", err)
	}

	active, faults := availability.ActiveCheckIns(checkIns, roomID, now)
	s.logCheckInFaults(ctx, "LoudestActivity", roomID, faults)
	return availability.LoudestActivity(active), nil
}

func (s *StatusService) logCheckInFaults(ctx context.Context, operation, roomID string, faults []availability.RecordFault) {
	for _, fault := range faults {
		s.loggerWith(ctx, operation, "room_id", roomID).WarnContext(ctx, "skipped malformed record",
			"record_kind", fault.Kind, "record_id", fault.RecordID, "error", fault.Err)
	}
}

// CurrentSlot maps the instant onto the shared default pattern.
func (s *StatusService) CurrentSlot(now time.Time) (timetable.Window, bool, error) {
	if s == nil {
		return timetable.Window{}, false, fmt.Errorf("StatusService is nil")
	}
	if s.defaultPattern.IsZero() {
		return timetable.Window{}, false, ErrScheduleUnavailable
	}
	slot, ok := s.defaultPattern.CurrentSlot(now, s.matcher.Location())
	return slot, ok, nil
}

// LectureOccurrences expands the room's recurring lectures into concrete
// instances within [from, to], chronologically ordered per lecture.
func (s *StatusService) LectureOccurrences(ctx context.Context, roomID string, from, to time.Time) ([]LectureOccurrence, error) {
	if s == nil {
		return nil, fmt.Errorf("StatusService is nil")
	}

	if _, err := s.getRoom(ctx, roomID); err != nil {
		return nil, err
	}

	lectures, err := s.lectures.ListLectures(ctx, persistence.LectureFilter{RoomID: roomID})
	if err != nil {
		return nil, fmt.Errorf("list lectures: %w", err)
	}

	occurrences := make([]LectureOccurrence, 0)
	for _, lecture := range lectures {
		expanded, err := s.matcher.Occurrences(sessionFromLecture(lecture), from, to)
		if err != nil {
			s.loggerWith(ctx, "LectureOccurrences", "room_id", roomID).WarnContext(ctx, "skipped malformed record",
				"record_kind", "lecture", "record_id", lecture.ID, "error", err)
			continue
		}
		for _, occurrence := range expanded {
			occurrences = append(occurrences, LectureOccurrence{
				Lecture: lecture,
				Start:   occurrence.Start,
				End:     occurrence.End,
			})
		}
	}
	return occurrences, nil
}

// RefreshAll recomputes every room's status from a fresh snapshot and
// publishes the result. Publishing is rejected when a newer snapshot has
// already been published; running twice on the same data is idempotent.
func (s *StatusService) RefreshAll(ctx context.Context, now time.Time) (err error) {
	if s == nil {
		return fmt.Errorf("StatusService is nil")
	}

	logger := s.loggerWith(ctx, "RefreshAll")
	defer func() {
		if err != nil && !errors.Is(err, ErrStaleSnapshot) {
			logger.ErrorContext(ctx, "failed to refresh statuses", "error", err, "error_kind", ErrorKind(err))
		}
	}()

	snapshot, err := s.Snapshot(ctx, now)
	if err != nil {
		return err
	}

	statuses := make(map[string]RoomStatus, len(snapshot.Rooms))
	for _, room := range snapshot.Rooms {
		statuses[room.ID] = s.statusFor(ctx, room, snapshot, now)
	}

	if err = s.board.Publish(snapshot.Version, now, statuses); err != nil {
		logger.WarnContext(ctx, "discarded stale recomputation", "version", snapshot.Version, "current", s.board.Version())
		return err
	}

	logger.With("room_count", len(statuses), "version", snapshot.Version).DebugContext(ctx, "statuses refreshed")
	return nil
}

// CachedStatus returns the last published status for a room, if any.
func (s *StatusService) CachedStatus(roomID string) (RoomStatus, bool) {
	if s == nil {
		return RoomStatus{}, false
	}
	return s.board.Status(roomID)
}

func (s *StatusService) getRoom(ctx context.Context, roomID string) (persistence.Room, error) {
	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return persistence.Room{}, ErrNotFound
		}
		return persistence.Room{}, err
	}
	return room, nil
}

// patternFor picks the room's custom pattern when defined, otherwise the
// shared default. A room with neither cannot render a schedule.
func (s *StatusService) patternFor(room persistence.Room) (timetable.SlotPattern, error) {
	if room.SlotPattern != nil {
		pattern, err := timetable.ParsePattern(*room.SlotPattern)
		if err != nil {
			return timetable.SlotPattern{}, err
		}
		return pattern, nil
	}
	if s.defaultPattern.IsZero() {
		return timetable.SlotPattern{}, ErrScheduleUnavailable
	}
	return s.defaultPattern, nil
}
