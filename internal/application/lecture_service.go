package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/14-dg/roomfinder/internal/persistence"
	"github.com/14-dg/roomfinder/internal/timetable"
)

// LectureRepository captures the persistence operations needed by the service.
type LectureRepository interface {
	CreateLecture(ctx context.Context, lecture persistence.Lecture) error
	ListLectures(ctx context.Context, filter persistence.LectureFilter) ([]persistence.Lecture, error)
	DeleteLecture(ctx context.Context, id string) error
}

// LectureService maintains the recurring timetable records for administrators.
type LectureService struct {
	lectures    LectureRepository
	rooms       RoomCatalog
	idGenerator func() string
	now         func() time.Time
	onChange    func()
	logger      *slog.Logger
}

// NewLectureService constructs a lecture service with the provided dependencies.
func NewLectureService(lectures LectureRepository, rooms RoomCatalog, idGenerator func() string, now func() time.Time) *LectureService {
	return NewLectureServiceWithLogger(lectures, rooms, idGenerator, now, nil)
}

// NewLectureServiceWithLogger constructs a lecture service with a specified logger.
func NewLectureServiceWithLogger(lectures LectureRepository, rooms RoomCatalog, idGenerator func() string, now func() time.Time, logger *slog.Logger) *LectureService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &LectureService{lectures: lectures, rooms: rooms, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

// OnChange registers a hook invoked after every successful mutation, used to
// trigger a reactive status refresh.
func (s *LectureService) OnChange(hook func()) {
	if s != nil {
		s.onChange = hook
	}
}

func (s *LectureService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "LectureService", operation, attrs...)
}

// CreateLecture normalizes and persists a recurring session. Weekday and the
// time-of-day bounds pass through the boundary mapping table; malformed
// values fail fast rather than producing a silently inactive lecture.
func (s *LectureService) CreateLecture(ctx context.Context, params CreateLectureParams) (lecture persistence.Lecture, err error) {
	if s == nil {
		err = fmt.Errorf("LectureService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateLecture",
		"principal_id", params.Principal.UserID,
		"room_id", params.Input.RoomID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create lecture", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("lecture_id", lecture.ID).InfoContext(ctx, "lecture created")
	}()

	if !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	lecture, vErr := normalizeLectureInput(params.Input, s.idGenerator, s.now)
	if vErr.HasErrors() {
		err = vErr
		lecture = persistence.Lecture{}
		return
	}

	if _, err = s.rooms.GetRoom(ctx, params.Input.RoomID); err != nil {
		err = mapRoomRepoError(err)
		lecture = persistence.Lecture{}
		return
	}

	if err = mapLectureRepoError(s.lectures.CreateLecture(ctx, lecture)); err != nil {
		lecture = persistence.Lecture{}
		return
	}
	if s.onChange != nil {
		s.onChange()
	}
	return
}

// ListLectures returns the timetable, optionally narrowed to one room.
func (s *LectureService) ListLectures(ctx context.Context, filter persistence.LectureFilter) ([]persistence.Lecture, error) {
	if s == nil {
		return nil, fmt.Errorf("LectureService is nil")
	}
	lectures, err := s.lectures.ListLectures(ctx, filter)
	if err != nil {
		return nil, mapLectureRepoError(err)
	}
	return lectures, nil
}

// DeleteLecture removes a timetable record for administrators.
func (s *LectureService) DeleteLecture(ctx context.Context, principal Principal, lectureID string) error {
	if s == nil {
		return fmt.Errorf("LectureService is nil")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}

	logger := s.loggerWith(ctx, "DeleteLecture",
		"principal_id", principal.UserID,
		"lecture_id", lectureID,
	)

	if err := mapLectureRepoError(s.lectures.DeleteLecture(ctx, lectureID)); err != nil {
		logger.ErrorContext(ctx, "failed to delete lecture", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "lecture deleted")
	if s.onChange != nil {
		s.onChange()
	}
	return nil
}

func normalizeLectureInput(input LectureInput, idGenerator func() string, now func() time.Time) (persistence.Lecture, *ValidationError) {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.Subject) == "" {
		vErr.add("subject", "subject is required")
	}
	if strings.TrimSpace(input.RoomID) == "" {
		vErr.add("roomId", "room id is required")
	}

	weekday, err := timetable.ParseWeekday(input.Weekday)
	if err != nil {
		vErr.add("weekday", "weekday must be 0-6 (0=Sunday) or a day name")
	}
	start, err := timetable.ParseMinuteOfDay(input.StartTime)
	if err != nil {
		vErr.add("startTime", "start time must be HH:MM")
	}
	end, err := timetable.ParseMinuteOfDay(input.EndTime)
	if err != nil {
		vErr.add("endTime", "end time must be HH:MM")
	}
	if err == nil && start >= end {
		vErr.add("endTime", "end time must be after start time")
	}

	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		vErr.add("startDate", "start and end dates are required")
	} else if input.EndDate.Before(input.StartDate) {
		vErr.add("endDate", "end date must not precede start date")
	}

	if vErr.HasErrors() {
		return persistence.Lecture{}, vErr
	}

	created := now()
	return persistence.Lecture{
		ID:        idGenerator(),
		Subject:   strings.TrimSpace(input.Subject),
		Lecturer:  strings.TrimSpace(input.Lecturer),
		RoomID:    input.RoomID,
		Weekday:   weekday,
		StartTime: start,
		EndTime:   end,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		CreatedAt: created,
		UpdatedAt: created,
	}, vErr
}

func mapLectureRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrAlreadyExists
	}
	if errors.Is(err, persistence.ErrConstraintViolation) {
		vErr := &ValidationError{}
		vErr.add("endTime", "end time must be after start time")
		return vErr
	}
	return err
}
