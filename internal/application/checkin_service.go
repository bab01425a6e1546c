package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/14-dg/roomfinder/internal/persistence"
)

// CheckInRepository captures the persistence operations needed by the service.
type CheckInRepository interface {
	CreateCheckIn(ctx context.Context, checkIn persistence.CheckIn) error
	GetCheckIn(ctx context.Context, id string) (persistence.CheckIn, error)
	DeleteCheckIn(ctx context.Context, id string) error
}

// CheckinCounter is the atomic room counter contract. Adjusting by delta must
// be a single store-side operation so that two users checking in within the
// same refresh window never lose an update to a read-modify-write race.
type CheckinCounter interface {
	AdjustCheckinCount(ctx context.Context, roomID string, delta int) error
}

const defaultCheckInMinutes = 120

// CheckInService records and removes student presence. Check-ins expire by
// themselves when now passes their end; this service only ever deletes on an
// explicit checkout.
type CheckInService struct {
	checkIns    CheckInRepository
	rooms       RoomCatalog
	counter     CheckinCounter
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
	onChange    func()
}

// NewCheckInService constructs a check-in service with the provided dependencies.
func NewCheckInService(checkIns CheckInRepository, rooms RoomCatalog, counter CheckinCounter, idGenerator func() string, now func() time.Time) *CheckInService {
	return NewCheckInServiceWithLogger(checkIns, rooms, counter, idGenerator, now, nil)
}

// NewCheckInServiceWithLogger constructs a check-in service with a specified logger.
func NewCheckInServiceWithLogger(checkIns CheckInRepository, rooms RoomCatalog, counter CheckinCounter, idGenerator func() string, now func() time.Time, logger *slog.Logger) *CheckInService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &CheckInService{checkIns: checkIns, rooms: rooms, counter: counter, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

// OnChange registers a hook invoked after every successful mutation.
func (s *CheckInService) OnChange(hook func()) {
	if s != nil {
		s.onChange = hook
	}
}

func (s *CheckInService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "CheckInService", operation, attrs...)
}

// AddCheckIn records presence for the acting user and bumps the room counter
// atomically. Duration defaults to two hours when omitted.
func (s *CheckInService) AddCheckIn(ctx context.Context, params AddCheckInParams) (checkIn persistence.CheckIn, err error) {
	if s == nil {
		err = fmt.Errorf("CheckInService is nil")
		return
	}

	logger := s.loggerWith(ctx, "AddCheckIn",
		"principal_id", params.Principal.UserID,
		"room_id", params.Input.RoomID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to add check-in", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("checkin_id", checkIn.ID).InfoContext(ctx, "check-in added")
	}()

	vErr := &ValidationError{}
	if strings.TrimSpace(params.Input.RoomID) == "" {
		vErr.add("roomId", "room id is required")
	}
	if strings.TrimSpace(params.Principal.UserID) == "" {
		vErr.add("userId", "user id is required")
	}
	if params.Input.DurationMinutes < 0 {
		vErr.add("durationMinutes", "duration must not be negative")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	if _, err = s.rooms.GetRoom(ctx, params.Input.RoomID); err != nil {
		err = mapRoomRepoError(err)
		return
	}

	start := params.Input.Start
	if start.IsZero() {
		start = s.now()
	}
	minutes := params.Input.DurationMinutes
	if minutes == 0 {
		minutes = defaultCheckInMinutes
	}

	checkIn = persistence.CheckIn{
		ID:        s.idGenerator(),
		RoomID:    params.Input.RoomID,
		UserID:    params.Principal.UserID,
		Activity:  strings.TrimSpace(params.Input.Activity),
		Start:     start,
		End:       start.Add(time.Duration(minutes) * time.Minute),
		CreatedAt: s.now(),
	}

	if err = mapCheckInRepoError(s.checkIns.CreateCheckIn(ctx, checkIn)); err != nil {
		checkIn = persistence.CheckIn{}
		return
	}

	if err = s.counter.AdjustCheckinCount(ctx, checkIn.RoomID, 1); err != nil {
		logger.WarnContext(ctx, "check-in stored but counter adjustment failed", "error", err)
		err = nil
	}

	s.notifyChange()
	return
}

// RemoveCheckIn deletes a presence record (an explicit checkout) and adjusts
// the room counter back down. Users may remove their own check-ins;
// administrators may remove any.
func (s *CheckInService) RemoveCheckIn(ctx context.Context, principal Principal, checkInID string) error {
	if s == nil {
		return fmt.Errorf("CheckInService is nil")
	}

	logger := s.loggerWith(ctx, "RemoveCheckIn",
		"principal_id", principal.UserID,
		"checkin_id", checkInID,
	)

	checkIn, err := s.checkIns.GetCheckIn(ctx, checkInID)
	if err != nil {
		err = mapCheckInRepoError(err)
		logger.ErrorContext(ctx, "failed to remove check-in", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	if !principal.IsAdmin && checkIn.UserID != principal.UserID {
		logger.ErrorContext(ctx, "failed to remove check-in", "error", ErrUnauthorized, "error_kind", ErrorKind(ErrUnauthorized))
		return ErrUnauthorized
	}

	if err := mapCheckInRepoError(s.checkIns.DeleteCheckIn(ctx, checkInID)); err != nil {
		logger.ErrorContext(ctx, "failed to remove check-in", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	if err := s.counter.AdjustCheckinCount(ctx, checkIn.RoomID, -1); err != nil {
		logger.WarnContext(ctx, "check-in removed but counter adjustment failed", "error", err)
	}

	logger.InfoContext(ctx, "check-in removed")
	s.notifyChange()
	return nil
}

func (s *CheckInService) notifyChange() {
	if s.onChange != nil {
		s.onChange()
	}
}

func mapCheckInRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrAlreadyExists
	}
	return err
}
