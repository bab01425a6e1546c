package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/14-dg/roomfinder/internal/persistence"
	"github.com/14-dg/roomfinder/internal/timetable"
)

// RoomRepository captures the persistence operations needed by the service.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room persistence.Room) error
	UpdateRoom(ctx context.Context, room persistence.Room) error
	GetRoom(ctx context.Context, id string) (persistence.Room, error)
	ListRooms(ctx context.Context) ([]persistence.Room, error)
	DeleteRoom(ctx context.Context, id string) error
	SetRoomLock(ctx context.Context, id string, locked bool) error
}

// RoomService orchestrates validation, authorization, and persistence for rooms.
type RoomService struct {
	rooms       RoomRepository
	idGenerator func() string
	now         func() time.Time
	onChange    func()
	logger      *slog.Logger
}

// NewRoomService constructs a room service with the provided dependencies.
func NewRoomService(rooms RoomRepository, idGenerator func() string, now func() time.Time) *RoomService {
	return NewRoomServiceWithLogger(rooms, idGenerator, now, nil)
}

// NewRoomServiceWithLogger constructs a room service with a specified logger.
func NewRoomServiceWithLogger(rooms RoomRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *RoomService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &RoomService{rooms: rooms, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

// OnChange registers a hook invoked after every successful mutation, used to
// trigger a reactive status refresh.
func (s *RoomService) OnChange(hook func()) {
	if s != nil {
		s.onChange = hook
	}
}

func (s *RoomService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "RoomService", operation, attrs...)
}

// CreateRoom validates input and persists a new room for administrators.
func (s *RoomService) CreateRoom(ctx context.Context, params CreateRoomParams) (room persistence.Room, err error) {
	if s == nil {
		err = fmt.Errorf("RoomService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateRoom",
		"principal_id", params.Principal.UserID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create room", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("room_id", room.ID).InfoContext(ctx, "room created")
	}()

	if !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	vErr := validateRoomInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	room = persistence.Room{
		ID:            s.idGenerator(),
		Name:          strings.TrimSpace(params.Input.Name),
		Floor:         params.Input.Floor,
		Capacity:      params.Input.Capacity,
		HasProjector:  params.Input.HasProjector,
		HasWhiteboard: params.Input.HasWhiteboard,
		HasComputers:  params.Input.HasComputers,
		SlotPattern:   normalizeOptionalString(params.Input.SlotPattern),
		CreatedAt:     s.now(),
	}
	room.UpdatedAt = room.CreatedAt

	if err = mapRoomRepoError(s.rooms.CreateRoom(ctx, room)); err != nil {
		room = persistence.Room{}
		return
	}
	if s.onChange != nil {
		s.onChange()
	}
	return
}

// UpdateRoom validates input and updates an existing room for administrators.
func (s *RoomService) UpdateRoom(ctx context.Context, params UpdateRoomParams) (room persistence.Room, err error) {
	if s == nil {
		err = fmt.Errorf("RoomService is nil")
		return
	}
	if !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	logger := s.loggerWith(ctx, "UpdateRoom",
		"principal_id", params.Principal.UserID,
		"room_id", params.RoomID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update room", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("room_id", room.ID).InfoContext(ctx, "room updated")
	}()

	existing, err := s.rooms.GetRoom(ctx, params.RoomID)
	if err != nil {
		err = mapRoomRepoError(err)
		return
	}

	vErr := validateRoomInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	updated := existing
	updated.Name = strings.TrimSpace(params.Input.Name)
	updated.Floor = params.Input.Floor
	updated.Capacity = params.Input.Capacity
	updated.HasProjector = params.Input.HasProjector
	updated.HasWhiteboard = params.Input.HasWhiteboard
	updated.HasComputers = params.Input.HasComputers
	updated.SlotPattern = normalizeOptionalString(params.Input.SlotPattern)
	updated.UpdatedAt = s.now()

	if err = mapRoomRepoError(s.rooms.UpdateRoom(ctx, updated)); err != nil {
		return
	}
	room = updated
	if s.onChange != nil {
		s.onChange()
	}
	return
}

// DeleteRoom removes an existing room when requested by an administrator.
func (s *RoomService) DeleteRoom(ctx context.Context, principal Principal, roomID string) error {
	if s == nil {
		return fmt.Errorf("RoomService is nil")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}

	logger := s.loggerWith(ctx, "DeleteRoom",
		"principal_id", principal.UserID,
		"room_id", roomID,
	)

	if err := mapRoomRepoError(s.rooms.DeleteRoom(ctx, roomID)); err != nil {
		logger.ErrorContext(ctx, "failed to delete room", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "room deleted")
	if s.onChange != nil {
		s.onChange()
	}
	return nil
}

// GetRoom fetches a single room.
func (s *RoomService) GetRoom(ctx context.Context, roomID string) (persistence.Room, error) {
	if s == nil {
		return persistence.Room{}, fmt.Errorf("RoomService is nil")
	}
	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return persistence.Room{}, mapRoomRepoError(err)
	}
	return room, nil
}

// ListRooms returns the room catalog ordered by floor, then name.
func (s *RoomService) ListRooms(ctx context.Context) (rooms []persistence.Room, err error) {
	if s == nil {
		err = fmt.Errorf("RoomService is nil")
		return
	}

	logger := s.loggerWith(ctx, "ListRooms")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list rooms", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(rooms)).DebugContext(ctx, "rooms listed")
	}()

	raw, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return
	}

	rooms = make([]persistence.Room, len(raw))
	copy(rooms, raw)

	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].Floor != rooms[j].Floor {
			return rooms[i].Floor < rooms[j].Floor
		}
		if strings.EqualFold(rooms[i].Name, rooms[j].Name) {
			return rooms[i].ID < rooms[j].ID
		}
		return strings.ToLower(rooms[i].Name) < strings.ToLower(rooms[j].Name)
	})

	return
}

// SetRoomLock flips the caller-visible lock flag. Locking never changes the
// derived occupancy; the two dimensions are reported side by side.
func (s *RoomService) SetRoomLock(ctx context.Context, principal Principal, roomID string, locked bool) error {
	if s == nil {
		return fmt.Errorf("RoomService is nil")
	}
	if !principal.IsStaff && !principal.IsAdmin {
		return ErrUnauthorized
	}

	logger := s.loggerWith(ctx, "SetRoomLock",
		"principal_id", principal.UserID,
		"room_id", roomID,
		"locked", locked,
	)

	if err := mapRoomRepoError(s.rooms.SetRoomLock(ctx, roomID, locked)); err != nil {
		logger.ErrorContext(ctx, "failed to set room lock", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "room lock updated")
	if s.onChange != nil {
		s.onChange()
	}
	return nil
}

func validateRoomInput(input RoomInput) *ValidationError {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	if input.Capacity <= 0 {
		vErr.add("capacity", "capacity must be positive")
	}
	if input.SlotPattern != nil && strings.TrimSpace(*input.SlotPattern) != "" {
		if _, err := timetable.ParsePattern(*input.SlotPattern); err != nil {
			vErr.add("slotPattern", "slot pattern must be ordered HH:MM-HH:MM windows")
		}
	}

	return vErr
}

func mapRoomRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrAlreadyExists
	}
	if errors.Is(err, persistence.ErrConstraintViolation) {
		vErr := &ValidationError{}
		vErr.add("capacity", "capacity must be positive")
		return vErr
	}
	return err
}

func normalizeOptionalString(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
