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

// BookingRepository captures the persistence operations needed by the service.
type BookingRepository interface {
	CreateBooking(ctx context.Context, booking persistence.Booking) error
	GetBooking(ctx context.Context, id string) (persistence.Booking, error)
	DeleteBooking(ctx context.Context, id string) error
}

// RoomCatalog answers existence checks against the room catalog.
type RoomCatalog interface {
	GetRoom(ctx context.Context, id string) (persistence.Room, error)
}

// BookingService records and removes one-off staff reservations.
//
// It deliberately performs no overlap prevention: concurrent bookings and
// bookings over lectures are legal source data, and the resolver arbitrates
// them deterministically at read time.
type BookingService struct {
	bookings    BookingRepository
	rooms       RoomCatalog
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
	onChange    func()
}

// NewBookingService constructs a booking service with the provided dependencies.
func NewBookingService(bookings BookingRepository, rooms RoomCatalog, idGenerator func() string, now func() time.Time) *BookingService {
	return NewBookingServiceWithLogger(bookings, rooms, idGenerator, now, nil)
}

// NewBookingServiceWithLogger constructs a booking service with a specified logger.
func NewBookingServiceWithLogger(bookings BookingRepository, rooms RoomCatalog, idGenerator func() string, now func() time.Time, logger *slog.Logger) *BookingService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &BookingService{bookings: bookings, rooms: rooms, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

// OnChange registers a hook invoked after every successful mutation, used to
// trigger a reactive status refresh.
func (s *BookingService) OnChange(hook func()) {
	if s != nil {
		s.onChange = hook
	}
}

func (s *BookingService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "BookingService", operation, attrs...)
}

// CreateBooking validates and persists a new reservation for staff members.
func (s *BookingService) CreateBooking(ctx context.Context, params CreateBookingParams) (booking persistence.Booking, err error) {
	if s == nil {
		err = fmt.Errorf("BookingService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateBooking",
		"principal_id", params.Principal.UserID,
		"room_id", params.Input.RoomID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create booking", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("booking_id", booking.ID).InfoContext(ctx, "booking created")
	}()

	if !params.Principal.IsStaff && !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	vErr := validateBookingInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	if _, err = s.rooms.GetRoom(ctx, params.Input.RoomID); err != nil {
		err = mapRoomRepoError(err)
		return
	}

	booking = persistence.Booking{
		ID:            s.idGenerator(),
		RoomID:        params.Input.RoomID,
		Start:         params.Input.Start,
		End:           params.Input.End,
		RequesterID:   params.Principal.UserID,
		RequesterRole: roleOf(params.Principal),
		Label:         strings.TrimSpace(params.Input.Label),
		CreatedAt:     s.now(),
	}
	booking.UpdatedAt = booking.CreatedAt

	if err = mapBookingRepoError(s.bookings.CreateBooking(ctx, booking)); err != nil {
		booking = persistence.Booking{}
		return
	}

	s.notifyChange()
	return
}

// DeleteBooking removes a reservation. Staff may delete their own bookings;
// administrators may delete any.
func (s *BookingService) DeleteBooking(ctx context.Context, principal Principal, bookingID string) error {
	if s == nil {
		return fmt.Errorf("BookingService is nil")
	}

	logger := s.loggerWith(ctx, "DeleteBooking",
		"principal_id", principal.UserID,
		"booking_id", bookingID,
	)

	booking, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		err = mapBookingRepoError(err)
		logger.ErrorContext(ctx, "failed to delete booking", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	if !principal.IsAdmin && booking.RequesterID != principal.UserID {
		logger.ErrorContext(ctx, "failed to delete booking", "error", ErrUnauthorized, "error_kind", ErrorKind(ErrUnauthorized))
		return ErrUnauthorized
	}

	if err := mapBookingRepoError(s.bookings.DeleteBooking(ctx, bookingID)); err != nil {
		logger.ErrorContext(ctx, "failed to delete booking", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "booking deleted")
	s.notifyChange()
	return nil
}

func (s *BookingService) notifyChange() {
	if s.onChange != nil {
		s.onChange()
	}
}

func validateBookingInput(input BookingInput) *ValidationError {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.RoomID) == "" {
		vErr.add("roomId", "room id is required")
	}
	if input.Start.IsZero() || input.End.IsZero() {
		vErr.add("start", "start and end are required")
	} else if !input.Start.Before(input.End) {
		vErr.add("end", "end must be after start")
	}

	return vErr
}

func mapBookingRepoError(err error) error {
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
		vErr.add("end", "end must be after start")
		return vErr
	}
	return err
}

func roleOf(principal Principal) string {
	switch {
	case principal.IsAdmin:
		return "admin"
	case principal.IsStaff:
		return "staff"
	default:
		return "student"
	}
}
