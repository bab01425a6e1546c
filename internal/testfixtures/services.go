package testfixtures

import (
	"log/slog"
	"time"

	"github.com/14-dg/roomfinder/internal/application"
	"github.com/14-dg/roomfinder/internal/recurrence"
	"github.com/14-dg/roomfinder/internal/timetable"
)

// ServiceFactory assists tests with constructing application services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("id"),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("id")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// StatusServiceDeps captures dependencies for constructing a status service.
type StatusServiceDeps struct {
	Rooms          application.RoomStore
	Lectures       application.LectureStore
	Bookings       application.BookingStore
	CheckIns       application.CheckInStore
	Matcher        *recurrence.Matcher
	DefaultPattern timetable.SlotPattern
	Logger         *slog.Logger
}

// NewStatusService builds a status service using the supplied dependencies.
// The matcher defaults to a UTC matcher so fixture timestamps resolve the
// same on every machine.
func (f *ServiceFactory) NewStatusService(deps StatusServiceDeps) *application.StatusService {
	matcher := deps.Matcher
	if matcher == nil {
		matcher = recurrence.NewMatcher(time.UTC)
	}
	return application.NewStatusServiceWithLogger(
		deps.Rooms,
		deps.Lectures,
		deps.Bookings,
		deps.CheckIns,
		matcher,
		deps.DefaultPattern,
		deps.Logger,
	)
}

// RoomServiceDeps captures dependencies for constructing a room service.
type RoomServiceDeps struct {
	Rooms       application.RoomRepository
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewRoomService builds a room service using the supplied dependencies.
func (f *ServiceFactory) NewRoomService(deps RoomServiceDeps) *application.RoomService {
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewRoomServiceWithLogger(
		deps.Rooms,
		idGen,
		now,
		deps.Logger,
	)
}

// BookingServiceDeps captures dependencies for constructing a booking service.
type BookingServiceDeps struct {
	Bookings    application.BookingRepository
	Rooms       application.RoomCatalog
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewBookingService builds a booking service using the supplied dependencies.
func (f *ServiceFactory) NewBookingService(deps BookingServiceDeps) *application.BookingService {
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewBookingServiceWithLogger(
		deps.Bookings,
		deps.Rooms,
		idGen,
		now,
		deps.Logger,
	)
}

// CheckInServiceDeps captures dependencies for constructing a check-in service.
type CheckInServiceDeps struct {
	CheckIns    application.CheckInRepository
	Rooms       application.RoomCatalog
	Counter     application.CheckinCounter
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewCheckInService builds a check-in service using the supplied dependencies.
func (f *ServiceFactory) NewCheckInService(deps CheckInServiceDeps) *application.CheckInService {
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewCheckInServiceWithLogger(
		deps.CheckIns,
		deps.Rooms,
		deps.Counter,
		idGen,
		now,
		deps.Logger,
	)
}

// LectureServiceDeps captures dependencies for constructing a lecture service.
type LectureServiceDeps struct {
	Lectures    application.LectureRepository
	Rooms       application.RoomCatalog
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewLectureService builds a lecture service using the supplied dependencies.
func (f *ServiceFactory) NewLectureService(deps LectureServiceDeps) *application.LectureService {
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewLectureServiceWithLogger(
		deps.Lectures,
		deps.Rooms,
		idGen,
		now,
		deps.Logger,
	)
}
