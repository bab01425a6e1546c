// Package memory provides a map-backed implementation of the persistence
// repositories. It is the store used by service tests and by deployments that
// run without a database file.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/14-dg/roomfinder/internal/persistence"
)

// Store implements every repository interface over in-process maps. All
// methods are safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	rooms    map[string]persistence.Room
	lectures map[string]persistence.Lecture
	bookings map[string]persistence.Booking
	checkIns map[string]persistence.CheckIn
}

// Open returns an empty store.
func Open() *Store {
	return &Store{
		rooms:    make(map[string]persistence.Room),
		lectures: make(map[string]persistence.Lecture),
		bookings: make(map[string]persistence.Booking),
		checkIns: make(map[string]persistence.CheckIn),
	}
}

// Close releases resources held by the store. No-op for the in-memory implementation.
func (s *Store) Close() error {
	return nil
}

// --- RoomRepository implementation ---

// CreateRoom stores a new room.
func (s *Store) CreateRoom(ctx context.Context, room persistence.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[room.ID]; ok {
		return persistence.ErrDuplicate
	}
	if room.Capacity <= 0 {
		return persistence.ErrConstraintViolation
	}

	s.rooms[room.ID] = cloneRoom(room)
	return nil
}

// UpdateRoom updates an existing room.
func (s *Store) UpdateRoom(ctx context.Context, room persistence.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.rooms[room.ID]
	if !ok {
		return persistence.ErrNotFound
	}
	if room.Capacity <= 0 {
		return persistence.ErrConstraintViolation
	}

	room.CreatedAt = existing.CreatedAt
	room.CheckinCount = existing.CheckinCount
	s.rooms[room.ID] = cloneRoom(room)
	return nil
}

// GetRoom retrieves a room by ID.
func (s *Store) GetRoom(ctx context.Context, id string) (persistence.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[id]
	if !ok {
		return persistence.Room{}, persistence.ErrNotFound
	}
	return cloneRoom(room), nil
}

// ListRooms returns all rooms ordered by floor, then name, then ID.
func (s *Store) ListRooms(ctx context.Context) ([]persistence.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rooms := make([]persistence.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, cloneRoom(room))
	}

	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].Floor != rooms[j].Floor {
			return rooms[i].Floor < rooms[j].Floor
		}
		if rooms[i].Name != rooms[j].Name {
			return rooms[i].Name < rooms[j].Name
		}
		return rooms[i].ID < rooms[j].ID
	})

	return rooms, nil
}

// DeleteRoom removes a room and every record referencing it.
func (s *Store) DeleteRoom(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.rooms, id)

	for lectureID, lecture := range s.lectures {
		if lecture.RoomID == id {
			delete(s.lectures, lectureID)
		}
	}
	for bookingID, booking := range s.bookings {
		if booking.RoomID == id {
			delete(s.bookings, bookingID)
		}
	}
	for checkInID, checkIn := range s.checkIns {
		if checkIn.RoomID == id {
			delete(s.checkIns, checkInID)
		}
	}

	return nil
}

// SetRoomLock flips the lock flag of a room.
func (s *Store) SetRoomLock(ctx context.Context, id string, locked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[id]
	if !ok {
		return persistence.ErrNotFound
	}
	room.Locked = locked
	s.rooms[id] = room
	return nil
}

// AdjustCheckinCount changes the running counter by delta while holding the
// store lock, making the adjustment atomic with respect to other writers.
// The counter never goes below zero.
func (s *Store) AdjustCheckinCount(ctx context.Context, id string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[id]
	if !ok {
		return persistence.ErrNotFound
	}
	room.CheckinCount += delta
	if room.CheckinCount < 0 {
		room.CheckinCount = 0
	}
	s.rooms[id] = room
	return nil
}

// --- LectureRepository implementation ---

// CreateLecture stores a new lecture.
func (s *Store) CreateLecture(ctx context.Context, lecture persistence.Lecture) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lectures[lecture.ID]; ok {
		return persistence.ErrDuplicate
	}
	if _, ok := s.rooms[lecture.RoomID]; !ok {
		return persistence.ErrConstraintViolation
	}
	if lecture.StartTime >= lecture.EndTime || lecture.EndDate.Before(lecture.StartDate) {
		return persistence.ErrConstraintViolation
	}

	s.lectures[lecture.ID] = lecture
	return nil
}

// GetLecture retrieves a lecture by ID.
func (s *Store) GetLecture(ctx context.Context, id string) (persistence.Lecture, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lecture, ok := s.lectures[id]
	if !ok {
		return persistence.Lecture{}, persistence.ErrNotFound
	}
	return lecture, nil
}

// ListLectures returns lectures matching the filter, ordered by weekday,
// start time, then ID.
func (s *Store) ListLectures(ctx context.Context, filter persistence.LectureFilter) ([]persistence.Lecture, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lectures := make([]persistence.Lecture, 0)
	for _, lecture := range s.lectures {
		if filter.RoomID != "" && lecture.RoomID != filter.RoomID {
			continue
		}
		lectures = append(lectures, lecture)
	}

	sort.Slice(lectures, func(i, j int) bool {
		if lectures[i].Weekday != lectures[j].Weekday {
			return lectures[i].Weekday < lectures[j].Weekday
		}
		if lectures[i].StartTime != lectures[j].StartTime {
			return lectures[i].StartTime < lectures[j].StartTime
		}
		return lectures[i].ID < lectures[j].ID
	})

	return lectures, nil
}

// DeleteLecture removes a lecture by ID.
func (s *Store) DeleteLecture(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lectures[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.lectures, id)
	return nil
}

// --- BookingRepository implementation ---

// CreateBooking stores a new booking. Overlap with other bookings or lectures
// is deliberately not checked.
func (s *Store) CreateBooking(ctx context.Context, booking persistence.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bookings[booking.ID]; ok {
		return persistence.ErrDuplicate
	}
	if _, ok := s.rooms[booking.RoomID]; !ok {
		return persistence.ErrConstraintViolation
	}
	if !booking.Start.Before(booking.End) {
		return persistence.ErrConstraintViolation
	}

	s.bookings[booking.ID] = booking
	return nil
}

// GetBooking retrieves a booking by ID.
func (s *Store) GetBooking(ctx context.Context, id string) (persistence.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	booking, ok := s.bookings[id]
	if !ok {
		return persistence.Booking{}, persistence.ErrNotFound
	}
	return booking, nil
}

// ListBookings returns bookings matching the filter, ordered by start, then
// creation time, then ID.
func (s *Store) ListBookings(ctx context.Context, filter persistence.BookingFilter) ([]persistence.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bookings := make([]persistence.Booking, 0)
	for _, booking := range s.bookings {
		if filter.RoomID != "" && booking.RoomID != filter.RoomID {
			continue
		}
		if filter.EndsAfter != nil && !booking.End.After(*filter.EndsAfter) {
			continue
		}
		bookings = append(bookings, booking)
	}

	sort.Slice(bookings, func(i, j int) bool {
		if !bookings[i].Start.Equal(bookings[j].Start) {
			return bookings[i].Start.Before(bookings[j].Start)
		}
		if !bookings[i].CreatedAt.Equal(bookings[j].CreatedAt) {
			return bookings[i].CreatedAt.Before(bookings[j].CreatedAt)
		}
		return bookings[i].ID < bookings[j].ID
	})

	return bookings, nil
}

// DeleteBooking removes a booking by ID.
func (s *Store) DeleteBooking(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bookings[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.bookings, id)
	return nil
}

// --- CheckInRepository implementation ---

// CreateCheckIn stores a new check-in.
func (s *Store) CreateCheckIn(ctx context.Context, checkIn persistence.CheckIn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.checkIns[checkIn.ID]; ok {
		return persistence.ErrDuplicate
	}
	if _, ok := s.rooms[checkIn.RoomID]; !ok {
		return persistence.ErrConstraintViolation
	}
	if !checkIn.Start.Before(checkIn.End) {
		return persistence.ErrConstraintViolation
	}

	s.checkIns[checkIn.ID] = checkIn
	return nil
}

// GetCheckIn retrieves a check-in by ID.
func (s *Store) GetCheckIn(ctx context.Context, id string) (persistence.CheckIn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	checkIn, ok := s.checkIns[id]
	if !ok {
		return persistence.CheckIn{}, persistence.ErrNotFound
	}
	return checkIn, nil
}

// ListCheckIns returns check-ins matching the filter, ordered by start, then ID.
func (s *Store) ListCheckIns(ctx context.Context, filter persistence.CheckInFilter) ([]persistence.CheckIn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	checkIns := make([]persistence.CheckIn, 0)
	for _, checkIn := range s.checkIns {
		if filter.RoomID != "" && checkIn.RoomID != filter.RoomID {
			continue
		}
		if filter.ActiveAt != nil {
			at := *filter.ActiveAt
			if at.Before(checkIn.Start) || !at.Before(checkIn.End) {
				continue
			}
		}
		checkIns = append(checkIns, checkIn)
	}

	sort.Slice(checkIns, func(i, j int) bool {
		if !checkIns[i].Start.Equal(checkIns[j].Start) {
			return checkIns[i].Start.Before(checkIns[j].Start)
		}
		return checkIns[i].ID < checkIns[j].ID
	})

	return checkIns, nil
}

// DeleteCheckIn removes a check-in by ID. Expired records stay until a caller
// deletes them; expiry itself is derived at read time.
func (s *Store) DeleteCheckIn(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.checkIns[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.checkIns, id)
	return nil
}

func cloneRoom(room persistence.Room) persistence.Room {
	if room.SlotPattern != nil {
		pattern := *room.SlotPattern
		room.SlotPattern = &pattern
	}
	return room
}
