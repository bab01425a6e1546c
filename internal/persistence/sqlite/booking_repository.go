package sqlite

import (
	"context"

	"github.com/14-dg/roomfinder/internal/persistence"
)

// BookingRepository implements persistence.BookingRepository on SQLite.
type BookingRepository struct {
	db *DB
}

// NewBookingRepository creates a SQLite-backed booking repository.
func NewBookingRepository(db *DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// CreateBooking inserts a new booking. No overlap check happens here or
// anywhere else; the resolver arbitrates overlapping records at read time.
func (r *BookingRepository) CreateBooking(ctx context.Context, booking persistence.Booking) error {
	if booking.ID == "" {
		return persistence.ErrConstraintViolation
	}
	if !booking.Start.Before(booking.End) {
		return persistence.ErrConstraintViolation
	}

	_, err := r.db.db.ExecContext(ctx, `
		INSERT INTO bookings (id, room_id, start_at, end_at, requester_id, requester_role,
			label, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		booking.ID, booking.RoomID,
		formatTime(booking.Start), formatTime(booking.End),
		booking.RequesterID, booking.RequesterRole, booking.Label,
		formatTime(booking.CreatedAt), formatTime(booking.UpdatedAt),
	)
	return mapError(err)
}

// GetBooking retrieves a booking by ID.
func (r *BookingRepository) GetBooking(ctx context.Context, id string) (persistence.Booking, error) {
	row := r.db.db.QueryRowContext(ctx, `
		SELECT id, room_id, start_at, end_at, requester_id, requester_role, label, created_at, updated_at
		FROM bookings WHERE id = ?`, id)
	return scanBooking(row)
}

// ListBookings returns bookings matching the filter, ordered by start,
// creation time, then ID.
func (r *BookingRepository) ListBookings(ctx context.Context, filter persistence.BookingFilter) ([]persistence.Booking, error) {
	query := `
		SELECT id, room_id, start_at, end_at, requester_id, requester_role, label, created_at, updated_at
		FROM bookings WHERE 1=1`
	args := make([]any, 0, 2)
	if filter.RoomID != "" {
		query += ` AND room_id = ?`
		args = append(args, filter.RoomID)
	}
	if filter.EndsAfter != nil {
		query += ` AND end_at > ?`
		args = append(args, formatTime(*filter.EndsAfter))
	}
	query += ` ORDER BY start_at, created_at, id`

	rows, err := r.db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	bookings := make([]persistence.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

// DeleteBooking removes a booking by ID.
func (r *BookingRepository) DeleteBooking(ctx context.Context, id string) error {
	result, err := r.db.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRowAffected(result)
}

func scanBooking(row rowScanner) (persistence.Booking, error) {
	var (
		booking                              persistence.Booking
		startAt, endAt, createdAt, updatedAt string
	)
	err := row.Scan(&booking.ID, &booking.RoomID, &startAt, &endAt,
		&booking.RequesterID, &booking.RequesterRole, &booking.Label, &createdAt, &updatedAt)
	if err != nil {
		return persistence.Booking{}, mapError(err)
	}

	if booking.Start, err = parseTime(startAt); err != nil {
		return persistence.Booking{}, err
	}
	if booking.End, err = parseTime(endAt); err != nil {
		return persistence.Booking{}, err
	}
	if booking.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Booking{}, err
	}
	if booking.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Booking{}, err
	}
	return booking, nil
}
