package sqlite

import (
	"context"

	"github.com/14-dg/roomfinder/internal/persistence"
)

// CheckInRepository implements persistence.CheckInRepository on SQLite.
type CheckInRepository struct {
	db *DB
}

// NewCheckInRepository creates a SQLite-backed check-in repository.
func NewCheckInRepository(db *DB) *CheckInRepository {
	return &CheckInRepository{db: db}
}

// CreateCheckIn inserts a new check-in.
func (r *CheckInRepository) CreateCheckIn(ctx context.Context, checkIn persistence.CheckIn) error {
	if checkIn.ID == "" {
		return persistence.ErrConstraintViolation
	}
	if !checkIn.Start.Before(checkIn.End) {
		return persistence.ErrConstraintViolation
	}

	_, err := r.db.db.ExecContext(ctx, `
		INSERT INTO checkins (id, room_id, user_id, activity, start_at, end_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		checkIn.ID, checkIn.RoomID, checkIn.UserID, checkIn.Activity,
		formatTime(checkIn.Start), formatTime(checkIn.End), formatTime(checkIn.CreatedAt),
	)
	return mapError(err)
}

// GetCheckIn retrieves a check-in by ID.
func (r *CheckInRepository) GetCheckIn(ctx context.Context, id string) (persistence.CheckIn, error) {
	row := r.db.db.QueryRowContext(ctx, `
		SELECT id, room_id, user_id, activity, start_at, end_at, created_at
		FROM checkins WHERE id = ?`, id)
	return scanCheckIn(row)
}

// ListCheckIns returns check-ins matching the filter, ordered by start, then
// ID. The ActiveAt filter applies the half-open [start,end) convention.
func (r *CheckInRepository) ListCheckIns(ctx context.Context, filter persistence.CheckInFilter) ([]persistence.CheckIn, error) {
	query := `
		SELECT id, room_id, user_id, activity, start_at, end_at, created_at
		FROM checkins WHERE 1=1`
	args := make([]any, 0, 3)
	if filter.RoomID != "" {
		query += ` AND room_id = ?`
		args = append(args, filter.RoomID)
	}
	if filter.ActiveAt != nil {
		at := formatTime(*filter.ActiveAt)
		query += ` AND start_at <= ? AND end_at > ?`
		args = append(args, at, at)
	}
	query += ` ORDER BY start_at, id`

	rows, err := r.db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	checkIns := make([]persistence.CheckIn, 0)
	for rows.Next() {
		checkIn, err := scanCheckIn(rows)
		if err != nil {
			return nil, err
		}
		checkIns = append(checkIns, checkIn)
	}
	return checkIns, rows.Err()
}

// DeleteCheckIn removes a check-in by ID. Called on explicit checkout only;
// expiry is derived at read time, not a deletion performed here.
func (r *CheckInRepository) DeleteCheckIn(ctx context.Context, id string) error {
	result, err := r.db.db.ExecContext(ctx, `DELETE FROM checkins WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRowAffected(result)
}

func scanCheckIn(row rowScanner) (persistence.CheckIn, error) {
	var (
		checkIn                   persistence.CheckIn
		startAt, endAt, createdAt string
	)
	err := row.Scan(&checkIn.ID, &checkIn.RoomID, &checkIn.UserID, &checkIn.Activity,
		&startAt, &endAt, &createdAt)
	if err != nil {
		return persistence.CheckIn{}, mapError(err)
	}

	if checkIn.Start, err = parseTime(startAt); err != nil {
		return persistence.CheckIn{}, err
	}
	if checkIn.End, err = parseTime(endAt); err != nil {
		return persistence.CheckIn{}, err
	}
	if checkIn.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.CheckIn{}, err
	}
	return checkIn, nil
}
