package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/14-dg/roomfinder/internal/persistence"
)

// RoomRepository implements persistence.RoomRepository on SQLite.
type RoomRepository struct {
	db *DB
}

// NewRoomRepository creates a SQLite-backed room repository.
func NewRoomRepository(db *DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// CreateRoom inserts a new room.
func (r *RoomRepository) CreateRoom(ctx context.Context, room persistence.Room) error {
	if room.ID == "" || room.Capacity <= 0 {
		return persistence.ErrConstraintViolation
	}

	_, err := r.db.db.ExecContext(ctx, `
		INSERT INTO rooms (id, name, floor, capacity, has_projector, has_whiteboard, has_computers,
			locked, checkin_count, slot_pattern, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		room.ID, room.Name, room.Floor, room.Capacity,
		boolToInt(room.HasProjector), boolToInt(room.HasWhiteboard), boolToInt(room.HasComputers),
		boolToInt(room.Locked), room.CheckinCount, room.SlotPattern,
		formatTime(room.CreatedAt), formatTime(room.UpdatedAt),
	)
	return mapError(err)
}

// UpdateRoom updates an existing room. The running check-in counter is owned
// by AdjustCheckinCount and is deliberately not touched here.
func (r *RoomRepository) UpdateRoom(ctx context.Context, room persistence.Room) error {
	if room.Capacity <= 0 {
		return persistence.ErrConstraintViolation
	}

	result, err := r.db.db.ExecContext(ctx, `
		UPDATE rooms
		SET name = ?, floor = ?, capacity = ?, has_projector = ?, has_whiteboard = ?,
			has_computers = ?, locked = ?, slot_pattern = ?, updated_at = ?
		WHERE id = ?`,
		room.Name, room.Floor, room.Capacity,
		boolToInt(room.HasProjector), boolToInt(room.HasWhiteboard), boolToInt(room.HasComputers),
		boolToInt(room.Locked), room.SlotPattern, formatTime(room.UpdatedAt),
		room.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRowAffected(result)
}

// GetRoom retrieves a room by ID.
func (r *RoomRepository) GetRoom(ctx context.Context, id string) (persistence.Room, error) {
	row := r.db.db.QueryRowContext(ctx, `
		SELECT id, name, floor, capacity, has_projector, has_whiteboard, has_computers,
			locked, checkin_count, slot_pattern, created_at, updated_at
		FROM rooms WHERE id = ?`, id)
	return scanRoom(row)
}

// ListRooms returns all rooms ordered by floor, name, then ID.
func (r *RoomRepository) ListRooms(ctx context.Context) ([]persistence.Room, error) {
	rows, err := r.db.db.QueryContext(ctx, `
		SELECT id, name, floor, capacity, has_projector, has_whiteboard, has_computers,
			locked, checkin_count, slot_pattern, created_at, updated_at
		FROM rooms ORDER BY floor, name, id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	rooms := make([]persistence.Room, 0)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

// DeleteRoom removes a room; dependent records cascade.
func (r *RoomRepository) DeleteRoom(ctx context.Context, id string) error {
	result, err := r.db.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRowAffected(result)
}

// SetRoomLock flips the lock flag.
func (r *RoomRepository) SetRoomLock(ctx context.Context, id string, locked bool) error {
	result, err := r.db.db.ExecContext(ctx,
		`UPDATE rooms SET locked = ?, updated_at = ? WHERE id = ?`,
		boolToInt(locked), formatTime(time.Now().UTC()), id,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRowAffected(result)
}

// AdjustCheckinCount changes the running counter in one UPDATE statement.
// The increment happens inside the database, so concurrent adjustments
// serialize there instead of losing updates to a client-side read-modify-write.
func (r *RoomRepository) AdjustCheckinCount(ctx context.Context, id string, delta int) error {
	result, err := r.db.db.ExecContext(ctx,
		`UPDATE rooms SET checkin_count = MAX(checkin_count + ?, 0) WHERE id = ?`,
		delta, id,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRowAffected(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoom(row rowScanner) (persistence.Room, error) {
	var (
		room                                          persistence.Room
		projector, whiteboard, computers, locked      int
		slotPattern                                   sql.NullString
		createdAt, updatedAt                          string
	)
	err := row.Scan(&room.ID, &room.Name, &room.Floor, &room.Capacity,
		&projector, &whiteboard, &computers, &locked, &room.CheckinCount,
		&slotPattern, &createdAt, &updatedAt)
	if err != nil {
		return persistence.Room{}, mapError(err)
	}

	room.HasProjector = projector != 0
	room.HasWhiteboard = whiteboard != 0
	room.HasComputers = computers != 0
	room.Locked = locked != 0
	if slotPattern.Valid {
		pattern := slotPattern.String
		room.SlotPattern = &pattern
	}
	if room.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Room{}, err
	}
	if room.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Room{}, err
	}
	return room, nil
}

func requireRowAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: parse timestamp %q: %w", value, err)
	}
	return t, nil
}
