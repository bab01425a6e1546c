package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/14-dg/roomfinder/internal/persistence"
	"github.com/14-dg/roomfinder/internal/timetable"
)

// LectureRepository implements persistence.LectureRepository on SQLite.
//
// The weekday column holds whatever the source data carried: a 0-6 number or
// an English day name. Reads normalize both through the timetable mapping
// table; writes always store the numeric form.
type LectureRepository struct {
	db *DB
}

// NewLectureRepository creates a SQLite-backed lecture repository.
func NewLectureRepository(db *DB) *LectureRepository {
	return &LectureRepository{db: db}
}

// CreateLecture inserts a new lecture.
func (r *LectureRepository) CreateLecture(ctx context.Context, lecture persistence.Lecture) error {
	if lecture.ID == "" {
		return persistence.ErrConstraintViolation
	}
	if lecture.StartTime >= lecture.EndTime || lecture.EndDate.Before(lecture.StartDate) {
		return persistence.ErrConstraintViolation
	}

	_, err := r.db.db.ExecContext(ctx, `
		INSERT INTO lectures (id, subject, lecturer, room_id, weekday, start_time, end_time,
			start_date, end_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		lecture.ID, lecture.Subject, lecture.Lecturer, lecture.RoomID,
		fmt.Sprintf("%d", int(lecture.Weekday)),
		lecture.StartTime.String(), lecture.EndTime.String(),
		formatDate(lecture.StartDate), formatDate(lecture.EndDate),
		formatTime(lecture.CreatedAt), formatTime(lecture.UpdatedAt),
	)
	return mapError(err)
}

// GetLecture retrieves a lecture by ID.
func (r *LectureRepository) GetLecture(ctx context.Context, id string) (persistence.Lecture, error) {
	row := r.db.db.QueryRowContext(ctx, `
		SELECT id, subject, lecturer, room_id, weekday, start_time, end_time,
			start_date, end_date, created_at, updated_at
		FROM lectures WHERE id = ?`, id)
	return scanLecture(row)
}

// ListLectures returns lectures matching the filter, ordered by weekday,
// start time, then ID.
func (r *LectureRepository) ListLectures(ctx context.Context, filter persistence.LectureFilter) ([]persistence.Lecture, error) {
	query := `
		SELECT id, subject, lecturer, room_id, weekday, start_time, end_time,
			start_date, end_date, created_at, updated_at
		FROM lectures`
	args := make([]any, 0, 1)
	if filter.RoomID != "" {
		query += ` WHERE room_id = ?`
		args = append(args, filter.RoomID)
	}
	query += ` ORDER BY weekday, start_time, id`

	rows, err := r.db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	lectures := make([]persistence.Lecture, 0)
	for rows.Next() {
		lecture, err := scanLecture(rows)
		if err != nil {
			return nil, err
		}
		lectures = append(lectures, lecture)
	}
	return lectures, rows.Err()
}

// DeleteLecture removes a lecture by ID.
func (r *LectureRepository) DeleteLecture(ctx context.Context, id string) error {
	result, err := r.db.db.ExecContext(ctx, `DELETE FROM lectures WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRowAffected(result)
}

func scanLecture(row rowScanner) (persistence.Lecture, error) {
	var (
		lecture                        persistence.Lecture
		weekday, startTime, endTime    string
		startDate, endDate             string
		createdAt, updatedAt           string
	)
	err := row.Scan(&lecture.ID, &lecture.Subject, &lecture.Lecturer, &lecture.RoomID,
		&weekday, &startTime, &endTime, &startDate, &endDate, &createdAt, &updatedAt)
	if err != nil {
		return persistence.Lecture{}, mapError(err)
	}

	if lecture.Weekday, err = timetable.ParseWeekday(weekday); err != nil {
		return persistence.Lecture{}, err
	}
	if lecture.StartTime, err = timetable.ParseMinuteOfDay(startTime); err != nil {
		return persistence.Lecture{}, err
	}
	if lecture.EndTime, err = timetable.ParseMinuteOfDay(endTime); err != nil {
		return persistence.Lecture{}, err
	}
	if lecture.StartDate, err = parseDate(startDate); err != nil {
		return persistence.Lecture{}, err
	}
	if lecture.EndDate, err = parseDate(endDate); err != nil {
		return persistence.Lecture{}, err
	}
	if lecture.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Lecture{}, err
	}
	if lecture.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Lecture{}, err
	}
	return lecture, nil
}

func formatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

func parseDate(value string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: parse date %q: %w", value, err)
	}
	return t, nil
}
