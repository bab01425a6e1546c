package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// migration is one versioned schema step. Steps are compiled into the binary
// and applied in order; the schema_migrations table records what has run.
type migration struct {
	Version     string
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     "001",
		Description: "rooms catalog",
		SQL: `
			CREATE TABLE IF NOT EXISTS rooms (
				id             TEXT PRIMARY KEY,
				name           TEXT NOT NULL,
				floor          INTEGER NOT NULL DEFAULT 0,
				capacity       INTEGER NOT NULL CHECK (capacity > 0),
				has_projector  INTEGER NOT NULL DEFAULT 0,
				has_whiteboard INTEGER NOT NULL DEFAULT 0,
				has_computers  INTEGER NOT NULL DEFAULT 0,
				locked         INTEGER NOT NULL DEFAULT 0,
				checkin_count  INTEGER NOT NULL DEFAULT 0,
				slot_pattern   TEXT,
				created_at     TEXT NOT NULL,
				updated_at     TEXT NOT NULL
			);
		`,
	},
	{
		Version:     "002",
		Description: "recurring lecture timetable",
		SQL: `
			CREATE TABLE IF NOT EXISTS lectures (
				id         TEXT PRIMARY KEY,
				subject    TEXT NOT NULL,
				lecturer   TEXT NOT NULL DEFAULT '',
				room_id    TEXT NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
				weekday    TEXT NOT NULL,
				start_time TEXT NOT NULL,
				end_time   TEXT NOT NULL,
				start_date TEXT NOT NULL,
				end_date   TEXT NOT NULL,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_lectures_room ON lectures(room_id);
		`,
	},
	{
		Version:     "003",
		Description: "one-off bookings",
		SQL: `
			CREATE TABLE IF NOT EXISTS bookings (
				id             TEXT PRIMARY KEY,
				room_id        TEXT NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
				start_at       TEXT NOT NULL,
				end_at         TEXT NOT NULL,
				requester_id   TEXT NOT NULL,
				requester_role TEXT NOT NULL DEFAULT '',
				label          TEXT NOT NULL DEFAULT '',
				created_at     TEXT NOT NULL,
				updated_at     TEXT NOT NULL,
				CHECK (start_at < end_at)
			);
			CREATE INDEX IF NOT EXISTS idx_bookings_room ON bookings(room_id);
		`,
	},
	{
		Version:     "004",
		Description: "student check-ins",
		SQL: `
			CREATE TABLE IF NOT EXISTS checkins (
				id         TEXT PRIMARY KEY,
				room_id    TEXT NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
				user_id    TEXT NOT NULL,
				activity   TEXT NOT NULL DEFAULT '',
				start_at   TEXT NOT NULL,
				end_at     TEXT NOT NULL,
				created_at TEXT NOT NULL,
				CHECK (start_at < end_at)
			);
			CREATE INDEX IF NOT EXISTS idx_checkins_room ON checkins(room_id);
		`,
	},
}

// Migrate applies every pending migration in order, each inside its own
// transaction, and records it in schema_migrations.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version           TEXT PRIMARY KEY,
			applied_at        TEXT NOT NULL,
			execution_time_ms INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("sqlite: initialize schema_migrations: %w", err)
	}

	for _, step := range migrations {
		applied, err := d.versionApplied(ctx, step.Version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		started := time.Now()
		err = d.WithTransaction(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, step.SQL); err != nil {
				return fmt.Errorf("sqlite: migration %s (%s): %w", step.Version, step.Description, err)
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO schema_migrations (version, applied_at, execution_time_ms) VALUES (?, ?, ?)`,
				step.Version, time.Now().UTC().Format(time.RFC3339), time.Since(started).Milliseconds(),
			)
			return err
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *DB) versionApplied(ctx context.Context, version string) (bool, error) {
	var count int
	err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM schema_migrations WHERE version = ?`, version,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("sqlite: check migration %s: %w", version, err)
	}
	return count > 0, nil
}
