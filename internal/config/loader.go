package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/14-dg/roomfinder/internal/timetable"
)

// DefaultSlotPattern is the campus-wide teaching grid used for rooms without
// a custom pattern.
const DefaultSlotPattern = "08:00-09:30,09:45-11:15,11:30-13:00,13:45-15:15,15:30-17:00,17:15-18:45"

// Config captures environment driven configuration values for the room
// finder service.
type Config struct {
	HTTPPort        int
	SQLiteDSN       string
	Location        *time.Location
	RefreshInterval time.Duration
	SlotPattern     timetable.SlotPattern
}

// Load parses configuration values from the current process environment. A
// .env file in the working directory is merged in first when present;
// variables already set in the environment win.
//
// The loader applies sensible defaults for optional fields and accumulates
// all invalid values into a single error instead of stopping at the first.
func Load() (Config, error) {
	// Ignore a missing .env file; the environment alone is a valid source.
	_ = godotenv.Load()

	cfg := Config{
		HTTPPort:        8080,
		SQLiteDSN:       "file:roomfinder.db?_foreign_keys=on",
		Location:        time.Local,
		RefreshInterval: time.Minute,
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("ROOMFINDER_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "ROOMFINDER_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("ROOMFINDER_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if tzValue := strings.TrimSpace(os.Getenv("ROOMFINDER_TIMEZONE")); tzValue != "" {
		location, err := time.LoadLocation(tzValue)
		if err != nil {
			invalid = append(invalid, "ROOMFINDER_TIMEZONE")
		} else {
			cfg.Location = location
		}
	}

	if intervalValue := strings.TrimSpace(os.Getenv("ROOMFINDER_REFRESH_INTERVAL")); intervalValue != "" {
		interval, err := time.ParseDuration(intervalValue)
		if err != nil || interval <= 0 {
			invalid = append(invalid, "ROOMFINDER_REFRESH_INTERVAL")
		} else {
			cfg.RefreshInterval = interval
		}
	}

	patternValue := strings.TrimSpace(os.Getenv("ROOMFINDER_SLOT_PATTERN"))
	if patternValue == "" {
		patternValue = DefaultSlotPattern
	}
	pattern, err := timetable.ParsePattern(patternValue)
	if err != nil {
		invalid = append(invalid, "ROOMFINDER_SLOT_PATTERN")
	} else {
		cfg.SlotPattern = pattern
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
