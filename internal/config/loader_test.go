package config

import (
	"os"
	"testing"
	"time"
)

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		unset := []string{
			"ROOMFINDER_HTTP_PORT",
			"ROOMFINDER_SQLITE_DSN",
			"ROOMFINDER_TIMEZONE",
			"ROOMFINDER_REFRESH_INTERVAL",
			"ROOMFINDER_SLOT_PATTERN",
		}
		for _, key := range unset {
			if err := os.Unsetenv(key); err != nil {
				t.Fatalf("failed to unset %s: %v", key, err)
			}
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:roomfinder.db?_foreign_keys=on" {
			t.Fatalf("unexpected default DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.Location != time.Local {
			t.Fatalf("expected local timezone by default, got %v", cfg.Location)
		}
		if cfg.RefreshInterval != time.Minute {
			t.Fatalf("expected default refresh interval 1m, got %s", cfg.RefreshInterval)
		}
		if len(cfg.SlotPattern.Slots) != 6 {
			t.Fatalf("expected 6 default slots, got %d", len(cfg.SlotPattern.Slots))
		}
	})

	t.Run("parses duration, timezone and numeric fields", func(t *testing.T) {
		t.Setenv("ROOMFINDER_HTTP_PORT", "9090")
		t.Setenv("ROOMFINDER_SQLITE_DSN", "file:/tmp/roomfinder.db")
		t.Setenv("ROOMFINDER_TIMEZONE", "UTC")
		t.Setenv("ROOMFINDER_REFRESH_INTERVAL", "30s")
		t.Setenv("ROOMFINDER_SLOT_PATTERN", "09:00-10:30,10:45-12:15")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 9090 {
			t.Fatalf("expected HTTP port 9090, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:/tmp/roomfinder.db" {
			t.Fatalf("unexpected DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.Location.String() != "UTC" {
			t.Fatalf("expected UTC timezone, got %v", cfg.Location)
		}
		if cfg.RefreshInterval != 30*time.Second {
			t.Fatalf("expected refresh interval 30s, got %s", cfg.RefreshInterval)
		}
		if len(cfg.SlotPattern.Slots) != 2 {
			t.Fatalf("expected 2 slots, got %d", len(cfg.SlotPattern.Slots))
		}
	})

	t.Run("accumulates invalid values into one error", func(t *testing.T) {
		t.Setenv("ROOMFINDER_HTTP_PORT", "not-a-port")
		t.Setenv("ROOMFINDER_TIMEZONE", "Nowhere/Earth")
		t.Setenv("ROOMFINDER_REFRESH_INTERVAL", "1m")
		t.Setenv("ROOMFINDER_SLOT_PATTERN", "09:00-10:30")

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error for invalid values")
		}
		expected := "invalid environment variable values: ROOMFINDER_HTTP_PORT, ROOMFINDER_TIMEZONE"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("rejects a malformed slot pattern", func(t *testing.T) {
		t.Setenv("ROOMFINDER_HTTP_PORT", "8081")
		t.Setenv("ROOMFINDER_SLOT_PATTERN", "25:00-26:00")

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error for malformed slot pattern")
		}
	})
}
