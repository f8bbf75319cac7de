package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.GRPCAddr() != "0.0.0.0:50051" {
		t.Fatalf("GRPCAddr = %q", cfg.GRPCAddr())
	}
	if cfg.BookingStartHour != 8 || cfg.BookingLimitHour != 17 {
		t.Fatalf("hours = %d-%d, want 8-17", cfg.BookingStartHour, cfg.BookingLimitHour)
	}
	if cfg.Location != time.UTC {
		t.Fatalf("Location = %v, want UTC", cfg.Location)
	}
	if cfg.GRPCRequestTimeout != 10*time.Second {
		t.Fatalf("GRPCRequestTimeout = %v", cfg.GRPCRequestTimeout)
	}
	if cfg.RedisAddr != "" || cfg.RabbitMQURL != "" || cfg.OTelEndpoint != "" {
		t.Fatalf("optional backends should default to disabled: %+v", cfg)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("APPOINTLY_GRPC_ADDR", "127.0.0.1:6000")
	t.Setenv("APPOINTLY_BOOKING_START_HOUR", "9")
	t.Setenv("APPOINTLY_BOOKING_LIMIT_HOUR", "16")
	t.Setenv("APPOINTLY_BOOKING_TIME_ZONE", "Europe/Lisbon")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("APPOINTLY_CACHE_TTL", "5m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.GRPCHost != "127.0.0.1" || cfg.GRPCPort != 6000 {
		t.Fatalf("grpc = %s:%d", cfg.GRPCHost, cfg.GRPCPort)
	}
	if cfg.BookingStartHour != 9 || cfg.BookingLimitHour != 16 {
		t.Fatalf("hours = %d-%d", cfg.BookingStartHour, cfg.BookingLimitHour)
	}
	if cfg.Location.String() != "Europe/Lisbon" {
		t.Fatalf("Location = %v", cfg.Location)
	}
	if cfg.RedisAddr != "redis:6379" {
		t.Fatalf("RedisAddr = %q", cfg.RedisAddr)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Fatalf("CacheTTL = %v", cfg.CacheTTL)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown zone", env: map[string]string{"APPOINTLY_BOOKING_TIME_ZONE": "Mars/Olympus"}},
		{name: "start after limit", env: map[string]string{"APPOINTLY_BOOKING_START_HOUR": "18"}},
		{name: "hour out of range", env: map[string]string{"APPOINTLY_BOOKING_LIMIT_HOUR": "24"}},
		{name: "bad duration", env: map[string]string{"APPOINTLY_SHUTDOWN_TIMEOUT": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoad_MidnightOnlyWindow(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("APPOINTLY_BOOKING_START_HOUR", "0")
	t.Setenv("APPOINTLY_BOOKING_LIMIT_HOUR", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.BookingStartHour != 0 || cfg.BookingLimitHour != 0 {
		t.Fatalf("hours = %d-%d, want 0-0", cfg.BookingStartHour, cfg.BookingLimitHour)
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Errorf("restore working directory: %v", err)
		}
	})
}
