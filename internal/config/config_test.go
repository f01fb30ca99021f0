package config

import (
	"os"
	"testing"
	"time"
)

func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		if prev, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, prev) })
		}
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	unsetenv(t, "DATA_DIR", "REPORT_MIN_RESULTS", "JWT_TTL_MINUTES", "LOGIN_LOCKOUT", "LOGIN_MAX_ATTEMPTS", "BACKUP_SCHEDULE", "BACKUP_RETAIN")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DataDir != "data" {
		t.Fatalf("expected default data dir, got %s", cfg.DataDir)
	}
	if cfg.ReportMinResults != 5 {
		t.Fatalf("expected report threshold 5, got %d", cfg.ReportMinResults)
	}
	if cfg.JWTTTL != time.Hour {
		t.Fatalf("expected 1h ttl, got %s", cfg.JWTTTL)
	}
	if cfg.LoginMaxAttempts != 5 || cfg.LoginLockout != 15*time.Minute {
		t.Fatalf("unexpected login defaults %d %s", cfg.LoginMaxAttempts, cfg.LoginLockout)
	}
	if cfg.BackupSchedule != "@daily" {
		t.Fatalf("expected daily backups, got %s", cfg.BackupSchedule)
	}
	if cfg.BackupRetain != 7 {
		t.Fatalf("expected 7 retained backups, got %d", cfg.BackupRetain)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "18080")
	t.Setenv("DATA_DIR", "/tmp/records")
	t.Setenv("BACKUP_DIR", "/tmp/records-backup")
	t.Setenv("BACKUP_SCHEDULE", "@every 1h")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_TTL_MINUTES", "90")
	t.Setenv("REPORT_MIN_RESULTS", "10")
	t.Setenv("LOGIN_MAX_ATTEMPTS", "3")
	t.Setenv("LOGIN_LOCKOUT", "2m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "18080" {
		t.Fatalf("expected PORT override, got %s", cfg.Port)
	}
	if cfg.DataDir != "/tmp/records" {
		t.Fatalf("expected DATA_DIR override, got %s", cfg.DataDir)
	}
	if cfg.BackupDir != "/tmp/records-backup" || cfg.BackupSchedule != "@every 1h" {
		t.Fatalf("unexpected backup settings %s %s", cfg.BackupDir, cfg.BackupSchedule)
	}
	if cfg.RedisURL != "redis://localhost:6379/1" {
		t.Fatalf("expected REDIS_URL override, got %s", cfg.RedisURL)
	}
	if cfg.JWTSecret != "test-secret" {
		t.Fatalf("expected JWT_SECRET override, got %s", cfg.JWTSecret)
	}
	if cfg.JWTTTL != 90*time.Minute {
		t.Fatalf("expected JWT_TTL_MINUTES 90, got %s", cfg.JWTTTL)
	}
	if cfg.ReportMinResults != 10 {
		t.Fatalf("expected REPORT_MIN_RESULTS 10, got %d", cfg.ReportMinResults)
	}
	if cfg.LoginMaxAttempts != 3 || cfg.LoginLockout != 2*time.Minute {
		t.Fatalf("unexpected login limits %d %s", cfg.LoginMaxAttempts, cfg.LoginLockout)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"REPORT_MIN_RESULTS": "five",
		"JWT_TTL_MINUTES":    "-1",
		"LOGIN_LOCKOUT":      "soon",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, value)
			}
		})
	}
}
