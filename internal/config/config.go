package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	DataDir        string
	BackupDir      string
	BackupSchedule string
	BackupRetain   int

	RedisURL string

	MeiliSearchHost string
	MeiliMasterKey  string

	JWTSecret string
	JWTTTL    time.Duration

	ReportMinResults int

	LoginMaxAttempts int
	LoginLockout     time.Duration
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		DataDir:        getEnv("DATA_DIR", "data"),
		BackupDir:      getEnv("BACKUP_DIR", "backups"),
		BackupSchedule: getEnv("BACKUP_SCHEDULE", "@daily"),

		RedisURL: os.Getenv("REDIS_URL"),

		MeiliSearchHost: os.Getenv("MEILISEARCH_HOST"),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),

		JWTSecret: getEnv("JWT_SECRET", "change-me"),
	}

	ttlMinutes, err := parseInt(getEnv("JWT_TTL_MINUTES", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL_MINUTES: %w", err)
	}
	cfg.JWTTTL = time.Duration(ttlMinutes) * time.Minute

	cfg.BackupRetain, err = parseInt(getEnv("BACKUP_RETAIN", "7"))
	if err != nil {
		return nil, fmt.Errorf("invalid BACKUP_RETAIN: %w", err)
	}

	cfg.ReportMinResults, err = parseInt(getEnv("REPORT_MIN_RESULTS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_MIN_RESULTS: %w", err)
	}

	cfg.LoginMaxAttempts, err = parseInt(getEnv("LOGIN_MAX_ATTEMPTS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOGIN_MAX_ATTEMPTS: %w", err)
	}

	cfg.LoginLockout, err = parseDuration(getEnv("LOGIN_LOCKOUT", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOGIN_LOCKOUT: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func parseDuration(s string) (time.Duration, error) {
	return time.ParseDuration(s)
}

func parseInt(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("must not be negative: %d", v)
	}
	return v, nil
}
