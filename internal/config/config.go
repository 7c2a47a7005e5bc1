package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Auth
		OpenLibrary
		Tasks
		Maintenance
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Auth struct {
		JWTSecret       string
		AccessTokenTTL  time.Duration
		RefreshTokenTTL time.Duration
		BcryptCost      int

		// Lockout after repeated failed logins
		MaxLoginAttempts int
		LockoutDuration  time.Duration
	}
	OpenLibrary struct {
		BaseURL           string
		UserAgent         string
		RequestsPerSecond int
		MaxRetries        int
		Timeout           time.Duration
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
	Maintenance struct {
		Enabled         bool
		RefreshSchedule string        // Cron format: "0 3 * * *" = daily at 03:00
		CleanupSchedule string        // Cron format: "30 * * * *" = hourly at :30
		BookMetadataTTL time.Duration // Cached book rows older than this get refreshed
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8080)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Auth defaults
	v.SetDefault("auth_jwt_secret", "") // Auto-generated if empty (tokens won't survive restarts)
	v.SetDefault("auth_access_token_ttl", "30m")
	v.SetDefault("auth_refresh_token_ttl", "168h") // 7 days
	v.SetDefault("auth_bcrypt_cost", 12)
	v.SetDefault("auth_max_login_attempts", 5)
	v.SetDefault("auth_lockout_duration", "30m")

	// OpenLibrary defaults
	v.SetDefault("openlibrary_base_url", DefaultOpenLibraryBaseURL)
	v.SetDefault("openlibrary_user_agent", DefaultUserAgent)
	v.SetDefault("openlibrary_requests_per_second", 1)
	v.SetDefault("openlibrary_max_retries", 3)
	v.SetDefault("openlibrary_timeout", "15s")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	// Maintenance defaults
	v.SetDefault("maintenance_enabled", true)
	v.SetDefault("maintenance_refresh_schedule", "0 3 * * *")  // Daily at 03:00
	v.SetDefault("maintenance_cleanup_schedule", "30 * * * *") // Hourly at :30
	v.SetDefault("maintenance_book_metadata_ttl", "720h")      // 30 days

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Auth: Auth{
			JWTSecret:        v.GetString("AUTH_JWT_SECRET"),
			AccessTokenTTL:   v.GetDuration("AUTH_ACCESS_TOKEN_TTL"),
			RefreshTokenTTL:  v.GetDuration("AUTH_REFRESH_TOKEN_TTL"),
			BcryptCost:       v.GetInt("AUTH_BCRYPT_COST"),
			MaxLoginAttempts: v.GetInt("AUTH_MAX_LOGIN_ATTEMPTS"),
			LockoutDuration:  v.GetDuration("AUTH_LOCKOUT_DURATION"),
		},
		OpenLibrary: OpenLibrary{
			BaseURL:           v.GetString("OPENLIBRARY_BASE_URL"),
			UserAgent:         v.GetString("OPENLIBRARY_USER_AGENT"),
			RequestsPerSecond: v.GetInt("OPENLIBRARY_REQUESTS_PER_SECOND"),
			MaxRetries:        v.GetInt("OPENLIBRARY_MAX_RETRIES"),
			Timeout:           v.GetDuration("OPENLIBRARY_TIMEOUT"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		Maintenance: Maintenance{
			Enabled:         v.GetBool("MAINTENANCE_ENABLED"),
			RefreshSchedule: v.GetString("MAINTENANCE_REFRESH_SCHEDULE"),
			CleanupSchedule: v.GetString("MAINTENANCE_CLEANUP_SCHEDULE"),
			BookMetadataTTL: v.GetDuration("MAINTENANCE_BOOK_METADATA_TTL"),
		},
	}
}
