// Package config loads process configuration from the environment, in the
// same env-first, struct-tagged, fail-fast style as
// internal/infrastructure/secrets's providers.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yegamble/licensevault/internal/application/throttle"
)

// JwtConfig carries the JWT signing and lifetime settings.
type JwtConfig struct {
	Key                      string   `env:"JWT_KEY"`
	Issuer                   string   `env:"JWT_ISSUER"`
	Audience                 string   `env:"JWT_AUDIENCE"`
	AccessTokenExpiryMinutes int      `env:"JWT_ACCESS_TOKEN_EXPIRY_MINUTES"`
	RefreshTokenExpiryDays   int      `env:"JWT_REFRESH_TOKEN_EXPIRY_DAYS"`
	Roles                    []string `env:"JWT_ROLES"`
}

// ThrottlingSettings carries the throttle engine configuration,
// one tier tuple per throttle tier.
type ThrottlingSettings struct {
	Global throttle.TierConfig
	User   throttle.TierConfig
	Auth   throttle.TierConfig
}

// CacheSettings carries the cache expiration settings.
type CacheSettings struct {
	UserSlidingExpirationMinutes int `env:"CACHE_USER_SLIDING_EXPIRATION_MINUTES"`
	UsersListExpirationMinutes  int `env:"CACHE_USERS_LIST_EXPIRATION_MINUTES"`
}

// EmailConfig carries the SMTP and transactional-email settings.
type EmailConfig struct {
	SmtpHost        string `env:"EMAIL_SMTP_HOST"`
	Port            int    `env:"EMAIL_PORT"`
	User            string `env:"EMAIL_USER"`
	Pass            string `env:"EMAIL_PASS"`
	EnableSsl       bool   `env:"EMAIL_ENABLE_SSL"`
	FromEmail       string `env:"EMAIL_FROM_EMAIL"`
	FromName        string `env:"EMAIL_FROM_NAME"`
	FrontendBaseUrl string `env:"EMAIL_FRONTEND_BASE_URL"`
}

// CorsConfig carries the CORS origin allowlist.
type CorsConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS"`
}

// DatabaseConfig holds the Postgres connection string the persistence and
// migration layers need to start up.
type DatabaseConfig struct {
	DSN string `env:"DATABASE_URL"`
}

// RedisConfig holds the Redis connection string, the backing store for the
// KV cache.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB"`
}

// WorkerConfig carries the background-worker process's own settings: the
// license expiration sweep's cadence and its processing concurrency.
type WorkerConfig struct {
	LicenseExpirationCron string `env:"WORKER_LICENSE_EXPIRATION_CRON"`
	Concurrency           int    `env:"WORKER_CONCURRENCY"`
}

// Config is the process-wide configuration, assembled from the environment
// at startup.
type Config struct {
	Jwt         JwtConfig
	Throttling  ThrottlingSettings
	Cache       CacheSettings
	Email       EmailConfig
	Cors        CorsConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Worker      WorkerConfig
	HTTPAddr    string `env:"HTTP_ADDR"`
	Env         string `env:"APP_ENV"`
}

// IsProduction reports whether the process runs with production hardening
// (Secure cookies, strict CORS, no stack traces in responses).
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads Config from the environment, applying built-in defaults
// where a variable is unset, and validates the fields required
// to start the process. It never reads secrets files directly; JWT_KEY and
// DATABASE_URL are expected to already be resolved (e.g. by a
// secrets.SecretProvider) before landing in the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Jwt: JwtConfig{
			Key:                      os.Getenv("JWT_KEY"),
			Issuer:                   getEnvDefault("JWT_ISSUER", "licensevault"),
			Audience:                 getEnvDefault("JWT_AUDIENCE", "licensevault-api"),
			AccessTokenExpiryMinutes: getEnvIntDefault("JWT_ACCESS_TOKEN_EXPIRY_MINUTES", 15),
			RefreshTokenExpiryDays:   getEnvIntDefault("JWT_REFRESH_TOKEN_EXPIRY_DAYS", 7),
			Roles:                    getEnvListDefault("JWT_ROLES", []string{"user", "admin"}),
		},
		Throttling: ThrottlingSettings{
			Global: throttle.TierConfig{
				ThrottleThreshold:    getEnvIntDefault("THROTTLE_GLOBAL_THRESHOLD", 60),
				MaxRequestsPerMinute: getEnvIntDefault("THROTTLE_GLOBAL_MAX_PER_MINUTE", 100),
				WindowSeconds:        getEnvIntDefault("THROTTLE_GLOBAL_WINDOW_SECONDS", 60),
				MaxDelayMs:           getEnvIntDefault("THROTTLE_GLOBAL_MAX_DELAY_MS", 1000),
				PenaltySeconds:       getEnvIntDefault("THROTTLE_GLOBAL_PENALTY_SECONDS", 300),
			},
			User: throttle.TierConfig{
				ThrottleThreshold:    getEnvIntDefault("THROTTLE_USER_THRESHOLD", 200),
				MaxRequestsPerMinute: getEnvIntDefault("THROTTLE_USER_MAX_PER_MINUTE", 300),
				WindowSeconds:        getEnvIntDefault("THROTTLE_USER_WINDOW_SECONDS", 60),
				MaxDelayMs:           getEnvIntDefault("THROTTLE_USER_MAX_DELAY_MS", 1000),
				PenaltySeconds:       getEnvIntDefault("THROTTLE_USER_PENALTY_SECONDS", 300),
			},
			Auth: throttle.TierConfig{
				ThrottleThreshold:    getEnvIntDefault("THROTTLE_AUTH_THRESHOLD", 3),
				MaxRequestsPerMinute: getEnvIntDefault("THROTTLE_AUTH_MAX_PER_MINUTE", 5),
				WindowSeconds:        getEnvIntDefault("THROTTLE_AUTH_WINDOW_SECONDS", 60),
				MaxDelayMs:           getEnvIntDefault("THROTTLE_AUTH_MAX_DELAY_MS", 2000),
				PenaltySeconds:       getEnvIntDefault("THROTTLE_AUTH_PENALTY_SECONDS", 900),
			},
		},
		Cache: CacheSettings{
			UserSlidingExpirationMinutes: getEnvIntDefault("CACHE_USER_SLIDING_EXPIRATION_MINUTES", 30),
			UsersListExpirationMinutes:   getEnvIntDefault("CACHE_USERS_LIST_EXPIRATION_MINUTES", 5),
		},
		Email: EmailConfig{
			SmtpHost:        os.Getenv("EMAIL_SMTP_HOST"),
			Port:            getEnvIntDefault("EMAIL_PORT", 587),
			User:            os.Getenv("EMAIL_USER"),
			Pass:            os.Getenv("EMAIL_PASS"),
			EnableSsl:       getEnvBoolDefault("EMAIL_ENABLE_SSL", true),
			FromEmail:       os.Getenv("EMAIL_FROM_EMAIL"),
			FromName:        getEnvDefault("EMAIL_FROM_NAME", "LicenseVault"),
			FrontendBaseUrl: os.Getenv("EMAIL_FRONTEND_BASE_URL"),
		},
		Cors: CorsConfig{
			AllowedOrigins: getEnvListDefault("CORS_ALLOWED_ORIGINS", nil),
		},
		Database: DatabaseConfig{
			DSN: os.Getenv("DATABASE_URL"),
		},
		Redis: RedisConfig{
			Addr:     getEnvDefault("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvIntDefault("REDIS_DB", 0),
		},
		Worker: WorkerConfig{
			LicenseExpirationCron: getEnvDefault("WORKER_LICENSE_EXPIRATION_CRON", "@every 1h"),
			Concurrency:           getEnvIntDefault("WORKER_CONCURRENCY", 5),
		},
		HTTPAddr: getEnvDefault("HTTP_ADDR", ":8080"),
		Env:      getEnvDefault("APP_ENV", "development"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	if c.Jwt.Key == "" {
		missing = append(missing, "JWT_KEY")
	}
	if c.Database.DSN == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// AccessTokenTTL returns the access-token lifetime as a time.Duration.
func (j JwtConfig) AccessTokenTTL() time.Duration {
	return time.Duration(j.AccessTokenExpiryMinutes) * time.Minute
}

// RefreshTokenTTL returns the refresh-token lifetime as a time.Duration.
func (j JwtConfig) RefreshTokenTTL() time.Duration {
	return time.Duration(j.RefreshTokenExpiryDays) * 24 * time.Hour
}

func getEnvDefault(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func getEnvIntDefault(name string, def int) int {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvBoolDefault(name string, def bool) bool {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getEnvListDefault(name string, def []string) []string {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
