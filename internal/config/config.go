package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

var ErrMisconfigured = errors.New("config invalid")

type Config struct {
	App       AppConfig
	Auth      AuthConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

type AppConfig struct {
	Name  string
	Stage string
	Port  string
	Debug bool
}

type AuthConfig struct {
	JWTSecret     string
	JWTIssuer     string
	AccessTTL     time.Duration
	AdminEmail    string
	AdminUsername string
	AdminPassword string
}

type PostgresConfig struct {
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Enabled  bool
	Requests int
	Window   time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() (Config, error) {
	accessTTL, err := time.ParseDuration(getenv("JWT_ACCESS_TTL", "1h"))
	if err != nil {
		return Config{}, fmt.Errorf("%w: invalid JWT_ACCESS_TTL", ErrMisconfigured)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return Config{}, fmt.Errorf("%w: JWT_SECRET is required", ErrMisconfigured)
	}

	redisDB, err := strconv.Atoi(getenv("REDIS_DB", "0"))
	if err != nil {
		return Config{}, fmt.Errorf("%w: invalid REDIS_DB", ErrMisconfigured)
	}

	rateRequests, err := strconv.Atoi(getenv("RATE_LIMIT_REQUESTS", "60"))
	if err != nil {
		return Config{}, fmt.Errorf("%w: invalid RATE_LIMIT_REQUESTS", ErrMisconfigured)
	}

	rateWindow, err := time.ParseDuration(getenv("RATE_LIMIT_WINDOW", "1m"))
	if err != nil {
		return Config{}, fmt.Errorf("%w: invalid RATE_LIMIT_WINDOW", ErrMisconfigured)
	}

	return Config{
		App: AppConfig{
			Name:  getenv("APP_NAME", "auth-service"),
			Stage: getenv("APP_STAGE", "dev"),
			Port:  getenv("APP_PORT", "8080"),
			Debug: getenvBool("APP_DEBUG", false),
		},
		Auth: AuthConfig{
			JWTSecret:     secret,
			JWTIssuer:     getenv("JWT_ISSUER", "auth-service"),
			AccessTTL:     accessTTL,
			AdminEmail:    os.Getenv("ADMIN_EMAIL"),
			AdminUsername: getenv("ADMIN_USERNAME", "root"),
			AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		},
		Postgres: PostgresConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Host:        getenv("PGHOST", "localhost"),
			Port:        getenv("PGPORT", "5432"),
			User:        os.Getenv("PGUSER"),
			Password:    os.Getenv("PGPASSWORD"),
			Database:    os.Getenv("PGDATABASE"),
			SSLMode:     getenv("PGSSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getenv("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		RateLimit: RateLimitConfig{
			Enabled:  getenvBool("RATE_LIMITING", false),
			Requests: rateRequests,
			Window:   rateWindow,
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		},
	}, nil
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitList(val string) []string {
	if strings.TrimSpace(val) == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
