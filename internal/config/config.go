package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Quota backends.
const (
	QuotaBackendMemory   = "memory"
	QuotaBackendRedis    = "redis"
	QuotaBackendPostgres = "postgres"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// Config aggregates application-wide configuration values.
type Config struct {
	Port        string
	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	QuotaBackend  string

	PlacesAPIKey   string
	PlacesLanguage string
	PhoneRegion    string

	DailyQuotaLimit    int
	ProDailyQuotaLimit int

	ProviderTimeout      time.Duration
	FetchTimeout         time.Duration
	FetchProxies         []string
	StandardRadiusMeters float64

	JWTSecret      string
	TokenTTL       time.Duration
	RateLimitAudit RateLimitConfig

	LogLevel string
	LogFile  string
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		QuotaBackend:   strings.ToLower(getEnv("QUOTA_BACKEND", QuotaBackendMemory)),
		PlacesAPIKey:   os.Getenv("PLACES_API_KEY"),
		PlacesLanguage: getEnv("PLACES_LANGUAGE", "en"),
		PhoneRegion:    strings.ToUpper(getEnv("PHONE_REGION", "US")),
		FetchProxies:   parseList(os.Getenv("FETCH_PROXIES")),
		JWTSecret:      getEnv("JWT_SECRET", "dev-secret"),
		TokenTTL:       parseDuration(getEnv("JWT_TTL", "24h"), 24*time.Hour),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFile:        os.Getenv("LOG_FILE"),
	}

	switch cfg.QuotaBackend {
	case QuotaBackendMemory, QuotaBackendRedis, QuotaBackendPostgres:
	default:
		return nil, fmt.Errorf("invalid QUOTA_BACKEND value: %q", cfg.QuotaBackend)
	}
	if cfg.QuotaBackend == QuotaBackendPostgres && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("QUOTA_BACKEND=postgres requires DATABASE_URL")
	}

	var err error
	if cfg.RedisDB, err = parseInt("REDIS_DB", "0"); err != nil {
		return nil, err
	}
	if cfg.DailyQuotaLimit, err = parseInt("DAILY_QUOTA_LIMIT", "100"); err != nil {
		return nil, err
	}
	if cfg.ProDailyQuotaLimit, err = parseInt("PRO_DAILY_QUOTA_LIMIT", "200"); err != nil {
		return nil, err
	}

	cfg.ProviderTimeout = parseDuration(getEnv("PROVIDER_TIMEOUT", "15s"), 15*time.Second)
	cfg.FetchTimeout = parseDuration(getEnv("FETCH_TIMEOUT", "8s"), 8*time.Second)

	radius, err := strconv.ParseFloat(getEnv("STANDARD_RADIUS_METERS", "3000"), 64)
	if err != nil || radius <= 0 {
		return nil, fmt.Errorf("invalid STANDARD_RADIUS_METERS value: %q", os.Getenv("STANDARD_RADIUS_METERS"))
	}
	cfg.StandardRadiusMeters = radius

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_AUDIT", "10/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_AUDIT value: %w", err)
	}
	cfg.RateLimitAudit = rl

	return cfg, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func parseInt(key, fallback string) (int, error) {
	raw := getEnv(key, fallback)
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return n, nil
}

// parseList splits a comma separated value, dropping blanks.
func parseList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
