package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port      string
	Env       string
	LogLevel  string
	LogFormat string

	// Upstream APIs
	OrchestrationAPIURL string
	WhereaboutsAPIURL   string
	HMPPSAuthURL        string
	APIClientID         string
	APIClientSecret     string
	UpstreamTimeout     time.Duration

	// Staff user tokens
	UserTokenSecret string

	// Redis (booking journey state)
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
	JourneyTTL    time.Duration

	// Per staff user request limit on booking journey routes
	RateLimitRPS   int
	RateLimitBurst int

	MinBookingDays     int
	CORSAllowedOrigins []string
	MetricsEnabled     bool
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:      getEnv("PORT", "3000"),
		Env:       getEnv("ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		OrchestrationAPIURL: strings.TrimRight(getEnv("ORCHESTRATION_API_URL", ""), "/"),
		WhereaboutsAPIURL:   strings.TrimRight(getEnv("WHEREABOUTS_API_URL", ""), "/"),
		HMPPSAuthURL:        strings.TrimRight(getEnv("HMPPS_AUTH_URL", ""), "/"),
		APIClientID:         getEnv("API_CLIENT_ID", ""),
		APIClientSecret:     getEnv("API_CLIENT_SECRET", ""),
		UpstreamTimeout:     getEnvAsDuration("UPSTREAM_TIMEOUT", 10*time.Second),

		UserTokenSecret: getEnv("USER_TOKEN_SECRET", ""),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),
		JourneyTTL:    getEnvAsDuration("JOURNEY_TTL", 20*time.Minute),

		RateLimitRPS:   getEnvAsInt("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 20),

		MinBookingDays:     getEnvAsInt("MIN_BOOKING_DAYS", 2),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
		MetricsEnabled:     getEnvAsBool("METRICS_ENABLED", true),
	}
}

// Validate reports missing settings that the service cannot run without.
// Development environments may leave upstream URLs empty.
func (c *Config) Validate() error {
	if c.Env == "development" {
		return nil
	}
	var missing []string
	if c.OrchestrationAPIURL == "" {
		missing = append(missing, "ORCHESTRATION_API_URL")
	}
	if c.WhereaboutsAPIURL == "" {
		missing = append(missing, "WHEREABOUTS_API_URL")
	}
	if c.HMPPSAuthURL == "" {
		missing = append(missing, "HMPPS_AUTH_URL")
	}
	if c.UserTokenSecret == "" {
		missing = append(missing, "USER_TOKEN_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: missing required settings: %s", strings.Join(missing, ", "))
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
