package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const defaultCapacity = 20

type Config struct {
	Port             string
	Capacity         int
	OTelServiceName  string
	OTelEndpoint     string
	Environment      string
	LogLevel         string
	TelemetryEnabled bool
}

// Load reads the configuration from the environment, after loading a .env
// file from the working directory when one exists. Variables already set in
// the environment win over the file.
func Load() *Config {
	_ = godotenv.Load()

	capacity := envOrInt("PARKING_CAPACITY", defaultCapacity)
	if capacity < 1 {
		capacity = defaultCapacity
	}

	return &Config{
		Port:             envOr("APP_PORT", "8080"),
		Capacity:         capacity,
		OTelServiceName:  envOr("OTEL_SERVICE_NAME", "alke-parking"),
		OTelEndpoint:     envOr("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4318"),
		Environment:      envOr("APP_ENV", "development"),
		LogLevel:         envOr("LOG_LEVEL", "info"),
		TelemetryEnabled: envOrBool("TELEMETRY_ENABLED", true),
	}
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envOrBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
