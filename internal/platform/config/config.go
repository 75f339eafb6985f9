package config

import (
	"os"
	"strconv"
	"strings"
)

// Config captures process configuration. Infrastructure pieces with an empty
// value (Postgres, Redis, Kafka) are simply not wired; the process falls
// back to in-memory equivalents for development.
type Config struct {
	Addr          string
	PostgresDSN   string
	RedisURL      string
	KafkaBrokers  []string
	KafkaTopic    string
	JWTSigningKey string

	// Tariff applied by the pricing engine.
	Currency   string
	HourlyRate string

	Pricing Pricing
}

// Pricing selects the active rate strategy; only the fields the named
// strategy uses are read.
type Pricing struct {
	Strategy      string
	Multiplier    string
	PeakStartHour int
	PeakEndHour   int
	FreeHours     string
	DailyMax      string
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	cfg := Config{
		Addr:          getenv("PARKLY_ADDR", ":8080"),
		PostgresDSN:   os.Getenv("PARKLY_POSTGRES_DSN"),
		RedisURL:      os.Getenv("PARKLY_REDIS_URL"),
		KafkaTopic:    getenv("PARKLY_KAFKA_TOPIC", "parkly.domain-events"),
		JWTSigningKey: getenv("PARKLY_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		Currency:      getenv("PARKLY_CURRENCY", "USD"),
		HourlyRate:    getenv("PARKLY_HOURLY_RATE", "5"),
		Pricing: Pricing{
			Strategy:      getenv("PARKLY_PRICING_STRATEGY", "static"),
			Multiplier:    getenv("PARKLY_PRICING_MULTIPLIER", "1"),
			PeakStartHour: getint("PARKLY_PRICING_PEAK_START", 8),
			PeakEndHour:   getint("PARKLY_PRICING_PEAK_END", 18),
			FreeHours:     getenv("PARKLY_PRICING_FREE_HOURS", "0"),
			DailyMax:      getenv("PARKLY_PRICING_DAILY_MAX", "50"),
		},
	}
	if brokers := os.Getenv("PARKLY_KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	return cfg
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getint(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
