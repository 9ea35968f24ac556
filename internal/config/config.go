package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL string
	AppEnv     string

	// Cache tuning. Zero means package defaults.
	StaleAfter time.Duration
	GCAfter    time.Duration

	// Outbound request budget per second.
	RequestRate  float64
	RequestBurst int
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL:   os.Getenv("API_BASE_URL"),
		AppEnv:       os.Getenv("APP_ENV"),
		StaleAfter:   durationEnv("CACHE_STALE_AFTER"),
		GCAfter:      durationEnv("CACHE_GC_AFTER"),
		RequestRate:  floatEnv("REQUEST_RATE"),
		RequestBurst: intEnv("REQUEST_BURST"),
	}

	if cfg.APIBaseURL == "" {
		log.Fatal("Environment variables not loaded properly: API_BASE_URL is required")
	}

	return cfg
}

func durationEnv(key string) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("invalid duration in %s: %v", key, err)
	}
	return d
}

func floatEnv(key string) float64 {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Fatalf("invalid number in %s: %v", key, err)
	}
	return f
}

func intEnv(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid number in %s: %v", key, err)
	}
	return n
}
