// Package config loads runtime configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs to start. DatabaseURL and
// KafkaBrokers are optional; leaving them empty disables the trade
// journal and the trade feed publisher respectively.
type Config struct {
	Addr   string
	Symbol string

	DatabaseURL string

	KafkaBrokers []string
	KafkaTopic   string

	AuthSecret string
	APIKeyHash string

	FeedEnabled  bool
	FeedInterval time.Duration
	FeedSeed     int64

	DepthLevels       int
	BroadcastInterval time.Duration
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:              getEnv("MB_ADDR", ":8080"),
		Symbol:            getEnv("MB_SYMBOL", "AAPL"),
		DatabaseURL:       os.Getenv("MB_DATABASE_URL"),
		KafkaTopic:        getEnv("MB_KAFKA_TOPIC", "trades"),
		AuthSecret:        getEnv("MB_AUTH_SECRET", "dev-secret-change-me"),
		APIKeyHash:        os.Getenv("MB_API_KEY_HASH"),
		DepthLevels:       10,
		BroadcastInterval: time.Second,
		FeedEnabled:       true,
		FeedInterval:      250 * time.Millisecond,
	}

	if brokers := os.Getenv("MB_KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	var err error
	if cfg.DepthLevels, err = getEnvInt("MB_DEPTH_LEVELS", cfg.DepthLevels); err != nil {
		return nil, err
	}
	if cfg.BroadcastInterval, err = getEnvDuration("MB_BROADCAST_INTERVAL", cfg.BroadcastInterval); err != nil {
		return nil, err
	}
	if cfg.FeedEnabled, err = getEnvBool("MB_FEED_ENABLED", cfg.FeedEnabled); err != nil {
		return nil, err
	}
	if cfg.FeedInterval, err = getEnvDuration("MB_FEED_INTERVAL", cfg.FeedInterval); err != nil {
		return nil, err
	}
	if cfg.FeedSeed, err = getEnvInt64("MB_FEED_SEED", 0); err != nil {
		return nil, err
	}

	if cfg.Symbol == "" {
		return nil, fmt.Errorf("MB_SYMBOL must not be empty")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
