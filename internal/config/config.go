package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries everything the server reads from the environment.
type Config struct {
	DatabaseURL  string
	JWTSecret    []byte
	Port         string
	CORSOrigin   string
	MaxConns     int32
	QueryTimeout time.Duration
}

// Load reads the environment and fails fast on required variables.
func Load() (Config, error) {
	cfg := Config{
		DatabaseURL:  strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:    []byte(strings.TrimSpace(os.Getenv("JWT_SECRET"))),
		Port:         strings.TrimSpace(os.Getenv("PORT")),
		CORSOrigin:   strings.TrimSpace(os.Getenv("CORS_ORIGIN")),
		MaxConns:     10,
		QueryTimeout: 5 * time.Second,
	}

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is not set")
	}
	if len(cfg.JWTSecret) == 0 {
		return Config{}, errors.New("JWT_SECRET is not set")
	}
	if cfg.Port == "" {
		cfg.Port = "3001"
	}

	if v := strings.TrimSpace(os.Getenv("DB_MAX_CONNS")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			cfg.MaxConns = int32(parsed)
		}
	}
	if v := strings.TrimSpace(os.Getenv("DB_QUERY_TIMEOUT_SECONDS")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			cfg.QueryTimeout = time.Duration(parsed) * time.Second
		}
	}

	return cfg, nil
}
