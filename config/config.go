package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime parameter. Values come from the environment,
// with an optional .env file for local development.
type Config struct {
	DatabaseURL  string
	JWTSecretKey string
	ServerPort   int

	// PoolID selects the active pool for the snapshot archiver and any
	// other single-pool background work; API routes carry their own pool
	// id explicitly.
	PoolID int

	// PickDeadline is the moment picks become read-only, RFC 3339.
	// Zero means picks never lock.
	PickDeadline time.Time

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

func Load() (*Config, error) {
	// A missing .env file is not an error; production sets real env vars.
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	poolID := 1
	if poolStr := os.Getenv("POOL_ID"); poolStr != "" {
		poolID, err = strconv.Atoi(poolStr)
		if err != nil || poolID <= 0 {
			return nil, fmt.Errorf("invalid POOL_ID environment variable: %q", poolStr)
		}
	}

	var deadline time.Time
	if deadlineStr := os.Getenv("PICK_DEADLINE"); deadlineStr != "" {
		deadline, err = time.Parse(time.RFC3339, deadlineStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PICK_DEADLINE environment variable (want RFC 3339): %w", err)
		}
	}

	cfg := &Config{
		DatabaseURL:  dbURL,
		JWTSecretKey: jwtKey,
		ServerPort:   port,
		PoolID:       poolID,
		PickDeadline: deadline,

		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
	}

	return cfg, nil
}

// R2Configured reports whether all snapshot storage settings are present.
// The archiver is optional; the API runs without it.
func (c *Config) R2Configured() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" &&
		c.R2BucketName != "" && c.R2PublicBaseURL != ""
}
