// Copyright (c) 2026 LitMT. All rights reserved.

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, Blob) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the LitMT API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL). The DSN carries the database name.
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value store (Redis), used to throttle credential endpoints.
	RedisURL string `env:"REDIS_URL,required"`

	// Token signing
	JWTSecret     string `env:"JWT_SECRET,required"`
	JWTAlgorithm  string `env:"JWT_ALGORITHM"   envDefault:"HS256"`
	JWTExpiresMin int    `env:"JWT_EXPIRES_MIN" envDefault:"120"`

	// Object Storage (MinIO / S3-compatible), holds uploaded source and
	// translation files.
	S3Endpoint  string `env:"S3_ENDPOINT,required"`
	S3AccessKey string `env:"S3_ACCESS_KEY,required"`
	S3SecretKey string `env:"S3_SECRET_KEY,required"`
	S3Bucket    string `env:"S3_BUCKET" envDefault:"litmt-files"`
	S3UseSSL    bool   `env:"S3_USE_SSL" envDefault:"false"`

	// Cross-Origin Resource Sharing: comma-separated list of allowed origins.
	AllowedOrigins string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:3000,http://127.0.0.1:3000"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// Origins returns the parsed allow-list of cross-origin request sources.
func (c *Config) Origins() []string {
	raw := strings.Split(c.AllowedOrigins, ",")
	origins := make([]string, 0, len(raw))
	for _, origin := range raw {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
