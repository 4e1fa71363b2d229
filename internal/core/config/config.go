package config

import (
	"time"

	redisclient "github.com/vietddude/availability/internal/storage/redis"
	"github.com/vietddude/availability/internal/storage/postgres"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server      ServerConfig       `yaml:"server"`
	Logging     LoggingConfig      `yaml:"logging"`
	Database    postgres.Config    `yaml:"database"`
	Redis       redisclient.Config `yaml:"redis"`
	Retry       RetryConfig        `yaml:"retry"`
	Permissions PermissionsConfig  `yaml:"permissions"`
	Settings    map[string]bool    `yaml:"settings"`
	Session     SessionConfig      `yaml:"session"`
}

// ServerConfig holds HTTP and gRPC listener settings.
type ServerConfig struct {
	Port     int `yaml:"port"`
	GRPCPort int `yaml:"grpc_port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// RetryConfig controls the backoff used by retried resolution passes.
type RetryConfig struct {
	InitialDelay time.Duration `yaml:"initial_delay"`
	MaxDelay     time.Duration `yaml:"max_delay"`
	MaxAttempts  int           `yaml:"max_attempts"`
}

// PermissionsConfig describes the permissions the service asks for.
type PermissionsConfig struct {
	Code      int      `yaml:"code"`
	Required  []string `yaml:"required"`
	Rationale string   `yaml:"rationale"`
	Granted   []string `yaml:"granted"` // pre-granted at startup
}

// SessionConfig holds per-session limits.
type SessionConfig struct {
	HistoryLimit int           `yaml:"history_limit"`
	HistoryTTL   time.Duration `yaml:"history_ttl"` // redis only, 0 = keep
	Retention    time.Duration `yaml:"retention"`   // memory/postgres, 0 = infinite
}
