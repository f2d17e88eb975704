// Package config handles configuration for the journal store server,
// including defaults, JSON overlay, and command-line flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds runtime settings for the journal store server.
//
// Fields:
//   - HTTPAddr: bind address of the JSON API, /health and /metrics.
//   - GRPCAddr: bind address of the gRPC health service.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty keeps entries in memory.
//   - S3Bucket: photo bucket. Empty leaves data: photo URLs inline.
//   - S3RootUser / S3RootPassword / S3Region / S3BaseEndpoint: S3-compatible backend settings.
//   - MetricsEnabled: exposes /metrics and records request metrics.
//   - ShutdownTimeout: grace period for in-flight HTTP requests.
type Config struct {
	HTTPAddr        string
	GRPCAddr        string
	DatabaseDSN     string
	S3RootUser      string
	S3RootPassword  string
	S3Bucket        string
	S3Region        string
	S3BaseEndpoint  string
	MetricsEnabled  bool
	ShutdownTimeout time.Duration
	LogLevel        string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8080"
	c.GRPCAddr = ":50051"
	c.DatabaseDSN = ""
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = ""
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.MetricsEnabled = true
	c.ShutdownTimeout = 5 * time.Second
	c.LogLevel = "info"
}

func (c *Config) Validate() error {
	if c.HTTPAddr == "" {
		return fmt.Errorf("%w: http address is empty", ErrInvalidConfig)
	}
	if c.GRPCAddr == "" {
		return fmt.Errorf("%w: grpc address is empty", ErrInvalidConfig)
	}
	if c.S3Bucket != "" && c.S3BaseEndpoint == "" {
		return fmt.Errorf("%w: s3 bucket set without endpoint", ErrInvalidConfig)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: shutdown timeout must be positive", ErrInvalidConfig)
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("%w: log level: %v", ErrInvalidConfig, err)
	}
	return nil
}

func (c *Config) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
