package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"
)

const (
	ProbeModeHTTP = "http"
	ProbeModeGRPC = "grpc"

	// DefaultGRPCHealthService is the service name the store publishes on
	// its health endpoint.
	DefaultGRPCHealthService = "geojournal.Store"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	ServerURL           string
	OnlineCheckInterval time.Duration
	ProbeTimeout        time.Duration
	RequestTimeout      time.Duration
	DatabasePath        string
	ProbeMode           string
	GRPCHealthAddr      string
	GRPCHealthService   string
	LogLevel            string
}

func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.OnlineCheckInterval = 30 * time.Second
	c.ProbeTimeout = time.Second
	c.RequestTimeout = 10 * time.Second
	c.DatabasePath = "journal.db"
	c.ProbeMode = ProbeModeHTTP
	c.GRPCHealthAddr = "127.0.0.1:50051"
	c.GRPCHealthService = DefaultGRPCHealthService
	c.LogLevel = "info"
}

func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("%w: server url is empty", ErrInvalidConfig)
	}
	if c.ProbeMode != ProbeModeHTTP && c.ProbeMode != ProbeModeGRPC {
		return fmt.Errorf("%w: unknown probe mode %q", ErrInvalidConfig, c.ProbeMode)
	}
	if c.OnlineCheckInterval <= 0 || c.ProbeTimeout <= 0 || c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: intervals must be positive", ErrInvalidConfig)
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("%w: log level: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Level returns the slog level named by LogLevel, defaulting to info.
func (c *Config) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// LoadConfig builds a Config from defaults, then the optional JSON file,
// then flags in os.Args.
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
