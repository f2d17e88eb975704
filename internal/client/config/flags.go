package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/geojournal/internal/flagx"
)

// parseFlags overlays cfg with the client flags found in args. Flags that
// belong to other components are filtered out first.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-i", "-t", "-r", "-d", "-m", "-g", "-n", "-l"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "remote store base URL")
	interval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	probeTimeout := fs.Int("t", int(cfg.ProbeTimeout.Milliseconds()), "probe timeout (in milliseconds)")
	requestTimeout := fs.Int("r", int(cfg.RequestTimeout.Seconds()), "remote request timeout (in seconds)")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "device database path")
	fs.StringVar(&cfg.ProbeMode, "m", cfg.ProbeMode, "probe mode (http|grpc)")
	fs.StringVar(&cfg.GRPCHealthAddr, "g", cfg.GRPCHealthAddr, "gRPC health address")
	fs.StringVar(&cfg.GRPCHealthService, "n", cfg.GRPCHealthService, "gRPC health service name (empty for the whole server)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	cfg.OnlineCheckInterval = time.Duration(*interval) * time.Second
	cfg.ProbeTimeout = time.Duration(*probeTimeout) * time.Millisecond
	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
	return nil
}
