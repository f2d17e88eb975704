package config

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"

	"github.com/dmitrijs2005/geojournal/internal/flagx"
	"github.com/dmitrijs2005/geojournal/internal/timex"
)

// JSONConfig is the file form of Config. Pointer fields distinguish an
// absent key from a zero value, so only keys present in the file override
// the defaults.
type JSONConfig struct {
	HTTPAddr        *string         `json:"http_addr"`
	GRPCAddr        *string         `json:"grpc_addr"`
	DatabaseDSN     *string         `json:"database_dsn"`
	S3RootUser      *string         `json:"s3_root_user"`
	S3RootPassword  *string         `json:"s3_root_password"`
	S3Bucket        *string         `json:"s3_bucket"`
	S3Region        *string         `json:"s3_region"`
	S3BaseEndpoint  *string         `json:"s3_base_endpoint"`
	MetricsEnabled  *bool           `json:"metrics_enabled"`
	ShutdownTimeout *timex.Duration `json:"shutdown_timeout"`
	LogLevel        *string         `json:"log_level"`
}

// parseJSON loads the file named by -c or -config, if any, into config.
func parseJSON(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	c := &JSONConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}

	for dst, v := range map[*string]*string{
		&config.HTTPAddr:       c.HTTPAddr,
		&config.GRPCAddr:       c.GRPCAddr,
		&config.DatabaseDSN:    c.DatabaseDSN,
		&config.S3RootUser:     c.S3RootUser,
		&config.S3RootPassword: c.S3RootPassword,
		&config.S3Bucket:       c.S3Bucket,
		&config.S3Region:       c.S3Region,
		&config.S3BaseEndpoint: c.S3BaseEndpoint,
		&config.LogLevel:       c.LogLevel,
	} {
		if v != nil {
			*dst = *v
		}
	}
	if c.MetricsEnabled != nil {
		config.MetricsEnabled = *c.MetricsEnabled
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	return nil
}
