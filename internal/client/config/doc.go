// Package config loads runtime configuration for the journal client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file named by -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the remote store, e.g. http://127.0.0.1:8080
//	-i int      online check interval (seconds)
//	-t int      probe timeout (milliseconds)
//	-r int      remote request timeout (seconds)
//	-d string   path of the on-device SQLite database (":memory:" for none)
//	-m string   probe mode: http or grpc
//	-g string   host:port of the store's gRPC health endpoint
//	-l string   log level: debug, info, warn, error
//
// # JSON schema
//
// Intervals accept "30s" style strings or integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "online_check_interval": "30s",
//	  "probe_timeout": "1s",
//	  "request_timeout": "10s",
//	  "database_path": "journal.db",
//	  "probe_mode": "http",
//	  "grpc_health_addr": "127.0.0.1:50051",
//	  "log_level": "info"
//	}
package config
