// Package config loads runtime configuration for the registry CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend HTTP API
//	-u string   username presented to the server
//	-t int      per-request timeout (seconds)
//	-m string   listen address for the Prometheus metrics endpoint
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds:
//
//	{
//	  "endpoint_addr": "http://127.0.0.1:8080",
//	  "username": "alice",
//	  "request_timeout": "10s",
//	  "reconnect_min_backoff": "1s",
//	  "reconnect_max_backoff": "30s",
//	  "metrics_addr": ":9100"
//	}
//
// Primary API
//
//   - type Config                     — holds endpoint, identity and tuning knobs
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
