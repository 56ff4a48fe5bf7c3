package config

import "time"

// Config holds runtime settings for the registry CLI.
//
// Fields:
//   - EndpointAddr: base URL of the backend HTTP API.
//   - Username: identity presented to the server via the X-User header.
//   - RequestTimeout: per-request deadline for REST calls.
//   - ReconnectMinBackoff / ReconnectMaxBackoff: bounds for the push
//     channel's reconnect backoff.
//   - MetricsAddr: listen address for the Prometheus endpoint; empty
//     disables the metrics server.
type Config struct {
	EndpointAddr        string
	Username            string
	RequestTimeout      time.Duration
	ReconnectMinBackoff time.Duration
	ReconnectMaxBackoff time.Duration
	MetricsAddr         string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = "http://127.0.0.1:8080"
	c.Username = ""
	c.RequestTimeout = 10 * time.Second
	c.ReconnectMinBackoff = 1 * time.Second
	c.ReconnectMaxBackoff = 30 * time.Second
	c.MetricsAddr = ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
