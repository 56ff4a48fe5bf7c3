package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/riya9927/balkanid-capstone/internal/flagx"
	"github.com/riya9927/balkanid-capstone/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	EndpointAddr        string         `json:"endpoint_addr"`
	Username            string         `json:"username"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	ReconnectMinBackoff timex.Duration `json:"reconnect_min_backoff"`
	ReconnectMaxBackoff timex.Duration `json:"reconnect_max_backoff"`
	MetricsAddr         string         `json:"metrics_addr"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JsonConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Only fields actually present (non-zero) in the JSON overlay the
// current values, so a partial file does not erase defaults. Panics on
// read or unmarshal errors (caller should recover if desired).
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
func parseJson(cfg *Config) {
	// Resolve file path from flags.
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.EndpointAddr != "" {
		cfg.EndpointAddr = jc.EndpointAddr
	}
	if jc.Username != "" {
		cfg.Username = jc.Username
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.ReconnectMinBackoff.Duration != 0 {
		cfg.ReconnectMinBackoff = time.Duration(jc.ReconnectMinBackoff.Duration)
	}
	if jc.ReconnectMaxBackoff.Duration != 0 {
		cfg.ReconnectMaxBackoff = time.Duration(jc.ReconnectMaxBackoff.Duration)
	}
	if jc.MetricsAddr != "" {
		cfg.MetricsAddr = jc.MetricsAddr
	}
}
