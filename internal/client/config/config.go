// Package config handles configuration for the client component:
// defaults, optional JSON overlay, and command-line flags, applied in
// that order.
package config

import "time"

// Config holds runtime settings for the UnionHub client.
type Config struct {
	ServerURL    string
	CacheDSN     string
	PollInterval time.Duration
	InitTimeout  time.Duration
}

// LoadDefaults populates c with sensible defaults. The cache file lives
// next to the binary so the client works without any setup.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.CacheDSN = "unionhub.db"
	c.PollInterval = 30 * time.Second
	c.InitTimeout = 3 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
