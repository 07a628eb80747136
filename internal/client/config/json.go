package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/ourunion/unionhub/internal/flagx"
	"github.com/ourunion/unionhub/internal/timex"
)

// JsonConfig is the DTO for the optional JSON config file. Durations accept
// either "30s"-style strings or integer nanoseconds.
type JsonConfig struct {
	ServerURL    string         `json:"server_url"`
	CacheDSN     string         `json:"cache_dsn"`
	PollInterval timex.Duration `json:"poll_interval"`
	InitTimeout  timex.Duration `json:"init_timeout"`
}

// parseJson overlays cfg with values from the file named by -c/-config.
// Missing flag means no overlay. Only non-zero JSON values are applied.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.CacheDSN != "" {
		cfg.CacheDSN = jc.CacheDSN
	}
	if jc.PollInterval.Duration != 0 {
		cfg.PollInterval = time.Duration(jc.PollInterval.Duration)
	}
	if jc.InitTimeout.Duration != 0 {
		cfg.InitTimeout = time.Duration(jc.InitTimeout.Duration)
	}
}
