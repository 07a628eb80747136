package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080", cfg.ServerURL)
	assert.Equal(t, "unionhub.db", cfg.CacheDSN)
	assert.Equal(t, 30*time.Second, cfg.PollInterval)
	assert.Equal(t, 3*time.Second, cfg.InitTimeout)
}

func TestParseJsonOverlay(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "conf.json")

	jc := map[string]any{
		"server_url":    "https://union.example.org",
		"poll_interval": "10s",
	}
	data, err := json.Marshal(jc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(file, data, 0o600))

	oldArgs := os.Args
	os.Args = []string{"client", "-c", file}
	t.Cleanup(func() { os.Args = oldArgs })

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, "https://union.example.org", cfg.ServerURL)
	assert.Equal(t, 10*time.Second, cfg.PollInterval)
	// untouched fields keep defaults
	assert.Equal(t, "unionhub.db", cfg.CacheDSN)
}

func TestParseFlagsOverride(t *testing.T) {
	oldArgs := os.Args
	os.Args = []string{"client", "-s", "http://10.0.0.5:8080", "-p", "5"}
	t.Cleanup(func() { os.Args = oldArgs })

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, "http://10.0.0.5:8080", cfg.ServerURL)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
}
