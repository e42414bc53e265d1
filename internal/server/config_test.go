package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultServerConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultServerConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "localhost:8080", cfg.GetServerAddress())
	assert.Equal(t, 10, cfg.Table.SmallBlind)
	assert.Equal(t, 20, cfg.Table.BigBlind)
	assert.Equal(t, 100, cfg.Table.BuyInMin)
	assert.Equal(t, 1_000_000, cfg.Table.BuyInMax)
	assert.Equal(t, 2500*time.Millisecond, cfg.TableConfig().ShowdownDelay)
}

func TestLoadServerConfigMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadServerConfig(filepath.Join(t.TempDir(), "absent.hcl"))
	require.NoError(t, err)
	assert.Equal(t, DefaultServerConfig(), cfg)
}

func TestLoadServerConfigFromHCL(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ggpoker.hcl")
	content := `
server {
  address   = "0.0.0.0"
  port      = 9000
  log_level = "debug"
}

table {
  small_blind       = 25
  big_blind         = 50
  buy_in_min        = 1000
  buy_in_max        = 100000
  showdown_delay_ms = 1000
}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadServerConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "0.0.0.0:9000", cfg.GetServerAddress())
	assert.Equal(t, "debug", cfg.Server.LogLevel)

	tc := cfg.TableConfig()
	assert.Equal(t, 25, tc.SmallBlind)
	assert.Equal(t, 50, tc.BigBlind)
	assert.Equal(t, 1000, tc.MinBuyIn)
	assert.Equal(t, 100000, tc.MaxBuyIn)
	assert.Equal(t, time.Second, tc.ShowdownDelay)
}

func TestLoadServerConfigAppliesDefaultsForOmittedFields(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "partial.hcl")
	content := `
server {
  port = 9999
}

table {
  small_blind = 5
  big_blind   = 10
}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadServerConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Server.Address)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 100, cfg.Table.BuyInMin)
	assert.Equal(t, 2500, cfg.Table.ShowdownDelayMS)
}

func TestServerConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*ServerConfig)
	}{
		{"bad port", func(c *ServerConfig) { c.Server.Port = -1 }},
		{"zero small blind", func(c *ServerConfig) { c.Table.SmallBlind = 0 }},
		{"big blind below small", func(c *ServerConfig) { c.Table.BigBlind = 5 }},
		{"buy-in range inverted", func(c *ServerConfig) { c.Table.BuyInMin = 2_000_000 }},
		{"buy-in below big blind", func(c *ServerConfig) { c.Table.BuyInMin = 10 }},
	}
	for _, tt := range tests {
		cfg := DefaultServerConfig()
		tt.mutate(cfg)
		assert.Error(t, cfg.Validate(), tt.name)
	}
}
