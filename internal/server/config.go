package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/Gumball-code/ggpoker/internal/table"
)

// ServerConfig is the complete server configuration.
type ServerConfig struct {
	Server ServerSettings `hcl:"server,block"`
	Table  TableSettings  `hcl:"table,block"`
}

// ServerSettings contains server-level configuration.
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// TableSettings defines the shared table's stakes and timing.
type TableSettings struct {
	SmallBlind      int `hcl:"small_blind,optional"`
	BigBlind        int `hcl:"big_blind,optional"`
	BuyInMin        int `hcl:"buy_in_min,optional"`
	BuyInMax        int `hcl:"buy_in_max,optional"`
	ShowdownDelayMS int `hcl:"showdown_delay_ms,optional"`
}

// DefaultServerConfig returns the default configuration.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Table: TableSettings{
			SmallBlind:      table.DefaultSmallBlind,
			BigBlind:        table.DefaultBigBlind,
			BuyInMin:        table.DefaultMinBuyIn,
			BuyInMax:        table.DefaultMaxBuyIn,
			ShowdownDelayMS: int(table.DefaultShowdownDelay / time.Millisecond),
		},
	}
}

// LoadServerConfig loads configuration from an HCL file, falling back to
// defaults when the file does not exist.
func LoadServerConfig(filename string) (*ServerConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultServerConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config ServerConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	defaults := DefaultServerConfig()
	if config.Server.Address == "" {
		config.Server.Address = defaults.Server.Address
	}
	if config.Server.Port == 0 {
		config.Server.Port = defaults.Server.Port
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = defaults.Server.LogLevel
	}
	if config.Table.SmallBlind == 0 {
		config.Table.SmallBlind = defaults.Table.SmallBlind
	}
	if config.Table.BigBlind == 0 {
		config.Table.BigBlind = defaults.Table.BigBlind
	}
	if config.Table.BuyInMin == 0 {
		config.Table.BuyInMin = defaults.Table.BuyInMin
	}
	if config.Table.BuyInMax == 0 {
		config.Table.BuyInMax = defaults.Table.BuyInMax
	}
	if config.Table.ShowdownDelayMS == 0 {
		config.Table.ShowdownDelayMS = defaults.Table.ShowdownDelayMS
	}

	return &config, nil
}

// Validate checks the configuration for contradictions.
func (c *ServerConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Table.SmallBlind <= 0 {
		return fmt.Errorf("small blind must be positive")
	}
	if c.Table.BigBlind <= c.Table.SmallBlind {
		return fmt.Errorf("big blind must be greater than small blind")
	}
	if c.Table.BuyInMin >= c.Table.BuyInMax {
		return fmt.Errorf("buy-in minimum must be less than maximum")
	}
	if c.Table.BuyInMin < c.Table.BigBlind {
		return fmt.Errorf("buy-in minimum must cover the big blind")
	}
	return nil
}

// GetServerAddress returns the host:port listen address.
func (c *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// TableConfig converts the settings into the engine's configuration.
func (c *ServerConfig) TableConfig() table.Config {
	return table.Config{
		SmallBlind:    c.Table.SmallBlind,
		BigBlind:      c.Table.BigBlind,
		MinBuyIn:      c.Table.BuyInMin,
		MaxBuyIn:      c.Table.BuyInMax,
		ShowdownDelay: time.Duration(c.Table.ShowdownDelayMS) * time.Millisecond,
	}
}
