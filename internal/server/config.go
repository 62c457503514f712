package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the complete service configuration, loaded from an HCL file.
type Config struct {
	Server  *ServerSettings  `hcl:"server,block"`
	Game    *GameSettings    `hcl:"game,block"`
	Storage *StorageSettings `hcl:"storage,block"`
	Bot     *BotSettings     `hcl:"bot,block"`
}

// ServerSettings contains listener-level configuration.
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// GameSettings tunes round expiry and the leaderboard view.
type GameSettings struct {
	SessionTTL      string `hcl:"session_ttl,optional"`
	SweepInterval   string `hcl:"sweep_interval,optional"`
	LeaderboardSize int    `hcl:"leaderboard_size,optional"`
	MinAttempts     int    `hcl:"min_attempts,optional"`
}

// StorageSettings locates the score database.
type StorageSettings struct {
	Path string `hcl:"path,optional"`
}

// BotSettings configures the Telegram front end.
type BotSettings struct {
	Token         string `hcl:"token,optional"`
	GameURL       string `hcl:"game_url,optional"`
	GameShortName string `hcl:"game_short_name,optional"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Server: &ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Game: &GameSettings{
			SessionTTL:      "5m",
			SweepInterval:   "1m",
			LeaderboardSize: 5,
			MinAttempts:     1,
		},
		Storage: &StorageSettings{
			Path: "intuition.db",
		},
	}
}

// LoadConfig loads configuration from an HCL file, falling back to defaults
// when the file does not exist. Missing blocks and fields get defaults too.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()

	if c.Server == nil {
		c.Server = def.Server
	}
	if c.Server.Address == "" {
		c.Server.Address = def.Server.Address
	}
	if c.Server.Port == 0 {
		c.Server.Port = def.Server.Port
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = def.Server.LogLevel
	}

	if c.Game == nil {
		c.Game = def.Game
	}
	if c.Game.SessionTTL == "" {
		c.Game.SessionTTL = def.Game.SessionTTL
	}
	if c.Game.SweepInterval == "" {
		c.Game.SweepInterval = def.Game.SweepInterval
	}
	if c.Game.LeaderboardSize == 0 {
		c.Game.LeaderboardSize = def.Game.LeaderboardSize
	}
	if c.Game.MinAttempts == 0 {
		c.Game.MinAttempts = def.Game.MinAttempts
	}

	if c.Storage == nil {
		c.Storage = def.Storage
	}
	if c.Storage.Path == "" {
		c.Storage.Path = def.Storage.Path
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	ttl, err := c.Game.TTL()
	if err != nil {
		return fmt.Errorf("invalid session_ttl: %w", err)
	}
	if ttl <= 0 {
		return fmt.Errorf("session_ttl must be positive")
	}

	sweep, err := c.Game.Sweep()
	if err != nil {
		return fmt.Errorf("invalid sweep_interval: %w", err)
	}
	if sweep <= 0 {
		return fmt.Errorf("sweep_interval must be positive")
	}

	if c.Game.LeaderboardSize < 1 {
		return fmt.Errorf("leaderboard_size must be at least 1")
	}
	if c.Game.MinAttempts < 1 {
		return fmt.Errorf("min_attempts must be at least 1")
	}

	return nil
}

// GetServerAddress returns the full listen address.
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// TTL returns the parsed session time-to-live.
func (g *GameSettings) TTL() (time.Duration, error) {
	return time.ParseDuration(g.SessionTTL)
}

// Sweep returns the parsed sweep interval.
func (g *GameSettings) Sweep() (time.Duration, error) {
	return time.ParseDuration(g.SweepInterval)
}
