package config

import "github.com/jason-s-yu/uno/internal/game"

// Config is everything the server and historian read at startup.
type Config struct {
	Port           int      `mapstructure:"port"`
	LogLevel       string   `mapstructure:"log_level"`
	LogFormat      string   `mapstructure:"log_format"` // text or json
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	Redis     RedisConfig     `mapstructure:"redis"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Historian HistorianConfig `mapstructure:"historian"`
	Rules     game.HouseRules `mapstructure:"rules"`
}

// RedisConfig points at the action log queue. An empty Addr disables publishing.
type RedisConfig struct {
	Addr  string `mapstructure:"addr"`
	DB    int    `mapstructure:"db"`
	Queue string `mapstructure:"queue"`
}

// DatabaseConfig holds the postgres connection string. Empty disables persistence.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type HistorianConfig struct {
	BatchSize int `mapstructure:"batch_size"`
	FlushMs   int `mapstructure:"flush_ms"`

	// InactivitySec is how long a game may go without actions before it is marked abandoned.
	InactivitySec int `mapstructure:"inactivity_sec"`
}
