package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jason-s-yu/uno/internal/game"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. UNO_RULES_WIN_SCORE.
const EnvPrefix = "UNO"

// Load reads uno.yaml from configPath, the working directory or ./config, then
// applies environment overrides. A missing file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("uno")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	// default config path
	v.AddConfigPath(".")
	v.AddConfigPath("config")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// plain PORT is what most hosts set
	if err := v.BindEnv("port", EnvPrefix+"_PORT", "PORT"); err != nil {
		return nil, fmt.Errorf("failed to bind port: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	rules := game.DefaultHouseRules()

	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("allowed_origins", []string{"*"})

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.queue", "uno_actions")
	v.SetDefault("database.url", "")

	v.SetDefault("historian.batch_size", 20)
	v.SetDefault("historian.flush_ms", 500)
	v.SetDefault("historian.inactivity_sec", 600)

	v.SetDefault("rules.min_players", rules.MinPlayers)
	v.SetDefault("rules.max_players", rules.MaxPlayers)
	v.SetDefault("rules.initial_cards", rules.InitialCards)
	v.SetDefault("rules.win_score", rules.WinScore)
	v.SetDefault("rules.penalty_cards", rules.PenaltyCards)
	v.SetDefault("rules.draw_two_skips", rules.DrawTwoSkips)
	v.SetDefault("rules.enforce_legality", rules.EnforceLegality)
}

func validateConfig(config *Config) error {
	if config.Port <= 0 || config.Port > 65535 {
		return fmt.Errorf("port %d is out of range", config.Port)
	}
	if _, err := logrus.ParseLevel(config.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	switch config.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", config.LogFormat)
	}
	if config.Redis.Queue == "" {
		return fmt.Errorf("redis.queue must not be empty")
	}
	if config.Historian.BatchSize <= 0 {
		return fmt.Errorf("historian.batch_size must be positive, got %d", config.Historian.BatchSize)
	}
	if config.Historian.FlushMs <= 0 {
		return fmt.Errorf("historian.flush_ms must be positive, got %d", config.Historian.FlushMs)
	}
	if config.Historian.InactivitySec <= 0 {
		return fmt.Errorf("historian.inactivity_sec must be positive, got %d", config.Historian.InactivitySec)
	}
	if err := config.Rules.Validate(); err != nil {
		return fmt.Errorf("invalid rules: %w", err)
	}
	return nil
}

// NewLogger builds the process logger from the configured level and format.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	if c.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
