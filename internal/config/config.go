// Package config provides configuration management using viper.
// It supports loading from YAML files and environment variable overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Bot        BotConfig        `mapstructure:"bot"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Whitelist  WhitelistConfig  `mapstructure:"whitelist"`
	Game       GameConfig       `mapstructure:"game"`
	Scoreboard ScoreboardConfig `mapstructure:"scoreboard"`
}

// BotConfig holds Telegram bot configuration.
type BotConfig struct {
	Token string `mapstructure:"token"`
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	PoolSize        int           `mapstructure:"pool_size"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// WhitelistConfig holds chat whitelist configuration.
type WhitelistConfig struct {
	Chats []int64 `mapstructure:"chats"`
}

// GameConfig holds the round-loop and ability tuning knobs.
type GameConfig struct {
	EasyDuration   time.Duration `mapstructure:"easy_duration"`
	MediumDuration time.Duration `mapstructure:"medium_duration"`
	HardDuration   time.Duration `mapstructure:"hard_duration"`
	GraceDuration  time.Duration `mapstructure:"grace_duration"`

	CorrectPoints   int `mapstructure:"correct_points"`
	IncorrectPoints int `mapstructure:"incorrect_points"`
	MaxIncorrect    int `mapstructure:"max_incorrect"`

	MeterThreshold    int           `mapstructure:"meter_threshold"`
	MeterTickAmount   int           `mapstructure:"meter_tick_amount"`
	MeterTickInterval time.Duration `mapstructure:"meter_tick_interval"`
	CorrectMeterBonus int           `mapstructure:"correct_meter_bonus"`

	ExtendAmount   time.Duration `mapstructure:"extend_amount"`
	CooldownAmount time.Duration `mapstructure:"cooldown_amount"`
}

// ScoreboardConfig holds leaderboard display configuration.
type ScoreboardConfig struct {
	TopN int `mapstructure:"top_n"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name,
	)
}

// Load reads configuration from file and environment variables.
// It looks for config.yaml in the config directory.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Configure viper
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Enable environment variable override
	// Environment variables use underscore separator and uppercase
	// e.g., BOT_TOKEN, DATABASE_HOST, GAME_MAX_INCORRECT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (optional - env vars can provide all config)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK - we can use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "overload")
	v.SetDefault("database.name", "overload")
	v.SetDefault("database.pool_size", 20)
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.max_conn_idle_time", "30m")

	// Round timing defaults per difficulty
	v.SetDefault("game.easy_duration", "60s")
	v.SetDefault("game.medium_duration", "45s")
	v.SetDefault("game.hard_duration", "20s")
	v.SetDefault("game.grace_duration", "10s")

	// Scoring defaults
	v.SetDefault("game.correct_points", 10)
	v.SetDefault("game.incorrect_points", 5)
	v.SetDefault("game.max_incorrect", 3)

	// Ability meter defaults
	v.SetDefault("game.meter_threshold", 100)
	v.SetDefault("game.meter_tick_amount", 15)
	v.SetDefault("game.meter_tick_interval", "5s")
	v.SetDefault("game.correct_meter_bonus", 20)

	// Ability effect defaults
	v.SetDefault("game.extend_amount", "10s")
	v.SetDefault("game.cooldown_amount", "5s")

	// Scoreboard defaults
	v.SetDefault("scoreboard.top_n", 10)
}

// IsChatAllowed checks if a chat ID is in the whitelist.
func (c *Config) IsChatAllowed(chatID int64) bool {
	// Empty whitelist means all chats are allowed
	if len(c.Whitelist.Chats) == 0 {
		return true
	}
	for _, id := range c.Whitelist.Chats {
		if id == chatID {
			return true
		}
	}
	return false
}
