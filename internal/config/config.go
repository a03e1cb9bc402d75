package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	LogFormat         string        `mapstructure:"log_format" yaml:"log_format"`

	// DatabaseDriver selects the message store backend: "sqlite" or "postgres".
	DatabaseDriver string `mapstructure:"database_driver" yaml:"database_driver"`
	DatabasePath   string `mapstructure:"database_path" yaml:"database_path"`
	DatabaseDSN    string `mapstructure:"database_dsn" yaml:"database_dsn"`

	MaxTextBytes    int `mapstructure:"max_text_bytes" yaml:"max_text_bytes"`
	MaxRoomIDLength int `mapstructure:"max_room_id_length" yaml:"max_room_id_length"`

	// RateLimitRPS <= 0 disables per-client rate limiting.
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps" yaml:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst" yaml:"rate_limit_burst"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		LogFormat:         "console",
		DatabaseDriver:    "sqlite",
		DatabasePath:      "latestview.db",
		MaxTextBytes:      4096,
		MaxRoomIDLength:   128,
		RateLimitRPS:      10,
		RateLimitBurst:    20,
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.LogFormat != "" {
		c.LogFormat = other.LogFormat
	}
	if other.DatabaseDriver != "" {
		c.DatabaseDriver = other.DatabaseDriver
	}
	if other.DatabasePath != "" {
		c.DatabasePath = other.DatabasePath
	}
	if other.DatabaseDSN != "" {
		c.DatabaseDSN = other.DatabaseDSN
	}
	if other.MaxTextBytes != 0 {
		c.MaxTextBytes = other.MaxTextBytes
	}
	if other.MaxRoomIDLength != 0 {
		c.MaxRoomIDLength = other.MaxRoomIDLength
	}
	if other.RateLimitRPS != 0 {
		c.RateLimitRPS = other.RateLimitRPS
	}
	if other.RateLimitBurst != 0 {
		c.RateLimitBurst = other.RateLimitBurst
	}
}

// ClientConfig holds configuration for the latestview client.
type ClientConfig struct {
	ServerURL      string        `mapstructure:"server_url" yaml:"server_url"`
	RoomFile       string        `mapstructure:"room_file" yaml:"room_file"`
	PollInterval   time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`

	// MinRoomIDLength is the shortest room id the setup flow accepts.
	MinRoomIDLength int `mapstructure:"min_room_id_length" yaml:"min_room_id_length"`

	// UserAgent feeds the landing route's touch-input heuristic.
	UserAgent       string `mapstructure:"user_agent" yaml:"user_agent"`
	DisplayTimezone string `mapstructure:"display_timezone" yaml:"display_timezone"`

	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// DefaultClient returns client configuration defaults.
func DefaultClient() ClientConfig {
	return ClientConfig{
		ServerURL:       "http://localhost:8080",
		PollInterval:    20 * time.Second,
		RequestTimeout:  10 * time.Second,
		MinRoomIDLength: 16,
		DisplayTimezone: "Asia/Seoul",
		LogLevel:        "warn",
		LogFormat:       "console",
	}
}
