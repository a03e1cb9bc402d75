package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	envConfigDefaultPath = "LATESTVIEW_CONFIG_DEFAULT_PATH"
	defaultConfigName    = "config.yaml"
	defaultClientName    = "client.yaml"
	defaultRoomFileName  = "room.yaml"
	appDirName           = "latestview"

	serverEnvPrefix = "LATESTVIEW"
	clientEnvPrefix = "LATESTVIEW_CLIENT"
)

// Load builds server configuration from defaults, optional config file, env vars, and returns the resolved path.
// Precedence: defaults < config file < env vars < caller overrides.
func Load(logger *zerolog.Logger, explicitPath string) (Config, string, error) {
	loadDotEnv(logger)

	cfg := Default()

	v := newViper(serverEnvPrefix)
	v.SetDefault("addr", cfg.Addr)
	v.SetDefault("read_header_timeout", cfg.ReadHeaderTimeout)
	v.SetDefault("shutdown_timeout", cfg.ShutdownTimeout)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("log_format", cfg.LogFormat)
	v.SetDefault("database_driver", cfg.DatabaseDriver)
	v.SetDefault("database_path", cfg.DatabasePath)
	v.SetDefault("database_dsn", cfg.DatabaseDSN)
	v.SetDefault("max_text_bytes", cfg.MaxTextBytes)
	v.SetDefault("max_room_id_length", cfg.MaxRoomIDLength)
	v.SetDefault("rate_limit_rps", cfg.RateLimitRPS)
	v.SetDefault("rate_limit_burst", cfg.RateLimitBurst)

	configPath := resolveServerConfigPath(explicitPath)
	if err := readOrCreate(logger, v, configPath, cfg); err != nil {
		return cfg, configPath, err
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, configPath, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, configPath, nil
}

// LoadClient builds client configuration the same way Load does for the server.
// An empty RoomFile resolves to room.yaml next to the client config file.
func LoadClient(logger *zerolog.Logger, explicitPath string) (ClientConfig, string, error) {
	loadDotEnv(logger)

	cfg := DefaultClient()

	v := newViper(clientEnvPrefix)
	v.SetDefault("server_url", cfg.ServerURL)
	v.SetDefault("room_file", cfg.RoomFile)
	v.SetDefault("poll_interval", cfg.PollInterval)
	v.SetDefault("request_timeout", cfg.RequestTimeout)
	v.SetDefault("min_room_id_length", cfg.MinRoomIDLength)
	v.SetDefault("user_agent", cfg.UserAgent)
	v.SetDefault("display_timezone", cfg.DisplayTimezone)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("log_format", cfg.LogFormat)

	configPath := resolveClientConfigPath(explicitPath)
	if err := readOrCreate(logger, v, configPath, cfg); err != nil {
		return cfg, configPath, err
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, configPath, fmt.Errorf("unmarshal client config: %w", err)
	}

	if cfg.RoomFile == "" {
		cfg.RoomFile = filepath.Join(filepath.Dir(configPath), defaultRoomFileName)
	}

	return cfg, configPath, nil
}

func newViper(prefix string) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func readOrCreate(logger *zerolog.Logger, v *viper.Viper, configPath string, defaults any) error {
	v.SetConfigFile(configPath)

	err := v.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read config: %w", err)
	}

	if writeErr := writeDefaultConfig(configPath, defaults); writeErr != nil {
		if logger != nil {
			logger.Warn().Err(writeErr).Str("path", configPath).Msg("failed to write default config")
		}
		return nil
	}
	if logger != nil {
		logger.Info().Str("path", configPath).Msg("created default config")
	}

	// try reading again in case it was just written
	if readErr := v.ReadInConfig(); readErr != nil && logger != nil {
		logger.Warn().Err(readErr).Str("path", configPath).Msg("failed to read config after writing default")
	}
	return nil
}

func loadDotEnv(logger *zerolog.Logger) {
	err := godotenv.Load()
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return
	}
	if logger != nil {
		logger.Warn().Err(err).Msg("failed to load .env")
	}
}

func resolveServerConfigPath(explicitPath string) string {
	if explicitPath != "" {
		return explicitPath
	}

	if base := os.Getenv(envConfigDefaultPath); base != "" {
		if err := os.MkdirAll(base, 0o755); err == nil {
			return filepath.Join(base, defaultConfigName)
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return defaultConfigName
	}
	return filepath.Join(cwd, defaultConfigName)
}

func resolveClientConfigPath(explicitPath string) string {
	if explicitPath != "" {
		return explicitPath
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return defaultClientName
	}
	return filepath.Join(dir, appDirName, defaultClientName)
}

func writeDefaultConfig(path string, cfg any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
