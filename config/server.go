package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/exp/slog"

	"payments-sdk/models"
)

// ServerConfig drives the hosted payment HTTP surface.
type ServerConfig struct {
	Port          string `mapstructure:"port"`
	ConfigFile    string `mapstructure:"config_file"`
	ConfigName    string `mapstructure:"config_name"`
	SessionSecret string `mapstructure:"session_secret"`
	SessionDomain string `mapstructure:"session_domain"`
	SessionMaxAge int    `mapstructure:"session_max_age"`
	SessionSecure bool   `mapstructure:"session_secure"`
}

// LoadServer reads GP_SERVER_* variables, applying a .env file first when
// one is present.
func LoadServer() (*ServerConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", slog.Any("err", err))
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix + "_SERVER")
	v.AutomaticEnv()
	for _, key := range []string{"port", "config_file", "config_name", "session_secret",
		"session_domain", "session_max_age", "session_secure"} {
		_ = v.BindEnv(key)
	}
	v.SetDefault("port", "8080")
	v.SetDefault("config_name", DefaultName)
	v.SetDefault("session_max_age", 1800)
	v.SetDefault("session_secure", true)

	cfg := &ServerConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode server config: %w", err)
	}
	if cfg.SessionSecret == "" {
		return nil, models.NewConfigurationError("GP_SERVER_SESSION_SECRET is required to sign hosted payment sessions.")
	}
	return cfg, nil
}
