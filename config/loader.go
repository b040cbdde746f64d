package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/exp/slog"
)

const envPrefix = "GP"

var envKeys = []string{
	"site_id", "license_id", "device_id", "username", "password",
	"developer_id", "version_number", "secret_api_key",
	"account_id", "merchant_id", "rebate_password", "refund_password",
	"shared_secret", "channel", "reservation_provider", "service_url", "timeout",
	"hosted_payment.card_storage_enabled",
	"hosted_payment.dynamic_currency_conversion_enabled",
	"hosted_payment.display_saved_cards",
	"hosted_payment.fraud_filter_mode",
	"hosted_payment.language",
	"hosted_payment.payment_button_text",
	"hosted_payment.response_url",
	"hosted_payment.request_transaction_stability_score",
	"hosted_payment.version",
	"hosted_payment.post_dimensions",
	"hosted_payment.post_response",
}

// Load reads named gateway configurations.
//
// A .env file in the working directory is loaded first when present. With an
// empty path a single "default" configuration is read from GP_* environment
// variables (GP_SECRET_API_KEY, GP_SERVICE_URL, GP_HOSTED_PAYMENT_VERSION...).
// Otherwise the file must hold a `configs` map keyed by configuration name and
// the environment is not consulted.
func Load(path string) (map[string]*ServicesConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", slog.Any("err", err))
	}

	if path == "" {
		cfg, err := decode(newViper())
		if err != nil {
			return nil, fmt.Errorf("config %q: %w", DefaultName, err)
		}
		return map[string]*ServicesConfig{DefaultName: cfg}, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	names := make([]string, 0)
	for name := range v.GetStringMap("configs") {
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("config file %s defines no configs", path)
	}
	sort.Strings(names)

	configs := make(map[string]*ServicesConfig, len(names))
	for _, name := range names {
		sub := viper.New()
		sub.SetDefault("timeout", DefaultTimeout)
		if err := sub.MergeConfigMap(v.GetStringMap("configs." + name)); err != nil {
			return nil, fmt.Errorf("config %q: %w", name, err)
		}
		cfg, err := decode(sub)
		if err != nil {
			return nil, fmt.Errorf("config %q: %w", name, err)
		}
		configs[name] = cfg
	}
	return configs, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}
	v.SetDefault("timeout", DefaultTimeout)
	return v
}

func decode(v *viper.Viper) (*ServicesConfig, error) {
	cfg := NewServicesConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.HostedPaymentConfig != nil && *cfg.HostedPaymentConfig == (HostedPaymentConfig{}) {
		cfg.HostedPaymentConfig = nil
	}
	if cfg.HostedPaymentConfig != nil {
		if cfg.HostedPaymentConfig.FraudFilterMode == "" {
			cfg.HostedPaymentConfig.FraudFilterMode = NewHostedPaymentConfig().FraudFilterMode
		}
		if cfg.HostedPaymentConfig.Version == "" {
			cfg.HostedPaymentConfig.Version = NewHostedPaymentConfig().Version
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
