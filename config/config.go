package config

import (
	"payments-sdk/models"
)

const (
	DefaultTimeout = 65000
	DefaultName    = "default"
)

// HostedPaymentConfig drives hosted payment page requests handed to a client-side library.
type HostedPaymentConfig struct {
	CardStorageEnabled               *bool                  `mapstructure:"card_storage_enabled"`
	DynamicCurrencyConversionEnabled *bool                  `mapstructure:"dynamic_currency_conversion_enabled"`
	DisplaySavedCards                *bool                  `mapstructure:"display_saved_cards"`
	FraudFilterMode                  models.FraudFilterMode `mapstructure:"fraud_filter_mode"`
	Language                         string                 `mapstructure:"language"`
	PaymentButtonText                string                 `mapstructure:"payment_button_text"`
	ResponseURL                      string                 `mapstructure:"response_url"`
	RequestTransactionStabilityScore *bool                  `mapstructure:"request_transaction_stability_score"`
	Version                          models.HppVersion      `mapstructure:"version"`
	PostDimensions                   string                 `mapstructure:"post_dimensions"`
	PostResponse                     string                 `mapstructure:"post_response"`
}

func NewHostedPaymentConfig() *HostedPaymentConfig {
	return &HostedPaymentConfig{
		FraudFilterMode: models.FraudFilterNone,
		Version:         models.HppVersion1,
	}
}

// ServicesConfig holds the credentials and endpoints for one named gateway configuration.
type ServicesConfig struct {
	SiteID        string `mapstructure:"site_id"`
	LicenseID     string `mapstructure:"license_id"`
	DeviceID      string `mapstructure:"device_id"`
	Username      string `mapstructure:"username"`
	Password      string `mapstructure:"password"`
	DeveloperID   string `mapstructure:"developer_id"`
	VersionNumber string `mapstructure:"version_number"`
	SecretAPIKey  string `mapstructure:"secret_api_key"`

	AccountID      string `mapstructure:"account_id"`
	MerchantID     string `mapstructure:"merchant_id"`
	RebatePassword string `mapstructure:"rebate_password"`
	RefundPassword string `mapstructure:"refund_password"`
	SharedSecret   string `mapstructure:"shared_secret"`
	Channel        string `mapstructure:"channel"`

	HostedPaymentConfig *HostedPaymentConfig `mapstructure:"hosted_payment"`

	ReservationProvider models.ReservationProvider `mapstructure:"reservation_provider"`

	ServiceURL string `mapstructure:"service_url"`
	// Timeout in milliseconds.
	Timeout int `mapstructure:"timeout"`
}

func NewServicesConfig() *ServicesConfig {
	return &ServicesConfig{Timeout: DefaultTimeout}
}

func (c *ServicesConfig) hasLegacyCredentials() bool {
	return c.SiteID != "" || c.LicenseID != "" || c.DeviceID != "" ||
		c.Username != "" || c.Password != ""
}

// Validate checks that exactly one credential family is usable.
func (c *ServicesConfig) Validate() error {
	if c.SecretAPIKey != "" && c.hasLegacyCredentials() {
		return models.NewConfigurationError(
			"Configuration contains both secret api key and legacy credentials. These are mutually exclusive.")
	}

	if c.hasLegacyCredentials() &&
		(c.SiteID == "" || c.LicenseID == "" || c.DeviceID == "" || c.Username == "" || c.Password == "") {
		return models.NewConfigurationError(
			"Site, License, Device, Username and Password should all have a values for this configuration.")
	}

	if c.MerchantID != "" || c.SharedSecret != "" {
		if c.MerchantID == "" {
			return models.NewConfigurationError("merchant_id is required for this configuration.")
		}
		if c.SharedSecret == "" {
			return models.NewConfigurationError("shared_secret is required for this configuration.")
		}
	}

	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return nil
}
