package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payments-sdk/models"
)

func requireConfigError(t *testing.T, err error, message string) {
	t.Helper()
	var configErr *models.ConfigurationError
	require.ErrorAs(t, err, &configErr)
	assert.Equal(t, message, configErr.Message)
}

func legacyConfig() *ServicesConfig {
	cfg := NewServicesConfig()
	cfg.SiteID = "12345"
	cfg.LicenseID = "12345"
	cfg.DeviceID = "123456"
	cfg.Username = "user"
	cfg.Password = "pass"
	return cfg
}

func TestValidateCredentials(t *testing.T) {
	assert.NoError(t, legacyConfig().Validate())

	both := legacyConfig()
	both.SecretAPIKey = "skapi_cert_key"
	requireConfigError(t, both.Validate(),
		"Configuration contains both secret api key and legacy credentials. These are mutually exclusive.")

	partial := legacyConfig()
	partial.Password = ""
	requireConfigError(t, partial.Validate(),
		"Site, License, Device, Username and Password should all have a values for this configuration.")
}

func TestValidateSignedGatewayCredentials(t *testing.T) {
	noSecret := NewServicesConfig()
	noSecret.MerchantID = "merchant"
	requireConfigError(t, noSecret.Validate(), "shared_secret is required for this configuration.")

	noMerchant := NewServicesConfig()
	noMerchant.SharedSecret = "secret"
	requireConfigError(t, noMerchant.Validate(), "merchant_id is required for this configuration.")
}

func TestValidateDefaultsTimeout(t *testing.T) {
	cfg := &ServicesConfig{SecretAPIKey: "skapi_cert_key"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
}

const configFile = `
configs:
  portico:
    secret_api_key: skapi_cert_key
    service_url: https://cert.api2.heartlandportico.com
    timeout: 30000
  realex:
    merchant_id: heartlandgpsandbox
    account_id: hpp
    shared_secret: secret
    service_url: https://pay.sandbox.realexpayments.com/pay
    hosted_payment:
      language: GB
      version: "2"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gateways.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	configs, err := Load(writeConfig(t, configFile))
	require.NoError(t, err)
	require.Len(t, configs, 2)

	portico := configs["portico"]
	require.NotNil(t, portico)
	assert.Equal(t, "skapi_cert_key", portico.SecretAPIKey)
	assert.Equal(t, 30000, portico.Timeout)
	assert.Nil(t, portico.HostedPaymentConfig)

	realex := configs["realex"]
	require.NotNil(t, realex)
	assert.Equal(t, "heartlandgpsandbox", realex.MerchantID)
	assert.Equal(t, DefaultTimeout, realex.Timeout)
	require.NotNil(t, realex.HostedPaymentConfig)
	assert.Equal(t, "GB", realex.HostedPaymentConfig.Language)
	assert.Equal(t, models.HppVersion2, realex.HostedPaymentConfig.Version)
	assert.Equal(t, models.FraudFilterNone, realex.HostedPaymentConfig.FraudFilterMode)
}

func TestLoadFileRejectsInvalidConfig(t *testing.T) {
	_, err := Load(writeConfig(t, `
configs:
  broken:
    merchant_id: heartlandgpsandbox
`))
	requireConfigError(t, err, "shared_secret is required for this configuration.")
}

func TestLoadFileWithoutConfigs(t *testing.T) {
	_, err := Load(writeConfig(t, "other: true\n"))
	assert.ErrorContains(t, err, "defines no configs")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("GP_SECRET_API_KEY", "skapi_env_key")
	t.Setenv("GP_SERVICE_URL", "https://cert.api2.heartlandportico.com")
	t.Setenv("GP_TIMEOUT", "15000")
	t.Setenv("GP_RESERVATION_PROVIDER", "FreshTxt")

	configs, err := Load("")
	require.NoError(t, err)

	cfg := configs[DefaultName]
	require.NotNil(t, cfg)
	assert.Equal(t, "skapi_env_key", cfg.SecretAPIKey)
	assert.Equal(t, 15000, cfg.Timeout)
	assert.Equal(t, models.ReservationFreshTxt, cfg.ReservationProvider)
}

func TestLoadServerRequiresSecret(t *testing.T) {
	t.Setenv("GP_SERVER_SESSION_SECRET", "")
	_, err := LoadServer()
	requireConfigError(t, err, "GP_SERVER_SESSION_SECRET is required to sign hosted payment sessions.")
}

func TestLoadServerDefaults(t *testing.T) {
	t.Setenv("GP_SERVER_SESSION_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("GP_SERVER_PORT", "9090")

	cfg, err := LoadServer()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, DefaultName, cfg.ConfigName)
	assert.Equal(t, 1800, cfg.SessionMaxAge)
	assert.True(t, cfg.SessionSecure)
}
