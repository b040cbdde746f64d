package hosted

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payments-sdk/config"
	"payments-sdk/models"
	"payments-sdk/utils"
)

const sharedSecret = "secret"

func hostedConfig(version models.HppVersion) *config.ServicesConfig {
	cfg := config.NewServicesConfig()
	cfg.MerchantID = "heartlandgpsandbox"
	cfg.AccountID = "hpp"
	cfg.SharedSecret = sharedSecret
	cfg.HostedPaymentConfig = config.NewHostedPaymentConfig()
	cfg.HostedPaymentConfig.Version = version
	return cfg
}

func postBack(result string) map[string]string {
	values := map[string]string{
		"MERCHANT_ID":       "heartlandgpsandbox",
		"ACCOUNT":           "hpp",
		"ORDER_ID":          "GTI5Yxb0SumL_TkDMCAxQA",
		"TIMESTAMP":         "20240101120000",
		"AMOUNT":            "1999",
		"AUTHCODE":          "12345",
		"RESULT":            result,
		"MESSAGE":           "[ test system ] Authorised",
		"PASREF":            "14610544313177922",
		"CVNRESULT":         "M",
		"AVSPOSTCODERESULT": "M",
	}
	values["SHA1HASH"] = utils.GenerateHash(sharedSecret,
		values["TIMESTAMP"], values["MERCHANT_ID"], values["ORDER_ID"], values["RESULT"],
		values["MESSAGE"], values["PASREF"], values["AUTHCODE"])
	return values
}

func encodeBody(t *testing.T, values map[string]string, base64Values bool) []byte {
	t.Helper()
	out := make(map[string]string, len(values))
	for k, v := range values {
		if base64Values {
			v = base64.StdEncoding.EncodeToString([]byte(v))
		}
		out[k] = v
	}
	body, err := json.Marshal(out)
	require.NoError(t, err)
	return body
}

func TestNewServiceRequiresSecret(t *testing.T) {
	_, err := NewService(nil, nil)
	var configErr *models.ConfigurationError
	require.ErrorAs(t, err, &configErr)

	cfg := config.NewServicesConfig()
	cfg.SecretAPIKey = "skapi_cert_key"
	_, err = NewService(cfg, nil)
	require.ErrorAs(t, err, &configErr)
}

func TestParseEncodedResponse(t *testing.T) {
	svc, err := NewService(hostedConfig(models.HppVersion1), nil)
	require.NoError(t, err)

	tx, err := svc.ParseResponse(encodeBody(t, postBack("00"), true))
	require.NoError(t, err)

	assert.Equal(t, "00", tx.ResponseCode)
	assert.Equal(t, "[ test system ] Authorised", tx.ResponseMessage)
	assert.Equal(t, "GTI5Yxb0SumL_TkDMCAxQA", tx.OrderID())
	assert.Equal(t, "14610544313177922", tx.TransactionID())
	assert.Equal(t, "12345", tx.AuthorizationCode())
	assert.Equal(t, models.PaymentCredit, tx.PaymentMethodType())
	assert.Equal(t, "M", tx.CvnResponseCode)
	assert.Equal(t, "M", tx.AvsResponseCode)
	assert.Equal(t, "hpp", tx.ResponseValues["ACCOUNT"])
	require.NotNil(t, tx.AuthorizedAmount)
	assert.True(t, decimal.RequireFromString("19.99").Equal(*tx.AuthorizedAmount))

	result := Result(tx)
	assert.True(t, result.Success)
	assert.Equal(t, "GTI5Yxb0SumL_TkDMCAxQA", result.OrderID)
	assert.Equal(t, "14610544313177922", result.TransactionID)
}

func TestParsePlainResponse(t *testing.T) {
	svc, err := NewService(hostedConfig(models.HppVersion2), nil)
	require.NoError(t, err)

	tx, err := svc.ParseResponse(encodeBody(t, postBack("101"), false))
	require.NoError(t, err)
	assert.Equal(t, "101", tx.ResponseCode)
	assert.False(t, Result(tx).Success)
}

func TestParseRejectsTamperedResponse(t *testing.T) {
	svc, err := NewService(hostedConfig(models.HppVersion1), nil)
	require.NoError(t, err)

	values := postBack("00")
	values["AMOUNT"] = "1"
	values["RESULT"] = "00"
	values["AUTHCODE"] = "99999"

	_, err = svc.ParseResponse(encodeBody(t, values, true))
	var apiErr *models.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, incorrectHash, apiErr.Message)
}

func TestParseMalformedResponse(t *testing.T) {
	svc, err := NewService(hostedConfig(models.HppVersion1), nil)
	require.NoError(t, err)

	var apiErr *models.ApiError
	_, err = svc.ParseResponse([]byte("not json"))
	require.ErrorAs(t, err, &apiErr)

	_, err = svc.ParseResponse([]byte(`{"RESULT":"***"}`))
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Unable to parse hosted payment response.", apiErr.Message)
}
