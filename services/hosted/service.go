// Package hosted verifies and maps the post-back of a hosted payment page.
package hosted

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"golang.org/x/exp/slog"

	"payments-sdk/config"
	"payments-sdk/models"
	"payments-sdk/services/payment"
	"payments-sdk/utils"
)

const incorrectHash = "Incorrect hash. Please check your code and the Developers Documentation."

// Service parses responses posted back by the hosted payment page for one
// gateway configuration.
type Service struct {
	config *config.ServicesConfig
	logger *slog.Logger
}

func NewService(cfg *config.ServicesConfig, logger *slog.Logger) (*Service, error) {
	if cfg == nil || cfg.SharedSecret == "" {
		return nil, models.NewConfigurationError("shared_secret is required for this configuration.")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{config: cfg, logger: logger.With(slog.String("component", "hosted"))}, nil
}

// encoded reports whether post-back values arrive base64 encoded. Only
// version 2 pages send them in the clear.
func (s *Service) encoded() bool {
	hpp := s.config.HostedPaymentConfig
	return hpp == nil || hpp.Version != models.HppVersion2
}

// ParseResponse decodes body, checks its SHA1HASH against the shared secret
// and maps it to a transaction.
func (s *Service) ParseResponse(body []byte) (*payment.Transaction, error) {
	values, err := s.decode(body)
	if err != nil {
		return nil, err
	}

	expected := utils.GenerateHash(s.config.SharedSecret,
		values["TIMESTAMP"],
		values["MERCHANT_ID"],
		values["ORDER_ID"],
		values["RESULT"],
		values["MESSAGE"],
		values["PASREF"],
		values["AUTHCODE"])
	if values["SHA1HASH"] != expected {
		s.logger.Warn("hosted response rejected", slog.String("order_id", values["ORDER_ID"]))
		return nil, models.NewApiError(incorrectHash, nil)
	}

	ref := &payment.TransactionReference{
		AuthCode:      values["AUTHCODE"],
		OrderID:       values["ORDER_ID"],
		TransactionID: values["PASREF"],
		Type:          models.PaymentCredit,
	}
	tx := &payment.Transaction{
		ResponseCode:         values["RESULT"],
		ResponseMessage:      values["MESSAGE"],
		CvnResponseCode:      values["CVNRESULT"],
		AvsResponseCode:      values["AVSPOSTCODERESULT"],
		Timestamp:            values["TIMESTAMP"],
		ResponseValues:       values,
		TransactionReference: ref,
	}
	if amount := values["AMOUNT"]; amount != "" {
		if parsed, err := utils.FromMinorUnits(amount); err == nil {
			tx.AuthorizedAmount = &parsed
		}
	}

	s.logger.Info("hosted response verified",
		slog.String("order_id", values["ORDER_ID"]),
		slog.String("result", values["RESULT"]))
	return tx, nil
}

func (s *Service) decode(body []byte) (map[string]string, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, models.NewApiError("Unable to parse hosted payment response.",
			fmt.Errorf("error decoding response: %w", err))
	}

	values := make(map[string]string, len(raw))
	for key, v := range raw {
		var text string
		switch typed := v.(type) {
		case nil:
			continue
		case string:
			text = typed
		default:
			text = fmt.Sprint(typed)
		}
		if s.encoded() {
			decoded, err := base64.StdEncoding.DecodeString(text)
			if err != nil {
				return nil, models.NewApiError("Unable to parse hosted payment response.",
					fmt.Errorf("error decoding %s: %w", key, err))
			}
			text = string(decoded)
		}
		values[key] = text
	}
	return values, nil
}

// Result summarizes a verified transaction for the browser.
func Result(tx *payment.Transaction) models.HostedPaymentResult {
	return models.HostedPaymentResult{
		Success:       tx.ResponseCode == "00",
		OrderID:       tx.OrderID(),
		TransactionID: tx.TransactionID(),
		AuthCode:      tx.AuthorizationCode(),
		ResponseCode:  tx.ResponseCode,
		Message:       tx.ResponseMessage,
	}
}
