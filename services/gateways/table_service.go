package gateways

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"payments-sdk/config"
	"payments-sdk/models"
)

const freshTxtURL = "https://www.freshtxt.com/api31/"

// TableServiceConnector posts form data to the FreshTxt reservation API.
type TableServiceConnector struct {
	client *gatewayClient
}

// NewTableServiceConnector always targets the FreshTxt API; only the timeout
// is taken from cfg.
func NewTableServiceConnector(cfg *config.ServicesConfig, opts ...Option) *TableServiceConnector {
	return &TableServiceConnector{
		client: newGatewayClient("table-service", freshTxtURL, "application/x-www-form-urlencoded",
			cfg.Timeout, buildOptions(opts)),
	}
}

// DoTransaction posts form to endpoint and decodes the JSON answer.
func (t *TableServiceConnector) DoTransaction(ctx context.Context, endpoint string, form url.Values) (map[string]interface{}, error) {
	resp, err := t.client.send(ctx, http.MethodPost, endpoint, []byte(form.Encode()))
	if err != nil {
		return nil, err
	}
	if resp.statusCode != http.StatusOK {
		return nil, models.NewGatewayError(fmt.Sprintf("Unexpected http status code [%d]", resp.statusCode), nil)
	}

	var out map[string]interface{}
	if err := json.Unmarshal(resp.body, &out); err != nil {
		return nil, models.NewGatewayError("Unexpected Response", fmt.Errorf("error decoding response: %w", err))
	}
	return out, nil
}
