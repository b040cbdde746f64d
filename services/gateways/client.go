package gateways

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/exp/slog"

	"payments-sdk/models"
	"payments-sdk/services/payment"
)

// sharedTransport pools connections for every connector in the process.
var sharedTransport = &http.Transport{
	Proxy:               http.ProxyFromEnvironment,
	MaxIdleConns:        100,
	MaxIdleConnsPerHost: 20,
	MaxConnsPerHost:     100,
	IdleConnTimeout:     90 * time.Second,
	TLSHandshakeTimeout: 10 * time.Second,
}

type options struct {
	httpClient *http.Client
	logger     *slog.Logger
	device     payment.DeviceController
}

// Option customizes connectors built by Configure.
type Option func(*options)

// WithHTTPClient replaces the pooled client. The client's timeout wins over
// the configured one.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithDeviceController registers dc and the interface it configures next to
// the gateway connectors.
func WithDeviceController(dc payment.DeviceController) Option {
	return func(o *options) { o.device = dc }
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// gatewayClient sends raw requests to one service URL.
type gatewayClient struct {
	serviceURL  string
	contentType string
	headers     map[string]string
	client      *http.Client
	logger      *slog.Logger
}

func newGatewayClient(component, serviceURL, contentType string, timeoutMs int, o options) *gatewayClient {
	client := o.httpClient
	if client == nil {
		client = &http.Client{
			Timeout:   time.Duration(timeoutMs) * time.Millisecond,
			Transport: sharedTransport,
		}
	}
	return &gatewayClient{
		serviceURL:  serviceURL,
		contentType: contentType,
		headers:     make(map[string]string),
		client:      client,
		logger:      o.logger.With(slog.String("component", component)),
	}
}

type gatewayResponse struct {
	statusCode int
	body       []byte
}

func (g *gatewayClient) send(ctx context.Context, method, endpoint string, body []byte) (*gatewayResponse, error) {
	startTime := time.Now()
	url := g.serviceURL + endpoint

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, models.NewGatewayError("Error occurred while communicating with gateway.",
			fmt.Errorf("error creating request: %w", err))
	}
	req.Header.Set("Content-Type", g.contentType)
	for k, v := range g.headers {
		req.Header.Set(k, v)
	}

	g.logger.Debug("request sent", slog.String("method", method), slog.String("url", url))

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, models.NewGatewayError("Error occurred while communicating with gateway.", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, models.NewGatewayError("Error occurred while communicating with gateway.",
			fmt.Errorf("error reading response body: %w", err))
	}

	g.logger.Info("response received",
		slog.String("url", url),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(startTime)))

	return &gatewayResponse{
		statusCode: resp.StatusCode,
		body:       []byte(strings.TrimPrefix(string(respBody), "\ufeff")),
	}, nil
}

// doXML posts an XML document and requires a 200.
func (g *gatewayClient) doXML(ctx context.Context, doc *element) ([]byte, error) {
	request, err := doc.document()
	if err != nil {
		return nil, models.NewGatewayError("Error occurred while building the gateway request.", err)
	}
	resp, err := g.send(ctx, http.MethodPost, "", []byte(request))
	if err != nil {
		return nil, err
	}
	if resp.statusCode != http.StatusOK {
		return nil, models.NewGatewayError(fmt.Sprintf("Unexpected http status code [%d]", resp.statusCode), nil)
	}
	return resp.body, nil
}

// doREST sends a JSON body and requires a 200 or 204. Error bodies carry a
// message either at the top level or under "error".
func (g *gatewayClient) doREST(ctx context.Context, method, endpoint string, body []byte) ([]byte, error) {
	resp, err := g.send(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	if resp.statusCode == http.StatusOK || resp.statusCode == http.StatusNoContent {
		return resp.body, nil
	}

	var parsed struct {
		Message string `json:"message"`
		Error   *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	message := string(resp.body)
	if err := json.Unmarshal(resp.body, &parsed); err == nil {
		message = parsed.Message
		if parsed.Error != nil {
			message = parsed.Error.Message
		}
	}
	code := strconv.Itoa(resp.statusCode)
	return nil, responseError(fmt.Sprintf("Status Code: %s - %s", code, message), code, message)
}

// responseError reports a gateway rejection carrying the remote code and text.
func responseError(message, code, text string) *models.GatewayError {
	err := models.NewGatewayError(message, nil)
	err.ResponseCode = code
	err.ResponseMessage = text
	return err
}
