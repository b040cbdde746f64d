package gateways

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payments-sdk/models"
	"payments-sdk/services/payment"
)

func TestConfigurePorticoUsesPayPlanForRecurring(t *testing.T) {
	c := payment.NewContainer()
	require.NoError(t, ConfigureContainer(c, payPlanConfig("https://cert.api2.example.com"), "portico"))

	assert.IsType(t, &PorticoConnector{}, c.Client("portico"))
	assert.IsType(t, &PayPlanConnector{}, c.RecurringClient("portico"))
	assert.Nil(t, c.ReservationService("portico"))
	assert.Nil(t, c.Client("default"))
}

type fakeTerminal struct{}

func (fakeTerminal) Initialize(context.Context) error { return nil }

type fakeTerminalController struct {
	terminal payment.DeviceInterface
	err      error
}

func (f *fakeTerminalController) ConfigureInterface() (payment.DeviceInterface, error) {
	return f.terminal, f.err
}

func TestConfigureRegistersDeviceController(t *testing.T) {
	terminal := fakeTerminal{}
	controller := &fakeTerminalController{terminal: terminal}

	c := payment.NewContainer()
	require.NoError(t, ConfigureContainer(c, payPlanConfig("https://cert.api2.example.com"), "terminal",
		WithDeviceController(controller)))

	assert.Same(t, controller, c.DeviceController("terminal"))
	assert.Equal(t, terminal, c.DeviceInterface("terminal"))
	assert.IsType(t, &PorticoConnector{}, c.Client("terminal"))
}

func TestConfigureDeviceInterfaceFailure(t *testing.T) {
	controller := &fakeTerminalController{err: fmt.Errorf("port busy")}

	c := payment.NewContainer()
	err := ConfigureContainer(c, payPlanConfig("https://cert.api2.example.com"), "terminal",
		WithDeviceController(controller))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "port busy")
	assert.Nil(t, c.Client("terminal"))
}

func TestConfigureWithoutDeviceLeavesSlotsEmpty(t *testing.T) {
	c := payment.NewContainer()
	require.NoError(t, ConfigureContainer(c, payPlanConfig("https://cert.api2.example.com"), ""))

	assert.Nil(t, c.DeviceController("default"))
	assert.Nil(t, c.DeviceInterface("default"))
}

func TestConfigureRealexServesBothRoles(t *testing.T) {
	c := payment.NewContainer()
	require.NoError(t, ConfigureContainer(c, realexConfig("https://api.sandbox.example.com"), ""))

	gateway, ok := c.Client("default").(*RealexConnector)
	require.True(t, ok)
	assert.Same(t, gateway, c.RecurringClient("default"))
}

func TestConfigureReservationProvider(t *testing.T) {
	cfg := payPlanConfig("https://cert.api2.example.com")
	cfg.ReservationProvider = models.ReservationFreshTxt

	c := payment.NewContainer()
	require.NoError(t, ConfigureContainer(c, cfg, ""))
	assert.IsType(t, &TableServiceConnector{}, c.ReservationService("default"))
}

func TestConfigureRejectsInvalidConfig(t *testing.T) {
	c := payment.NewContainer()
	var configErr *models.ConfigurationError

	err := ConfigureContainer(c, nil, "")
	require.ErrorAs(t, err, &configErr)
	assert.Equal(t, "config must be of type ServiceConfig", configErr.Message)

	cfg := payPlanConfig("https://cert.api2.example.com")
	cfg.SiteID = "12345"
	require.ErrorAs(t, ConfigureContainer(c, cfg, ""), &configErr)
	assert.Nil(t, c.Client("default"))
}

// redirectTransport sends every request to target, keeping path and query.
type redirectTransport struct {
	target *url.URL
}

func (r redirectTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	out.URL.Scheme = r.target.Scheme
	out.URL.Host = r.target.Host
	out.Host = r.target.Host
	return http.DefaultTransport.RoundTrip(out)
}

func TestTableServicePostsForm(t *testing.T) {
	var gotPath, gotBody, gotType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotPath, gotBody, gotType = r.URL.Path, string(body), r.Header.Get("Content-Type")
		fmt.Fprint(w, `{"code":"00","message":"Success","ticket_id":"123"}`)
	}))
	t.Cleanup(server.Close)

	target, err := url.Parse(server.URL)
	require.NoError(t, err)

	cfg := payPlanConfig("https://cert.api2.example.com")
	connector := NewTableServiceConnector(cfg, WithHTTPClient(&http.Client{Transport: redirectTransport{target: target}}))

	out, err := connector.DoTransaction(context.Background(), "ticket/assign", url.Values{"ticket": {"123"}})
	require.NoError(t, err)
	assert.Equal(t, "/api31/ticket/assign", gotPath)
	assert.Equal(t, "ticket=123", gotBody)
	assert.Equal(t, "application/x-www-form-urlencoded", gotType)
	assert.Equal(t, "123", out["ticket_id"])
}

func TestTableServiceUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	target, err := url.Parse(server.URL)
	require.NoError(t, err)

	connector := NewTableServiceConnector(payPlanConfig(""), WithHTTPClient(&http.Client{Transport: redirectTransport{target: target}}))
	_, err = connector.DoTransaction(context.Background(), "ticket/assign", url.Values{})

	var gatewayErr *models.GatewayError
	require.ErrorAs(t, err, &gatewayErr)
	assert.Contains(t, gatewayErr.Message, "503")
}
