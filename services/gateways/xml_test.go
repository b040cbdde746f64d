package gateways

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payments-sdk/models"
)

func TestElementDocument(t *testing.T) {
	doc := newElement("request", "type", "auth")
	doc.value("merchantid", "m&s")
	doc.optional("account", "")
	doc.sub("amount", "currency", "EUR")

	out, err := doc.document()
	require.NoError(t, err)
	assert.Equal(t, `<request type="auth"><merchantid>m&amp;s</merchantid><amount currency="EUR"></amount></request>`, out)
}

func TestElementDocumentRejectsUnnamedElement(t *testing.T) {
	doc := newElement("request")
	doc.sub("")

	out, err := doc.document()
	require.Error(t, err)
	assert.Empty(t, out)
}

func TestDoXMLFailsBeforeSendingBrokenDocument(t *testing.T) {
	server, requests := porticoServer(t, "")
	client := newGatewayClient("test", server.URL, "text/xml", 1000, buildOptions([]Option{WithHTTPClient(server.Client())}))

	doc := newElement("request")
	doc.sub("")

	_, err := client.doXML(context.Background(), doc)

	var gatewayErr *models.GatewayError
	require.ErrorAs(t, err, &gatewayErr)
	assert.Equal(t, "Error occurred while building the gateway request.", gatewayErr.Message)
	assert.Empty(t, *requests)
}
