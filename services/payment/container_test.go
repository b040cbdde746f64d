package payment

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payments-sdk/models"
)

// fakeGateway records the builders it is handed and answers "00".
type fakeGateway struct {
	hosted     bool
	auths      []*AuthorizationBuilder
	management []*ManagementBuilder
	reports    []*TransactionReportBuilder
}

func (f *fakeGateway) ProcessAuthorization(_ context.Context, b *AuthorizationBuilder) (*Transaction, error) {
	f.auths = append(f.auths, b)
	tx := &Transaction{ResponseCode: "00", ResponseMessage: "APPROVAL"}
	tx.SetTransactionID("1001")
	tx.SetPaymentMethodType(b.PaymentMethod().PaymentMethodType())
	if b.RequestMultiUseToken() {
		tx.Token = "multi-use-token"
	}
	if b.TransactionType() == models.Alias {
		tx.GiftCard = &GiftCard{ValueType: GiftValueCardNumber, Value: "5022440000000000098"}
	}
	return tx, nil
}

func (f *fakeGateway) ManageTransaction(_ context.Context, b *ManagementBuilder) (*Transaction, error) {
	f.management = append(f.management, b)
	tx := &Transaction{ResponseCode: "00"}
	if b.TransactionType() == models.BatchClose {
		tx.BatchSummary = &models.BatchSummary{TransactionCount: 3}
	}
	return tx, nil
}

func (f *fakeGateway) ProcessReport(_ context.Context, b *TransactionReportBuilder) ([]*models.TransactionSummary, error) {
	f.reports = append(f.reports, b)
	return []*models.TransactionSummary{{TransactionID: b.TransactionID()}}, nil
}

func (f *fakeGateway) SerializeRequest(_ *AuthorizationBuilder) (string, error) {
	return `{"ok":true}`, nil
}

func (f *fakeGateway) SupportsHostedPayments() bool { return f.hosted }

func fakeContainer(gateway *fakeGateway) *Container {
	c := NewContainer()
	c.Register("default", &Connectors{Gateway: gateway})
	return c
}

func TestContainerLookup(t *testing.T) {
	c := NewContainer()
	gateway := &fakeGateway{}
	c.Register("primary", &Connectors{Gateway: gateway})

	assert.Same(t, gateway, c.Client("primary"))
	assert.Nil(t, c.Client("secondary"))
	assert.Nil(t, c.RecurringClient("primary"))
	assert.Nil(t, c.ReservationService("missing"))
	assert.Nil(t, c.DeviceInterface("primary"))
	assert.Nil(t, c.DeviceController("primary"))

	replacement := &fakeGateway{}
	c.Register("primary", &Connectors{Gateway: replacement})
	assert.Same(t, replacement, c.Client("primary"))
}

func TestContainerConcurrentAccess(t *testing.T) {
	c := NewContainer()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Register("default", &Connectors{Gateway: &fakeGateway{}})
		}()
		go func() {
			defer wg.Done()
			c.Client("default")
		}()
	}
	wg.Wait()
	assert.NotNil(t, c.Client("default"))
}

func TestInstanceRequiresConfiguration(t *testing.T) {
	ResetDefault()
	t.Cleanup(ResetDefault)

	_, err := Instance()
	var configErr *models.ConfigurationError
	require.ErrorAs(t, err, &configErr)

	_, err = testCard().Charge(decimal.NewFromInt(1)).WithCurrency("USD").Execute(context.Background(), "")
	require.ErrorAs(t, err, &configErr)

	Default()
	c, err := Instance()
	require.NoError(t, err)
	assert.Same(t, Default(), c)
}

func TestExecuteUnknownConfiguration(t *testing.T) {
	c := fakeContainer(&fakeGateway{})

	_, err := testCard().Charge(decimal.NewFromInt(1)).
		WithCurrency("USD").
		WithServices(c).
		Execute(context.Background(), "secondary")

	var configErr *models.ConfigurationError
	require.ErrorAs(t, err, &configErr)
	assert.Equal(t, `No gateway configured for "secondary".`, configErr.Message)
}

func TestExecuteValidatesBeforeSending(t *testing.T) {
	gateway := &fakeGateway{}
	c := fakeContainer(gateway)

	_, err := testCard().Charge(decimal.NewFromInt(1)).WithServices(c).Execute(context.Background(), "")
	var builderErr *models.BuilderError
	require.ErrorAs(t, err, &builderErr)
	assert.Empty(t, gateway.auths)
}

func TestHostedDataRequiresHostedGateway(t *testing.T) {
	gateway := &fakeGateway{}
	c := fakeContainer(gateway)
	b := testCard().Charge(decimal.NewFromInt(1)).
		WithCurrency("USD").
		WithHostedPaymentData(&models.HostedPaymentData{CustomerNumber: "c-1"}).
		WithServices(c)

	_, err := b.Execute(context.Background(), "")
	var builderErr *models.BuilderError
	require.ErrorAs(t, err, &builderErr)

	_, err = testCard().Verify().
		WithAmount(decimal.NewFromInt(1)).
		WithCurrency("EUR").
		WithServices(c).
		Serialize("")
	require.ErrorAs(t, err, &builderErr)
	assert.Equal(t, "Your current gateway does not support hosted payments.", builderErr.Message)

	gateway.hosted = true
	out, err := testCard().Verify().
		WithAmount(decimal.NewFromInt(1)).
		WithCurrency("EUR").
		WithServices(c).
		Serialize("")
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, out)
	assert.Empty(t, gateway.auths)
}

func TestSerializeMarksHostedRequest(t *testing.T) {
	c := fakeContainer(&fakeGateway{hosted: true})
	b := testCard().Verify().WithServices(c)

	_, err := b.Serialize("")
	var builderErr *models.BuilderError
	require.ErrorAs(t, err, &builderErr)
	assert.Equal(t, models.HostedRequest, b.TransactionModifier())
}

func TestTokenizeRequestsMultiUseToken(t *testing.T) {
	ResetDefault()
	t.Cleanup(ResetDefault)
	gateway := &fakeGateway{}
	Default().Register("default", &Connectors{Gateway: gateway})

	token, err := testCard().Tokenize(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "multi-use-token", token)
	require.Len(t, gateway.auths, 1)
	assert.Equal(t, models.Verify, gateway.auths[0].TransactionType())
}

func TestCreateGiftCard(t *testing.T) {
	ResetDefault()
	t.Cleanup(ResetDefault)
	gateway := &fakeGateway{}
	Default().Register("default", &Connectors{Gateway: gateway})

	card, err := CreateGiftCard(context.Background(), "9725550100", "")
	require.NoError(t, err)
	assert.Equal(t, "5022440000000000098", card.Value)
	require.Len(t, gateway.auths, 1)
	assert.Equal(t, models.AliasCreate, gateway.auths[0].AliasAction())
}

func TestTransactionFollowUps(t *testing.T) {
	gateway := &fakeGateway{}
	c := fakeContainer(gateway)
	tx := TransactionFromID("1001", models.PaymentCredit, "order-1")

	assert.Equal(t, "1001", tx.TransactionID())
	assert.Equal(t, "order-1", tx.OrderID())
	assert.Equal(t, models.PaymentCredit, tx.PaymentMethodType())

	capture := tx.Capture(decimal.NewFromInt(5))
	assert.Equal(t, models.Capture, capture.TransactionType())
	assert.Equal(t, "1001", capture.TransactionID())
	assert.True(t, decimal.NewFromInt(5).Equal(*capture.Amount()))

	additional := tx.AdditionalAuth(decimal.NewFromInt(2))
	assert.Equal(t, models.Auth, additional.TransactionType())
	assert.Equal(t, models.Additional, additional.TransactionModifier())

	assert.Nil(t, tx.Reverse().Amount())
	assert.Equal(t, models.Void, tx.Void().TransactionType())
	assert.Equal(t, models.Hold, tx.Hold().TransactionType())
	assert.Equal(t, models.Release, tx.Release().TransactionType())

	_, err := tx.Void().WithServices(c).Execute(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, gateway.management, 1)
	assert.Equal(t, "order-1", gateway.management[0].OrderID())
}

func TestEmptyTransactionAccessors(t *testing.T) {
	tx := &Transaction{}
	assert.Empty(t, tx.TransactionID())
	assert.Empty(t, tx.AuthorizationCode())
	assert.Empty(t, tx.ClientTransactionID())
	assert.Equal(t, models.PaymentReference, tx.PaymentMethodType())

	tx.SetAuthorizationCode("A1")
	assert.Equal(t, "A1", tx.AuthorizationCode())
}

func TestManagementRules(t *testing.T) {
	capture := NewManagementBuilder(models.Capture)
	requireBuilderError(t, capture.Validate(), "property `transaction_id` is nil")

	refund := TransactionFromID("1001", models.PaymentCredit, "").Refund(decimal.NewFromInt(1))
	requireBuilderError(t, refund.Validate(), "property `currency` is nil")

	refundAll := TransactionFromID("1001", models.PaymentCredit, "").Refund()
	assert.NoError(t, refundAll.Validate())

	edit := TransactionFromID("1001", models.PaymentCredit, "").Edit().WithPONumber("PO-1")
	assert.Equal(t, models.LevelII, edit.TransactionModifier())
	requireBuilderError(t, edit.Validate(), "property `tax_type` is nil")

	edit.WithTaxType(models.TaxSalesTax)
	assert.NoError(t, edit.Validate())
}

func TestReportRules(t *testing.T) {
	c := fakeContainer(&fakeGateway{})
	reporting := ReportingService{Container: c}

	requireBuilderError(t, reporting.TransactionDetail("").Validate(), "property `transaction_id` is nil")
	requireBuilderError(t, reporting.Activity().WithTransactionID("1001").Validate(), "property `transaction_id` is not nil")
	requireBuilderError(t, reporting.TransactionDetail("1001").WithDeviceID("5").Validate(), "property `device_id` is not nil")

	rows, err := reporting.TransactionDetail("1001").Execute(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "1001", rows[0].TransactionID)
}

func TestCloseBatch(t *testing.T) {
	gateway := &fakeGateway{}
	summary, err := BatchService{Container: fakeContainer(gateway)}.CloseBatch(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TransactionCount)
	require.Len(t, gateway.management, 1)
	assert.Equal(t, models.BatchClose, gateway.management[0].TransactionType())
}

func TestRecurringRules(t *testing.T) {
	requireBuilderError(t, NewRecurringBuilder(models.Edit, &Customer{}).Validate(), "property `key` is nil")
	requireBuilderError(t, NewRecurringBuilder(models.Search, &Customer{}).Validate(), "property `search_criteria` is nil")

	search := NewRecurringBuilder(models.Search, &Customer{}).AddSearchCriteria("customerIdentifier", "c-1")
	assert.NoError(t, search.Validate())

	customer := &Customer{}
	customer.Key = "1001"
	assert.NoError(t, NewRecurringBuilder(models.Fetch, customer).Validate())
	assert.NoError(t, NewRecurringBuilder(models.Create, &Customer{}).Validate())
}

func TestRecurringWithoutConnector(t *testing.T) {
	c := fakeContainer(&fakeGateway{})
	_, err := RecurringService{Container: c}.Create(context.Background(), &Customer{}, "")

	var configErr *models.ConfigurationError
	require.ErrorAs(t, err, &configErr)

	err = RecurringService{Container: c}.requireRetrieval("")
	var unsupported *models.UnsupportedTransactionError
	require.ErrorAs(t, err, &unsupported)
}

func TestScheduleTotalAmount(t *testing.T) {
	s := NewSchedule("c-1", "pm-1")
	assert.True(t, decimal.Zero.Equal(s.TotalAmount()))

	amount := decimal.RequireFromString("10.00")
	tax := decimal.RequireFromString("0.80")
	s.Amount, s.TaxAmount = &amount, &tax
	assert.True(t, decimal.RequireFromString("10.80").Equal(s.TotalAmount()))
}

func TestCustomerAddPaymentMethod(t *testing.T) {
	customer := &Customer{}
	customer.Key = "1001"

	pm := customer.AddPaymentMethod("pm-1", testCard())
	assert.Equal(t, "1001", pm.CustomerKey)
	assert.Equal(t, "pm-1", pm.ID)

	schedule := pm.AddSchedule("s-1")
	assert.Equal(t, "1001", schedule.CustomerKey)
	assert.Equal(t, "s-1", schedule.ID)
}
