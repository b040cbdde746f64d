package payment

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payments-sdk/models"
)

func testCard() *CreditCardData {
	card := NewCreditCardData()
	card.SetNumber("4111111111111111")
	card.SetCVN("123")
	card.ExpMonth = 12
	card.ExpYear = 2025
	return card
}

func requireBuilderError(t *testing.T, err error, message string) {
	t.Helper()
	var builderErr *models.BuilderError
	require.ErrorAs(t, err, &builderErr)
	assert.Equal(t, message, builderErr.Message)
}

func TestAuthorizationRules(t *testing.T) {
	amount := decimal.RequireFromString("10")

	tests := []struct {
		name    string
		builder *AuthorizationBuilder
		message string
	}{
		{
			name:    "sale without currency",
			builder: testCard().Charge(amount),
			message: "property `currency` is nil",
		},
		{
			name:    "sale without amount",
			builder: testCard().Charge().WithCurrency("USD"),
			message: "property `amount` is nil",
		},
		{
			name:    "refund without payment method",
			builder: NewAuthorizationBuilder(models.Refund, nil).WithAmount(amount).WithCurrency("USD"),
			message: "property `payment_method` is nil",
		},
		{
			name:    "balance without payment method",
			builder: NewAuthorizationBuilder(models.Balance, nil),
			message: "property `payment_method` is nil",
		},
		{
			name:    "alias without value",
			builder: NewAuthorizationBuilder(models.Alias, &GiftCard{}).WithAlias(models.AliasAdd, ""),
			message: "property `alias` is nil",
		},
		{
			name:    "alias without action",
			builder: NewAuthorizationBuilder(models.Alias, &GiftCard{}).WithAlias("", "555-1234"),
			message: "property `alias_action` is nil",
		},
		{
			name:    "replace without card",
			builder: (&GiftCard{}).ReplaceWith(nil),
			message: "property `replacement_card` is nil",
		},
		{
			name:    "cash back without currency",
			builder: NewEBTCardData().BenefitWithdrawal(amount).WithCashBack(amount),
			message: "property `currency` is nil",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireBuilderError(t, tt.builder.Validate(), tt.message)
		})
	}
}

func TestOfflineSaleRequiresAuthCode(t *testing.T) {
	b := testCard().Charge(decimal.RequireFromString("10")).WithCurrency("USD")
	b.transactionModifier = models.Offline
	requireBuilderError(t, b.Validate(), "property `offline_auth_code` is nil")

	b.WithOfflineAuthCode("12345")
	assert.NoError(t, b.Validate())
}

func TestHostedVerifyRequiresAmountAndCurrency(t *testing.T) {
	b := testCard().Verify()
	assert.NoError(t, b.Validate())

	b.transactionModifier = models.HostedRequest
	requireBuilderError(t, b.Validate(), "property `amount` is nil")

	b.WithAmount(decimal.RequireFromString("1")).WithCurrency("EUR")
	assert.NoError(t, b.Validate())
}

func TestCheckSaleWithoutAddressIsAccepted(t *testing.T) {
	check := &ECheck{AccountNumber: "24413815", RoutingNumber: "490000018"}
	b := check.Charge(decimal.RequireFromString("11")).WithCurrency("USD")
	assert.NoError(t, b.Validate())
}

func TestBuilderModifiers(t *testing.T) {
	card := testCard()

	assert.Equal(t, models.CashBack, NewEBTCardData().BenefitWithdrawal().WithCashBack(decimal.NewFromInt(5)).TransactionModifier())
	assert.Equal(t, models.LevelII, card.Charge().WithCommercialRequest(true).TransactionModifier())
	assert.Equal(t, models.Offline, card.Charge().WithOfflineAuthCode("123").TransactionModifier())
	assert.Equal(t, models.Voucher, card.Charge().WithVoucher().TransactionModifier())
	assert.Equal(t, models.NoModifier, card.Charge().TransactionModifier())
}

func TestWithAddressSelectsSlot(t *testing.T) {
	billing := &models.Address{PostalCode: "12345"}
	shipping := &models.Address{PostalCode: "67890"}

	b := testCard().Charge().
		WithAddress(billing).
		WithAddress(shipping, models.ShippingAddress)

	assert.Same(t, billing, b.BillingAddress())
	assert.Equal(t, models.BillingAddress, billing.Type)
	assert.Same(t, shipping, b.ShippingAddress())
	assert.Equal(t, models.ShippingAddress, shipping.Type)
}

func TestClientTransactionIDOnRefundTargetsReference(t *testing.T) {
	b := NewAuthorizationBuilder(models.Refund, nil).WithClientTransactionID("client-1")

	ref, ok := b.PaymentMethod().(*TransactionReference)
	require.True(t, ok)
	assert.Equal(t, "client-1", ref.ClientTransactionID)
	assert.Empty(t, b.ClientTransactionID())

	sale := testCard().Charge().WithClientTransactionID("client-2")
	assert.Equal(t, "client-2", sale.ClientTransactionID())
}

func TestThreeDSecureFillsAuthorization(t *testing.T) {
	card := testCard()
	amount := decimal.RequireFromString("25.50")
	card.ThreeDSecure = &models.ThreeDSecure{Amount: &amount, Currency: "EUR", OrderID: "order-3ds"}

	b := card.Authorize()
	require.NotNil(t, b.Amount())
	assert.True(t, amount.Equal(*b.Amount()))
	assert.Equal(t, "EUR", b.Currency())
	assert.Equal(t, "order-3ds", b.OrderID())

	explicit := card.Charge(decimal.NewFromInt(3))
	assert.True(t, decimal.NewFromInt(3).Equal(*explicit.Amount()))
}
