package payment

import (
	"context"

	"github.com/shopspring/decimal"

	"payments-sdk/models"
	"payments-sdk/validation"
)

var authorizationRules = func() *transactionRules {
	v := validation.New[models.TransactionType]()

	v.Of(models.Auth | models.Sale | models.Refund | models.AddValue).
		Check("amount").IsNotNil().
		Check("currency").IsNotNil().
		Check("payment_method").IsNotNil()

	v.Of(models.Auth|models.Sale|models.Verify).
		WithConstraint("transaction_modifier", models.HostedRequest).
		Check("amount").IsNotNil().
		Check("currency").IsNotNil()

	v.Of(models.Auth|models.Sale).
		WithConstraint("transaction_modifier", models.Offline).
		Check("amount").IsNotNil().
		Check("currency").IsNotNil().
		Check("offline_auth_code").IsNotNil()

	v.Of(models.BenefitWithdrawal).
		WithConstraint("transaction_modifier", models.CashBack).
		Check("amount").IsNotNil().
		Check("currency").IsNotNil().
		Check("payment_method").IsNotNil()

	v.Of(models.Balance).Check("payment_method").IsNotNil()

	v.Of(models.Alias).
		Check("alias_action").IsNotNil().
		Check("alias").IsNotNil()

	v.Of(models.Replace).Check("replacement_card").IsNotNil()

	// Registered under an empty mask, so it only ever matches a Decline builder.
	v.Of(0).
		WithConstraint("payment_method", models.PaymentACH).
		Check("billing_address").IsNotNil()

	return v
}()

// AuthorizationBuilder creates charges, authorizations, verifies, refunds and
// the stored value operations of every payment method.
type AuthorizationBuilder struct {
	transactionBuilder

	accountType               models.AccountType
	alias                     string
	aliasAction               models.AliasAction
	allowDuplicates           bool
	allowPartialAuth          bool
	amount                    *decimal.Decimal
	authAmount                *decimal.Decimal
	balanceInquiryType        models.InquiryType
	billingAddress            *models.Address
	cashBackAmount            *decimal.Decimal
	chipCondition             models.EmvChipCondition
	clientTransactionID       string
	convenienceAmount         *decimal.Decimal
	currency                  string
	customerID                string
	customerIPAddress         string
	cvn                       string
	description               string
	dynamicDescriptor         string
	ecommerceInfo             *models.ECommerceInfo
	gratuity                  *decimal.Decimal
	hostedPaymentData         *models.HostedPaymentData
	invoiceNumber             string
	level2Request             *bool
	messageAuthenticationCode string
	offlineAuthCode           string
	oneTimePayment            bool
	orderID                   string
	posSequenceNumber         string
	productID                 string
	recurringSequence         models.RecurringSequence
	recurringType             models.RecurringType
	replacementCard           *GiftCard
	requestMultiUseToken      bool
	scheduleID                string
	shippingAddress           *models.Address
	shippingAmount            *decimal.Decimal
	timestamp                 string
}

func NewAuthorizationBuilder(t models.TransactionType, pm PaymentMethod) *AuthorizationBuilder {
	b := &AuthorizationBuilder{transactionBuilder: transactionBuilder{transactionType: t}}
	if pm != nil {
		b.WithPaymentMethod(pm)
	}
	return b
}

// WithServices executes against c instead of the process-wide container.
func (b *AuthorizationBuilder) WithServices(c *Container) *AuthorizationBuilder {
	b.services = c
	return b
}

func (b *AuthorizationBuilder) WithAccountType(v models.AccountType) *AuthorizationBuilder {
	b.accountType = v
	return b
}

// WithAddress attaches a billing address unless addressType says shipping.
func (b *AuthorizationBuilder) WithAddress(address *models.Address, addressType ...models.AddressType) *AuthorizationBuilder {
	t := models.BillingAddress
	if len(addressType) > 0 {
		t = addressType[0]
	}
	if address == nil {
		return b
	}
	address.Type = t
	if t == models.BillingAddress {
		b.billingAddress = address
	} else {
		b.shippingAddress = address
	}
	return b
}

func (b *AuthorizationBuilder) WithAlias(action models.AliasAction, value string) *AuthorizationBuilder {
	b.aliasAction = action
	b.alias = value
	return b
}

func (b *AuthorizationBuilder) WithAllowDuplicates(v bool) *AuthorizationBuilder {
	b.allowDuplicates = v
	return b
}

func (b *AuthorizationBuilder) WithAllowPartialAuth(v bool) *AuthorizationBuilder {
	b.allowPartialAuth = v
	return b
}

func (b *AuthorizationBuilder) WithAmount(v decimal.Decimal) *AuthorizationBuilder {
	b.amount = decimalPtr(v)
	return b
}

func (b *AuthorizationBuilder) WithAuthAmount(v decimal.Decimal) *AuthorizationBuilder {
	b.authAmount = decimalPtr(v)
	return b
}

func (b *AuthorizationBuilder) WithBalanceInquiryType(v models.InquiryType) *AuthorizationBuilder {
	b.balanceInquiryType = v
	return b
}

// WithCashBack also marks the request as a cash back transaction.
func (b *AuthorizationBuilder) WithCashBack(v decimal.Decimal) *AuthorizationBuilder {
	b.cashBackAmount = decimalPtr(v)
	b.transactionModifier = models.CashBack
	return b
}

func (b *AuthorizationBuilder) WithChipCondition(v models.EmvChipCondition) *AuthorizationBuilder {
	b.chipCondition = v
	return b
}

// WithClientTransactionID stores the id on the referenced transaction for
// reversals and refunds.
func (b *AuthorizationBuilder) WithClientTransactionID(v string) *AuthorizationBuilder {
	if b.transactionType == models.Reversal || b.transactionType == models.Refund {
		b.reference().ClientTransactionID = v
		return b
	}
	b.clientTransactionID = v
	return b
}

// WithCommercialRequest requests Level II commercial card data.
func (b *AuthorizationBuilder) WithCommercialRequest(v bool) *AuthorizationBuilder {
	b.level2Request = &v
	b.transactionModifier = models.LevelII
	return b
}

func (b *AuthorizationBuilder) WithConvenienceAmount(v decimal.Decimal) *AuthorizationBuilder {
	b.convenienceAmount = decimalPtr(v)
	return b
}

func (b *AuthorizationBuilder) WithCurrency(v string) *AuthorizationBuilder {
	b.currency = v
	return b
}

func (b *AuthorizationBuilder) WithCustomerID(v string) *AuthorizationBuilder {
	b.customerID = v
	return b
}

func (b *AuthorizationBuilder) WithCustomerIPAddress(v string) *AuthorizationBuilder {
	b.customerIPAddress = v
	return b
}

func (b *AuthorizationBuilder) WithCVN(v string) *AuthorizationBuilder {
	b.cvn = v
	return b
}

func (b *AuthorizationBuilder) WithDescription(v string) *AuthorizationBuilder {
	b.description = v
	return b
}

func (b *AuthorizationBuilder) WithDynamicDescriptor(v string) *AuthorizationBuilder {
	b.dynamicDescriptor = v
	return b
}

func (b *AuthorizationBuilder) WithECommerceInfo(v *models.ECommerceInfo) *AuthorizationBuilder {
	b.ecommerceInfo = v
	return b
}

func (b *AuthorizationBuilder) WithGratuity(v decimal.Decimal) *AuthorizationBuilder {
	b.gratuity = decimalPtr(v)
	return b
}

// WithHostedPaymentData is only accepted by gateways that support hosted
// payments; the check happens when the builder is executed or serialized.
func (b *AuthorizationBuilder) WithHostedPaymentData(v *models.HostedPaymentData) *AuthorizationBuilder {
	b.hostedPaymentData = v
	return b
}

func (b *AuthorizationBuilder) WithInvoiceNumber(v string) *AuthorizationBuilder {
	b.invoiceNumber = v
	return b
}

func (b *AuthorizationBuilder) WithMessageAuthenticationCode(v string) *AuthorizationBuilder {
	b.messageAuthenticationCode = v
	return b
}

// WithOfflineAuthCode turns the request into an offline authorization.
func (b *AuthorizationBuilder) WithOfflineAuthCode(v string) *AuthorizationBuilder {
	b.offlineAuthCode = v
	b.transactionModifier = models.Offline
	return b
}

func (b *AuthorizationBuilder) WithOneTimePayment(v bool) *AuthorizationBuilder {
	b.oneTimePayment = v
	b.transactionModifier = models.Recurring
	return b
}

func (b *AuthorizationBuilder) WithOrderID(v string) *AuthorizationBuilder {
	b.orderID = v
	return b
}

// WithPaymentMethod attaches pm. EBT card data carrying a serial number is a
// voucher purchase.
func (b *AuthorizationBuilder) WithPaymentMethod(pm PaymentMethod) *AuthorizationBuilder {
	b.paymentMethod = pm
	if card, ok := pm.(*EBTCardData); ok && card != nil && card.SerialNumber != "" {
		b.transactionModifier = models.Voucher
	}
	return b
}

func (b *AuthorizationBuilder) WithPosSequenceNumber(v string) *AuthorizationBuilder {
	b.posSequenceNumber = v
	return b
}

func (b *AuthorizationBuilder) WithProductID(v string) *AuthorizationBuilder {
	b.productID = v
	return b
}

func (b *AuthorizationBuilder) WithRecurringInfo(t models.RecurringType, seq models.RecurringSequence) *AuthorizationBuilder {
	b.recurringType = t
	b.recurringSequence = seq
	return b
}

func (b *AuthorizationBuilder) WithReplacementCard(card *GiftCard) *AuthorizationBuilder {
	b.replacementCard = card
	return b
}

func (b *AuthorizationBuilder) WithRequestMultiUseToken(v bool) *AuthorizationBuilder {
	b.requestMultiUseToken = v
	return b
}

func (b *AuthorizationBuilder) WithScheduleID(v string) *AuthorizationBuilder {
	b.scheduleID = v
	return b
}

func (b *AuthorizationBuilder) WithShippingAmount(v decimal.Decimal) *AuthorizationBuilder {
	b.shippingAmount = decimalPtr(v)
	return b
}

func (b *AuthorizationBuilder) WithTimestamp(v string) *AuthorizationBuilder {
	b.timestamp = v
	return b
}

// WithTransactionID addresses an existing transaction.
func (b *AuthorizationBuilder) WithTransactionID(v string) *AuthorizationBuilder {
	b.reference().TransactionID = v
	return b
}

// WithVoucher marks an EBT purchase as a voucher without relying on the
// card's serial number.
func (b *AuthorizationBuilder) WithVoucher() *AuthorizationBuilder {
	b.transactionModifier = models.Voucher
	return b
}

func (b *AuthorizationBuilder) AccountType() models.AccountType              { return b.accountType }
func (b *AuthorizationBuilder) Alias() string                                { return b.alias }
func (b *AuthorizationBuilder) AliasAction() models.AliasAction              { return b.aliasAction }
func (b *AuthorizationBuilder) AllowDuplicates() bool                        { return b.allowDuplicates }
func (b *AuthorizationBuilder) AllowPartialAuth() bool                       { return b.allowPartialAuth }
func (b *AuthorizationBuilder) Amount() *decimal.Decimal                     { return b.amount }
func (b *AuthorizationBuilder) AuthAmount() *decimal.Decimal                 { return b.authAmount }
func (b *AuthorizationBuilder) BalanceInquiryType() models.InquiryType       { return b.balanceInquiryType }
func (b *AuthorizationBuilder) BillingAddress() *models.Address              { return b.billingAddress }
func (b *AuthorizationBuilder) CashBackAmount() *decimal.Decimal             { return b.cashBackAmount }
func (b *AuthorizationBuilder) ChipCondition() models.EmvChipCondition       { return b.chipCondition }
func (b *AuthorizationBuilder) ClientTransactionID() string                  { return b.clientTransactionID }
func (b *AuthorizationBuilder) ConvenienceAmount() *decimal.Decimal          { return b.convenienceAmount }
func (b *AuthorizationBuilder) Currency() string                             { return b.currency }
func (b *AuthorizationBuilder) CustomerID() string                           { return b.customerID }
func (b *AuthorizationBuilder) CustomerIPAddress() string                    { return b.customerIPAddress }
func (b *AuthorizationBuilder) CVN() string                                  { return b.cvn }
func (b *AuthorizationBuilder) Description() string                          { return b.description }
func (b *AuthorizationBuilder) DynamicDescriptor() string                    { return b.dynamicDescriptor }
func (b *AuthorizationBuilder) ECommerceInfo() *models.ECommerceInfo         { return b.ecommerceInfo }
func (b *AuthorizationBuilder) Gratuity() *decimal.Decimal                   { return b.gratuity }
func (b *AuthorizationBuilder) HostedPaymentData() *models.HostedPaymentData { return b.hostedPaymentData }
func (b *AuthorizationBuilder) InvoiceNumber() string                        { return b.invoiceNumber }
func (b *AuthorizationBuilder) Level2Request() *bool                         { return b.level2Request }
func (b *AuthorizationBuilder) MessageAuthenticationCode() string            { return b.messageAuthenticationCode }
func (b *AuthorizationBuilder) OfflineAuthCode() string                      { return b.offlineAuthCode }
func (b *AuthorizationBuilder) OneTimePayment() bool                         { return b.oneTimePayment }
func (b *AuthorizationBuilder) OrderID() string                              { return b.orderID }
func (b *AuthorizationBuilder) PosSequenceNumber() string                    { return b.posSequenceNumber }
func (b *AuthorizationBuilder) ProductID() string                            { return b.productID }
func (b *AuthorizationBuilder) RecurringSequence() models.RecurringSequence  { return b.recurringSequence }
func (b *AuthorizationBuilder) RecurringType() models.RecurringType          { return b.recurringType }
func (b *AuthorizationBuilder) ReplacementCard() *GiftCard                   { return b.replacementCard }
func (b *AuthorizationBuilder) RequestMultiUseToken() bool                   { return b.requestMultiUseToken }
func (b *AuthorizationBuilder) ScheduleID() string                           { return b.scheduleID }
func (b *AuthorizationBuilder) ShippingAddress() *models.Address             { return b.shippingAddress }
func (b *AuthorizationBuilder) ShippingAmount() *decimal.Decimal             { return b.shippingAmount }
func (b *AuthorizationBuilder) Timestamp() string                            { return b.timestamp }

// Property exposes fields to validation rules by name. Unset values are nil.
func (b *AuthorizationBuilder) Property(name string) interface{} {
	switch name {
	case "alias":
		return stringProperty(b.alias)
	case "alias_action":
		return stringProperty(string(b.aliasAction))
	case "amount":
		return amountProperty(b.amount)
	case "billing_address":
		if b.billingAddress == nil {
			return nil
		}
		return b.billingAddress
	case "cash_back_amount":
		return amountProperty(b.cashBackAmount)
	case "currency":
		return stringProperty(b.currency)
	case "offline_auth_code":
		return stringProperty(b.offlineAuthCode)
	case "order_id":
		return stringProperty(b.orderID)
	case "replacement_card":
		if b.replacementCard == nil {
			return nil
		}
		return b.replacementCard
	case "shipping_address":
		if b.shippingAddress == nil {
			return nil
		}
		return b.shippingAddress
	}
	return b.baseProperty(name)
}

// Validate runs the authorization rules without contacting a gateway.
func (b *AuthorizationBuilder) Validate() error {
	return authorizationRules.Validate(b)
}

// Execute validates the builder and sends it through the gateway registered
// as configName ("" selects "default").
func (b *AuthorizationBuilder) Execute(ctx context.Context, configName string) (*Transaction, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	client, err := b.gateway(configName)
	if err != nil {
		return nil, err
	}
	if b.hostedPaymentData != nil && !client.SupportsHostedPayments() {
		return nil, models.NewBuilderError("Your current gateway does not support hosted payments.")
	}
	return client.ProcessAuthorization(ctx, b)
}

// Serialize builds a hosted payment page request instead of sending it.
func (b *AuthorizationBuilder) Serialize(configName string) (string, error) {
	b.transactionModifier = models.HostedRequest
	if err := b.Validate(); err != nil {
		return "", err
	}
	client, err := b.gateway(configName)
	if err != nil {
		return "", err
	}
	if !client.SupportsHostedPayments() {
		return "", models.NewBuilderError("Your current gateway does not support hosted payments.")
	}
	return client.SerializeRequest(b)
}
