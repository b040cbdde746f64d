package payment

import (
	"context"

	"github.com/shopspring/decimal"

	"payments-sdk/models"
	"payments-sdk/validation"
)

var managementRules = func() *transactionRules {
	v := validation.New[models.TransactionType]()

	v.Of(models.Capture | models.Edit | models.Hold | models.Release).
		Check("transaction_id").IsNotNil()

	v.Of(models.Edit).
		WithConstraint("transaction_modifier", models.LevelII).
		Check("tax_type").IsNotNil()

	v.Of(models.Refund).
		When("amount").IsNotNil().
		Check("currency").IsNotNil()

	return v
}()

// ManagementBuilder follows up on a transaction already known to the gateway.
type ManagementBuilder struct {
	transactionBuilder

	amount                      *decimal.Decimal
	authAmount                  *decimal.Decimal
	currency                    string
	description                 string
	gratuity                    *decimal.Decimal
	payerAuthenticationResponse string
	poNumber                    string
	reasonCode                  models.ReasonCode
	taxAmount                   *decimal.Decimal
	taxType                     models.TaxType
}

func NewManagementBuilder(t models.TransactionType) *ManagementBuilder {
	return &ManagementBuilder{transactionBuilder: transactionBuilder{transactionType: t}}
}

func (b *ManagementBuilder) WithServices(c *Container) *ManagementBuilder {
	b.services = c
	return b
}

func (b *ManagementBuilder) WithPaymentMethod(pm PaymentMethod) *ManagementBuilder {
	b.paymentMethod = pm
	return b
}

func (b *ManagementBuilder) WithAmount(v decimal.Decimal) *ManagementBuilder {
	b.amount = decimalPtr(v)
	return b
}

func (b *ManagementBuilder) withOptionalAmount(v []decimal.Decimal) *ManagementBuilder {
	b.amount = optionalAmount(v)
	return b
}

func (b *ManagementBuilder) WithAuthAmount(v decimal.Decimal) *ManagementBuilder {
	b.authAmount = decimalPtr(v)
	return b
}

func (b *ManagementBuilder) WithCurrency(v string) *ManagementBuilder {
	b.currency = v
	return b
}

func (b *ManagementBuilder) WithDescription(v string) *ManagementBuilder {
	b.description = v
	return b
}

func (b *ManagementBuilder) WithGratuity(v decimal.Decimal) *ManagementBuilder {
	b.gratuity = decimalPtr(v)
	return b
}

func (b *ManagementBuilder) WithPayerAuthenticationResponse(v string) *ManagementBuilder {
	b.payerAuthenticationResponse = v
	return b
}

// WithPONumber, WithTaxAmount and WithTaxType make the request a Level II edit.
func (b *ManagementBuilder) WithPONumber(v string) *ManagementBuilder {
	b.transactionModifier = models.LevelII
	b.poNumber = v
	return b
}

func (b *ManagementBuilder) WithTaxAmount(v decimal.Decimal) *ManagementBuilder {
	b.transactionModifier = models.LevelII
	b.taxAmount = decimalPtr(v)
	return b
}

func (b *ManagementBuilder) WithTaxType(v models.TaxType) *ManagementBuilder {
	b.transactionModifier = models.LevelII
	b.taxType = v
	return b
}

func (b *ManagementBuilder) WithReasonCode(v models.ReasonCode) *ManagementBuilder {
	b.reasonCode = v
	return b
}

func (b *ManagementBuilder) Amount() *decimal.Decimal            { return b.amount }
func (b *ManagementBuilder) AuthAmount() *decimal.Decimal        { return b.authAmount }
func (b *ManagementBuilder) Currency() string                    { return b.currency }
func (b *ManagementBuilder) Description() string                 { return b.description }
func (b *ManagementBuilder) Gratuity() *decimal.Decimal          { return b.gratuity }
func (b *ManagementBuilder) PayerAuthenticationResponse() string { return b.payerAuthenticationResponse }
func (b *ManagementBuilder) PONumber() string                    { return b.poNumber }
func (b *ManagementBuilder) ReasonCode() models.ReasonCode       { return b.reasonCode }
func (b *ManagementBuilder) TaxAmount() *decimal.Decimal         { return b.taxAmount }
func (b *ManagementBuilder) TaxType() models.TaxType             { return b.taxType }

func (b *ManagementBuilder) transactionReference() *TransactionReference {
	ref, _ := b.paymentMethod.(*TransactionReference)
	return ref
}

// AuthorizationCode and the other reference accessors return "" when no
// transaction reference is attached.
func (b *ManagementBuilder) AuthorizationCode() string {
	if ref := b.transactionReference(); ref != nil {
		return ref.AuthCode
	}
	return ""
}

func (b *ManagementBuilder) ClientTransactionID() string {
	if ref := b.transactionReference(); ref != nil {
		return ref.ClientTransactionID
	}
	return ""
}

func (b *ManagementBuilder) OrderID() string {
	if ref := b.transactionReference(); ref != nil {
		return ref.OrderID
	}
	return ""
}

func (b *ManagementBuilder) TransactionID() string {
	if ref := b.transactionReference(); ref != nil {
		return ref.TransactionID
	}
	return ""
}

func (b *ManagementBuilder) Property(name string) interface{} {
	switch name {
	case "amount":
		return amountProperty(b.amount)
	case "authorization_code":
		return stringProperty(b.AuthorizationCode())
	case "client_transaction_id":
		return stringProperty(b.ClientTransactionID())
	case "currency":
		return stringProperty(b.currency)
	case "order_id":
		return stringProperty(b.OrderID())
	case "po_number":
		return stringProperty(b.poNumber)
	case "tax_amount":
		return amountProperty(b.taxAmount)
	case "tax_type":
		return stringProperty(string(b.taxType))
	case "transaction_id":
		return stringProperty(b.TransactionID())
	}
	return b.baseProperty(name)
}

func (b *ManagementBuilder) Validate() error {
	return managementRules.Validate(b)
}

func (b *ManagementBuilder) Execute(ctx context.Context, configName string) (*Transaction, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	client, err := b.gateway(configName)
	if err != nil {
		return nil, err
	}
	return client.ManageTransaction(ctx, b)
}
