package payment

import (
	"fmt"

	"github.com/shopspring/decimal"

	"payments-sdk/models"
	"payments-sdk/validation"
)

type transactionRules = validation.Validations[models.TransactionType]

// transactionBuilder holds what every transaction builder carries. The type is
// fixed at construction; the modifier is stamped by setters with side effects.
type transactionBuilder struct {
	transactionType     models.TransactionType
	transactionModifier models.TransactionModifier
	paymentMethod       PaymentMethod
	services            *Container
}

func (b *transactionBuilder) TransactionType() models.TransactionType { return b.transactionType }

func (b *transactionBuilder) TransactionModifier() models.TransactionModifier {
	return b.transactionModifier
}

func (b *transactionBuilder) PaymentMethod() PaymentMethod { return b.paymentMethod }

func (b *transactionBuilder) ValidationKey() models.TransactionType { return b.transactionType }

func (b *transactionBuilder) container() (*Container, error) {
	return resolve(b.services)
}

func (b *transactionBuilder) baseProperty(name string) interface{} {
	switch name {
	case "transaction_type":
		return b.transactionType
	case "transaction_modifier":
		return b.transactionModifier
	case "payment_method":
		if b.paymentMethod == nil {
			return nil
		}
		return b.paymentMethod
	}
	return nil
}

// reference returns the attached TransactionReference, replacing any other
// payment method with an empty one.
func (b *transactionBuilder) reference() *TransactionReference {
	ref, ok := b.paymentMethod.(*TransactionReference)
	if !ok || ref == nil {
		ref = &TransactionReference{}
		b.paymentMethod = ref
	}
	return ref
}

func (b *transactionBuilder) gateway(configName string) (Gateway, error) {
	c, err := b.container()
	if err != nil {
		return nil, err
	}
	name := configNameOrDefault(configName)
	client := c.Client(name)
	if client == nil {
		return nil, models.NewConfigurationError(fmt.Sprintf("No gateway configured for %q.", name))
	}
	return client, nil
}

func stringProperty(v string) interface{} {
	if v == "" {
		return nil
	}
	return v
}

func amountProperty(v *decimal.Decimal) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func decimalPtr(v decimal.Decimal) *decimal.Decimal {
	return &v
}
