package payment

import (
	"github.com/shopspring/decimal"

	"payments-sdk/models"
)

// Transaction is the normalized gateway response to an authorization or a
// management request.
type Transaction struct {
	AuthorizedAmount      *decimal.Decimal
	AvailableBalance      *decimal.Decimal
	AvsResponseCode       string
	AvsResponseMessage    string
	BalanceAmount         *decimal.Decimal
	BatchSummary          *models.BatchSummary
	CardType              string
	CardLast4             string
	CavvResponseCode      string
	CommercialIndicator   string
	CvnResponseCode       string
	CvnResponseMessage    string
	DebitMac              *models.DebitMac
	EmvIssuerResponse     string
	GiftCard              *GiftCard
	PointsBalanceAmount   *decimal.Decimal
	RecurringDataCode     string
	ReferenceNumber       string
	ResponseCode          string
	ResponseMessage       string
	ResponseValues        map[string]string
	ThreeDSecure          *models.ThreeDSecure
	Timestamp             string
	Token                 string
	TransactionDescriptor string
	TransactionReference  *TransactionReference
}

// TransactionFromID rebuilds a transaction from a stored id so follow-up
// requests can be made against it later.
func TransactionFromID(transactionID string, pmType models.PaymentMethodType, orderID string) *Transaction {
	return &Transaction{TransactionReference: &TransactionReference{
		TransactionID: transactionID,
		Type:          pmType,
		OrderID:       orderID,
	}}
}

func (t *Transaction) reference() *TransactionReference {
	if t.TransactionReference == nil {
		t.TransactionReference = &TransactionReference{}
	}
	return t.TransactionReference
}

func (t *Transaction) AuthorizationCode() string {
	if t.TransactionReference == nil {
		return ""
	}
	return t.TransactionReference.AuthCode
}

func (t *Transaction) ClientTransactionID() string {
	if t.TransactionReference == nil {
		return ""
	}
	return t.TransactionReference.ClientTransactionID
}

func (t *Transaction) OrderID() string {
	if t.TransactionReference == nil {
		return ""
	}
	return t.TransactionReference.OrderID
}

func (t *Transaction) PaymentMethodType() models.PaymentMethodType {
	if t.TransactionReference == nil {
		return models.PaymentReference
	}
	return t.TransactionReference.Type
}

func (t *Transaction) TransactionID() string {
	if t.TransactionReference == nil {
		return ""
	}
	return t.TransactionReference.TransactionID
}

func (t *Transaction) SetAuthorizationCode(v string)   { t.reference().AuthCode = v }
func (t *Transaction) SetClientTransactionID(v string) { t.reference().ClientTransactionID = v }
func (t *Transaction) SetOrderID(v string)             { t.reference().OrderID = v }
func (t *Transaction) SetTransactionID(v string)       { t.reference().TransactionID = v }

func (t *Transaction) SetPaymentMethodType(v models.PaymentMethodType) {
	t.reference().Type = v
}

func (t *Transaction) follow(tt models.TransactionType) *ManagementBuilder {
	return NewManagementBuilder(tt).WithPaymentMethod(t.reference())
}

// AdditionalAuth authorizes more against the original transaction.
func (t *Transaction) AdditionalAuth(amount ...decimal.Decimal) *ManagementBuilder {
	b := t.follow(models.Auth).withOptionalAmount(amount)
	b.transactionModifier = models.Additional
	return b
}

func (t *Transaction) Capture(amount ...decimal.Decimal) *ManagementBuilder {
	return t.follow(models.Capture).withOptionalAmount(amount)
}

func (t *Transaction) Edit() *ManagementBuilder {
	return t.follow(models.Edit)
}

func (t *Transaction) Hold() *ManagementBuilder {
	return t.follow(models.Hold)
}

func (t *Transaction) Refund(amount ...decimal.Decimal) *ManagementBuilder {
	return t.follow(models.Refund).withOptionalAmount(amount)
}

func (t *Transaction) Release() *ManagementBuilder {
	return t.follow(models.Release)
}

// Reverse takes the original authorization amount.
func (t *Transaction) Reverse(amount ...decimal.Decimal) *ManagementBuilder {
	return t.follow(models.Reversal).withOptionalAmount(amount)
}

func (t *Transaction) Void() *ManagementBuilder {
	return t.follow(models.Void)
}
