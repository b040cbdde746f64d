package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ECommerceInfo carries e-commerce data sent with an authorization.
type ECommerceInfo struct {
	Cavv              string
	Channel           ECommerceChannel
	Eci               string
	PaymentDataSource string
	PaymentDataType   string
	ShipDay           int
	ShipMonth         int
	Xid               string
}

// NewECommerceInfo defaults to the ECOM channel, 3DSecure data type and a ship
// date of tomorrow.
func NewECommerceInfo() *ECommerceInfo {
	tomorrow := time.Now().AddDate(0, 0, 1)
	return &ECommerceInfo{
		Channel:         ChannelECOM,
		PaymentDataType: "3DSecure",
		ShipDay:         tomorrow.Day(),
		ShipMonth:       int(tomorrow.Month()),
	}
}

// EncryptionData describes how a device encrypted track or card data.
type EncryptionData struct {
	Version     string
	TrackNumber string
	KSN         string
	KTB         string
}

func EncryptionVersion1() *EncryptionData {
	return &EncryptionData{Version: "01"}
}

func EncryptionVersion2(ktb, trackNumber string) *EncryptionData {
	return &EncryptionData{Version: "02", KTB: ktb, TrackNumber: trackNumber}
}

type ThreeDSecure struct {
	Enrolled                    string
	PayerAuthenticationResponse string
	IssuerAcsURL                string
	Status                      string
	Eci                         string
	Xid                         string
	Cavv                        string
	Algorithm                   string
	PaymentDataSource           string
	PaymentDataType             string

	Amount   *decimal.Decimal
	Currency string
	OrderID  string
}

// HostedPaymentData supplements a hosted payment page request.
type HostedPaymentData struct {
	CustomerExists    *bool
	CustomerKey       string
	CustomerNumber    string
	OfferToSaveCard   *bool
	PaymentKey        string
	ProductID         string
	SupplementaryData map[string]string
}

type BatchSummary struct {
	ID               string
	TransactionCount int
	TotalAmount      *decimal.Decimal
	SequenceNumber   string
}

type DebitMac struct {
	TransactionCode           string
	TransmissionNumber        string
	BankResponseCode          string
	MacKey                    string
	PinKey                    string
	FieldKey                  string
	TraceNumber               string
	MessageAuthenticationCode string
}

// TransactionSummary is one row of a transaction report.
type TransactionSummary struct {
	Amount                 *decimal.Decimal
	ConvenienceAmount      *decimal.Decimal
	ShippingAmount         *decimal.Decimal
	AuthCode               string
	AuthorizedAmount       *decimal.Decimal
	ClientTransactionID    string
	DeviceID               string
	IssuerResponseCode     string
	IssuerResponseMessage  string
	MaskedCardNumber       string
	OriginalTransactionID  string
	GatewayResponseCode    string
	GatewayResponseMessage string
	ReferenceNumber        string
	ServiceName            string
	SettlementAmount       *decimal.Decimal
	Status                 string
	TransactionDate        *time.Time
	TransactionID          string
}
