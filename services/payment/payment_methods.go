package payment

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"payments-sdk/models"
)

// PaymentMethod is one of the payment method variants declared in this package.
type PaymentMethod interface {
	PaymentMethodType() models.PaymentMethodType
	isPaymentMethod()
}

// CardData is implemented by manually entered card variants.
type CardData interface {
	PaymentMethod
	Card() *ManualEntry
}

// TrackData is implemented by swiped or tapped variants.
type TrackData interface {
	PaymentMethod
	Track() *TrackEntry
}

// Tokenizable variants can request a multi-use token and be charged by token.
type Tokenizable interface {
	PaymentMethod
	TokenValue() string
}

type Encryptable interface {
	PaymentMethod
	Encryption() *models.EncryptionData
}

type PinProtected interface {
	PaymentMethod
	PINBlock() string
}

var cardTypes = []struct {
	name    string
	pattern *regexp.Regexp
}{
	{"Amex", regexp.MustCompile(`^3[47][0-9]{13}$`)},
	{"MC", regexp.MustCompile(`^5[1-5][0-9]{14}$`)},
	{"Visa", regexp.MustCompile(`^4[0-9]{12}(?:[0-9]{3})?$`)},
	{"DinersClub", regexp.MustCompile(`^3(?:0[0-5]|[68][0-9])[0-9]{11}$`)},
	{"EnRoute", regexp.MustCompile(`^(2014|2149)`)},
	{"Discover", regexp.MustCompile(`^6(?:011|5[0-9]{2})[0-9]{12}$`)},
	{"Jcb", regexp.MustCompile(`^(?:2131|1800|35\d{3})\d{11}$`)},
}

// ManualEntry is the keyed card data shared by credit and EBT cards.
type ManualEntry struct {
	number               string
	cvn                  string
	CardType             string
	CardHolderName       string
	CardPresent          bool
	ReaderPresent        bool
	CvnPresenceIndicator models.CvnPresenceIndicator
	ExpMonth             int
	ExpYear              int
}

func newManualEntry() ManualEntry {
	return ManualEntry{CardType: "Unknown", CvnPresenceIndicator: models.CvnNotRequested}
}

func (m *ManualEntry) Number() string { return m.number }
func (m *ManualEntry) CVN() string    { return m.cvn }

// SetNumber strips spaces and dashes and infers the card brand.
func (m *ManualEntry) SetNumber(number string) {
	m.number = strings.NewReplacer(" ", "", "-", "").Replace(number)
	for _, ct := range cardTypes {
		if ct.pattern.MatchString(m.number) {
			m.CardType = ct.name
			return
		}
	}
}

// SetCVN records the CVN and flags it present. Empty values are ignored.
func (m *ManualEntry) SetCVN(cvn string) {
	if cvn == "" {
		return
	}
	m.cvn = cvn
	m.CvnPresenceIndicator = models.CvnPresent
}

// ShortExpiry is the expiration date as MMYY.
func (m *ManualEntry) ShortExpiry() string {
	return fmt.Sprintf("%02d%02d", m.ExpMonth, m.ExpYear%100)
}

type TrackEntry struct {
	Value       string
	EntryMethod models.EntryMethod
}

func newTrackEntry() TrackEntry {
	return TrackEntry{EntryMethod: models.EntrySwipe}
}

type credit struct {
	EncryptionData *models.EncryptionData
	ThreeDSecure   *models.ThreeDSecure
	Token          string
}

func (c *credit) PaymentMethodType() models.PaymentMethodType { return models.PaymentCredit }
func (c *credit) TokenValue() string                          { return c.Token }
func (c *credit) Encryption() *models.EncryptionData          { return c.EncryptionData }
func (c *credit) isPaymentMethod()                            {}

// authorize and charge pick up currency, order id and a missing amount from 3-D Secure data.
func (c *credit) secureBuilder(t models.TransactionType, pm PaymentMethod, amount []decimal.Decimal) *AuthorizationBuilder {
	b := NewAuthorizationBuilder(t, pm)
	if amt := optionalAmount(amount); amt != nil {
		b.WithAmount(*amt)
	}
	if tds := c.ThreeDSecure; tds != nil {
		b.WithCurrency(tds.Currency).WithOrderID(tds.OrderID)
		if len(amount) == 0 && tds.Amount != nil {
			b.WithAmount(*tds.Amount)
		}
	}
	return b
}

type CreditCardData struct {
	ManualEntry
	credit
}

func NewCreditCardData() *CreditCardData {
	return &CreditCardData{ManualEntry: newManualEntry()}
}

func (c *CreditCardData) Card() *ManualEntry { return &c.ManualEntry }

func (c *CreditCardData) AddValue(amount ...decimal.Decimal) *AuthorizationBuilder {
	return amountBuilder(models.AddValue, c, amount)
}

func (c *CreditCardData) Authorize(amount ...decimal.Decimal) *AuthorizationBuilder {
	return c.secureBuilder(models.Auth, c, amount)
}

func (c *CreditCardData) Charge(amount ...decimal.Decimal) *AuthorizationBuilder {
	return c.secureBuilder(models.Sale, c, amount)
}

func (c *CreditCardData) BalanceInquiry(inquiry ...models.InquiryType) *AuthorizationBuilder {
	return balanceBuilder(c, inquiry)
}

func (c *CreditCardData) Refund(amount ...decimal.Decimal) *AuthorizationBuilder {
	return amountBuilder(models.Refund, c, amount)
}

func (c *CreditCardData) Reverse(amount ...decimal.Decimal) *AuthorizationBuilder {
	return amountBuilder(models.Reversal, c, amount)
}

func (c *CreditCardData) Verify() *AuthorizationBuilder {
	return NewAuthorizationBuilder(models.Verify, c)
}

// Tokenize verifies the card with the issuer and returns the multi-use token.
func (c *CreditCardData) Tokenize(ctx context.Context, configName string) (string, error) {
	return tokenize(ctx, c.Verify(), configName)
}

type CreditTrackData struct {
	TrackEntry
	credit
}

func NewCreditTrackData() *CreditTrackData {
	return &CreditTrackData{TrackEntry: newTrackEntry()}
}

func (c *CreditTrackData) Track() *TrackEntry { return &c.TrackEntry }

func (c *CreditTrackData) AddValue(amount ...decimal.Decimal) *AuthorizationBuilder {
	return amountBuilder(models.AddValue, c, amount)
}

func (c *CreditTrackData) Authorize(amount ...decimal.Decimal) *AuthorizationBuilder {
	return c.secureBuilder(models.Auth, c, amount)
}

func (c *CreditTrackData) Charge(amount ...decimal.Decimal) *AuthorizationBuilder {
	return c.secureBuilder(models.Sale, c, amount)
}

func (c *CreditTrackData) BalanceInquiry(inquiry ...models.InquiryType) *AuthorizationBuilder {
	return balanceBuilder(c, inquiry)
}

func (c *CreditTrackData) Refund(amount ...decimal.Decimal) *AuthorizationBuilder {
	return amountBuilder(models.Refund, c, amount)
}

func (c *CreditTrackData) Reverse(amount ...decimal.Decimal) *AuthorizationBuilder {
	return amountBuilder(models.Reversal, c, amount)
}

func (c *CreditTrackData) Verify() *AuthorizationBuilder {
	return NewAuthorizationBuilder(models.Verify, c)
}

func (c *CreditTrackData) Tokenize(ctx context.Context, configName string) (string, error) {
	return tokenize(ctx, c.Verify(), configName)
}

type DebitTrackData struct {
	TrackEntry
	EncryptionData *models.EncryptionData
	PinBlock       string
}

func NewDebitTrackData() *DebitTrackData {
	return &DebitTrackData{TrackEntry: newTrackEntry()}
}

func (d *DebitTrackData) PaymentMethodType() models.PaymentMethodType { return models.PaymentDebit }
func (d *DebitTrackData) Track() *TrackEntry                          { return &d.TrackEntry }
func (d *DebitTrackData) Encryption() *models.EncryptionData          { return d.EncryptionData }
func (d *DebitTrackData) PINBlock() string                            { return d.PinBlock }
func (d *DebitTrackData) isPaymentMethod()                            {}

func (d *DebitTrackData) AddValue(amount ...decimal.Decimal) *AuthorizationBuilder {
	return amountBuilder(models.AddValue, d, amount)
}

func (d *DebitTrackData) Charge(amount ...decimal.Decimal) *AuthorizationBuilder {
	return amountBuilder(models.Sale, d, amount)
}

func (d *DebitTrackData) Refund(amount ...decimal.Decimal) *AuthorizationBuilder {
	return amountBuilder(models.Refund, d, amount)
}

func (d *DebitTrackData) Reverse(amount ...decimal.Decimal) *AuthorizationBuilder {
	return amountBuilder(models.Reversal, d, amount)
}

type ebt struct {
	PinBlock string
}

func (e *ebt) PaymentMethodType() models.PaymentMethodType { return models.PaymentEBT }
func (e *ebt) PINBlock() string                            { return e.PinBlock }
func (e *ebt) isPaymentMethod()                            {}

func ebtBalance(pm PaymentMethod, inquiry []models.InquiryType) *AuthorizationBuilder {
	if len(inquiry) == 0 {
		inquiry = []models.InquiryType{models.InquiryFoodStamp}
	}
	return balanceBuilder(pm, inquiry).WithAmount(decimal.Zero)
}

// EBTCardData is keyed EBT card data. A serial number marks a voucher purchase.
type EBTCardData struct {
	ManualEntry
	ebt
	ApprovalCode string
	SerialNumber string
}

func NewEBTCardData() *EBTCardData {
	return &EBTCardData{ManualEntry: newManualEntry()}
}

func (e *EBTCardData) Card() *ManualEntry { return &e.ManualEntry }

func (e *EBTCardData) AddValue(amount ...decimal.Decimal) *AuthorizationBuilder {
	return amountBuilder(models.AddValue, e, amount)
}

func (e *EBTCardData) BalanceInquiry(inquiry ...models.InquiryType) *AuthorizationBuilder {
	return ebtBalance(e, inquiry)
}

func (e *EBTCardData) BenefitWithdrawal(amount ...decimal.Decimal) *AuthorizationBuilder {
	return amountBuilder(models.BenefitWithdrawal, e, amount)
}

func (e *EBTCardData) Charge(amount ...decimal.Decimal) *AuthorizationBuilder {
	return amountBuilder(models.Sale, e, amount)
}

func (e *EBTCardData) Refund(amount ...decimal.Decimal) *AuthorizationBuilder {
	return amountBuilder(models.Refund, e, amount)
}

type EBTTrackData struct {
	TrackEntry
	ebt
	EncryptionData *models.EncryptionData
}

func NewEBTTrackData() *EBTTrackData {
	return &EBTTrackData{TrackEntry: newTrackEntry()}
}

func (e *EBTTrackData) Track() *TrackEntry                 { return &e.TrackEntry }
func (e *EBTTrackData) Encryption() *models.EncryptionData { return e.EncryptionData }

func (e *EBTTrackData) AddValue(amount ...decimal.Decimal) *AuthorizationBuilder {
	return amountBuilder(models.AddValue, e, amount)
}

func (e *EBTTrackData) BalanceInquiry(inquiry ...models.InquiryType) *AuthorizationBuilder {
	return ebtBalance(e, inquiry)
}

func (e *EBTTrackData) BenefitWithdrawal(amount ...decimal.Decimal) *AuthorizationBuilder {
	return amountBuilder(models.BenefitWithdrawal, e, amount)
}

func (e *EBTTrackData) Charge(amount ...decimal.Decimal) *AuthorizationBuilder {
	return amountBuilder(models.Sale, e, amount)
}

func (e *EBTTrackData) Refund(amount ...decimal.Decimal) *AuthorizationBuilder {
	return amountBuilder(models.Refund, e, amount)
}

// ECheck is an ACH / eCheck account.
type ECheck struct {
	AccountNumber        string
	AccountType          models.AccountType
	AchVerify            bool
	BirthYear            string
	CheckHolderName      string
	CheckName            string
	CheckNumber          string
	CheckType            models.CheckType
	CheckVerify          bool
	DriversLicenseNumber string
	DriversLicenseState  string
	EntryMode            models.EntryMethod
	MicrNumber           string
	PhoneNumber          string
	RoutingNumber        string
	SecCode              models.SecCode
	SsnLast4             string
	Token                string
}

func (e *ECheck) PaymentMethodType() models.PaymentMethodType { return models.PaymentACH }
func (e *ECheck) isPaymentMethod()                            {}

func (e *ECheck) Charge(amount ...decimal.Decimal) *AuthorizationBuilder {
	return amountBuilder(models.Sale, e, amount)
}

// Gift card value element names.
const (
	GiftValueCardNumber = "CardNbr"
	GiftValueAlias      = "Alias"
	GiftValueToken      = "TokenValue"
	GiftValueTrackData  = "TrackData"
)

type GiftCard struct {
	Pin       string
	ValueType string
	Value     string
}

func (g *GiftCard) PaymentMethodType() models.PaymentMethodType { return models.PaymentGift }
func (g *GiftCard) isPaymentMethod()                            {}

func (g *GiftCard) SetNumber(number string) { g.Value, g.ValueType = number, GiftValueCardNumber }
func (g *GiftCard) SetAlias(alias string)   { g.Value, g.ValueType = alias, GiftValueAlias }
func (g *GiftCard) SetToken(token string)   { g.Value, g.ValueType = token, GiftValueToken }
func (g *GiftCard) SetTrackData(track string) {
	g.Value, g.ValueType = track, GiftValueTrackData
}

func (g *GiftCard) AddAlias(alias string) *AuthorizationBuilder {
	return NewAuthorizationBuilder(models.Alias, g).WithAlias(models.AliasAdd, alias)
}

func (g *GiftCard) RemoveAlias(alias string) *AuthorizationBuilder {
	return NewAuthorizationBuilder(models.Alias, g).WithAlias(models.AliasDelete, alias)
}

func (g *GiftCard) Activate(amount ...decimal.Decimal) *AuthorizationBuilder {
	return amountBuilder(models.Activate, g, amount)
}

func (g *GiftCard) AddValue(amount ...decimal.Decimal) *AuthorizationBuilder {
	return amountBuilder(models.AddValue, g, amount)
}

func (g *GiftCard) BalanceInquiry(inquiry ...models.InquiryType) *AuthorizationBuilder {
	return balanceBuilder(g, inquiry)
}

func (g *GiftCard) Charge(amount ...decimal.Decimal) *AuthorizationBuilder {
	return amountBuilder(models.Sale, g, amount)
}

func (g *GiftCard) Deactivate() *AuthorizationBuilder {
	return NewAuthorizationBuilder(models.Deactivate, g)
}

func (g *GiftCard) ReplaceWith(card *GiftCard) *AuthorizationBuilder {
	return NewAuthorizationBuilder(models.Replace, g).WithReplacementCard(card)
}

func (g *GiftCard) Reverse(amount ...decimal.Decimal) *AuthorizationBuilder {
	return amountBuilder(models.Reversal, g, amount)
}

func (g *GiftCard) Rewards(amount ...decimal.Decimal) *AuthorizationBuilder {
	return amountBuilder(models.Reward, g, amount)
}

// CreateGiftCard asks the gateway for a new gift card bound to alias.
func CreateGiftCard(ctx context.Context, alias, configName string) (*GiftCard, error) {
	resp, err := NewAuthorizationBuilder(models.Alias, &GiftCard{}).
		WithAlias(models.AliasCreate, alias).
		Execute(ctx, configName)
	if err != nil {
		return nil, models.NewApiError("Unable to create gift card alias", err)
	}
	if resp.ResponseCode != "00" {
		return nil, models.NewApiError(resp.ResponseMessage, nil)
	}
	return resp.GiftCard, nil
}

// TransactionReference addresses a transaction already on the gateway.
type TransactionReference struct {
	AuthCode            string
	ClientTransactionID string
	OrderID             string
	TransactionID       string
	Type                models.PaymentMethodType
}

func (r *TransactionReference) PaymentMethodType() models.PaymentMethodType { return r.Type }
func (r *TransactionReference) isPaymentMethod()                            {}

func optionalAmount(amount []decimal.Decimal) *decimal.Decimal {
	if len(amount) == 0 {
		return nil
	}
	a := amount[0]
	return &a
}

func amountBuilder(t models.TransactionType, pm PaymentMethod, amount []decimal.Decimal) *AuthorizationBuilder {
	b := NewAuthorizationBuilder(t, pm)
	if amt := optionalAmount(amount); amt != nil {
		b.WithAmount(*amt)
	}
	return b
}

func balanceBuilder(pm PaymentMethod, inquiry []models.InquiryType) *AuthorizationBuilder {
	b := NewAuthorizationBuilder(models.Balance, pm)
	if len(inquiry) > 0 {
		b.WithBalanceInquiryType(inquiry[0])
	}
	return b
}

func tokenize(ctx context.Context, verify *AuthorizationBuilder, configName string) (string, error) {
	resp, err := verify.WithRequestMultiUseToken(true).Execute(ctx, configName)
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}
