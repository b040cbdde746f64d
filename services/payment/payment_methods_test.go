package payment

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"payments-sdk/models"
)

func TestSetNumberInfersCardType(t *testing.T) {
	tests := []struct {
		number   string
		cardType string
	}{
		{"4111111111111111", "Visa"},
		{"4111 1111 1111 1111", "Visa"},
		{"5473-5000-0000-0014", "MC"},
		{"372700699251018", "Amex"},
		{"6011000990156527", "Discover"},
		{"36256000000725", "DinersClub"},
		{"3566007770007321", "Jcb"},
		{"1234", "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.number, func(t *testing.T) {
			card := NewCreditCardData()
			card.SetNumber(tt.number)
			assert.Equal(t, tt.cardType, card.CardType)
		})
	}
}

func TestSetNumberStripsSeparators(t *testing.T) {
	card := NewCreditCardData()
	card.SetNumber("4111 1111-1111 1111")
	assert.Equal(t, "4111111111111111", card.Number())
}

func TestSetCVNMarksPresence(t *testing.T) {
	card := NewCreditCardData()
	assert.Equal(t, models.CvnNotRequested, card.CvnPresenceIndicator)

	card.SetCVN("")
	assert.Equal(t, models.CvnNotRequested, card.CvnPresenceIndicator)

	card.SetCVN("123")
	assert.Equal(t, "123", card.CVN())
	assert.Equal(t, models.CvnPresent, card.CvnPresenceIndicator)
}

func TestShortExpiry(t *testing.T) {
	card := NewCreditCardData()
	card.ExpMonth = 3
	card.ExpYear = 2027
	assert.Equal(t, "0327", card.ShortExpiry())

	card.ExpYear = 9
	assert.Equal(t, "0309", card.ShortExpiry())
}

func TestTrackDataDefaultsToSwipe(t *testing.T) {
	assert.Equal(t, models.EntrySwipe, NewCreditTrackData().EntryMethod)
	assert.Equal(t, models.EntrySwipe, NewDebitTrackData().EntryMethod)
	assert.Equal(t, models.EntrySwipe, NewEBTTrackData().EntryMethod)
}

func TestGiftCardValueTypes(t *testing.T) {
	gift := &GiftCard{}

	gift.SetNumber("5022440000000000098")
	assert.Equal(t, GiftValueCardNumber, gift.ValueType)

	gift.SetAlias("9725550100")
	assert.Equal(t, GiftValueAlias, gift.ValueType)
	assert.Equal(t, "9725550100", gift.Value)

	gift.SetToken("token")
	assert.Equal(t, GiftValueToken, gift.ValueType)

	gift.SetTrackData("%B5022440000000000098^^391200081613?")
	assert.Equal(t, GiftValueTrackData, gift.ValueType)
}

func TestGiftCardOperations(t *testing.T) {
	gift := &GiftCard{}
	replacement := &GiftCard{}

	assert.Equal(t, models.Activate, gift.Activate().TransactionType())
	assert.Equal(t, models.Deactivate, gift.Deactivate().TransactionType())
	assert.Equal(t, models.Reward, gift.Rewards(decimal.NewFromInt(1)).TransactionType())

	add := gift.AddAlias("2145550199")
	assert.Equal(t, models.Alias, add.TransactionType())
	assert.Equal(t, models.AliasAdd, add.AliasAction())
	assert.Equal(t, "2145550199", add.Alias())

	assert.Equal(t, models.AliasDelete, gift.RemoveAlias("2145550199").AliasAction())
	assert.Same(t, replacement, gift.ReplaceWith(replacement).ReplacementCard())
}

func TestBalanceInquiryType(t *testing.T) {
	assert.Equal(t, models.InquiryType(""), (&GiftCard{}).BalanceInquiry().BalanceInquiryType())
	assert.Equal(t, models.InquiryPoints, (&GiftCard{}).BalanceInquiry(models.InquiryPoints).BalanceInquiryType())
}

func TestEBTSerialNumberMakesVoucher(t *testing.T) {
	card := NewEBTCardData()
	assert.Equal(t, models.NoModifier, card.Charge(decimal.NewFromInt(1)).TransactionModifier())

	card.SerialNumber = "12345678901"
	card.ApprovalCode = "123456"
	assert.Equal(t, models.Voucher, card.Charge(decimal.NewFromInt(1)).TransactionModifier())
}

func TestPaymentMethodTypes(t *testing.T) {
	assert.Equal(t, models.PaymentCredit, NewCreditCardData().PaymentMethodType())
	assert.Equal(t, models.PaymentCredit, NewCreditTrackData().PaymentMethodType())
	assert.Equal(t, models.PaymentDebit, NewDebitTrackData().PaymentMethodType())
	assert.Equal(t, models.PaymentEBT, NewEBTCardData().PaymentMethodType())
	assert.Equal(t, models.PaymentEBT, NewEBTTrackData().PaymentMethodType())
	assert.Equal(t, models.PaymentACH, (&ECheck{}).PaymentMethodType())
	assert.Equal(t, models.PaymentGift, (&GiftCard{}).PaymentMethodType())
	assert.Equal(t, models.PaymentRecurring, NewStoredPaymentMethod("cust", "pm").PaymentMethodType())
}
