package gateways

import (
	"payments-sdk/models"
	"payments-sdk/services/payment"
)

const (
	anyModifier = models.TransactionModifier(^uint32(0))
	anyMethod   = models.PaymentMethodType(^uint32(0))
)

type operationKey struct {
	transaction models.TransactionType
	modifier    models.TransactionModifier
	method      models.PaymentMethodType
}

// porticoOperations names the SOAP transaction element. Lookups try the exact
// key first, then wildcard the modifier, then the method, then both.
var porticoOperations = map[operationKey]string{
	{models.BatchClose, anyModifier, anyMethod}:                         "BatchClose",
	{models.Decline, models.ChipDecline, anyMethod}:                     "ChipCardDecline",
	{models.Decline, models.FraudDecline, anyMethod}:                    "OverrideFraudDecline",
	{models.Verify, anyModifier, anyMethod}:                             "CreditAccountVerify",
	{models.Capture, anyModifier, anyMethod}:                            "CreditAddToBatch",
	{models.Auth, models.Additional, models.PaymentCredit}:              "CreditAdditionalAuth",
	{models.Auth, models.Incremental, models.PaymentCredit}:             "CreditIncrementalAuth",
	{models.Auth, models.Offline, models.PaymentCredit}:                 "CreditOfflineAuth",
	{models.Auth, models.Recurring, models.PaymentCredit}:               "RecurringBillingAuth",
	{models.Auth, anyModifier, models.PaymentCredit}:                    "CreditAuth",
	{models.Auth, anyModifier, models.PaymentRecurring}:                 "RecurringBillingAuth",
	{models.Sale, models.Offline, models.PaymentCredit}:                 "CreditOfflineSale",
	{models.Sale, models.Recurring, models.PaymentCredit}:               "RecurringBilling",
	{models.Sale, anyModifier, models.PaymentCredit}:                    "CreditSale",
	{models.Sale, anyModifier, models.PaymentRecurring}:                 "RecurringBilling",
	{models.Sale, anyModifier, models.PaymentDebit}:                     "DebitSale",
	{models.Sale, anyModifier, models.PaymentCash}:                      "CashSale",
	{models.Sale, anyModifier, models.PaymentACH}:                       "CheckSale",
	{models.Sale, models.CashBack, models.PaymentEBT}:                   "EBTCashBackPurchase",
	{models.Sale, models.Voucher, models.PaymentEBT}:                    "EBTVoucherPurchase",
	{models.Sale, anyModifier, models.PaymentEBT}:                       "EBTFSPurchase",
	{models.Sale, anyModifier, models.PaymentGift}:                      "GiftCardSale",
	{models.Refund, anyModifier, models.PaymentCredit}:                  "CreditReturn",
	{models.Refund, anyModifier, models.PaymentDebit}:                   "DebitReturn",
	{models.Refund, anyModifier, models.PaymentCash}:                    "CashReturn",
	{models.Refund, anyModifier, models.PaymentEBT}:                     "EBTFSReturn",
	{models.Reversal, anyModifier, models.PaymentCredit}:                "CreditReversal",
	{models.Reversal, anyModifier, models.PaymentDebit}:                 "DebitReversal",
	{models.Reversal, anyModifier, models.PaymentGift}:                  "GiftCardReversal",
	{models.Edit, models.LevelII, anyMethod}:                            "CreditCPCEdit",
	{models.Edit, anyModifier, anyMethod}:                               "CreditTxnEdit",
	{models.Void, anyModifier, models.PaymentCredit}:                    "CreditVoid",
	{models.Void, anyModifier, models.PaymentACH}:                       "CheckVoid",
	{models.Void, anyModifier, models.PaymentGift}:                      "GiftCardVoid",
	{models.AddValue, anyModifier, models.PaymentCredit}:                "PrePaidAddValue",
	{models.AddValue, anyModifier, models.PaymentDebit}:                 "DebitAddValue",
	{models.AddValue, anyModifier, models.PaymentGift}:                  "GiftCardAddValue",
	{models.Balance, anyModifier, models.PaymentCredit}:                 "PrePaidBalanceInquiry",
	{models.Balance, anyModifier, models.PaymentEBT}:                    "EBTBalanceInquiry",
	{models.Balance, anyModifier, models.PaymentGift}:                   "GiftCardBalance",
	{models.BenefitWithdrawal, anyModifier, anyMethod}:                  "EBTCashBenefitWithdrawal",
	{models.Activate, anyModifier, anyMethod}:                           "GiftCardActivate",
	{models.Alias, anyModifier, anyMethod}:                              "GiftCardAlias",
	{models.Deactivate, anyModifier, anyMethod}:                         "GiftCardDeactivate",
	{models.Replace, anyModifier, anyMethod}:                            "GiftCardReplace",
	{models.Reward, anyModifier, anyMethod}:                             "GiftCardReward",
}

// porticoOperation maps a transaction to its SOAP element name. Combinations
// missing from the table are unsupported.
func porticoOperation(t models.TransactionType, m models.TransactionModifier, pm payment.PaymentMethod) (string, error) {
	method := models.PaymentReference
	if pm != nil {
		method = pm.PaymentMethodType()
	}

	switch v := pm.(type) {
	case *payment.TransactionReference:
		// Debit and EBT returns and debit reversals need the original card data.
		if (t == models.Refund && (method == models.PaymentDebit || method == models.PaymentEBT)) ||
			(t == models.Reversal && method == models.PaymentDebit) {
			return "", models.NewUnsupportedTransactionError("")
		}
	case *payment.RecurringPaymentMethod:
		if t == models.Sale && v.PaymentType == "ACH" {
			return "CheckSale", nil
		}
	}

	for _, key := range []operationKey{
		{t, m, method},
		{t, anyModifier, method},
		{t, m, anyMethod},
		{t, anyModifier, anyMethod},
	} {
		if name, ok := porticoOperations[key]; ok {
			return name, nil
		}
	}
	return "", models.NewUnsupportedTransactionError("")
}

func porticoReportOperation(t models.ReportType) (string, error) {
	switch t {
	case models.Activity:
		return "ReportActivity", nil
	case models.TransactionDetail:
		return "ReportTxnDetail", nil
	}
	return "", models.NewUnsupportedTransactionError("")
}
