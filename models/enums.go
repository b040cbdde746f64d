package models

import "strings"

// TransactionType is a bitmask; rules and mapping tables OR several types together.
type TransactionType uint32

const (
	Decline           TransactionType = 0
	Verify            TransactionType = 1 << 0
	Capture           TransactionType = 1 << 1
	Auth              TransactionType = 1 << 2
	Refund            TransactionType = 1 << 3
	Reversal          TransactionType = 1 << 4
	Sale              TransactionType = 1 << 5
	Edit              TransactionType = 1 << 6
	Void              TransactionType = 1 << 7
	AddValue          TransactionType = 1 << 8
	Balance           TransactionType = 1 << 9
	Activate          TransactionType = 1 << 10
	Alias             TransactionType = 1 << 11
	Replace           TransactionType = 1 << 12
	Reward            TransactionType = 1 << 13
	Deactivate        TransactionType = 1 << 14
	BatchClose        TransactionType = 1 << 15
	Create            TransactionType = 1 << 16
	Delete            TransactionType = 1 << 17
	BenefitWithdrawal TransactionType = 1 << 18
	Fetch             TransactionType = 1 << 19
	Search            TransactionType = 1 << 20
	Hold              TransactionType = 1 << 21
	Release           TransactionType = 1 << 22
	VerifySignature   TransactionType = 1 << 23
	VerifyEnrolled    TransactionType = 1 << 24
)

var transactionTypeNames = []struct {
	t    TransactionType
	name string
}{
	{Verify, "Verify"}, {Capture, "Capture"}, {Auth, "Auth"}, {Refund, "Refund"},
	{Reversal, "Reversal"}, {Sale, "Sale"}, {Edit, "Edit"}, {Void, "Void"},
	{AddValue, "AddValue"}, {Balance, "Balance"}, {Activate, "Activate"}, {Alias, "Alias"},
	{Replace, "Replace"}, {Reward, "Reward"}, {Deactivate, "Deactivate"},
	{BatchClose, "BatchClose"}, {Create, "Create"}, {Delete, "Delete"},
	{BenefitWithdrawal, "BenefitWithdrawal"}, {Fetch, "Fetch"}, {Search, "Search"},
	{Hold, "Hold"}, {Release, "Release"}, {VerifySignature, "VerifySignature"},
	{VerifyEnrolled, "VerifyEnrolled"},
}

// Has reports whether every bit of other is set in t.
func (t TransactionType) Has(other TransactionType) bool {
	return t&other == other
}

func (t TransactionType) String() string {
	if t == Decline {
		return "Decline"
	}
	var parts []string
	for _, n := range transactionTypeNames {
		if t&n.t != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

type TransactionModifier uint32

const (
	NoModifier    TransactionModifier = 0
	Incremental   TransactionModifier = 1 << 1
	Additional    TransactionModifier = 1 << 2
	Offline       TransactionModifier = 1 << 3
	LevelII       TransactionModifier = 1 << 4
	FraudDecline  TransactionModifier = 1 << 5
	ChipDecline   TransactionModifier = 1 << 6
	CashBack      TransactionModifier = 1 << 7
	Voucher       TransactionModifier = 1 << 8
	Secure3D      TransactionModifier = 1 << 9
	HostedRequest TransactionModifier = 1 << 10
	Recurring     TransactionModifier = 1 << 11
)

type PaymentMethodType uint32

const (
	PaymentReference PaymentMethodType = 0
	PaymentCredit    PaymentMethodType = 1 << 1
	PaymentDebit     PaymentMethodType = 1 << 2
	PaymentEBT       PaymentMethodType = 1 << 3
	PaymentCash      PaymentMethodType = 1 << 4
	PaymentACH       PaymentMethodType = 1 << 5
	PaymentGift      PaymentMethodType = 1 << 6
	PaymentRecurring PaymentMethodType = 1 << 7
)

type ReportType uint32

const (
	FindTransactions  ReportType = 0
	Activity          ReportType = 1 << 1
	BatchDetail       ReportType = 1 << 2
	BatchHistory      ReportType = 1 << 3
	BatchSummaryRpt   ReportType = 1 << 4
	OpenAuths         ReportType = 1 << 5
	SearchRpt         ReportType = 1 << 6
	TransactionDetail ReportType = 1 << 7
)

type AddressType string

const (
	BillingAddress  AddressType = "Billing"
	ShippingAddress AddressType = "Shipping"
)

type AliasAction string

const (
	AliasCreate AliasAction = "CREATE"
	AliasAdd    AliasAction = "ADD"
	AliasDelete AliasAction = "DELETE"
)

type EntryMethod string

const (
	EntryManual    EntryMethod = "manual"
	EntrySwipe     EntryMethod = "swipe"
	EntryProximity EntryMethod = "proximity"
)

type InquiryType string

const (
	InquiryStandard  InquiryType = "STANDARD"
	InquiryFoodStamp InquiryType = "FOODSTAMP"
	InquiryCash      InquiryType = "CASH"
	InquiryPoints    InquiryType = "POINTS"
)

type CvnPresenceIndicator int

const (
	CvnPresent      CvnPresenceIndicator = 1
	CvnIllegible    CvnPresenceIndicator = 2
	CvnNotOnCard    CvnPresenceIndicator = 3
	CvnNotRequested CvnPresenceIndicator = 4
)

type TaxType string

const (
	TaxNotUsed  TaxType = "NOTUSED"
	TaxSalesTax TaxType = "SALESTAX"
	TaxExempt   TaxType = "TAXEXEMPT"
)

type AccountType string

const (
	Checking AccountType = "CHECKING"
	Savings  AccountType = "SAVINGS"
)

type CheckType string

const (
	CheckPersonal CheckType = "PERSONAL"
	CheckBusiness CheckType = "BUSINESS"
	CheckPayroll  CheckType = "PAYROLL"
)

type SecCode string

const (
	SecPPD     SecCode = "PPD"
	SecCCD     SecCode = "CCD"
	SecPOP     SecCode = "POP"
	SecWEB     SecCode = "WEB"
	SecTEL     SecCode = "TEL"
	SecEBronze SecCode = "EBRONZE"
)

type TimeZoneConversion string

const (
	TimeZoneUTC        TimeZoneConversion = "UTC"
	TimeZoneMerchant   TimeZoneConversion = "Merchant"
	TimeZoneDatacenter TimeZoneConversion = "Datacenter"
)

type RecurringType string

const (
	RecurringFixed    RecurringType = "Fixed"
	RecurringVariable RecurringType = "Variable"
)

type RecurringSequence string

const (
	SequenceFirst      RecurringSequence = "First"
	SequenceSubsequent RecurringSequence = "Subsequent"
	SequenceLast       RecurringSequence = "Last"
)

type EmailReceipt string

const (
	ReceiptNever     EmailReceipt = "Never"
	ReceiptAll       EmailReceipt = "All"
	ReceiptApprovals EmailReceipt = "Approvals"
	ReceiptDeclines  EmailReceipt = "Declines"
)

type PaymentSchedule string

const (
	ScheduleDynamic            PaymentSchedule = "Dynamic"
	ScheduleFirstDayOfTheMonth PaymentSchedule = "FirstDayOfTheMonth"
	ScheduleLastDayOfTheMonth  PaymentSchedule = "LastDayOfTheMonth"
)

type ScheduleFrequency string

const (
	FrequencyWeekly       ScheduleFrequency = "Weekly"
	FrequencyBiWeekly     ScheduleFrequency = "Bi-Weekly"
	FrequencyBiMonthly    ScheduleFrequency = "Bi-Monthly"
	FrequencySemiMonthly  ScheduleFrequency = "Semi-Monthly"
	FrequencyMonthly      ScheduleFrequency = "Monthly"
	FrequencyQuarterly    ScheduleFrequency = "Quarterly"
	FrequencySemiAnnually ScheduleFrequency = "Semi-Annually"
	FrequencyAnnually     ScheduleFrequency = "Annually"
)

type ReasonCode string

const (
	ReasonFraud         ReasonCode = "FRAUD"
	ReasonFalsePositive ReasonCode = "FALSEPOSITIVE"
	ReasonOutOfStock    ReasonCode = "OUTOFSTOCK"
	ReasonInStock       ReasonCode = "INSTOCK"
	ReasonOther         ReasonCode = "OTHER"
	ReasonNotGiven      ReasonCode = "NOTGIVEN"
)

type HppVersion string

const (
	HppVersion1 HppVersion = "1"
	HppVersion2 HppVersion = "2"
)

type FraudFilterMode string

const (
	FraudFilterNone    FraudFilterMode = "NONE"
	FraudFilterOff     FraudFilterMode = "OFF"
	FraudFilterPassive FraudFilterMode = "PASSIVE"
)

type ECommerceChannel string

const (
	ChannelECOM ECommerceChannel = "ECOM"
	ChannelMOTO ECommerceChannel = "MOTO"
)

type EmvChipCondition string

const (
	ChipFailPreviousSuccess EmvChipCondition = "CHIP_FAILED_PREV_SUCCESS"
	ChipFailPreviousFail    EmvChipCondition = "CHIP_FAILED_PREV_FAILED"
)

type ReservationProvider string

const (
	ReservationFreshTxt ReservationProvider = "FreshTxt"
)
