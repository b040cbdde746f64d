package payment

import (
	"context"
	"time"

	"payments-sdk/models"
	"payments-sdk/validation"
)

var transactionReportRules = func() *validation.Validations[models.ReportType] {
	v := validation.New[models.ReportType]()

	v.Of(models.TransactionDetail).
		Check("transaction_id").IsNotNil().
		Check("device_id").IsNil().
		Check("end_date").IsNil().
		Check("start_date").IsNil()

	v.Of(models.Activity).Check("transaction_id").IsNil()

	return v
}()

type reportBuilder struct {
	reportType         models.ReportType
	timeZoneConversion models.TimeZoneConversion
	services           *Container
}

func (b *reportBuilder) ReportType() models.ReportType                 { return b.reportType }
func (b *reportBuilder) TimeZoneConversion() models.TimeZoneConversion { return b.timeZoneConversion }
func (b *reportBuilder) ValidationKey() models.ReportType              { return b.reportType }

// TransactionReportBuilder requests transaction activity or the detail of a
// single transaction.
type TransactionReportBuilder struct {
	reportBuilder

	deviceID      string
	endDate       *time.Time
	startDate     *time.Time
	transactionID string
}

func NewTransactionReportBuilder(t models.ReportType) *TransactionReportBuilder {
	return &TransactionReportBuilder{reportBuilder: reportBuilder{reportType: t}}
}

func (b *TransactionReportBuilder) WithServices(c *Container) *TransactionReportBuilder {
	b.services = c
	return b
}

func (b *TransactionReportBuilder) WithDeviceID(v string) *TransactionReportBuilder {
	b.deviceID = v
	return b
}

func (b *TransactionReportBuilder) WithStartDate(v time.Time) *TransactionReportBuilder {
	b.startDate = &v
	return b
}

func (b *TransactionReportBuilder) WithEndDate(v time.Time) *TransactionReportBuilder {
	b.endDate = &v
	return b
}

func (b *TransactionReportBuilder) WithTimeZoneConversion(v models.TimeZoneConversion) *TransactionReportBuilder {
	b.timeZoneConversion = v
	return b
}

func (b *TransactionReportBuilder) WithTransactionID(v string) *TransactionReportBuilder {
	b.transactionID = v
	return b
}

func (b *TransactionReportBuilder) DeviceID() string      { return b.deviceID }
func (b *TransactionReportBuilder) EndDate() *time.Time   { return b.endDate }
func (b *TransactionReportBuilder) StartDate() *time.Time { return b.startDate }
func (b *TransactionReportBuilder) TransactionID() string { return b.transactionID }

func (b *TransactionReportBuilder) Property(name string) interface{} {
	switch name {
	case "device_id":
		return stringProperty(b.deviceID)
	case "end_date":
		if b.endDate == nil {
			return nil
		}
		return *b.endDate
	case "start_date":
		if b.startDate == nil {
			return nil
		}
		return *b.startDate
	case "transaction_id":
		return stringProperty(b.transactionID)
	case "report_type":
		return b.reportType
	case "timezone_conversion":
		return stringProperty(string(b.timeZoneConversion))
	}
	return nil
}

func (b *TransactionReportBuilder) Validate() error {
	return transactionReportRules.Validate(b)
}

// Execute validates the builder and returns the report rows. A detail report
// yields a single row.
func (b *TransactionReportBuilder) Execute(ctx context.Context, configName string) ([]*models.TransactionSummary, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	tb := transactionBuilder{services: b.services}
	client, err := tb.gateway(configName)
	if err != nil {
		return nil, err
	}
	return client.ProcessReport(ctx, b)
}
