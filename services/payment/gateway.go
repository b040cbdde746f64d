package payment

import (
	"context"
	"net/url"

	"payments-sdk/models"
)

// Gateway turns validated builders into gateway requests.
type Gateway interface {
	ProcessAuthorization(ctx context.Context, builder *AuthorizationBuilder) (*Transaction, error)
	ManageTransaction(ctx context.Context, builder *ManagementBuilder) (*Transaction, error)
	ProcessReport(ctx context.Context, builder *TransactionReportBuilder) ([]*models.TransactionSummary, error)
	// SerializeRequest returns the hosted payment page request instead of sending it.
	SerializeRequest(builder *AuthorizationBuilder) (string, error)
	SupportsHostedPayments() bool
}

// RecurringGateway stores customers, payment methods and schedules.
type RecurringGateway interface {
	ProcessRecurring(ctx context.Context, builder *RecurringBuilder) ([]RecurringEntity, error)
	SupportsRetrieval() bool
	SupportsUpdatePaymentDetails() bool
}

// ReservationService posts form data to a table reservation provider.
type ReservationService interface {
	DoTransaction(ctx context.Context, endpoint string, form url.Values) (map[string]interface{}, error)
}

// DeviceInterface is a connected payment terminal.
type DeviceInterface interface {
	Initialize(ctx context.Context) error
}

// DeviceController owns a terminal connection and hands out its interface.
type DeviceController interface {
	ConfigureInterface() (DeviceInterface, error)
}
