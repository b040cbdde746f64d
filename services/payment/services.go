package payment

import (
	"context"

	"payments-sdk/models"
)

// RecurringService runs recurring operations against Container, or the
// process-wide container when it is nil.
type RecurringService struct {
	Container *Container
}

func (s RecurringService) builder(t models.TransactionType, entity RecurringEntity) *RecurringBuilder {
	return NewRecurringBuilder(t, entity).WithServices(s.Container)
}

func (s RecurringService) Create(ctx context.Context, entity RecurringEntity, configName string) (RecurringEntity, error) {
	return s.builder(models.Create, entity).Execute(ctx, configName)
}

func (s RecurringService) Edit(ctx context.Context, entity RecurringEntity, configName string) (RecurringEntity, error) {
	return s.builder(models.Edit, entity).Execute(ctx, configName)
}

func (s RecurringService) Delete(ctx context.Context, entity RecurringEntity, force bool, configName string) (RecurringEntity, error) {
	return s.builder(models.Delete, entity).WithForce(force).Execute(ctx, configName)
}

// Get fetches the record addressed by entity's key. entity also selects the
// kind of record.
func (s RecurringService) Get(ctx context.Context, entity RecurringEntity, configName string) (RecurringEntity, error) {
	return s.builder(models.Fetch, entity).Execute(ctx, configName)
}

// Search starts a search over records of the same kind as prototype.
func (s RecurringService) Search(prototype RecurringEntity) *RecurringBuilder {
	return s.builder(models.Search, prototype)
}

// List returns every record of the same kind as prototype. It is the only
// search sent without criteria.
func (s RecurringService) List(ctx context.Context, prototype RecurringEntity, configName string) ([]RecurringEntity, error) {
	return s.Search(prototype).send(ctx, configName)
}

// FindCustomer looks a customer up by the caller's identifier. It returns
// nil, nil when nothing matches.
func (s RecurringService) FindCustomer(ctx context.Context, id, configName string) (*Customer, error) {
	return findEntity(ctx, s, &Customer{}, "customerIdentifier", id, configName)
}

func (s RecurringService) FindPaymentMethod(ctx context.Context, id, configName string) (*RecurringPaymentMethod, error) {
	return findEntity(ctx, s, &RecurringPaymentMethod{}, "paymentMethodIdentifier", id, configName)
}

func (s RecurringService) FindSchedule(ctx context.Context, id, configName string) (*Schedule, error) {
	return findEntity(ctx, s, &Schedule{}, "scheduleIdentifier", id, configName)
}

func (s RecurringService) FindAllCustomers(ctx context.Context, configName string) ([]*Customer, error) {
	return findAll(ctx, s, &Customer{}, configName)
}

func (s RecurringService) FindAllPaymentMethods(ctx context.Context, configName string) ([]*RecurringPaymentMethod, error) {
	return findAll(ctx, s, &RecurringPaymentMethod{}, configName)
}

func (s RecurringService) FindAllSchedules(ctx context.Context, configName string) ([]*Schedule, error) {
	return findAll(ctx, s, &Schedule{}, configName)
}

func (s RecurringService) requireRetrieval(configName string) error {
	c, err := resolve(s.Container)
	if err != nil {
		return err
	}
	client := c.RecurringClient(configNameOrDefault(configName))
	if client == nil || !client.SupportsRetrieval() {
		return models.NewUnsupportedTransactionError("")
	}
	return nil
}

type ReportingService struct {
	Container *Container
}

func (s ReportingService) Activity() *TransactionReportBuilder {
	return NewTransactionReportBuilder(models.Activity).WithServices(s.Container)
}

func (s ReportingService) TransactionDetail(transactionID string) *TransactionReportBuilder {
	return NewTransactionReportBuilder(models.TransactionDetail).
		WithServices(s.Container).
		WithTransactionID(transactionID)
}

type BatchService struct {
	Container *Container
}

// CloseBatch closes the open batch and returns its summary.
func (s BatchService) CloseBatch(ctx context.Context, configName string) (*models.BatchSummary, error) {
	resp, err := NewManagementBuilder(models.BatchClose).
		WithServices(s.Container).
		Execute(ctx, configName)
	if err != nil {
		return nil, err
	}
	if resp.BatchSummary == nil {
		return &models.BatchSummary{}, nil
	}
	return resp.BatchSummary, nil
}
