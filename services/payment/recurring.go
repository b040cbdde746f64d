package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"payments-sdk/models"
)

// RecurringEntity is a customer, stored payment method or schedule kept on
// the gateway and addressed by the key it assigned.
type RecurringEntity interface {
	Record() *RecurringRecord
}

// RecurringRecord holds the caller's identifier and the gateway's key.
type RecurringRecord struct {
	ID  string
	Key string

	services *Container
}

func (r *RecurringRecord) Record() *RecurringRecord { return r }

// Services is the container the record's Create, SaveChanges and Delete use.
// A nil container means the process-wide one.
func (r *RecurringRecord) Services() *Container { return r.services }

func (r *RecurringRecord) service() RecurringService {
	return RecurringService{Container: r.services}
}

type Customer struct {
	RecurringRecord
	Title          string
	FirstName      string
	LastName       string
	Company        string
	Address        *models.Address
	HomePhone      string
	WorkPhone      string
	Fax            string
	MobilePhone    string
	Email          string
	Comments       string
	Department     string
	Status         string
	PaymentMethods []*RecurringPaymentMethod
}

// AddPaymentMethod prepares a stored payment method for this customer. It is
// not sent until Create is called on the result.
func (c *Customer) AddPaymentMethod(paymentID string, pm PaymentMethod) *RecurringPaymentMethod {
	name := strings.TrimSpace(c.FirstName + " " + c.LastName)
	if name == "" {
		name = c.Company
	}
	method := NewRecurringPaymentMethod(pm)
	method.Address = c.Address
	method.CustomerKey = c.Key
	method.ID = paymentID
	method.NameOnAccount = name
	method.services = c.services
	return method
}

func (c *Customer) WithServices(container *Container) *Customer {
	c.services = container
	return c
}

func (c *Customer) Create(ctx context.Context, configName string) (*Customer, error) {
	return createEntity(ctx, c, configName)
}

func (c *Customer) SaveChanges(ctx context.Context, configName string) error {
	return saveEntity(ctx, c, configName)
}

func (c *Customer) Delete(ctx context.Context, force bool, configName string) error {
	return deleteEntity(ctx, c, force, configName)
}

// RecurringPaymentMethod is a payment method stored against a customer.
type RecurringPaymentMethod struct {
	RecurringRecord
	Address             *models.Address
	CommercialIndicator string
	CustomerKey         string
	ExpirationDate      string
	NameOnAccount       string
	PaymentMethod       PaymentMethod
	PaymentType         string
	PreferredPayment    bool
	Status              string
	TaxType             string
}

func NewRecurringPaymentMethod(pm PaymentMethod) *RecurringPaymentMethod {
	return &RecurringPaymentMethod{PaymentMethod: pm}
}

// NewStoredPaymentMethod references a card already stored under customerKey.
func NewStoredPaymentMethod(customerKey, paymentID string) *RecurringPaymentMethod {
	m := &RecurringPaymentMethod{CustomerKey: customerKey, PaymentType: "Credit Card"}
	m.Key = paymentID
	return m
}

func (m *RecurringPaymentMethod) PaymentMethodType() models.PaymentMethodType {
	return models.PaymentRecurring
}

func (m *RecurringPaymentMethod) isPaymentMethod() {}

func (m *RecurringPaymentMethod) Authorize(amount ...decimal.Decimal) *AuthorizationBuilder {
	return amountBuilder(models.Auth, m, amount).WithOneTimePayment(true)
}

func (m *RecurringPaymentMethod) Charge(amount ...decimal.Decimal) *AuthorizationBuilder {
	return amountBuilder(models.Sale, m, amount).WithOneTimePayment(true)
}

func (m *RecurringPaymentMethod) Refund(amount ...decimal.Decimal) *AuthorizationBuilder {
	return amountBuilder(models.Refund, m, amount)
}

func (m *RecurringPaymentMethod) Verify() *AuthorizationBuilder {
	return NewAuthorizationBuilder(models.Verify, m)
}

// AddSchedule prepares a schedule charging this payment method.
func (m *RecurringPaymentMethod) AddSchedule(scheduleID string) *Schedule {
	s := NewSchedule(m.CustomerKey, m.Key)
	s.ID = scheduleID
	s.services = m.services
	return s
}

func (m *RecurringPaymentMethod) WithServices(container *Container) *RecurringPaymentMethod {
	m.services = container
	return m
}

func (m *RecurringPaymentMethod) Create(ctx context.Context, configName string) (*RecurringPaymentMethod, error) {
	return createEntity(ctx, m, configName)
}

func (m *RecurringPaymentMethod) SaveChanges(ctx context.Context, configName string) error {
	return saveEntity(ctx, m, configName)
}

func (m *RecurringPaymentMethod) Delete(ctx context.Context, force bool, configName string) error {
	return deleteEntity(ctx, m, force, configName)
}

type Schedule struct {
	RecurringRecord
	Amount             *decimal.Decimal
	CancellationDate   *time.Time
	Currency           string
	CustomerKey        string
	Description        string
	DeviceID           string
	EmailNotification  bool
	EmailReceipt       models.EmailReceipt
	EndDate            *time.Time
	Frequency          models.ScheduleFrequency
	HasStarted         bool
	InvoiceNumber      string
	Name               string
	NextProcessingDate *time.Time
	NumberOfPayments   *int
	PONumber           string
	PaymentKey         string
	PaymentSchedule    models.PaymentSchedule
	ReprocessingCount  *int
	StartDate          *time.Time
	Status             string
	TaxAmount          *decimal.Decimal
}

func NewSchedule(customerKey, paymentKey string) *Schedule {
	return &Schedule{CustomerKey: customerKey, PaymentKey: paymentKey}
}

// TotalAmount is the amount plus tax; missing parts count as zero.
func (s *Schedule) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	if s.Amount != nil {
		total = total.Add(*s.Amount)
	}
	if s.TaxAmount != nil {
		total = total.Add(*s.TaxAmount)
	}
	return total
}

func (s *Schedule) WithServices(container *Container) *Schedule {
	s.services = container
	return s
}

func (s *Schedule) Create(ctx context.Context, configName string) (*Schedule, error) {
	return createEntity(ctx, s, configName)
}

func (s *Schedule) SaveChanges(ctx context.Context, configName string) error {
	return saveEntity(ctx, s, configName)
}

func (s *Schedule) Delete(ctx context.Context, force bool, configName string) error {
	return deleteEntity(ctx, s, force, configName)
}

// FindCustomer looks a customer up by the caller's identifier in the
// process-wide container. It returns nil, nil when nothing matches.
func FindCustomer(ctx context.Context, id, configName string) (*Customer, error) {
	return RecurringService{}.FindCustomer(ctx, id, configName)
}

func FindPaymentMethod(ctx context.Context, id, configName string) (*RecurringPaymentMethod, error) {
	return RecurringService{}.FindPaymentMethod(ctx, id, configName)
}

func FindSchedule(ctx context.Context, id, configName string) (*Schedule, error) {
	return RecurringService{}.FindSchedule(ctx, id, configName)
}

func FindAllCustomers(ctx context.Context, configName string) ([]*Customer, error) {
	return RecurringService{}.FindAllCustomers(ctx, configName)
}

func FindAllPaymentMethods(ctx context.Context, configName string) ([]*RecurringPaymentMethod, error) {
	return RecurringService{}.FindAllPaymentMethods(ctx, configName)
}

func FindAllSchedules(ctx context.Context, configName string) ([]*Schedule, error) {
	return RecurringService{}.FindAllSchedules(ctx, configName)
}

func asEntity[T RecurringEntity](e RecurringEntity) (T, error) {
	typed, ok := e.(T)
	if !ok {
		var zero T
		return zero, models.NewApiError(fmt.Sprintf("unexpected recurring entity %T", e), nil)
	}
	return typed, nil
}

func createEntity[T RecurringEntity](ctx context.Context, entity T, configName string) (T, error) {
	svc := entity.Record().service()
	out, err := svc.Create(ctx, entity, configName)
	if err != nil {
		var zero T
		return zero, err
	}
	return adopt[T](svc, out)
}

// adopt types e and binds it to the container that produced it.
func adopt[T RecurringEntity](svc RecurringService, e RecurringEntity) (T, error) {
	typed, err := asEntity[T](e)
	if err != nil {
		return typed, err
	}
	typed.Record().services = svc.Container
	return typed, nil
}

func saveEntity(ctx context.Context, entity RecurringEntity, configName string) error {
	if _, err := entity.Record().service().Edit(ctx, entity, configName); err != nil {
		return models.NewApiError("Update failed, see inner exception for more details.", err)
	}
	return nil
}

func deleteEntity(ctx context.Context, entity RecurringEntity, force bool, configName string) error {
	if _, err := entity.Record().service().Delete(ctx, entity, force, configName); err != nil {
		return models.NewApiError("Failed to delete record, see inner exception for more details.", err)
	}
	return nil
}

func findEntity[T RecurringEntity](ctx context.Context, svc RecurringService, prototype T, identifierName, id, configName string) (T, error) {
	var zero T
	if err := svc.requireRetrieval(configName); err != nil {
		return zero, err
	}
	found, err := svc.Search(prototype).
		AddSearchCriteria(identifierName, id).
		ExecuteSearch(ctx, configName)
	if err != nil || len(found) == 0 {
		return zero, err
	}
	out, err := svc.Get(ctx, found[0], configName)
	if err != nil {
		return zero, err
	}
	return adopt[T](svc, out)
}

func findAll[T RecurringEntity](ctx context.Context, svc RecurringService, prototype T, configName string) ([]T, error) {
	if err := svc.requireRetrieval(configName); err != nil {
		return nil, err
	}
	found, err := svc.List(ctx, prototype, configName)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(found))
	for _, e := range found {
		typed, err := adopt[T](svc, e)
		if err != nil {
			return nil, err
		}
		out = append(out, typed)
	}
	return out, nil
}
