package payment

import (
	"context"
	"fmt"

	"payments-sdk/models"
	"payments-sdk/validation"
)

var recurringRules = func() *transactionRules {
	v := validation.New[models.TransactionType]()

	v.Of(models.Edit | models.Delete | models.Fetch).
		Check("key").IsNotNil()

	v.Of(models.Search).Check("search_criteria").IsNotNil()

	return v
}()

// RecurringBuilder creates, edits, deletes, fetches or searches recurring
// entities through the recurring connector.
type RecurringBuilder struct {
	transactionBuilder

	entity         RecurringEntity
	force          bool
	key            string
	orderID        string
	searchCriteria map[string]string
}

// NewRecurringBuilder wraps entity; for searches it only selects which kind
// of record is searched.
func NewRecurringBuilder(t models.TransactionType, entity RecurringEntity) *RecurringBuilder {
	b := &RecurringBuilder{
		transactionBuilder: transactionBuilder{transactionType: t},
		entity:             entity,
		searchCriteria:     make(map[string]string),
	}
	if entity != nil {
		b.key = entity.Record().Key
	}
	return b
}

func (b *RecurringBuilder) WithServices(c *Container) *RecurringBuilder {
	b.services = c
	return b
}

func (b *RecurringBuilder) WithForce(v bool) *RecurringBuilder {
	b.force = v
	return b
}

func (b *RecurringBuilder) WithKey(v string) *RecurringBuilder {
	b.key = v
	return b
}

func (b *RecurringBuilder) WithOrderID(v string) *RecurringBuilder {
	b.orderID = v
	return b
}

func (b *RecurringBuilder) AddSearchCriteria(key, value string) *RecurringBuilder {
	b.searchCriteria[key] = value
	return b
}

func (b *RecurringBuilder) Entity() RecurringEntity           { return b.entity }
func (b *RecurringBuilder) Force() bool                       { return b.force }
func (b *RecurringBuilder) Key() string                       { return b.key }
func (b *RecurringBuilder) OrderID() string                   { return b.orderID }
func (b *RecurringBuilder) SearchCriteria() map[string]string { return b.searchCriteria }

func (b *RecurringBuilder) Property(name string) interface{} {
	switch name {
	case "entity":
		if b.entity == nil {
			return nil
		}
		return b.entity
	case "key":
		return stringProperty(b.key)
	case "order_id":
		return stringProperty(b.orderID)
	case "search_criteria":
		if len(b.searchCriteria) == 0 {
			return nil
		}
		return b.searchCriteria
	}
	return b.baseProperty(name)
}

func (b *RecurringBuilder) Validate() error {
	return recurringRules.Validate(b)
}

func (b *RecurringBuilder) recurringGateway(configName string) (RecurringGateway, error) {
	c, err := b.container()
	if err != nil {
		return nil, err
	}
	name := configNameOrDefault(configName)
	client := c.RecurringClient(name)
	if client == nil {
		return nil, models.NewConfigurationError(fmt.Sprintf("No recurring gateway configured for %q.", name))
	}
	return client, nil
}

// ExecuteSearch validates the builder and returns every entity the
// connector answered with.
func (b *RecurringBuilder) ExecuteSearch(ctx context.Context, configName string) ([]RecurringEntity, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b.send(ctx, configName)
}

// Execute returns the first entity of the response, or nil for responses
// without a body such as deletes.
func (b *RecurringBuilder) Execute(ctx context.Context, configName string) (RecurringEntity, error) {
	found, err := b.ExecuteSearch(ctx, configName)
	if err != nil || len(found) == 0 {
		return nil, err
	}
	return found[0], nil
}

func (b *RecurringBuilder) send(ctx context.Context, configName string) ([]RecurringEntity, error) {
	client, err := b.recurringGateway(configName)
	if err != nil {
		return nil, err
	}
	return client.ProcessRecurring(ctx, b)
}
