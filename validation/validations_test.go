package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payments-sdk/models"
)

type op uint32

const (
	opCharge op = 1 << iota
	opRefund
	opLookup
)

type subject struct {
	key   op
	props map[string]interface{}
}

func (s subject) ValidationKey() op { return s.key }

func (s subject) Property(name string) interface{} {
	return s.props[name]
}

func requireMessage(t *testing.T, err error, message string) {
	t.Helper()
	var builderErr *models.BuilderError
	require.ErrorAs(t, err, &builderErr)
	assert.Equal(t, message, builderErr.Message)
}

func TestGroupsMatchContainedKeys(t *testing.T) {
	v := New[op]()
	v.Of(opCharge | opRefund).Check("amount").IsNotNil()
	v.Of(opLookup).Check("id").IsNotNil("id required")

	requireMessage(t, v.Validate(subject{key: opCharge}), "property `amount` is nil")
	requireMessage(t, v.Validate(subject{key: opRefund}), "property `amount` is nil")
	requireMessage(t, v.Validate(subject{key: opLookup}), "id required")

	assert.NoError(t, v.Validate(subject{key: opCharge, props: map[string]interface{}{"amount": 1}}))
	assert.NoError(t, v.Validate(subject{key: opLookup, props: map[string]interface{}{"id": "x"}}))
}

func TestChainedChecksRunInOrder(t *testing.T) {
	v := New[op]()
	v.Of(opCharge).
		Check("amount").IsNotNil().
		Check("currency").IsNotNil().
		Check("token").IsNil()

	s := subject{key: opCharge, props: map[string]interface{}{}}
	requireMessage(t, v.Validate(s), "property `amount` is nil")

	s.props["amount"] = 10
	requireMessage(t, v.Validate(s), "property `currency` is nil")

	s.props["currency"] = "USD"
	assert.NoError(t, v.Validate(s))

	s.props["token"] = "abc"
	requireMessage(t, v.Validate(s), "property `token` is not nil")
}

func TestConstraintCarriesAcrossChain(t *testing.T) {
	v := New[op]()
	v.Of(opCharge).
		WithConstraint("mode", "offline").
		Check("amount").IsNotNil().
		Check("auth_code").IsNotNil()

	online := subject{key: opCharge, props: map[string]interface{}{"mode": "online"}}
	assert.NoError(t, v.Validate(online))

	offline := subject{key: opCharge, props: map[string]interface{}{"mode": "offline", "amount": 5}}
	requireMessage(t, v.Validate(offline), "property `auth_code` is nil")
}

func TestPreconditions(t *testing.T) {
	v := New[op]()
	v.Of(opRefund).
		When("amount").IsNotNil().
		Check("currency").IsNotNil()

	assert.NoError(t, v.Validate(subject{key: opRefund}))
	requireMessage(t,
		v.Validate(subject{key: opRefund, props: map[string]interface{}{"amount": 5}}),
		"property `currency` is nil")
}

func TestEquality(t *testing.T) {
	v := New[op]()
	v.Of(opCharge).Check("channel").Equals("ecom")
	v.Of(opRefund).Check("channel").DoesNotEqual("pos", "refunds are not allowed at the terminal")

	assert.NoError(t, v.Validate(subject{key: opCharge, props: map[string]interface{}{"channel": "ecom"}}))
	requireMessage(t,
		v.Validate(subject{key: opCharge, props: map[string]interface{}{"channel": "pos"}}),
		"property `channel` does not equal `ecom`")
	requireMessage(t,
		v.Validate(subject{key: opRefund, props: map[string]interface{}{"channel": "pos"}}),
		"refunds are not allowed at the terminal")
}

func TestTypedNilCountsAsNil(t *testing.T) {
	var missing *int
	v := New[op]()
	v.Of(opCharge).Check("ref").IsNotNil()

	requireMessage(t,
		v.Validate(subject{key: opCharge, props: map[string]interface{}{"ref": missing}}),
		"property `ref` is nil")
}
