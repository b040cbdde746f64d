// Package validation holds the declarative rule set builders check themselves
// against before anything is sent to a gateway.
//
// Rules are grouped under the exact mask passed to Of. A group applies to a
// subject when every bit of the subject's key is contained in the group mask.
package validation

import (
	"fmt"
	"reflect"

	"payments-sdk/models"
)

// Mask is the key type rule groups are registered under.
type Mask interface {
	~uint32
}

// Subject is what rules are evaluated against. Property returns nil for names
// the subject does not know.
type Subject[M Mask] interface {
	ValidationKey() M
	Property(name string) interface{}
}

type Validations[M Mask] struct {
	keys  []M
	rules map[M][]*Target[M]
}

func New[M Mask]() *Validations[M] {
	return &Validations[M]{rules: make(map[M][]*Target[M])}
}

// Of starts a new target in the group registered under mask.
func (v *Validations[M]) Of(mask M) *Target[M] {
	if _, ok := v.rules[mask]; !ok {
		v.keys = append(v.keys, mask)
	}
	target := &Target[M]{parent: v, mask: mask}
	v.rules[mask] = append(v.rules[mask], target)
	return target
}

// Validate returns a *models.BuilderError for the first failing clause.
func (v *Validations[M]) Validate(subject Subject[M]) error {
	key := subject.ValidationKey()
	for _, mask := range v.keys {
		if mask&key != key {
			continue
		}
		for _, target := range v.rules[mask] {
			if target.clause == nil || target.clause.callback == nil {
				continue
			}
			if target.constraintName != "" &&
				!equal(subject.Property(target.constraintName), target.constraint) {
				continue
			}
			if target.precondition != nil && !target.precondition.callback(subject) {
				continue
			}
			if !target.clause.callback(subject) {
				return &models.BuilderError{Message: target.clause.message}
			}
		}
	}
	return nil
}

type Target[M Mask] struct {
	parent         *Validations[M]
	mask           M
	constraintName string
	constraint     interface{}
	clause         *Clause[M]
	precondition   *Clause[M]
}

// WithConstraint limits the target to subjects whose named property equals value.
func (t *Target[M]) WithConstraint(name string, value interface{}) *Target[M] {
	t.constraintName = name
	t.constraint = value
	return t
}

func (t *Target[M]) Check(property string) *Clause[M] {
	t.clause = &Clause[M]{target: t, property: property}
	return t.clause
}

// When adds a precondition; the target's check is skipped unless it holds.
func (t *Target[M]) When(property string) *Clause[M] {
	t.precondition = &Clause[M]{target: t, property: property, precondition: true}
	return t.precondition
}

type Clause[M Mask] struct {
	target       *Target[M]
	property     string
	precondition bool
	callback     func(Subject[M]) bool
	message      string
}

func (c *Clause[M]) IsNotNil(message ...string) *Target[M] {
	c.callback = func(s Subject[M]) bool { return !isNil(s.Property(c.property)) }
	c.message = pick(message, fmt.Sprintf("property `%s` is nil", c.property))
	return c.next()
}

func (c *Clause[M]) IsNil(message ...string) *Target[M] {
	c.callback = func(s Subject[M]) bool { return isNil(s.Property(c.property)) }
	c.message = pick(message, fmt.Sprintf("property `%s` is not nil", c.property))
	return c.next()
}

func (c *Clause[M]) Equals(expected interface{}, message ...string) *Target[M] {
	c.callback = func(s Subject[M]) bool { return equal(s.Property(c.property), expected) }
	c.message = pick(message, fmt.Sprintf("property `%s` does not equal `%v`", c.property, expected))
	return c.next()
}

func (c *Clause[M]) DoesNotEqual(expected interface{}, message ...string) *Target[M] {
	c.callback = func(s Subject[M]) bool { return !equal(s.Property(c.property), expected) }
	c.message = pick(message, fmt.Sprintf("property `%s` equals `%v`", c.property, expected))
	return c.next()
}

// next hands back the target for a precondition so Check can follow it.
// A finished check opens a fresh target under the same group and constraint.
func (c *Clause[M]) next() *Target[M] {
	if c.precondition {
		return c.target
	}
	return c.target.parent.Of(c.target.mask).
		WithConstraint(c.target.constraintName, c.target.constraint)
}

func pick(message []string, fallback string) string {
	if len(message) > 0 && message[0] != "" {
		return message[0]
	}
	return fallback
}

func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func equal(a, b interface{}) bool {
	if isNil(a) || isNil(b) {
		return isNil(a) && isNil(b)
	}
	return reflect.DeepEqual(a, b)
}
