package docsign

import (
	"testing"

	"github.com/iov-one/arbiter"
	"github.com/iov-one/arbiter/arbitertest"
	"github.com/iov-one/arbiter/arbitertest/assert"
	"github.com/iov-one/arbiter/errors"
)

func TestNewClerk(t *testing.T) {
	authority := arbitertest.NewCondition().Address()

	for _, limit := range []int64{0, -1} {
		_, err := NewClerk(authority, limit)
		assert.IsErr(t, ErrInvalidCapacity, err)
	}

	c, err := NewClerk(authority, 3)
	assert.Nil(t, err)
	assert.Nil(t, c.Validate())
	assert.Equal(t, 3, c.Capacity())
	assert.Equal(t, 3, c.Remaining())
	assert.Equal(t, false, c.IsFull())
}

func TestClerkRegister(t *testing.T) {
	c, err := NewClerk(arbitertest.NewCondition().Address(), 2)
	assert.Nil(t, err)

	a := arbitertest.NewCondition().Address()
	b := arbitertest.NewCondition().Address()
	assert.Equal(t, false, c.IsCustodianOf(a))

	assert.Nil(t, c.Register(a))
	assert.Nil(t, c.Register(b))
	assert.Equal(t, []arbiter.Address{a, b}, c.Documents)
	assert.Equal(t, true, c.IsFull())
	assert.Equal(t, true, c.IsCustodianOf(a))
	assert.Equal(t, true, c.IsCustodianOf(b))
	assert.Equal(t, false, c.IsCustodianOf(nil))

	err = c.Register(arbitertest.NewCondition().Address())
	assert.IsErr(t, ErrCapacityExceeded, err)
	assert.Equal(t, []arbiter.Address{a, b}, c.Documents)
}

func TestClerkUpgraded(t *testing.T) {
	c, err := NewClerk(arbitertest.NewCondition().Address(), 1)
	assert.Nil(t, err)
	doc := arbitertest.NewCondition().Address()
	assert.Nil(t, c.Register(doc))

	_, err = c.Upgraded(0)
	assert.IsErr(t, ErrInvalidUpgradeAmount, err)

	up, err := c.Upgraded(2)
	assert.Nil(t, err)
	assert.Equal(t, 3, up.Capacity())
	assert.Equal(t, 2, up.Remaining())
	assert.Equal(t, uint32(1), up.Upgrades)
	assert.Equal(t, doc, up.Documents[0])

	// The original is not modified.
	assert.Equal(t, 1, c.Capacity())
	assert.Equal(t, uint32(0), c.Upgrades)

	c.Upgrades = ^uint32(0)
	_, err = c.Upgraded(1)
	assert.IsErr(t, errors.ErrOverflow, err)
}

func TestClerkValidate(t *testing.T) {
	authority := arbitertest.NewCondition().Address()
	doc := arbitertest.NewCondition().Address()

	cases := map[string]struct {
		clerk *Clerk
		field string
		want  *errors.Error
	}{
		"no slots": {
			clerk: &Clerk{Authority: authority},
			field: "Documents",
			want:  ErrInvalidCapacity,
		},
		"missing authority": {
			clerk: &Clerk{Documents: make([]arbiter.Address, 1)},
			field: "Authority",
			want:  errors.ErrInput,
		},
		"duplicated document": {
			clerk: &Clerk{Authority: authority, Documents: []arbiter.Address{doc, doc}},
			field: "Documents",
			want:  errors.ErrDuplicate,
		},
		"sentinel stored as document": {
			clerk: &Clerk{Authority: authority, Documents: []arbiter.Address{emptyAddress()}},
			field: "Documents",
			want:  errors.ErrModel,
		},
		"invalid document address": {
			clerk: &Clerk{Authority: authority, Documents: []arbiter.Address{arbiter.Address("x")}},
			field: "Documents",
			want:  errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.FieldError(t, tc.clerk.Validate(), tc.field, tc.want)
		})
	}
}

func TestClerkSerialization(t *testing.T) {
	c, err := NewClerk(arbitertest.NewCondition().Address(), 4)
	assert.Nil(t, err)
	assert.Nil(t, c.Register(arbitertest.NewCondition().Address()))
	c.Upgrades = 7

	raw, err := c.Marshal()
	assert.Nil(t, err)
	var got Clerk
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, c, &got)
	assert.Equal(t, 3, got.Remaining())
}
