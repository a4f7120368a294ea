package orm

import (
	"reflect"

	"github.com/iov-one/arbiter/errors"
)

// SimpleObj binds a model to the key it is stored under. Buckets hand out
// clones of a SimpleObj as the template for loading their records.
type SimpleObj struct {
	key   []byte
	value Model
}

var _ Object = (*SimpleObj)(nil)

func NewSimpleObj(key []byte, value Model) *SimpleObj {
	return &SimpleObj{key: key, value: value}
}

func (o SimpleObj) Value() Model {
	return o.value
}

func (o SimpleObj) Key() []byte {
	return o.key
}

// Validate requires both a key and a value, then validates the value.
func (o SimpleObj) Validate() error {
	var errs error
	if len(o.key) == 0 {
		errs = errors.AppendField(errs, "Key", errors.ErrEmpty)
	}
	if o.value == nil {
		return errors.AppendField(errs, "Value", errors.ErrEmpty)
	}
	return errors.Append(errs, errors.Field("Value", o.value.Validate(), "invalid value"))
}

func (o *SimpleObj) SetKey(key []byte) {
	o.key = key
}

// Clone returns an object with a zero value of the same model type. The
// key is copied.
func (o *SimpleObj) Clone() Object {
	model := reflect.New(reflect.TypeOf(o.value).Elem()).Interface().(Model)
	c := &SimpleObj{value: model}
	if len(o.key) > 0 {
		c.key = append([]byte(nil), o.key...)
	}
	return c
}
