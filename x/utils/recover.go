package utils

import (
	"github.com/iov-one/arbiter"
	"github.com/iov-one/arbiter/errors"
)

// Recovery turns a panic raised further down the stack into an ErrPanic
// failure of the transaction and logs it.
type Recovery struct{}

var _ arbiter.Decorator = Recovery{}

func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx arbiter.Context, store arbiter.KVStore, tx arbiter.Tx, next arbiter.Checker) (_ *arbiter.CheckResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = panicked(ctx, p)
		}
	}()
	return next.Check(ctx, store, tx)
}

func (Recovery) Deliver(ctx arbiter.Context, store arbiter.KVStore, tx arbiter.Tx, next arbiter.Deliverer) (_ *arbiter.DeliverResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = panicked(ctx, p)
		}
	}()
	return next.Deliver(ctx, store, tx)
}

func panicked(ctx arbiter.Context, p interface{}) error {
	arbiter.GetLogger(ctx).Error("transaction panicked", "panic", p)
	return errors.Wrapf(errors.ErrPanic, "%v", p)
}
