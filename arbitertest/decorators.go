package arbitertest

import "github.com/iov-one/arbiter"

// Decorator is a mock implementation of the arbiter.Decorator interface.
//
// Set CheckErr or DeliverErr to force error response for corresponding method.
// If error attributes are not set then wrapped handler method is called and
// its result returned.
// Each method call is counted. Regardless of the method call result the
// counter is incremented.
type Decorator struct {
	checkCall int
	// CheckErr if set is returned by the Check method before calling
	// the wrapped handler.
	CheckErr error

	deliverCall int
	// DeliverErr if set is returned by the Deliver method before calling
	// the wrapped handler.
	DeliverErr error
}

var _ arbiter.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx arbiter.Context, db arbiter.KVStore, tx arbiter.Tx, next arbiter.Checker) (*arbiter.CheckResult, error) {
	d.checkCall++

	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx arbiter.Context, db arbiter.KVStore, tx arbiter.Tx, next arbiter.Deliverer) (*arbiter.DeliverResult, error) {
	d.deliverCall++

	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

func (d *Decorator) CheckCallCount() int {
	return d.checkCall
}

func (d *Decorator) DeliverCallCount() int {
	return d.deliverCall
}

func (d *Decorator) CallCount() int {
	return d.checkCall + d.deliverCall
}

// Decorate returns a handler that calls the decorator before the handler.
func Decorate(h arbiter.Handler, d arbiter.Decorator) arbiter.Handler {
	return &decoratedHandler{hn: h, dc: d}
}

type decoratedHandler struct {
	hn arbiter.Handler
	dc arbiter.Decorator
}

var _ arbiter.Handler = (*decoratedHandler)(nil)

func (d *decoratedHandler) Check(ctx arbiter.Context, db arbiter.KVStore, tx arbiter.Tx) (*arbiter.CheckResult, error) {
	return d.dc.Check(ctx, db, tx, d.hn)
}

func (d *decoratedHandler) Deliver(ctx arbiter.Context, db arbiter.KVStore, tx arbiter.Tx) (*arbiter.DeliverResult, error) {
	return d.dc.Deliver(ctx, db, tx, d.hn)
}
