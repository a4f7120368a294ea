package app

import (
	"context"
	"testing"

	"github.com/iov-one/arbiter"
	"github.com/iov-one/arbiter/arbitertest"
	"github.com/iov-one/arbiter/errors"
	"github.com/iov-one/arbiter/x/utils"
	"github.com/stretchr/testify/assert"
)

// panicAtHeight panics when processing a transaction at or above the
// given height.
type panicAtHeight int64

func (p panicAtHeight) Check(ctx arbiter.Context, db arbiter.KVStore, tx arbiter.Tx, next arbiter.Checker) (*arbiter.CheckResult, error) {
	if h, _ := arbiter.GetHeight(ctx); h >= int64(p) {
		panic("too high")
	}
	return next.Check(ctx, db, tx)
}

func (p panicAtHeight) Deliver(ctx arbiter.Context, db arbiter.KVStore, tx arbiter.Tx, next arbiter.Deliverer) (*arbiter.DeliverResult, error) {
	if h, _ := arbiter.GetHeight(ctx); h >= int64(p) {
		panic("too high")
	}
	return next.Deliver(ctx, db, tx)
}

func TestChain(t *testing.T) {
	c1 := &arbitertest.Decorator{}
	c2 := &arbitertest.Decorator{}
	c3 := &arbitertest.Decorator{}
	h := &arbitertest.Handler{}

	stack := ChainDecorators(
		c1,
		utils.NewLogging(),
		utils.NewRecovery(),
		c2,
		panicAtHeight(6),
		nil,
		c3,
	).WithHandler(h)

	bg := context.Background()
	tx := &arbitertest.Tx{Msg: &arbitertest.Msg{RoutePath: "docsign/test"}}

	_, err := stack.Check(arbiter.WithHeight(bg, 2), nil, tx)
	assert.NoError(t, err)
	_, err = stack.Deliver(arbiter.WithHeight(bg, 4), nil, tx)
	assert.NoError(t, err)

	assert.Equal(t, 2, c1.CallCount())
	assert.Equal(t, 2, c2.CallCount())
	assert.Equal(t, 2, c3.CallCount())
	assert.Equal(t, 2, h.CallCount())

	// a panic is converted into an error and never reaches the handler
	ctx := arbiter.WithHeight(bg, 8)
	_, err = stack.Check(ctx, nil, tx)
	assert.True(t, errors.ErrPanic.Is(err))
	_, err = stack.Deliver(ctx, nil, tx)
	assert.True(t, errors.ErrPanic.Is(err))

	assert.Equal(t, 4, c1.CallCount())
	assert.Equal(t, 4, c2.CallCount())
	assert.Equal(t, 2, c3.CallCount())
	assert.Equal(t, 2, h.CallCount())
}

func TestChainWithoutDecorators(t *testing.T) {
	h := &arbitertest.Handler{}
	stack := ChainDecorators().WithHandler(h)
	_, err := stack.Deliver(context.Background(), nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, 1, h.DeliverCallCount())
}
