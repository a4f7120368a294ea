package utils

import (
	"bytes"
	"context"
	"testing"

	"github.com/iov-one/arbiter"
	"github.com/iov-one/arbiter/errors"
	"github.com/iov-one/arbiter/store"
	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestRecovery(t *testing.T) {
	var h panicHandler
	r := NewRecovery()

	ctx := context.Background()
	s := store.MemStore()

	// Panic handler panics. Test the test tool.
	assert.Panics(t, func() { _, _ = h.Check(ctx, s, nil) })
	assert.Panics(t, func() { _, _ = h.Deliver(ctx, s, nil) })

	// Recovery wrapped handler returns an error.
	_, err := r.Check(ctx, s, nil, h)
	assert.True(t, errors.ErrPanic.Is(err))

	_, err = r.Deliver(ctx, s, nil, h)
	assert.True(t, errors.ErrPanic.Is(err))
}

func TestRecoveryLogsPanic(t *testing.T) {
	var buf bytes.Buffer
	ctx := arbiter.WithLogger(context.Background(), log.NewTMLogger(&buf))

	_, err := NewRecovery().Deliver(ctx, store.MemStore(), nil, panicHandler{})
	assert.True(t, errors.ErrPanic.Is(err))
	assert.Contains(t, err.Error(), "deliver panic")
	assert.Contains(t, buf.String(), "transaction panicked")
	assert.Contains(t, buf.String(), "deliver panic")
}

type panicHandler struct{}

var _ arbiter.Handler = panicHandler{}

func (p panicHandler) Check(ctx arbiter.Context, store arbiter.KVStore, tx arbiter.Tx) (*arbiter.CheckResult, error) {
	panic("check panic")
}

func (p panicHandler) Deliver(ctx arbiter.Context, store arbiter.KVStore, tx arbiter.Tx) (*arbiter.DeliverResult, error) {
	_ = store.Set([]byte{1, 2, 3}, []byte("partial"))
	panic("deliver panic")
}
