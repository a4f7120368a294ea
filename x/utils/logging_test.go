package utils

import (
	"bytes"
	"context"
	"testing"

	"github.com/iov-one/arbiter"
	"github.com/iov-one/arbiter/arbitertest"
	"github.com/iov-one/arbiter/errors"
	"github.com/iov-one/arbiter/store"
	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	ctx := arbiter.WithLogger(context.Background(), log.NewTMLogger(&buf))
	db := store.MemStore()
	tx := &arbitertest.Tx{Msg: &arbitertest.Msg{RoutePath: "docsign/add_signature"}}

	_, err := NewLogging().Deliver(ctx, db, tx, &arbitertest.Handler{DeliverResult: arbiter.DeliverResult{Log: "signed"}})
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "signed")
	assert.Contains(t, buf.String(), "docsign/add_signature")

	buf.Reset()
	_, err = NewLogging().Deliver(ctx, db, tx, &arbitertest.Handler{DeliverErr: errors.ErrUnauthorized})
	assert.Error(t, err)
	assert.Contains(t, buf.String(), "unauthorized")
}
