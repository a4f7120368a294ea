package utils

import (
	"bytes"
	"context"
	"testing"

	"github.com/iov-one/arbiter/arbitertest"
	"github.com/iov-one/arbiter/errors"
	"github.com/iov-one/arbiter/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionTagger(t *testing.T) {
	ctx := context.Background()
	db := store.MemStore()
	tx := &arbitertest.Tx{Msg: &arbitertest.Msg{RoutePath: "docsign/finalize"}}

	res, err := NewActionTagger().Deliver(ctx, db, tx, &arbitertest.Handler{})
	require.NoError(t, err)
	require.Len(t, res.Tags, 1)
	assert.Equal(t, []byte(ActionKey), res.Tags[0].Key)
	assert.True(t, bytes.Equal([]byte("docsign/finalize"), res.Tags[0].Value))

	// failures are not tagged
	h := &arbitertest.Handler{DeliverErr: errors.ErrUnauthorized}
	_, err = NewActionTagger().Deliver(ctx, db, tx, h)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	// check is passed through untouched
	cres, err := NewActionTagger().Check(ctx, db, tx, &arbitertest.Handler{})
	require.NoError(t, err)
	assert.NotNil(t, cres)
}
