package app

import (
	"testing"

	"github.com/iov-one/arbiter/arbitertest"
	"github.com/iov-one/arbiter/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter(t *testing.T) {
	r := NewRouter()

	good := &arbitertest.Handler{}
	bad := &arbitertest.Handler{
		CheckErr:   errors.ErrState,
		DeliverErr: errors.ErrState,
	}
	r.Handle("docsign/good", good)
	r.Handle("docsign/bad", bad)

	assert.Panics(t, func() { r.Handle("docsign/good", good) })
	assert.Panics(t, func() { r.Handle("l:7", good) })

	txOf := func(path string) *arbitertest.Tx {
		return &arbitertest.Tx{Msg: &arbitertest.Msg{RoutePath: path}}
	}

	_, err := r.Check(nil, nil, txOf("docsign/good"))
	require.NoError(t, err)
	_, err = r.Deliver(nil, nil, txOf("docsign/good"))
	require.NoError(t, err)
	assert.Equal(t, 2, good.CallCount())

	_, err = r.Deliver(nil, nil, txOf("docsign/bad"))
	assert.True(t, errors.ErrState.Is(err))
	assert.Equal(t, 1, bad.CallCount())

	_, err = r.Check(nil, nil, txOf("docsign/missing"))
	assert.True(t, errors.ErrNotFound.Is(err))
	_, err = r.Deliver(nil, nil, txOf("docsign/missing"))
	assert.True(t, errors.ErrNotFound.Is(err))

	_, err = r.Deliver(nil, nil, &arbitertest.Tx{})
	assert.True(t, errors.ErrMsg.Is(err))

	_, err = r.Deliver(nil, nil, &arbitertest.Tx{Err: errors.ErrInput})
	assert.True(t, errors.ErrInput.Is(err))

	assert.Equal(t, 2, good.CallCount())
	assert.Equal(t, 1, bad.CallCount())
}
