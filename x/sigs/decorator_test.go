package sigs

import (
	"context"
	"testing"

	"github.com/iov-one/arbiter"
	"github.com/iov-one/arbiter/arbitertest"
	"github.com/iov-one/arbiter/crypto"
	"github.com/iov-one/arbiter/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecorator(t *testing.T) {
	kv := store.MemStore()
	checkKv := kv.CacheWrap()
	signers := new(sigCheckHandler)
	d := NewDecorator()
	chainID := "deco-rate"
	ctx := arbiter.WithChainID(context.Background(), chainID)

	priv := crypto.GenPrivKeyEd25519()
	perms := []arbiter.Condition{priv.PublicKey().Condition()}

	tx := newStdTx([]byte("art"))
	sig, err := SignTx(priv, tx, chainID, 0)
	require.NoError(t, err)
	sig1, err := SignTx(priv, tx, chainID, 1)
	require.NoError(t, err)

	deliver := func(dec arbiter.Decorator, my arbiter.Tx) error {
		_, err := dec.Deliver(ctx, kv, my, signers)
		return err
	}
	check := func(dec arbiter.Decorator, my arbiter.Tx) error {
		_, err := dec.Check(ctx, checkKv, my, signers)
		return err
	}

	for i, fn := range []func(arbiter.Decorator, arbiter.Tx) error{check, deliver} {
		// no signatures
		tx.Signatures = nil
		assert.Error(t, fn(d, tx), "%d", i)

		// one signature
		tx.Signatures = []*StdSignature{sig}
		require.NoError(t, fn(d, tx), "%d", i)
		assert.Equal(t, perms, signers.Signers)

		// replay
		assert.Error(t, fn(d, tx), "%d", i)

		// allowing none
		ad := d.AllowMissingSigs()
		tx.Signatures = nil
		require.NoError(t, fn(ad, tx), "%d", i)
		assert.Empty(t, signers.Signers)

		// next sequence is accepted
		tx.Signatures = []*StdSignature{sig1}
		require.NoError(t, fn(ad, tx), "%d", i)
		assert.Equal(t, perms, signers.Signers)
	}
}

func TestDecoratorRejectsUnsignedTxType(t *testing.T) {
	kv := store.MemStore()
	ctx := arbiter.WithChainID(context.Background(), "deco-rate")
	tx := &arbitertest.Tx{Msg: &arbitertest.Msg{RoutePath: "test/plain"}}

	_, err := NewDecorator().Deliver(ctx, kv, tx, new(sigCheckHandler))
	assert.Error(t, err)

	h := new(sigCheckHandler)
	_, err = NewDecorator().AllowMissingSigs().Deliver(ctx, kv, tx, h)
	assert.NoError(t, err)
	assert.Empty(t, h.Signers)
}

func TestCheckChargesPerSignature(t *testing.T) {
	kv := store.MemStore()
	ctx := arbiter.WithChainID(context.Background(), "deco-rate")

	a, b := crypto.GenPrivKeyEd25519(), crypto.GenPrivKeyEd25519()
	tx := newStdTx([]byte("two signers"))
	sigA, err := SignTx(a, tx, "deco-rate", 0)
	require.NoError(t, err)
	sigB, err := SignTx(b, tx, "deco-rate", 0)
	require.NoError(t, err)
	tx.Signatures = []*StdSignature{sigA, sigB}

	res, err := NewDecorator().Check(ctx, kv, tx, new(sigCheckHandler))
	require.NoError(t, err)
	assert.Equal(t, int64(2*signatureVerifyCost), res.GasPayment)
}
