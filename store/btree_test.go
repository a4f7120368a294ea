package store

import (
	"testing"

	"github.com/iov-one/arbiter/arbitertest/assert"
)

func makeBase() (CacheableKVStore, func()) {
	return MemStore(), func() {}
}

func TestBTreeStore(t *testing.T) {
	suite := NewTestSuite(makeBase)
	t.Run("GetSet", suite.GetSet)
	t.Run("CacheConflicts", suite.CacheConflicts)
	t.Run("Iteration", suite.Iteration)
}

func TestDiscardDropsPendingWrites(t *testing.T) {
	base := MemStore()
	assert.Nil(t, base.Set([]byte("clerk"), []byte("v1")))

	cache := base.CacheWrap()
	assert.Nil(t, cache.Set([]byte("clerk"), []byte("v2")))
	assert.Nil(t, cache.Set([]byte("document"), []byte("d1")))
	cache.Discard()

	AssertGetHas(t, base, []byte("clerk"), []byte("v1"), true)
	AssertGetHas(t, base, []byte("document"), nil, false)
}

func TestLogableStore(t *testing.T) {
	kv, ops := LogableStore()
	cache := kv.CacheWrap()
	assert.Nil(t, cache.Set([]byte("a"), []byte("1")))
	assert.Nil(t, cache.Delete([]byte("b")))
	assert.Nil(t, cache.Write())

	got := ops.ShowOps()
	assert.Equal(t, 2, len(got))
	assert.Equal(t, true, got[0].IsSetOp())
	assert.Equal(t, []byte("a"), got[0].Key())
	assert.Equal(t, false, got[1].IsSetOp())
}
