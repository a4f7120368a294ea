package badgerdb

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/arbiter/store"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.Out = ioutil.Discard
	return logrus.NewEntry(l)
}

func openStore(t *testing.T) (*CommitStore, string, func()) {
	dir, err := ioutil.TempDir("", "badgerdb")
	require.NoError(t, err)
	s, err := NewCommitStore(dir, testLogger())
	require.NoError(t, err)
	require.NoError(t, s.LoadLatestVersion())
	return s, dir, func() {
		s.Close()
		os.RemoveAll(dir)
	}
}

func TestBadgerStore(t *testing.T) {
	var cleanups []func()
	defer func() {
		for _, c := range cleanups {
			c()
		}
	}()
	suite := store.NewTestSuite(func() (store.CacheableKVStore, func()) {
		s, _, cleanup := openStore(t)
		cleanups = append(cleanups, cleanup)
		return s.CacheWrap(), func() {}
	})
	t.Run("GetSet", suite.GetSet)
	t.Run("CacheConflicts", suite.CacheConflicts)
	t.Run("Iteration", suite.Iteration)
}

func TestCommitPersistsAndReloads(t *testing.T) {
	s, dir, cleanup := openStore(t)
	defer cleanup()

	cache := s.CacheWrap()
	require.NoError(t, cache.Set([]byte("clerk"), []byte("one")))
	require.NoError(t, cache.Set([]byte("document"), []byte("two")))
	require.NoError(t, cache.Write())

	// Written but not committed.
	val, err := s.Get([]byte("clerk"))
	require.NoError(t, err)
	assert.Nil(t, val)

	id, err := s.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(1), id.Version)
	assert.Len(t, id.Hash, 32)

	val, err = s.Get([]byte("clerk"))
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), val)

	// Second block deletes one key.
	cache = s.CacheWrap()
	require.NoError(t, cache.Delete([]byte("document")))
	require.NoError(t, cache.Write())
	id2, err := s.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(2), id2.Version)
	assert.NotEqual(t, id.Hash, id2.Hash)

	require.NoError(t, s.Close())
	reopened, err := NewCommitStore(dir, testLogger())
	require.NoError(t, err)
	defer reopened.Close()
	require.NoError(t, reopened.LoadLatestVersion())

	latest, err := reopened.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, id2, latest)

	val, err = reopened.Get([]byte("document"))
	require.NoError(t, err)
	assert.Nil(t, val)
	val, err = reopened.Get([]byte("clerk"))
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), val)

	// The original handle is closed, keep cleanup from closing it twice.
	s.db = reopened.db
}

func TestHashIsDeterministic(t *testing.T) {
	ops := []store.Op{
		store.SetOp([]byte("a"), []byte("1")),
		store.DelOp([]byte("b")),
	}
	assert.Equal(t, nextHash(nil, 1, ops), nextHash(nil, 1, ops))
	assert.NotEqual(t, nextHash(nil, 1, ops), nextHash(nil, 2, ops))
	assert.NotEqual(t, nextHash(nil, 1, ops), nextHash(nil, 1, ops[:1]))
}
