package store

import (
	"bytes"
	"testing"

	"github.com/iov-one/arbiter/arbitertest/assert"
	"github.com/iov-one/arbiter/errors"
)

// TestSuite provides many methods that can be called in package-specific test
// code. We just customize the store being tested (pass in constructor), the
// rest of the logic is generic to the CacheableKVStore interface.
//
// This is used by btree_test.go, iavl/adapter_test.go and
// badgerdb/store_test.go.
type TestSuite struct {
	makeBase TestStoreConstructor
}

// TestStoreConstructor returns a fresh store together with a cleanup
// function releasing its resources.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{
		makeBase: constructor,
	}
}

// GetSet does basic sanity checks on our cache
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	k, v := []byte("french"), []byte("fry")
	AssertGetHas(t, base, k, nil, false)
	assert.Nil(t, base.Set(k, v))
	AssertGetHas(t, base, k, v, true)

	// now layer another btree on top and make sure that we get
	// base data
	cache := base.CacheWrap()
	AssertGetHas(t, cache, k, v, true)

	// writing more data is only visible in the cache
	k2, v2 := []byte("LA"), []byte("Dodgers")
	AssertGetHas(t, cache, k2, nil, false)
	assert.Nil(t, cache.Set(k2, v2))
	AssertGetHas(t, cache, k2, v2, true)
	AssertGetHas(t, base, k2, nil, false)

	// we can write the cache to the base layer...
	assert.Nil(t, cache.Write())
	AssertGetHas(t, base, k, v, true)
	AssertGetHas(t, base, k2, v2, true)

	// we can discard one
	k3, v3 := []byte("Bayern"), []byte("Munich")
	c2 := base.CacheWrap()
	AssertGetHas(t, c2, k, v, true)
	AssertGetHas(t, c2, k2, v2, true)
	assert.Nil(t, c2.Set(k3, v3))
	c2.Discard()

	// and commit another
	c3 := base.CacheWrap()
	AssertGetHas(t, c3, k, v, true)
	AssertGetHas(t, c3, k2, v2, true)
	assert.Nil(t, c3.Delete(k))
	assert.Nil(t, c3.Write())

	// make sure it commits proper
	AssertGetHas(t, base, k, nil, false)
	AssertGetHas(t, base, k2, v2, true)
	AssertGetHas(t, base, k3, nil, false)
}

// CacheConflicts checks that nested caches see their parent writes and
// deletes, and that their own writes shadow the parent.
func (s *TestSuite) CacheConflicts(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	assert.Nil(t, base.Set([]byte("a"), []byte("1")))
	assert.Nil(t, base.Set([]byte("b"), []byte("2")))

	outer := base.CacheWrap()
	assert.Nil(t, outer.Delete([]byte("a")))
	assert.Nil(t, outer.Set([]byte("c"), []byte("3")))

	inner := outer.CacheWrap()
	AssertGetHas(t, inner, []byte("a"), nil, false)
	AssertGetHas(t, inner, []byte("c"), []byte("3"), true)
	assert.Nil(t, inner.Set([]byte("a"), []byte("again")))
	assert.Nil(t, inner.Set([]byte("b"), []byte("two")))
	assert.Nil(t, inner.Write())

	AssertGetHas(t, outer, []byte("a"), []byte("again"), true)
	AssertGetHas(t, base, []byte("b"), []byte("2"), true)
	assert.Nil(t, outer.Write())
	AssertGetHas(t, base, []byte("b"), []byte("two"), true)
	AssertGetHas(t, base, []byte("c"), []byte("3"), true)
}

// Iteration ensures that the iterators merge cached and stored data, honor
// the range bounds and the requested direction.
func (s *TestSuite) Iteration(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	for _, k := range []string{"a", "b", "d", "f"} {
		assert.Nil(t, base.Set([]byte(k), []byte("base-"+k)))
	}
	cache := base.CacheWrap()
	assert.Nil(t, cache.Set([]byte("c"), []byte("cache-c")))
	assert.Nil(t, cache.Set([]byte("d"), []byte("cache-d")))
	assert.Nil(t, cache.Delete([]byte("b")))

	cases := map[string]struct {
		start, end []byte
		reverse    bool
		want       []Model
	}{
		"everything ascending": {
			want: []Model{
				{Key: []byte("a"), Value: []byte("base-a")},
				{Key: []byte("c"), Value: []byte("cache-c")},
				{Key: []byte("d"), Value: []byte("cache-d")},
				{Key: []byte("f"), Value: []byte("base-f")},
			},
		},
		"bounded ascending": {
			start: []byte("b"),
			end:   []byte("f"),
			want: []Model{
				{Key: []byte("c"), Value: []byte("cache-c")},
				{Key: []byte("d"), Value: []byte("cache-d")},
			},
		},
		"everything descending": {
			reverse: true,
			want: []Model{
				{Key: []byte("f"), Value: []byte("base-f")},
				{Key: []byte("d"), Value: []byte("cache-d")},
				{Key: []byte("c"), Value: []byte("cache-c")},
				{Key: []byte("a"), Value: []byte("base-a")},
			},
		},
		"open start descending": {
			end:     []byte("d"),
			reverse: true,
			want: []Model{
				{Key: []byte("c"), Value: []byte("cache-c")},
				{Key: []byte("a"), Value: []byte("base-a")},
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var (
				it  Iterator
				err error
			)
			if tc.reverse {
				it, err = cache.ReverseIterator(tc.start, tc.end)
			} else {
				it, err = cache.Iterator(tc.start, tc.end)
			}
			assert.Nil(t, err)
			got := ReadAll(t, it)
			assert.Equal(t, len(tc.want), len(got))
			for i := range tc.want {
				if !bytes.Equal(tc.want[i].Key, got[i].Key) || !bytes.Equal(tc.want[i].Value, got[i].Value) {
					t.Fatalf("entry %d: want %s=%s, got %s=%s", i,
						tc.want[i].Key, tc.want[i].Value, got[i].Key, got[i].Value)
				}
			}
		})
	}
}

// AssertGetHas makes sure that this key returns
// the given value or nil, and has matches that
func AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	if !bytes.Equal(val, got) {
		t.Fatalf("%s: want %q, got %q", key, val, got)
	}
	exists, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, has, exists)
}

// ReadAll consumes the iterator and returns all entries.
func ReadAll(t testing.TB, it Iterator) []Model {
	t.Helper()
	defer it.Release()

	var res []Model
	for {
		key, value, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res
		}
		assert.Nil(t, err)
		res = append(res, Model{
			Key:   append([]byte(nil), key...),
			Value: append([]byte(nil), value...),
		})
	}
}
