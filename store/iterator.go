package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/arbiter/errors"
)

// cacheIterator merges the cached items of a btree cache wrap with the
// iterator of the store it wraps. Cached items shadow parent entries
// with the same key, and deleted items hide them.
type cacheIterator struct {
	parent  Iterator
	items   []btree.Item
	idx     int
	reverse bool

	// peeked parent entry
	pkey, pval []byte
	pdone      bool
}

var _ Iterator = (*cacheIterator)(nil)

func newCacheIterator(parent Iterator, items []btree.Item, reverse bool) *cacheIterator {
	return &cacheIterator{
		parent:  parent,
		items:   items,
		reverse: reverse,
	}
}

func (c *cacheIterator) peekParent() error {
	if c.pdone || c.pkey != nil {
		return nil
	}
	key, value, err := c.parent.Next()
	if errors.ErrIteratorDone.Is(err) {
		c.pdone = true
		return nil
	}
	if err != nil {
		return err
	}
	c.pkey, c.pval = key, value
	return nil
}

// first reports whether a should be returned before b in this iteration
// order.
func (c *cacheIterator) first(a, b []byte) bool {
	if c.reverse {
		return bytes.Compare(a, b) > 0
	}
	return bytes.Compare(a, b) < 0
}

func (c *cacheIterator) Next() ([]byte, []byte, error) {
	for {
		if err := c.peekParent(); err != nil {
			return nil, nil, err
		}

		var item btree.Item
		if c.idx < len(c.items) {
			item = c.items[c.idx]
		}

		switch {
		case item == nil && c.pkey == nil:
			return nil, nil, errors.ErrIteratorDone
		case item == nil || (c.pkey != nil && c.first(c.pkey, item.(keyer).Key())):
			key, value := c.pkey, c.pval
			c.pkey, c.pval = nil, nil
			return key, value, nil
		}

		// The cached item wins, dropping a parent entry with the same key.
		c.idx++
		if c.pkey != nil && bytes.Equal(c.pkey, item.(keyer).Key()) {
			c.pkey, c.pval = nil, nil
		}
		if set, ok := item.(setItem); ok {
			return set.key, set.value, nil
		}
	}
}

func (c *cacheIterator) Release() {
	c.parent.Release()
	c.items = nil
}
