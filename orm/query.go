package orm

import (
	"github.com/iov-one/arbiter"
	"github.com/iov-one/arbiter/errors"
)

// ConsumeIterator will read all remaining data into an
// array and release the iterator
func ConsumeIterator(itr arbiter.Iterator) ([]arbiter.Model, error) {
	defer itr.Release()

	var res []arbiter.Model
	for {
		key, value, err := itr.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		res = append(res, arbiter.Model{Key: key, Value: value})
	}
}

// queryPrefix returns all entries with the given key prefix.
func queryPrefix(db arbiter.ReadOnlyKVStore, prefix []byte) ([]arbiter.Model, error) {
	itr, err := db.Iterator(prefix, prefixRange(prefix))
	if err != nil {
		return nil, err
	}
	return ConsumeIterator(itr)
}

// prefixRange turns a prefix into the exclusive end of the key range
// holding all keys with that prefix. Returns nil if there is no upper
// bound.
func prefixRange(prefix []byte) []byte {
	if prefix == nil {
		return nil
	}
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	// all 0xFF
	return nil
}
