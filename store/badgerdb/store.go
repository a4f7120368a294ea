/*
Package badgerdb provides a persistent CommitKVStore backed by badger.

Every commit applies the pending writes of a block in badger transactions
and records the version together with an application hash. The hash chains
the previous hash with all operations of the block, so two nodes that
processed the same transactions report the same hash.
*/
package badgerdb

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"

	"github.com/dgraph-io/badger"
	"github.com/iov-one/arbiter/errors"
	"github.com/iov-one/arbiter/store"
	"github.com/sirupsen/logrus"
)

var (
	dataPrefix = []byte("d:")
	metaKey    = []byte("m:version")
)

// CommitStore is a CommitKVStore on top of a badger database.
type CommitStore struct {
	db     *badger.DB
	logger *logrus.Entry

	version int64
	hash    []byte

	// working holds all writes of the current block until Commit.
	working store.BTreeCacheWrap
	ops     *store.NonAtomicBatch
}

var _ store.CommitKVStore = (*CommitStore)(nil)

// NewCommitStore opens an existing database or creates a new one if nothing
// is found in path.
func NewCommitStore(path string, logger *logrus.Entry) (*CommitStore, error) {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	opts := badger.DefaultOptions(path).
		WithSyncWrites(true).
		WithTruncate(true).
		WithLogger(logger.WithFields(logrus.Fields{"ns": "badger"}))

	handle, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "cannot open badger %q: %s", path, err)
	}
	s := &CommitStore{
		db:     handle,
		logger: logger,
	}
	s.resetWorking()
	return s, nil
}

// Close releases the database.
func (s *CommitStore) Close() error {
	return s.db.Close()
}

func (s *CommitStore) resetWorking() {
	r := reader{db: s.db}
	s.ops = store.NewNonAtomicBatch(store.EmptyKVStore{})
	s.working = store.NewBTreeCacheWrap(r, s.ops, nil)
}

// Get returns the value at last committed state
// returns nil iff key doesn't exist.
func (s *CommitStore) Get(key []byte) ([]byte, error) {
	return reader{db: s.db}.Get(key)
}

// CacheWrap returns a cache on top of all writes of the current block.
func (s *CommitStore) CacheWrap() store.KVCacheWrap {
	return s.working.CacheWrap()
}

// Commit writes all pending operations to disk together with the new version
// and application hash.
func (s *CommitStore) Commit() (store.CommitID, error) {
	ops := s.ops.ShowOps()
	version := s.version + 1
	hash := nextHash(s.hash, version, ops)

	txn := s.db.NewTransaction(true)
	defer func() { txn.Discard() }()

	apply := func(op store.Op) error {
		key := append(append([]byte(nil), dataPrefix...), op.Key()...)
		if op.IsSetOp() {
			return txn.Set(key, op.Value())
		}
		return txn.Delete(key)
	}

	for _, op := range ops {
		err := apply(op)
		if err == badger.ErrTxnTooBig {
			// Flush what we have and continue in a fresh transaction.
			if err := txn.Commit(); err != nil {
				return store.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
			}
			txn = s.db.NewTransaction(true)
			err = apply(op)
		}
		if err != nil {
			return store.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
		}
	}
	if err := txn.Set(metaKey, encodeMeta(version, hash)); err != nil {
		return store.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if err := txn.Commit(); err != nil {
		return store.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}

	s.version, s.hash = version, hash
	s.resetWorking()

	s.logger.WithFields(logrus.Fields{
		"version": version,
		"ops":     len(ops),
	}).Debug("commit")

	return store.CommitID{Version: version, Hash: hash}, nil
}

// LoadLatestVersion loads the latest persisted version.
func (s *CommitStore) LoadLatestVersion() error {
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(metaKey)
		if err == badger.ErrKeyNotFound {
			s.version, s.hash = 0, nil
			return nil
		}
		if err != nil {
			return err
		}
		raw, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		s.version, s.hash, err = decodeMeta(raw)
		return err
	})
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	s.resetWorking()
	return nil
}

// LatestVersion returns info on the latest version saved to disk
func (s *CommitStore) LatestVersion() (store.CommitID, error) {
	return store.CommitID{Version: s.version, Hash: s.hash}, nil
}

// nextHash computes the application hash of a block.
func nextHash(prev []byte, version int64, ops []store.Op) []byte {
	h := sha256.New()
	h.Write(prev)
	_ = binary.Write(h, binary.BigEndian, version)
	for _, op := range ops {
		if op.IsSetOp() {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
		writeChunk(h, op.Key())
		writeChunk(h, op.Value())
	}
	return h.Sum(nil)
}

func writeChunk(w interface{ Write([]byte) (int, error) }, b []byte) {
	var size [4]byte
	binary.BigEndian.PutUint32(size[:], uint32(len(b)))
	_, _ = w.Write(size[:])
	_, _ = w.Write(b)
}

func encodeMeta(version int64, hash []byte) []byte {
	raw := make([]byte, 8, 8+len(hash))
	binary.BigEndian.PutUint64(raw, uint64(version))
	return append(raw, hash...)
}

func decodeMeta(raw []byte) (int64, []byte, error) {
	if len(raw) < 8 {
		return 0, nil, errors.Wrap(errors.ErrDatabase, "malformed version record")
	}
	return int64(binary.BigEndian.Uint64(raw[:8])), append([]byte(nil), raw[8:]...), nil
}

// reader exposes the committed content of the database. Writes are not
// supported, they always go through the working cache.
type reader struct {
	db *badger.DB
}

var _ store.ReadOnlyKVStore = reader{}

func (r reader) Get(key []byte) ([]byte, error) {
	var val []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(dataKey(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return val, nil
}

func (r reader) Has(key []byte) (bool, error) {
	val, err := r.Get(key)
	return val != nil, err
}

func (r reader) Iterator(start, end []byte) (store.Iterator, error) {
	return r.collect(start, end, false)
}

func (r reader) ReverseIterator(start, end []byte) (store.Iterator, error) {
	return r.collect(start, end, true)
}

// collect loads all entries in [start, end) in the requested order.
func (r reader) collect(start, end []byte, reverse bool) (store.Iterator, error) {
	var res []store.Model
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = reverse
		it := txn.NewIterator(opts)
		defer it.Close()

		switch {
		case !reverse && start != nil:
			it.Seek(dataKey(start))
		case !reverse:
			it.Seek(dataPrefix)
		case end != nil:
			it.Seek(dataKey(end))
		default:
			// In reverse mode seek finds the largest key not greater
			// than the one given.
			it.Seek(append(append([]byte(nil), dataPrefix...), 0xFF, 0xFF, 0xFF, 0xFF))
		}

		for ; it.ValidForPrefix(dataPrefix); it.Next() {
			item := it.Item()
			key := item.KeyCopy(nil)[len(dataPrefix):]
			if end != nil && bytes.Compare(key, end) >= 0 {
				if reverse {
					continue
				}
				return nil
			}
			if start != nil && bytes.Compare(key, start) < 0 {
				if reverse {
					return nil
				}
				continue
			}
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			res = append(res, store.Model{Key: key, Value: val})
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return store.NewSliceIterator(res), nil
}

func dataKey(key []byte) []byte {
	return append(append([]byte(nil), dataPrefix...), key...)
}
