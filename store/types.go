package store

import "github.com/iov-one/arbiter"

// Move references for all storage types into this package
// for shorter names everywhere

type (
	ReadOnlyKVStore  = arbiter.ReadOnlyKVStore
	SetDeleter       = arbiter.SetDeleter
	KVStore          = arbiter.KVStore
	Batch            = arbiter.Batch
	Iterator         = arbiter.Iterator
	CacheableKVStore = arbiter.CacheableKVStore
	KVCacheWrap      = arbiter.KVCacheWrap
	CommitKVStore    = arbiter.CommitKVStore
	CommitID         = arbiter.CommitID
	Model            = arbiter.Model
)
