package arbiter_test

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/arbiter"
	"github.com/iov-one/arbiter/errors"
	"github.com/iov-one/arbiter/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadOptions(t *testing.T) {
	opts := arbiter.Options{
		"docsign": json.RawMessage(`{"max_capacity": 12}`),
		"broken":  json.RawMessage(`{`),
	}

	var conf struct {
		MaxCapacity int64 `json:"max_capacity"`
	}
	require.NoError(t, opts.ReadOptions("docsign", &conf))
	assert.Equal(t, int64(12), conf.MaxCapacity)

	// missing key leaves the destination untouched
	require.NoError(t, opts.ReadOptions("missing", &conf))
	assert.Equal(t, int64(12), conf.MaxCapacity)

	assert.Error(t, opts.ReadOptions("broken", &conf))
}

type recordingInit struct {
	calls *[]string
	name  string
	err   error
}

func (r recordingInit) FromGenesis(opts arbiter.Options, kv arbiter.KVStore) error {
	*r.calls = append(*r.calls, r.name)
	return r.err
}

func TestChainInitializers(t *testing.T) {
	var calls []string
	db := store.MemStore()

	ok := arbiter.ChainInitializers{
		recordingInit{calls: &calls, name: "first"},
		recordingInit{calls: &calls, name: "second"},
	}
	require.NoError(t, ok.FromGenesis(arbiter.Options{}, db))
	assert.Equal(t, []string{"first", "second"}, calls)

	calls = nil
	failing := arbiter.ChainInitializers{
		recordingInit{calls: &calls, name: "first", err: errors.ErrInput},
		recordingInit{calls: &calls, name: "second"},
	}
	err := failing.FromGenesis(arbiter.Options{}, db)
	assert.True(t, errors.ErrInput.Is(err))
	assert.Equal(t, []string{"first"}, calls)
}
