package app

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/arbiter/errors"
	"github.com/iov-one/arbiter/store"
	"github.com/iov-one/arbiter/x/docsign"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadGenesis(t *testing.T) {
	dir, err := ioutil.TempDir("", "genesis")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "genesis.json")
	raw := `{
		"chain_id": "test-chain",
		"app_state": {"docsign": {"max_capacity": 16, "max_participants": 8, "max_title_length": 64}}
	}`
	require.NoError(t, ioutil.WriteFile(path, []byte(raw), 0600))

	gen, err := LoadGenesis(path)
	require.NoError(t, err)
	assert.Equal(t, "test-chain", gen.ChainID)

	db := store.MemStore()
	require.NoError(t, gen.Apply(db, &docsign.Initializer{}))

	chainID, err := LoadChainID(db)
	require.NoError(t, err)
	assert.Equal(t, "test-chain", chainID)
	conf, err := docsign.LoadConfiguration(db)
	require.NoError(t, err)
	assert.Equal(t, int64(16), conf.MaxCapacity)

	// the chain id cannot be changed once set
	err = gen.Apply(db, nil)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	_, err = LoadGenesis(filepath.Join(dir, "missing.json"))
	assert.True(t, errors.ErrInput.Is(err))

	require.NoError(t, ioutil.WriteFile(path, []byte("{"), 0600))
	_, err = LoadGenesis(path)
	assert.True(t, errors.ErrInput.Is(err))
}
