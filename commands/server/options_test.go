package server

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/iov-one/arbiter/errors"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfigFile(t *testing.T) {
	home, cleanup := setupViper(t)
	defer cleanup()

	// no file is fine
	require.NoError(t, ReadConfigFile(home))
	assert.Equal(t, "", viper.GetString(FlagStore))

	conf := "store = \"badger\"\nlog_level = \"debug\"\n"
	path := filepath.Join(home, ConfigName+".toml")
	require.NoError(t, ioutil.WriteFile(path, []byte(conf), 0600))
	require.NoError(t, ReadConfigFile(home))
	assert.Equal(t, StoreBadger, viper.GetString(FlagStore))
	assert.Equal(t, "debug", viper.GetString(FlagLogLevel))

	// explicitly set values win over the file
	viper.Set(FlagStore, StoreMemory)
	assert.Equal(t, StoreMemory, viper.GetString(FlagStore))

	require.NoError(t, ioutil.WriteFile(path, []byte("store = "), 0600))
	assert.True(t, errors.ErrInput.Is(ReadConfigFile(home)))
}
