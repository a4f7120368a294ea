package server

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

// setupViper creates a homedir to run inside.
func setupViper(t *testing.T) (string, func()) {
	rootDir, err := ioutil.TempDir("", "arbiter-cmd")
	require.NoError(t, err)
	viper.Set(FlagHome, rootDir)
	return rootDir, func() {
		viper.Reset()
		os.RemoveAll(rootDir)
	}
}

func genOptions(args []string) (json.RawMessage, error) {
	return json.RawMessage(`{"docsign": {"max_capacity": 10}}`), nil
}

func readGenesis(t *testing.T, home string) genesisDoc {
	t.Helper()
	bz, err := ioutil.ReadFile(filepath.Join(home, "config", "genesis.json"))
	require.NoError(t, err)
	var doc genesisDoc
	require.NoError(t, json.Unmarshal(bz, &doc))
	return doc
}

func TestInit(t *testing.T) {
	home, cleanup := setupViper(t)
	defer cleanup()

	cmd := InitCmd(genOptions, log.NewNopLogger())
	require.NoError(t, cmd.RunE(cmd, nil))

	doc := readGenesis(t, home)
	assert.NotEmpty(t, doc["chain_id"])
	assert.NotEmpty(t, doc["validators"])
	assert.JSONEq(t, `{"docsign": {"max_capacity": 10}}`, string(doc[appStateKey]))

	// running again keeps the chain and replaces the app state
	replace := func([]string) (json.RawMessage, error) {
		return json.RawMessage(`{}`), nil
	}
	cmd = InitCmd(replace, log.NewNopLogger())
	require.NoError(t, cmd.RunE(cmd, nil))
	again := readGenesis(t, home)
	assert.Equal(t, doc["chain_id"], again["chain_id"])
	assert.JSONEq(t, `{}`, string(again[appStateKey]))
}

func TestInitWithoutHome(t *testing.T) {
	viper.Reset()
	cmd := InitCmd(genOptions, log.NewNopLogger())
	assert.Error(t, cmd.RunE(cmd, nil))
}
