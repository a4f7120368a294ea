package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/arbiter"
	"github.com/iov-one/arbiter/errors"
)

// Genesis file format, designed to be overlayed with tendermint genesis
type Genesis struct {
	ChainID  string          `json:"chain_id"`
	AppState arbiter.Options `json:"app_state"`
}

// LoadGenesis tries to load a given file into a Genesis struct
func LoadGenesis(filePath string) (Genesis, error) {
	var gen Genesis

	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return gen, errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := json.Unmarshal(raw, &gen); err != nil {
		return gen, errors.Wrapf(errors.ErrInput, "cannot parse genesis file: %s", err)
	}
	return gen, nil
}

// Apply stores the chain id and initializes all extensions from the app
// state. It is used to set up a store without going through InitChain.
func (g Genesis) Apply(db arbiter.KVStore, init arbiter.Initializer) error {
	if err := saveChainID(db, g.ChainID); err != nil {
		return err
	}
	if init == nil {
		return nil
	}
	return init.FromGenesis(g.AppState, db)
}

// LoadChainID returns the chain id stored by Apply or InitChain, or an
// empty string.
func LoadChainID(db arbiter.ReadOnlyKVStore) (string, error) {
	v, err := db.Get([]byte(chainIDKey))
	if err != nil {
		return "", errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return string(v), nil
}
