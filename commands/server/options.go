package server

import (
	"encoding/json"

	"github.com/iov-one/arbiter/errors"
	"github.com/spf13/viper"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// Viper keys shared by all commands. The root command binds its flags
// to these keys.
const (
	FlagHome     = "home"
	FlagBind     = "bind"
	FlagDebug    = "debug"
	FlagStore    = "store"
	FlagLogLevel = "log_level"
	FlagLogFile  = "log_file"
)

// Storage backends supported by the daemon.
const (
	StoreIAVL   = "iavl"
	StoreBadger = "badger"
	StoreMemory = "memory"
)

// Options are passed to the AppGenerator when the node starts.
type Options struct {
	// Home is the directory holding the configuration and the database.
	Home string
	// Store selects the storage backend.
	Store  string
	Logger log.Logger
	// Debug returns the full error stack to the client.
	Debug bool
}

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(Options) (abci.Application, error)

// GenOptions can parse command-line and flag to
// generate default app_options for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// ConfigName is the base name of the optional configuration file that is
// read from the home directory.
const ConfigName = "arbiterd"

// ReadConfigFile loads ConfigName.toml from home into viper. Flags and
// environment variables take precedence over the file. A missing file is
// not an error.
func ReadConfigFile(home string) error {
	viper.SetConfigName(ConfigName)
	viper.SetConfigType("toml")
	viper.AddConfigPath(home)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return errors.Wrapf(errors.ErrInput, "config file: %s", err)
	}
	return nil
}
