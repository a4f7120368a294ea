/*
Package app links together all the various components
to construct the arbiter daemon.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/arbiter"
	"github.com/iov-one/arbiter/app"
	"github.com/iov-one/arbiter/commands/server"
	"github.com/iov-one/arbiter/errors"
	"github.com/iov-one/arbiter/store/badgerdb"
	"github.com/iov-one/arbiter/store/iavl"
	"github.com/iov-one/arbiter/x"
	"github.com/iov-one/arbiter/x/docsign"
	"github.com/iov-one/arbiter/x/sigs"
	"github.com/iov-one/arbiter/x/utils"
	"github.com/sirupsen/logrus"
	abci "github.com/tendermint/tendermint/abci/types"
)

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, and recovery
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, bad tx will increment nonce
		// but leave the ledger untouched
		utils.NewSavepoint().OnDeliver(),
		utils.NewActionTagger(),
	)
}

// Router returns a router dispatching all document signing messages.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	docsign.RegisterRoutes(r, authFn)
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/clerks", "/staged", "/documents", "/contents"
// and "/auth"
func QueryRouter() arbiter.QueryRouter {
	r := arbiter.NewQueryRouter()
	r.RegisterAll(
		docsign.RegisterQuery,
		sigs.RegisterQuery,
	)
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack() arbiter.Handler {
	return Chain().WithHandler(Router(Authenticator()))
}

// Initializers returns the initializers of all extensions.
func Initializers() arbiter.Initializer {
	return arbiter.ChainInitializers{
		&docsign.Initializer{},
	}
}

// Application constructs a basic ABCI application with
// the given arguments.
func Application(name string, h arbiter.Handler, tx arbiter.TxDecoder,
	kv arbiter.CommitKVStore, debug bool) app.BaseApp {
	store := app.NewStoreApp(name, kv, QueryRouter(), context.Background())
	return app.NewBaseApp(store, tx, h, debug)
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(opts server.Options) (abci.Application, error) {
	kv, err := CommitKVStore(opts.Store, opts.Home, server.Entry(opts.Logger))
	if err != nil {
		return nil, err
	}
	application := Application("arbiter", Stack(), TxDecoder, kv, opts.Debug)
	application.WithInit(Initializers())
	application.WithLogger(opts.Logger)
	return application, nil
}

// CommitKVStore returns an initialized KVStore of the given backend that
// persists the data under home.
func CommitKVStore(backend, home string, logger *logrus.Entry) (arbiter.CommitKVStore, error) {
	// memory backed case, just for testing
	if backend == server.StoreMemory || home == "" {
		return iavl.MockCommitStore(), nil
	}

	// Expand the path fully
	home, err := filepath.Abs(home)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid home directory: %s", home)
	}

	switch strings.ToLower(backend) {
	case "", server.StoreIAVL:
		return iavl.NewCommitStore(filepath.Join(home, "data"), "arbiter")
	case server.StoreBadger:
		db, err := badgerdb.NewCommitStore(filepath.Join(home, "data", "arbiter.badger"), logger)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown store backend %q", backend)
	}
}
