/*
Package arbiter defines the common interfaces used to tie together
the ledger subpackages, as well as implementations of the simpler
components (when interfaces would be too much overhead).

Stores, transactions, handlers and decorators are declared here so that
the storage layer (store, store/iavl, store/badgerdb), the application
layer (app) and the extensions (x/...) can depend on a single set of
contracts.

We pass context through context.Context between app, middleware, and
handlers. To do so, arbiter defines some common keys to store info, such
as block height, block time and chain id. Each extension, such as sigs,
may add its own keys to enrich the context with specific data.
*/
package arbiter
