package app

import (
	"context"
	"sync"
	"time"

	"github.com/iov-one/arbiter"
	"github.com/iov-one/arbiter/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// TxRunner executes transactions one at a time against a store, without a
// consensus engine. Every transaction is processed as if it was the only
// transaction of its own block: it runs in a cache wrap that is written
// only when the handler succeeds.
//
// TxRunner is safe for concurrent use.
type TxRunner struct {
	mu      sync.Mutex
	db      arbiter.CacheableKVStore
	handler arbiter.Handler
	base    arbiter.Context
	now     func() time.Time
	height  int64
}

// NewTxRunner returns a runner processing transactions on the given chain.
func NewTxRunner(db arbiter.CacheableKVStore, handler arbiter.Handler, chainID string) *TxRunner {
	base := arbiter.WithChainID(context.Background(), chainID)
	return &TxRunner{
		db:      db,
		handler: handler,
		base:    arbiter.WithLogger(base, log.NewNopLogger()),
		now:     time.Now,
	}
}

// WithClock sets the source of block time.
func (r *TxRunner) WithClock(now func() time.Time) *TxRunner {
	r.now = now
	return r
}

// WithLogger sets the logger passed to the handlers.
func (r *TxRunner) WithLogger(logger log.Logger) *TxRunner {
	r.base = arbiter.WithLogger(r.base, logger)
	return r
}

// Height returns the height of the last executed transaction.
func (r *TxRunner) Height() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.height
}

// Deliver executes the transaction. The state is modified only if the
// transaction succeeds. Nothing is executed if ctx is already done.
func (r *TxRunner) Deliver(ctx context.Context, tx arbiter.Tx) (*arbiter.DeliverResult, error) {
	if err := r.lock(ctx); err != nil {
		return nil, err
	}
	defer r.mu.Unlock()

	r.height++
	bctx := r.blockContext(r.height, "deliver_tx", tx)
	cache := r.db.CacheWrap()
	res, err := r.handler.Deliver(bctx, cache, tx)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return res, nil
}

// Check validates the transaction against the current state without
// modifying it.
func (r *TxRunner) Check(ctx context.Context, tx arbiter.Tx) (*arbiter.CheckResult, error) {
	if err := r.lock(ctx); err != nil {
		return nil, err
	}
	defer r.mu.Unlock()

	bctx := r.blockContext(r.height+1, "check_tx", tx)
	cache := r.db.CacheWrap()
	defer cache.Discard()
	return r.handler.Check(bctx, cache, tx)
}

// View runs fn with read access to the current state.
func (r *TxRunner) View(fn func(db arbiter.ReadOnlyKVStore) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r.db)
}

func (r *TxRunner) blockContext(height int64, call string, tx arbiter.Tx) arbiter.Context {
	ctx := arbiter.WithHeight(r.base, height)
	ctx = arbiter.WithBlockTime(ctx, r.now())
	return arbiter.WithLogInfo(ctx, "call", call, "path", arbiter.GetPath(tx))
}

// lock acquires the runner lock unless the context is already done.
func (r *TxRunner) lock(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(errors.ErrState, err.Error())
	}
	r.mu.Lock()
	return nil
}
