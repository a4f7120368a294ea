package app

import (
	"github.com/iov-one/arbiter"
	"github.com/iov-one/arbiter/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp routes decoded transactions through the handler stack on top of
// the storage and query layer of StoreApp.
type BaseApp struct {
	*StoreApp
	decoder arbiter.TxDecoder
	handler arbiter.Handler
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp returns an application serving transactions decoded with
// decoder. In debug mode failed responses carry the full error chain.
func NewBaseApp(store *StoreApp, decoder arbiter.TxDecoder, handler arbiter.Handler, debug bool) BaseApp {
	return BaseApp{
		StoreApp: store,
		decoder:  decoder,
		handler:  handler,
		debug:    debug,
	}
}

func (b BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	tx, err := b.decode(txBytes)
	if err != nil {
		return arbiter.DeliverTxError(err, b.debug)
	}
	res, err := b.handler.Deliver(b.txContext("deliver_tx", tx), b.DeliverStore(), tx)
	if err != nil {
		return arbiter.DeliverTxError(err, b.debug)
	}
	return res.ToABCI()
}

func (b BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	tx, err := b.decode(txBytes)
	if err != nil {
		return arbiter.CheckTxError(err, b.debug)
	}
	res, err := b.handler.Check(b.txContext("check_tx", tx), b.CheckStore(), tx)
	if err != nil {
		return arbiter.CheckTxError(err, b.debug)
	}
	return res.ToABCI()
}

// txContext is the block context with a logger annotated by the ABCI call
// and the message path.
func (b BaseApp) txContext(call string, tx arbiter.Tx) arbiter.Context {
	return arbiter.WithLogInfo(b.BlockContext(), "call", call, "path", arbiter.GetPath(tx))
}

// decode rejects malformed input without letting a decoder panic escape.
func (b BaseApp) decode(txBytes []byte) (tx arbiter.Tx, err error) {
	defer errors.Recover(&err)
	if len(txBytes) == 0 {
		return nil, errors.Wrap(errors.ErrInput, "empty transaction")
	}
	return b.decoder(txBytes)
}
