/*
Package clienttest provides an in-process replacement of the tendermint
rpc connection, so that clients can be tested against an application
without running a node.
*/
package clienttest

import (
	"sync"
	"time"

	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/rpc/client"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
	tmtypes "github.com/tendermint/tendermint/types"
)

// Node implements the rpc calls used by the arbiter client on top of an
// application. Every broadcast transaction is committed in its own block.
//
// Only Genesis, Status, ABCIQuery and BroadcastTxCommit are supported.
// Calling any other method of the client.Client interface panics.
type Node struct {
	client.Client

	mu      sync.Mutex
	app     abci.Application
	chainID string
	height  int64
	start   time.Time
}

var _ client.Client = (*Node)(nil)

// NewNode initializes the application with the given genesis application
// state and returns a connection to it. The genesis state is committed
// with an empty first block, as a node does before accepting transactions.
func NewNode(app abci.Application, chainID string, appState []byte) *Node {
	start := time.Date(2019, 7, 1, 0, 0, 0, 0, time.UTC)
	app.InitChain(abci.RequestInitChain{
		Time:          start,
		ChainId:       chainID,
		AppStateBytes: appState,
	})
	n := &Node{app: app, chainID: chainID, start: start}
	n.block(func() {})
	return n
}

// Genesis returns a genesis document carrying only the chain id.
func (n *Node) Genesis() (*ctypes.ResultGenesis, error) {
	return &ctypes.ResultGenesis{
		Genesis: &tmtypes.GenesisDoc{ChainID: n.chainID, GenesisTime: n.start},
	}, nil
}

// Status returns the height of the last committed block.
func (n *Node) Status() (*ctypes.ResultStatus, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	var res ctypes.ResultStatus
	res.NodeInfo.Network = n.chainID
	res.SyncInfo.LatestBlockHeight = n.height
	res.SyncInfo.LatestBlockTime = n.blockTime()
	return &res, nil
}

// ABCIQuery queries the last committed state.
func (n *Node) ABCIQuery(path string, data cmn.HexBytes) (*ctypes.ResultABCIQuery, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	res := n.app.Query(abci.RequestQuery{Path: path, Data: data})
	return &ctypes.ResultABCIQuery{Response: res}, nil
}

// BroadcastTxCommit runs the transaction in a new block. DeliverTx is not
// called when the check fails, as a node would not include it in a block.
func (n *Node) BroadcastTxCommit(tx tmtypes.Tx) (*ctypes.ResultBroadcastTxCommit, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	res := &ctypes.ResultBroadcastTxCommit{Hash: tx.Hash()}
	n.block(func() {
		res.CheckTx = n.app.CheckTx(tx)
		if !res.CheckTx.IsErr() {
			res.DeliverTx = n.app.DeliverTx(tx)
		}
	})
	res.Height = n.height
	return res, nil
}

// block executes txs within a new committed block.
func (n *Node) block(txs func()) {
	n.height++
	n.app.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{
			ChainID: n.chainID,
			Height:  n.height,
			Time:    n.blockTime(),
		},
	})
	txs()
	n.app.EndBlock(abci.RequestEndBlock{Height: n.height})
	n.app.Commit()
}

// blockTime is one second per block after the genesis.
func (n *Node) blockTime() time.Time {
	return n.start.Add(time.Duration(n.height) * time.Second)
}
