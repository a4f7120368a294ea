/*
Package client provides access to a running arbiter node over the
tendermint rpc.
*/
package client

import (
	"sync"

	"github.com/iov-one/arbiter"
	"github.com/iov-one/arbiter/app"
	"github.com/iov-one/arbiter/errors"
	"github.com/iov-one/arbiter/x/docsign"
	"github.com/iov-one/arbiter/x/sigs"
	"github.com/tendermint/tendermint/rpc/client"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
	tmtypes "github.com/tendermint/tendermint/types"
)

type Status = ctypes.ResultStatus
type GenesisDoc = tmtypes.GenesisDoc

// Client is a tendermint client wrapped to provide
// simple access to the records of the ledger.
type Client struct {
	conn client.Client
}

// NewClient wraps a Client around an existing
// tendermint client connection.
func NewClient(conn client.Client) *Client {
	return &Client{conn: conn}
}

// TendermintClient returns the underlying connection.
func (c *Client) TendermintClient() client.Client {
	return c.conn
}

// Status will return the raw status from the node
func (c *Client) Status() (*Status, error) {
	return c.conn.Status()
}

// Genesis will return the genesis directly from the node
func (c *Client) Genesis() (*GenesisDoc, error) {
	gen, err := c.conn.Genesis()
	if err != nil {
		return nil, err
	}
	return gen.Genesis, nil
}

// ChainID will parse out the chainID from the genesis
func (c *Client) ChainID() (string, error) {
	gen, err := c.Genesis()
	if err != nil {
		return "", err
	}
	return gen.ChainID, nil
}

// Height will parse out the Height from the status result
func (c *Client) Height() (int64, error) {
	status, err := c.conn.Status()
	if err != nil {
		return -1, err
	}
	return status.SyncInfo.LatestBlockHeight, nil
}

// AbciResponse contains a query result:
// a (possibly empty) list of key-value pairs, and the height
// at which it queried
type AbciResponse struct {
	Models []arbiter.Model
	Height int64
}

// AbciQuery calls abci query on tendermint rpc,
// verifies if it is an error or empty, and if there is
// data pulls out the ResultSets from keys and values into
// a useful AbciResponse struct
func (c *Client) AbciQuery(path string, data []byte) (AbciResponse, error) {
	var out AbciResponse

	q, err := c.conn.ABCIQuery(path, data)
	if err != nil {
		return out, errors.Wrap(errors.ErrState, err.Error())
	}
	resp := q.Response
	if resp.IsErr() {
		return out, errors.ABCIError(resp.Code, resp.Log)
	}
	out.Height = resp.Height

	if len(resp.Key) == 0 {
		return out, nil
	}

	var keys, vals app.ResultSet
	if err := keys.Unmarshal(resp.Key); err != nil {
		return out, errors.Wrap(err, "keys")
	}
	if err := vals.Unmarshal(resp.Value); err != nil {
		return out, errors.Wrap(err, "values")
	}
	out.Models, err = app.JoinResults(&keys, &vals)
	return out, err
}

// BroadcastTxResponse is the result of submitting a transaction.
type BroadcastTxResponse struct {
	Error    error                           // not-nil if there was an error sending
	Response *ctypes.ResultBroadcastTxCommit // not-nil if we got response from node
}

// IsError returns the error for failure if it failed,
// or nil if it succeeded. Ledger errors are restored, so they can be
// tested with Is.
func (b BroadcastTxResponse) IsError() error {
	if b.Error != nil {
		return b.Error
	}
	if b.Response.CheckTx.IsErr() {
		return errors.ABCIError(b.Response.CheckTx.Code, b.Response.CheckTx.Log)
	}
	if b.Response.DeliverTx.IsErr() {
		return errors.ABCIError(b.Response.DeliverTx.Code, b.Response.DeliverTx.Log)
	}
	return nil
}

// Data returns the data returned by the transaction, like the address of a
// created record.
func (b BroadcastTxResponse) Data() []byte {
	if b.Response == nil {
		return nil
	}
	return b.Response.DeliverTx.Data
}

// BroadcastTx serializes a signed transaction and writes to the
// blockchain. It returns when the tx is committed to the
// blockchain.
func (c *Client) BroadcastTx(tx arbiter.Tx) BroadcastTxResponse {
	data, err := tx.Marshal()
	if err != nil {
		return BroadcastTxResponse{Error: err}
	}
	res, err := c.conn.BroadcastTxCommit(data)
	if err != nil {
		return BroadcastTxResponse{Error: errors.Wrap(errors.ErrState, err.Error())}
	}
	return BroadcastTxResponse{Response: res}
}

// UserResponse is a response on a query for a User
type UserResponse struct {
	Address  arbiter.Address
	UserData sigs.UserData
	Height   int64
}

// GetUser will return nonce and public key registered
// for a given address if it was ever used.
// If it returns (nil, nil), then this address never signed
// a transaction before (and can use nonce = 0)
func (c *Client) GetUser(addr arbiter.Address) (*UserResponse, error) {
	var out UserResponse
	height, ok, err := c.queryOne("/auth", addr, &out.UserData)
	if err != nil || !ok {
		return nil, err
	}
	out.Address = addr
	out.Height = height
	return &out, nil
}

// GetClerk returns the clerk stored at the address, or nil.
func (c *Client) GetClerk(id arbiter.Address) (*docsign.Clerk, error) {
	var clerk docsign.Clerk
	_, ok, err := c.queryOne("/clerks", id, &clerk)
	if err != nil || !ok {
		return nil, err
	}
	return &clerk, nil
}

// GetStagedClerk returns the clerk staged for an upgrade at the address,
// or nil.
func (c *Client) GetStagedClerk(id arbiter.Address) (*docsign.Clerk, error) {
	var clerk docsign.Clerk
	_, ok, err := c.queryOne("/staged", id, &clerk)
	if err != nil || !ok {
		return nil, err
	}
	return &clerk, nil
}

// GetDocument returns the document stored at the address, or nil.
func (c *Client) GetDocument(id arbiter.Address) (*docsign.Document, error) {
	var doc docsign.Document
	_, ok, err := c.queryOne("/documents", id, &doc)
	if err != nil || !ok {
		return nil, err
	}
	return &doc, nil
}

// GetContent returns the content reference of a document, or nil.
func (c *Client) GetContent(id arbiter.Address) (*docsign.Content, error) {
	var content docsign.Content
	_, ok, err := c.queryOne("/contents", id, &content)
	if err != nil || !ok {
		return nil, err
	}
	return &content, nil
}

// queryOne loads the single result of a key query into dest. It returns
// false if nothing is stored under the key.
func (c *Client) queryOne(path string, id arbiter.Address, dest arbiter.Persistent) (int64, bool, error) {
	if err := id.Validate(); err != nil {
		return 0, false, errors.Wrap(err, "invalid address")
	}
	resp, err := c.AbciQuery(path, id)
	if err != nil {
		return 0, false, err
	}
	if len(resp.Models) == 0 {
		return resp.Height, false, nil
	}
	if err := dest.Unmarshal(resp.Models[0].Value); err != nil {
		return 0, false, err
	}
	return resp.Height, true, nil
}

// Nonce has a client/address pair, queries for the nonce
// and caches recent nonce locally to quickly sign
type Nonce struct {
	mutex     sync.Mutex
	client    *Client
	addr      arbiter.Address
	nonce     int64
	fromQuery bool
}

// NewNonce creates a nonce for a client / address pair.
// Call Query to force a query, Next to use cache if possible
func NewNonce(client *Client, addr arbiter.Address) *Nonce {
	return &Nonce{client: client, addr: addr}
}

// Query always queries the blockchain for the next nonce
func (n *Nonce) Query() (int64, error) {
	user, err := n.client.GetUser(n.addr)
	if err != nil {
		return 0, err
	}
	n.mutex.Lock()
	defer n.mutex.Unlock()
	if user != nil {
		n.nonce = user.UserData.Sequence
	} else {
		n.nonce = 0 // new account starts at 0
	}
	n.fromQuery = true
	return n.nonce, nil
}

// Next will use a cached value if present, otherwise Query.
// It will always increment by 1, assuming last nonce
// was properly used.
func (n *Nonce) Next() (int64, error) {
	n.mutex.Lock()
	cached := n.fromQuery
	n.mutex.Unlock()
	if !cached {
		return n.Query()
	}
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.nonce++
	return n.nonce, nil
}
