package arbitertest

import (
	"context"
	"time"

	"github.com/iov-one/arbiter"
)

// Tx represents a transaction carrying a single message.
type Tx struct {
	// Msg is the message that is to be processed by this transaction.
	Msg arbiter.Msg
	// Err if set is returned by any method call.
	Err error
}

var _ arbiter.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (arbiter.Msg, error) {
	return tx.Msg, tx.Err
}

func (tx *Tx) Unmarshal([]byte) error {
	panic("not implemented")
}

func (tx *Tx) Marshal() ([]byte, error) {
	panic("not implemented")
}

// Msg represents a message routed by its path.
type Msg struct {
	// RoutePath returned by the path method, consumed by the router.
	RoutePath string
	// Serialized represents the serialized form of this message.
	Serialized []byte
	// Err if set is returned by any method call.
	Err error
}

var _ arbiter.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}

func (m *Msg) Unmarshal(b []byte) error {
	m.Serialized = b
	return m.Err
}

func (m *Msg) Marshal() ([]byte, error) {
	return m.Serialized, m.Err
}

// BlockContext returns a context carrying block height, time and chain id as
// the application sets them while processing a block.
func BlockContext(height int64, now time.Time) arbiter.Context {
	ctx := arbiter.WithHeight(context.Background(), height)
	ctx = arbiter.WithBlockTime(ctx, now)
	return arbiter.WithChainID(ctx, "test-chain")
}
