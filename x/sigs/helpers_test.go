package sigs

import (
	"github.com/iov-one/arbiter"
	"github.com/iov-one/arbiter/arbitertest"
)

// stdTx is a signed transaction carrying a mock message.
type stdTx struct {
	arbitertest.Tx
	Signatures []*StdSignature
}

var _ SignedTx = (*stdTx)(nil)

func newStdTx(payload []byte) *stdTx {
	return &stdTx{
		Tx: arbitertest.Tx{Msg: &arbitertest.Msg{RoutePath: "test/sign", Serialized: payload}},
	}
}

func (tx *stdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

func (tx *stdTx) GetSignBytes() ([]byte, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	return msg.Marshal()
}

// sigCheckHandler stores the seen signers on each call.
type sigCheckHandler struct {
	Signers []arbiter.Condition
}

var _ arbiter.Handler = (*sigCheckHandler)(nil)

func (s *sigCheckHandler) Check(ctx arbiter.Context, store arbiter.KVStore, tx arbiter.Tx) (*arbiter.CheckResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &arbiter.CheckResult{}, nil
}

func (s *sigCheckHandler) Deliver(ctx arbiter.Context, store arbiter.KVStore, tx arbiter.Tx) (*arbiter.DeliverResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &arbiter.DeliverResult{}, nil
}
