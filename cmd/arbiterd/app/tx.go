package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/arbiter"
	"github.com/iov-one/arbiter/crypto"
	"github.com/iov-one/arbiter/errors"
	"github.com/iov-one/arbiter/x/docsign"
	"github.com/iov-one/arbiter/x/sigs"
)

// Tx is the transaction envelope of the arbiter daemon. It carries a
// single serialized message, identified by its path, and the signatures
// authorizing it.
type Tx struct {
	Signatures []*sigs.StdSignature `protobuf:"bytes,1,rep,name=signatures,proto3" json:"signatures,omitempty"`
	MsgPath    string               `protobuf:"bytes,2,opt,name=msg_path,proto3" json:"msg_path,omitempty"`
	MsgData    []byte               `protobuf:"bytes,3,opt,name=msg_data,proto3" json:"msg_data,omitempty"`
}

type wireTx Tx

func (m *wireTx) Reset()         { *m = wireTx{} }
func (m *wireTx) String() string { return proto.CompactTextString(m) }
func (*wireTx) ProtoMessage()    {}

var _ arbiter.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// messages maps every supported path to a constructor of its message.
var messages = map[string]func() arbiter.Msg{
	docsign.PathInitClerk:      func() arbiter.Msg { return new(docsign.InitClerkMsg) },
	docsign.PathInitDocument:   func() arbiter.Msg { return new(docsign.InitDocumentMsg) },
	docsign.PathAddSignature:   func() arbiter.Msg { return new(docsign.AddSignatureMsg) },
	docsign.PathFinalize:       func() arbiter.Msg { return new(docsign.FinalizeMsg) },
	docsign.PathStageUpgrade:   func() arbiter.Msg { return new(docsign.StageUpgradeMsg) },
	docsign.PathUpgradeLimit:   func() arbiter.Msg { return new(docsign.UpgradeLimitMsg) },
	docsign.PathAddParticipant: func() arbiter.Msg { return new(docsign.AddParticipantMsg) },
}

// NewTx wraps the message into an unsigned transaction.
func NewTx(msg arbiter.Msg) (*Tx, error) {
	if _, ok := messages[msg.Path()]; !ok {
		return nil, errors.Wrapf(errors.ErrMsg, "unsupported message %q", msg.Path())
	}
	raw, err := msg.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "cannot serialize message")
	}
	return &Tx{MsgPath: msg.Path(), MsgData: raw}, nil
}

// GetMsg decodes the message carried by the transaction.
func (tx *Tx) GetMsg() (arbiter.Msg, error) {
	fn, ok := messages[tx.MsgPath]
	if !ok {
		return nil, errors.Wrapf(errors.ErrMsg, "unknown message path %q", tx.MsgPath)
	}
	msg := fn()
	if err := msg.Unmarshal(tx.MsgData); err != nil {
		return nil, err
	}
	return msg, nil
}

// GetSignatures returns the signatures of the transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign, the transaction without any of
// its signatures.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := Tx{MsgPath: tx.MsgPath, MsgData: tx.MsgData}
	return unsigned.Marshal()
}

// Sign appends the signature of signer for the given chain and sequence.
func (tx *Tx) Sign(signer crypto.Signer, chainID string, seq int64) error {
	sig, err := sigs.SignTx(signer, tx, chainID, seq)
	if err != nil {
		return err
	}
	tx.Signatures = append(tx.Signatures, sig)
	return nil
}

// Marshal serializes the transaction.
func (tx *Tx) Marshal() ([]byte, error) {
	return proto.Marshal((*wireTx)(tx))
}

// Unmarshal loads the transaction.
func (tx *Tx) Unmarshal(raw []byte) error {
	if err := proto.Unmarshal(raw, (*wireTx)(tx)); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (arbiter.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}
