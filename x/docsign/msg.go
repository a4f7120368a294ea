package docsign

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/arbiter"
	"github.com/iov-one/arbiter/errors"
)

// Message paths, used by the router.
const (
	PathInitClerk      = "docsign/init_clerk"
	PathInitDocument   = "docsign/init_document"
	PathAddSignature   = "docsign/add_signature"
	PathFinalize       = "docsign/finalize"
	PathStageUpgrade   = "docsign/stage_upgrade"
	PathUpgradeLimit   = "docsign/upgrade_limit"
	PathAddParticipant = "docsign/add_participant"
)

var (
	_ arbiter.Msg = (*InitClerkMsg)(nil)
	_ arbiter.Msg = (*InitDocumentMsg)(nil)
	_ arbiter.Msg = (*AddSignatureMsg)(nil)
	_ arbiter.Msg = (*FinalizeMsg)(nil)
	_ arbiter.Msg = (*StageUpgradeMsg)(nil)
	_ arbiter.Msg = (*UpgradeLimitMsg)(nil)
	_ arbiter.Msg = (*AddParticipantMsg)(nil)
)

// validateOptional validates an address that defaults to the main signer
// when empty.
func validateOptional(a arbiter.Address) error {
	if len(a) == 0 {
		return nil
	}
	return a.Validate()
}

// InitClerkMsg creates the clerk of an authority with Limit free slots.
// Authority defaults to the main signer.
type InitClerkMsg struct {
	Authority arbiter.Address
	Limit     int64
}

func (InitClerkMsg) Path() string { return PathInitClerk }

func (m *InitClerkMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Authority", validateOptional(m.Authority))
	if m.Limit <= 0 {
		errs = errors.AppendField(errs, "Limit", ErrInvalidCapacity)
	}
	return errs
}

type wireInitClerkMsg struct {
	Authority []byte `protobuf:"bytes,1,opt,name=authority,proto3"`
	Limit     int64  `protobuf:"varint,2,opt,name=limit,proto3"`
}

func (m *wireInitClerkMsg) Reset()         { *m = wireInitClerkMsg{} }
func (m *wireInitClerkMsg) String() string { return proto.CompactTextString(m) }
func (*wireInitClerkMsg) ProtoMessage()    {}

func (m *InitClerkMsg) Marshal() ([]byte, error) {
	return proto.Marshal(&wireInitClerkMsg{Authority: m.Authority, Limit: m.Limit})
}

func (m *InitClerkMsg) Unmarshal(raw []byte) error {
	var w wireInitClerkMsg
	if err := proto.Unmarshal(raw, &w); err != nil {
		return errors.Wrap(errors.ErrMsg, err.Error())
	}
	*m = InitClerkMsg{Authority: w.Authority, Limit: w.Limit}
	return nil
}

// InitDocumentMsg creates a document and registers it with the clerk of
// the authority. URI and Digest optionally reference the signed content.
type InitDocumentMsg struct {
	Authority    arbiter.Address
	Title        string
	Participants []arbiter.Address
	URI          string
	Digest       string
}

func (InitDocumentMsg) Path() string { return PathInitDocument }

func (m *InitDocumentMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Authority", validateOptional(m.Authority))
	if m.Title == "" {
		errs = errors.AppendField(errs, "Title", ErrEmptyTitle)
	}
	errs = errors.AppendField(errs, "Participants", validateParticipants(m.Participants))
	errs = errors.AppendField(errs, "URI", validateURI(m.URI))
	errs = errors.AppendField(errs, "Digest", validateDigest(m.Digest))
	return errs
}

// Content returns the content reference carried by the message, or nil.
func (m *InitDocumentMsg) Content() *Content {
	c := &Content{URI: m.URI, Digest: m.Digest}
	if c.IsEmpty() {
		return nil
	}
	return c
}

type wireInitDocumentMsg struct {
	Authority    []byte   `protobuf:"bytes,1,opt,name=authority,proto3"`
	Title        string   `protobuf:"bytes,2,opt,name=title,proto3"`
	Participants [][]byte `protobuf:"bytes,3,rep,name=participants,proto3"`
	URI          string   `protobuf:"bytes,4,opt,name=uri,proto3"`
	Digest       string   `protobuf:"bytes,5,opt,name=digest,proto3"`
}

func (m *wireInitDocumentMsg) Reset()         { *m = wireInitDocumentMsg{} }
func (m *wireInitDocumentMsg) String() string { return proto.CompactTextString(m) }
func (*wireInitDocumentMsg) ProtoMessage()    {}

func (m *InitDocumentMsg) Marshal() ([]byte, error) {
	w := wireInitDocumentMsg{
		Authority:    m.Authority,
		Title:        m.Title,
		Participants: make([][]byte, len(m.Participants)),
		URI:          m.URI,
		Digest:       m.Digest,
	}
	for i, p := range m.Participants {
		w.Participants[i] = p
	}
	return proto.Marshal(&w)
}

func (m *InitDocumentMsg) Unmarshal(raw []byte) error {
	var w wireInitDocumentMsg
	if err := proto.Unmarshal(raw, &w); err != nil {
		return errors.Wrap(errors.ErrMsg, err.Error())
	}
	*m = InitDocumentMsg{
		Authority: w.Authority,
		Title:     w.Title,
		URI:       w.URI,
		Digest:    w.Digest,
	}
	if len(w.Participants) > 0 {
		m.Participants = make([]arbiter.Address, len(w.Participants))
		for i, p := range w.Participants {
			m.Participants[i] = p
		}
	}
	return nil
}

// AddSignatureMsg records the signature of a participant. Participant
// defaults to the main signer.
type AddSignatureMsg struct {
	DocumentID  arbiter.Address
	Participant arbiter.Address
}

func (AddSignatureMsg) Path() string { return PathAddSignature }

func (m *AddSignatureMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "DocumentID", m.DocumentID.Validate())
	errs = errors.AppendField(errs, "Participant", validateOptional(m.Participant))
	return errs
}

// FinalizeMsg finalizes a fully signed document held by the clerk.
type FinalizeMsg struct {
	DocumentID arbiter.Address
	ClerkID    arbiter.Address
}

func (FinalizeMsg) Path() string { return PathFinalize }

func (m *FinalizeMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "DocumentID", m.DocumentID.Validate())
	errs = errors.AppendField(errs, "ClerkID", m.ClerkID.Validate())
	return errs
}

// StageUpgradeMsg moves a full clerk to its staged address.
type StageUpgradeMsg struct {
	ClerkID arbiter.Address
}

func (StageUpgradeMsg) Path() string { return PathStageUpgrade }

func (m *StageUpgradeMsg) Validate() error {
	return errors.Field("ClerkID", m.ClerkID.Validate(), "")
}

// UpgradeLimitMsg moves a staged clerk back to its canonical address with
// IncreaseAmount additional free slots.
type UpgradeLimitMsg struct {
	StagedID       arbiter.Address
	ClerkID        arbiter.Address
	IncreaseAmount int64
}

func (UpgradeLimitMsg) Path() string { return PathUpgradeLimit }

func (m *UpgradeLimitMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "StagedID", m.StagedID.Validate())
	errs = errors.AppendField(errs, "ClerkID", m.ClerkID.Validate())
	if m.IncreaseAmount <= 0 {
		errs = errors.AppendField(errs, "IncreaseAmount", ErrInvalidUpgradeAmount)
	}
	return errs
}

// AddParticipantMsg appends a participant to an open document.
type AddParticipantMsg struct {
	DocumentID  arbiter.Address
	Participant arbiter.Address
}

func (AddParticipantMsg) Path() string { return PathAddParticipant }

func (m *AddParticipantMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "DocumentID", m.DocumentID.Validate())
	errs = errors.AppendField(errs, "Participant", m.Participant.Validate())
	return errs
}

// wirePair is the layout shared by all messages made of two addresses and
// an optional amount.
type wirePair struct {
	First  []byte `protobuf:"bytes,1,opt,name=first,proto3"`
	Second []byte `protobuf:"bytes,2,opt,name=second,proto3"`
	Amount int64  `protobuf:"varint,3,opt,name=amount,proto3"`
}

func (m *wirePair) Reset()         { *m = wirePair{} }
func (m *wirePair) String() string { return proto.CompactTextString(m) }
func (*wirePair) ProtoMessage()    {}

func marshalPair(first, second arbiter.Address, amount int64) ([]byte, error) {
	return proto.Marshal(&wirePair{First: first, Second: second, Amount: amount})
}

func unmarshalPair(raw []byte) (arbiter.Address, arbiter.Address, int64, error) {
	var w wirePair
	if err := proto.Unmarshal(raw, &w); err != nil {
		return nil, nil, 0, errors.Wrap(errors.ErrMsg, err.Error())
	}
	return w.First, w.Second, w.Amount, nil
}

func (m *AddSignatureMsg) Marshal() ([]byte, error) {
	return marshalPair(m.DocumentID, m.Participant, 0)
}

func (m *AddSignatureMsg) Unmarshal(raw []byte) (err error) {
	m.DocumentID, m.Participant, _, err = unmarshalPair(raw)
	return err
}

func (m *FinalizeMsg) Marshal() ([]byte, error) {
	return marshalPair(m.DocumentID, m.ClerkID, 0)
}

func (m *FinalizeMsg) Unmarshal(raw []byte) (err error) {
	m.DocumentID, m.ClerkID, _, err = unmarshalPair(raw)
	return err
}

func (m *StageUpgradeMsg) Marshal() ([]byte, error) {
	return marshalPair(m.ClerkID, nil, 0)
}

func (m *StageUpgradeMsg) Unmarshal(raw []byte) (err error) {
	m.ClerkID, _, _, err = unmarshalPair(raw)
	return err
}

func (m *UpgradeLimitMsg) Marshal() ([]byte, error) {
	return marshalPair(m.StagedID, m.ClerkID, m.IncreaseAmount)
}

func (m *UpgradeLimitMsg) Unmarshal(raw []byte) (err error) {
	m.StagedID, m.ClerkID, m.IncreaseAmount, err = unmarshalPair(raw)
	return err
}

func (m *AddParticipantMsg) Marshal() ([]byte, error) {
	return marshalPair(m.DocumentID, m.Participant, 0)
}

func (m *AddParticipantMsg) Unmarshal(raw []byte) (err error) {
	m.DocumentID, m.Participant, _, err = unmarshalPair(raw)
	return err
}
