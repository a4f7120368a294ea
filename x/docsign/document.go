package docsign

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/arbiter"
	"github.com/iov-one/arbiter/errors"
	"github.com/iov-one/arbiter/orm"
)

// Document tracks the signatures of a fixed set of participants.
// SignatureTimestamps is parallel to Participants.
type Document struct {
	Authority           arbiter.Address
	Title               string
	Participants        []arbiter.Address
	SignatureTimestamps []arbiter.NullTime
	CreatedAt           arbiter.UnixTime
	FinalizedAt         arbiter.NullTime
}

var _ orm.Model = (*Document)(nil)

// NewDocument returns an open document without signatures.
func NewDocument(authority arbiter.Address, title string, participants []arbiter.Address, now arbiter.UnixTime) (*Document, error) {
	if title == "" {
		return nil, errors.Wrap(ErrEmptyTitle, "title")
	}
	if err := validateParticipants(participants); err != nil {
		return nil, err
	}
	ps := make([]arbiter.Address, len(participants))
	for i, p := range participants {
		ps[i] = p.Clone()
	}
	return &Document{
		Authority:           authority.Clone(),
		Title:               title,
		Participants:        ps,
		SignatureTimestamps: make([]arbiter.NullTime, len(participants)),
		CreatedAt:           now,
	}, nil
}

func validateParticipants(participants []arbiter.Address) error {
	if len(participants) == 0 {
		return errors.Wrap(ErrEmptyParticipants, "participants")
	}
	seen := make(map[string]struct{}, len(participants))
	for i, p := range participants {
		if err := p.Validate(); err != nil {
			return errors.Wrapf(err, "participant %d", i)
		}
		if _, ok := seen[string(p)]; ok {
			return errors.Wrapf(ErrDuplicateParticipants, "participant %d", i)
		}
		seen[string(p)] = struct{}{}
	}
	return nil
}

// IsFinalized returns true once the document was finalized.
func (d *Document) IsFinalized() bool {
	return d.FinalizedAt.Valid
}

// MissingSignatures returns the number of participants that did not sign.
func (d *Document) MissingSignatures() int {
	var n int
	for _, ts := range d.SignatureTimestamps {
		if !ts.Valid {
			n++
		}
	}
	return n
}

func (d *Document) participantIndex(p arbiter.Address) int {
	for i, a := range d.Participants {
		if a.Equals(p) {
			return i
		}
	}
	return -1
}

// HasSigned returns true if the participant already signed.
func (d *Document) HasSigned(p arbiter.Address) (bool, error) {
	i := d.participantIndex(p)
	if i < 0 {
		return false, errors.Wrapf(ErrParticipantNotAssociated, "%s", p)
	}
	return d.SignatureTimestamps[i].Valid, nil
}

// Sign records the signature of a participant at the given time.
func (d *Document) Sign(p arbiter.Address, now arbiter.UnixTime) error {
	i := d.participantIndex(p)
	if i < 0 {
		return errors.Wrapf(ErrParticipantNotAssociated, "%s", p)
	}
	if d.SignatureTimestamps[i].Valid {
		return errors.Wrapf(ErrAlreadySigned, "%s", p)
	}
	if d.IsFinalized() {
		return errors.Wrap(ErrDocumentAlreadyFinalized, "cannot sign")
	}
	d.SignatureTimestamps[i] = arbiter.SetTime(now)
	return nil
}

// Finalize marks the document complete. Every participant must have signed.
func (d *Document) Finalize(now arbiter.UnixTime) error {
	if d.IsFinalized() {
		return errors.Wrap(ErrDocumentAlreadyFinalized, "cannot finalize")
	}
	if n := d.MissingSignatures(); n > 0 {
		return errors.Wrapf(ErrMissingSignatures, "%d of %d", n, len(d.Participants))
	}
	d.FinalizedAt = arbiter.SetTime(now)
	return nil
}

// AddParticipant appends a participant with an unsigned slot.
func (d *Document) AddParticipant(p arbiter.Address) error {
	if d.IsFinalized() {
		return errors.Wrap(ErrDocumentAlreadyFinalized, "cannot add participant")
	}
	if err := p.Validate(); err != nil {
		return errors.Wrap(err, "participant")
	}
	if d.participantIndex(p) >= 0 {
		return errors.Wrapf(ErrDuplicateParticipants, "%s", p)
	}
	d.Participants = append(d.Participants, p.Clone())
	d.SignatureTimestamps = append(d.SignatureTimestamps, arbiter.NullTime{})
	return nil
}

// Validate ensures the document is consistent.
func (d *Document) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Authority", d.Authority.Validate())
	if d.Title == "" {
		errs = errors.AppendField(errs, "Title", ErrEmptyTitle)
	}
	errs = errors.AppendField(errs, "Participants", validateParticipants(d.Participants))
	if len(d.SignatureTimestamps) != len(d.Participants) {
		errs = errors.Append(errs, errors.Field("SignatureTimestamps", errors.ErrModel,
			"%d timestamps for %d participants", len(d.SignatureTimestamps), len(d.Participants)))
	}
	errs = errors.AppendField(errs, "CreatedAt", d.CreatedAt.Validate())
	if d.CreatedAt.IsZero() {
		errs = errors.AppendField(errs, "CreatedAt", errors.ErrEmpty)
	}
	if n := d.MissingSignatures(); d.IsFinalized() && n > 0 {
		errs = errors.Append(errs, errors.Field("FinalizedAt", ErrMissingSignatures,
			"finalized with %d signatures missing", n))
	}
	return errs
}

// Copy returns a deep copy of the document.
func (d *Document) Copy() *Document {
	ps := make([]arbiter.Address, len(d.Participants))
	for i, p := range d.Participants {
		ps[i] = p.Clone()
	}
	return &Document{
		Authority:           d.Authority.Clone(),
		Title:               d.Title,
		Participants:        ps,
		SignatureTimestamps: append([]arbiter.NullTime(nil), d.SignatureTimestamps...),
		CreatedAt:           d.CreatedAt,
		FinalizedAt:         d.FinalizedAt,
	}
}

// wireDocument is the persisted layout. Unset timestamps are stored as 0.
type wireDocument struct {
	Authority             []byte   `protobuf:"bytes,1,opt,name=authority,proto3"`
	Title                 string   `protobuf:"bytes,2,opt,name=title,proto3"`
	Participants          [][]byte `protobuf:"bytes,3,rep,name=participants,proto3"`
	SignatureTimestamps   []int64  `protobuf:"varint,4,rep,packed,name=signature_timestamps,proto3"`
	CreatedAt             int64    `protobuf:"varint,5,opt,name=created_at,proto3"`
	FinalizationTimestamp int64    `protobuf:"varint,6,opt,name=finalization_timestamp,proto3"`
}

func (m *wireDocument) Reset()         { *m = wireDocument{} }
func (m *wireDocument) String() string { return proto.CompactTextString(m) }
func (*wireDocument) ProtoMessage()    {}

// Marshal serializes the document.
func (d *Document) Marshal() ([]byte, error) {
	w := wireDocument{
		Authority:             d.Authority,
		Title:                 d.Title,
		Participants:          make([][]byte, len(d.Participants)),
		SignatureTimestamps:   make([]int64, len(d.SignatureTimestamps)),
		CreatedAt:             int64(d.CreatedAt),
		FinalizationTimestamp: d.FinalizedAt.Wire(),
	}
	for i, p := range d.Participants {
		w.Participants[i] = p
	}
	for i, ts := range d.SignatureTimestamps {
		w.SignatureTimestamps[i] = ts.Wire()
	}
	return proto.Marshal(&w)
}

// Unmarshal loads the document from its serialized form.
func (d *Document) Unmarshal(raw []byte) error {
	var w wireDocument
	if err := proto.Unmarshal(raw, &w); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	d.Authority = arbiter.Address(w.Authority).Clone()
	d.Title = w.Title
	d.Participants = make([]arbiter.Address, len(w.Participants))
	for i, p := range w.Participants {
		d.Participants[i] = arbiter.Address(p).Clone()
	}
	d.SignatureTimestamps = make([]arbiter.NullTime, len(w.SignatureTimestamps))
	for i, ts := range w.SignatureTimestamps {
		d.SignatureTimestamps[i] = arbiter.NullTimeFromWire(ts)
	}
	d.CreatedAt = arbiter.UnixTime(w.CreatedAt)
	d.FinalizedAt = arbiter.NullTimeFromWire(w.FinalizationTimestamp)
	return nil
}
