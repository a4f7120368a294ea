package docsign

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/arbiter"
	"github.com/iov-one/arbiter/errors"
	"github.com/iov-one/arbiter/orm"
)

// Clerk is a fixed capacity registry of document addresses owned by one
// authority. A nil entry in Documents is a free slot.
type Clerk struct {
	Authority arbiter.Address
	Documents []arbiter.Address
	Upgrades  uint32
}

var _ orm.Model = (*Clerk)(nil)

// NewClerk returns a clerk with limit free slots.
func NewClerk(authority arbiter.Address, limit int64) (*Clerk, error) {
	if limit <= 0 {
		return nil, errors.Wrapf(ErrInvalidCapacity, "limit %d", limit)
	}
	return &Clerk{
		Authority: authority,
		Documents: make([]arbiter.Address, limit),
	}, nil
}

// Capacity returns the total number of slots.
func (c *Clerk) Capacity() int {
	return len(c.Documents)
}

// Remaining returns the number of free slots.
func (c *Clerk) Remaining() int {
	var n int
	for _, d := range c.Documents {
		if d == nil {
			n++
		}
	}
	return n
}

// IsFull returns true if no free slot is left.
func (c *Clerk) IsFull() bool {
	return c.Remaining() == 0
}

// Register stores the document address in the first free slot.
func (c *Clerk) Register(doc arbiter.Address) error {
	for i, d := range c.Documents {
		if d == nil {
			c.Documents[i] = doc.Clone()
			return nil
		}
	}
	return errors.Wrapf(ErrCapacityExceeded, "capacity %d", c.Capacity())
}

// IsCustodianOf returns true if the document address is held by this clerk.
func (c *Clerk) IsCustodianOf(doc arbiter.Address) bool {
	if len(doc) == 0 {
		return false
	}
	for _, d := range c.Documents {
		if d.Equals(doc) {
			return true
		}
	}
	return false
}

// Upgraded returns a copy of the clerk with increase free slots appended
// and the upgrade counter incremented.
func (c *Clerk) Upgraded(increase int64) (*Clerk, error) {
	if increase <= 0 {
		return nil, errors.Wrapf(ErrInvalidUpgradeAmount, "increase %d", increase)
	}
	if c.Upgrades == ^uint32(0) {
		return nil, errors.Wrap(errors.ErrOverflow, "upgrades")
	}
	next := c.Copy()
	next.Documents = append(next.Documents, make([]arbiter.Address, increase)...)
	next.Upgrades++
	return next, nil
}

// Copy returns a deep copy of the clerk.
func (c *Clerk) Copy() *Clerk {
	docs := make([]arbiter.Address, len(c.Documents))
	for i, d := range c.Documents {
		docs[i] = d.Clone()
	}
	return &Clerk{
		Authority: c.Authority.Clone(),
		Documents: docs,
		Upgrades:  c.Upgrades,
	}
}

// Validate ensures the clerk is consistent.
func (c *Clerk) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Authority", c.Authority.Validate())
	if len(c.Documents) == 0 {
		errs = errors.AppendField(errs, "Documents", ErrInvalidCapacity)
	}
	seen := make(map[string]struct{}, len(c.Documents))
	for i, d := range c.Documents {
		if d == nil {
			continue
		}
		if err := d.Validate(); err != nil {
			errs = errors.Append(errs, errors.Field("Documents", err, "slot %d", i))
			continue
		}
		if isEmptyAddress(d) {
			errs = errors.Append(errs, errors.Field("Documents", errors.ErrModel, "slot %d holds the empty sentinel", i))
			continue
		}
		if _, ok := seen[string(d)]; ok {
			errs = errors.Append(errs, errors.Field("Documents", errors.ErrDuplicate, "slot %d", i))
		}
		seen[string(d)] = struct{}{}
	}
	return errs
}

// wireClerk is the persisted layout. Free slots are stored as the all zero
// address.
type wireClerk struct {
	Authority []byte   `protobuf:"bytes,1,opt,name=authority,proto3"`
	Documents [][]byte `protobuf:"bytes,2,rep,name=documents,proto3"`
	Upgrades  uint32   `protobuf:"varint,3,opt,name=upgrades,proto3"`
}

func (m *wireClerk) Reset()         { *m = wireClerk{} }
func (m *wireClerk) String() string { return proto.CompactTextString(m) }
func (*wireClerk) ProtoMessage()    {}

// Marshal serializes the clerk.
func (c *Clerk) Marshal() ([]byte, error) {
	w := wireClerk{
		Authority: c.Authority,
		Documents: make([][]byte, len(c.Documents)),
		Upgrades:  c.Upgrades,
	}
	for i, d := range c.Documents {
		if d == nil {
			w.Documents[i] = emptyAddress()
		} else {
			w.Documents[i] = d
		}
	}
	return proto.Marshal(&w)
}

// Unmarshal loads the clerk from its serialized form.
func (c *Clerk) Unmarshal(raw []byte) error {
	var w wireClerk
	if err := proto.Unmarshal(raw, &w); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	c.Authority = arbiter.Address(w.Authority).Clone()
	c.Documents = make([]arbiter.Address, len(w.Documents))
	for i, d := range w.Documents {
		if !isEmptyAddress(d) {
			c.Documents[i] = arbiter.Address(d).Clone()
		}
	}
	c.Upgrades = w.Upgrades
	return nil
}
