package docsign

import (
	"net/url"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/arbiter/errors"
	"github.com/iov-one/arbiter/orm"
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

const maxURILength = 512

// Content points to the signed payload of a document. It is stored next to
// the document, keyed by the document address.
type Content struct {
	// URI is the storage location of the document, agnostic to the
	// storage platform.
	URI string `protobuf:"bytes,1,opt,name=uri,proto3" json:"uri,omitempty"`
	// Digest is the CID of the document payload.
	Digest string `protobuf:"bytes,2,opt,name=digest,proto3" json:"digest,omitempty"`
}

var _ orm.Model = (*Content)(nil)

type wireContent Content

func (m *wireContent) Reset()         { *m = wireContent{} }
func (m *wireContent) String() string { return proto.CompactTextString(m) }
func (*wireContent) ProtoMessage()    {}

// Marshal serializes the content record.
func (c *Content) Marshal() ([]byte, error) {
	return proto.Marshal((*wireContent)(c))
}

// Unmarshal loads the content record.
func (c *Content) Unmarshal(raw []byte) error {
	if err := proto.Unmarshal(raw, (*wireContent)(c)); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return nil
}

// IsEmpty returns true if neither location nor digest is set.
func (c *Content) IsEmpty() bool {
	return c.URI == "" && c.Digest == ""
}

// Validate checks the URI and digest format.
func (c *Content) Validate() error {
	var errs error
	if c.IsEmpty() {
		errs = errors.AppendField(errs, "Digest", errors.ErrEmpty)
	}
	errs = errors.AppendField(errs, "URI", validateURI(c.URI))
	errs = errors.AppendField(errs, "Digest", validateDigest(c.Digest))
	return errs
}

func validateURI(uri string) error {
	if uri == "" {
		return nil
	}
	if len(uri) > maxURILength {
		return errors.Wrapf(errors.ErrInput, "longer than %d", maxURILength)
	}
	u, err := url.Parse(uri)
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if u.Scheme == "" {
		return errors.Wrap(errors.ErrInput, "missing scheme")
	}
	return nil
}

func validateDigest(digest string) error {
	if digest == "" {
		return nil
	}
	if _, err := cid.Decode(digest); err != nil {
		return errors.Wrapf(errors.ErrInput, "invalid cid: %s", err)
	}
	return nil
}

// DigestContent returns the CIDv1 of the payload using the raw codec and a
// sha2-256 multihash.
func DigestContent(data []byte) (string, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return "", errors.Wrap(errors.ErrInput, err.Error())
	}
	return cid.NewCidV1(cid.Raw, sum).String(), nil
}

// VerifyContent checks that data hashes to the given digest. The digest
// may use any hash function supported by multihash.
func VerifyContent(digest string, data []byte) error {
	want, err := cid.Decode(digest)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "invalid cid: %s", err)
	}
	got, err := want.Prefix().Sum(data)
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if !got.Equals(want) {
		return errors.Wrap(errors.ErrInput, "content does not match digest")
	}
	return nil
}
