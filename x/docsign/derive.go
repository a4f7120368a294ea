package docsign

import (
	"github.com/iov-one/arbiter"
	"github.com/iov-one/arbiter/errors"
)

// Namespaces used for address derivation.
const (
	NamespaceClerk    = "clerk"
	NamespaceStaged   = "staged"
	NamespaceDocument = "document"
)

// MaxSeedLength is the maximum number of seed bytes used to derive an
// address. Document titles are truncated to this length.
const MaxSeedLength = 32

const deriveExtension = "docsign"

// Derive returns the address of a record owned by owner in the given
// namespace, together with the nonce that was used to compute it.
//
// The result depends only on the arguments. Nonces are tried from 255
// downwards and the first one that does not produce the empty address
// sentinel is used.
func Derive(namespace string, owner arbiter.Address, seed []byte) (arbiter.Address, uint8, error) {
	switch namespace {
	case NamespaceClerk, NamespaceStaged, NamespaceDocument:
	default:
		return nil, 0, errors.Wrapf(errors.ErrInput, "unknown namespace %q", namespace)
	}
	if err := owner.Validate(); err != nil {
		return nil, 0, errors.Wrap(err, "owner")
	}
	if len(seed) > MaxSeedLength {
		return nil, 0, errors.Wrapf(errors.ErrInput, "seed longer than %d bytes", MaxSeedLength)
	}

	data := make([]byte, 0, len(owner)+1+len(seed)+1)
	data = append(data, owner...)
	data = append(data, uint8(len(seed)))
	data = append(data, seed...)
	data = append(data, 0)

	for nonce := 255; nonce >= 0; nonce-- {
		data[len(data)-1] = uint8(nonce)
		addr := arbiter.NewCondition(deriveExtension, namespace, data).Address()
		if !isEmptyAddress(addr) {
			return addr, uint8(nonce), nil
		}
	}
	return nil, 0, errors.Wrap(errors.ErrState, "no usable nonce")
}

// TitleSeed returns the part of the title used for address derivation:
// the first MaxSeedLength bytes.
func TitleSeed(title string) []byte {
	b := []byte(title)
	if len(b) > MaxSeedLength {
		return b[:MaxSeedLength]
	}
	return b
}

// ClerkAddress returns the canonical clerk address of an authority.
func ClerkAddress(owner arbiter.Address) (arbiter.Address, error) {
	addr, _, err := Derive(NamespaceClerk, owner, nil)
	return addr, err
}

// StagedClerkAddress returns the address a clerk is moved to while its
// capacity is being upgraded.
func StagedClerkAddress(owner arbiter.Address) (arbiter.Address, error) {
	addr, _, err := Derive(NamespaceStaged, owner, nil)
	return addr, err
}

// DocumentAddress returns the address of the document with given title.
// Titles sharing the same first MaxSeedLength bytes share an address.
func DocumentAddress(owner arbiter.Address, title string) (arbiter.Address, error) {
	addr, _, err := Derive(NamespaceDocument, owner, TitleSeed(title))
	return addr, err
}

// emptyAddress is the sentinel marking a free clerk slot on the wire.
func emptyAddress() []byte {
	return make([]byte, arbiter.AddressLength)
}

func isEmptyAddress(a []byte) bool {
	for _, b := range a {
		if b != 0 {
			return false
		}
	}
	return true
}
