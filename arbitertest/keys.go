package arbitertest

import (
	"testing"

	"github.com/iov-one/arbiter"
	"github.com/iov-one/arbiter/crypto"
)

// NewKey returns a random ed25519 signer.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns the signature condition of a random key.
func NewCondition() arbiter.Condition {
	return NewKey().PublicKey().Condition()
}

// ParseAddress takes an address in a human readable (hex) format and returns
// its binary representation.
func ParseAddress(t testing.TB, encodedAddress string) arbiter.Address {
	t.Helper()

	addr, err := arbiter.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}
