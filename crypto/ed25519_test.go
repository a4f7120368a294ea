package crypto

import (
	"bytes"
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerify(t *testing.T) {
	priv := GenPrivKeyEd25519()
	pub := priv.PublicKey()
	require.NoError(t, pub.Validate())

	msg := []byte("my test document")
	sig, err := priv.Sign(msg)
	require.NoError(t, err)

	assert.True(t, pub.Verify(msg, sig))
	assert.False(t, pub.Verify([]byte("another document"), sig))
	assert.False(t, pub.Verify(msg, nil))

	other := GenPrivKeyEd25519().PublicKey()
	assert.False(t, other.Verify(msg, sig))
}

func TestDeterministicKeys(t *testing.T) {
	seed := bytes.Repeat([]byte{7}, 32)
	a := PrivKeyEd25519FromSeed(seed)
	b := PrivKeyEd25519FromSeed(seed)
	assert.Equal(t, a.PublicKey().Address(), b.PublicKey().Address())
	assert.Len(t, a.PublicKey().Address(), 20)

	loaded, err := PrivKeyFromBytes(a.Ed25519)
	require.NoError(t, err)
	assert.Equal(t, a.PublicKey(), loaded.PublicKey())

	_, err = PrivKeyFromBytes([]byte("short"))
	assert.Error(t, err)
}

func TestConditionFormat(t *testing.T) {
	pub := PrivKeyEd25519FromSeed(bytes.Repeat([]byte{1}, 32)).PublicKey()
	cond := pub.Condition()
	require.NoError(t, cond.Validate())

	ext, typ, data, err := cond.Parse()
	require.NoError(t, err)
	assert.Equal(t, ExtensionName, ext)
	assert.Equal(t, "ed25519", typ)
	assert.Equal(t, pub.Ed25519, data)
}

func TestProtobufEncoding(t *testing.T) {
	pub := GenPrivKeyEd25519().PublicKey()
	raw, err := proto.Marshal(pub)
	require.NoError(t, err)

	var got PublicKey
	require.NoError(t, proto.Unmarshal(raw, &got))
	assert.Equal(t, pub.Ed25519, got.Ed25519)
}
