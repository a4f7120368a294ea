package docsign

import (
	"strings"
	"testing"

	"github.com/iov-one/arbiter/arbitertest/assert"
	"github.com/iov-one/arbiter/errors"
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

func TestDigestContent(t *testing.T) {
	digest, err := DigestContent([]byte("hello world"))
	assert.Nil(t, err)

	c, err := cid.Decode(digest)
	assert.Nil(t, err)
	assert.Equal(t, uint64(1), c.Version())
	assert.Equal(t, uint64(cid.Raw), c.Type())
	assert.Equal(t, uint64(multihash.SHA2_256), c.Prefix().MhType)

	again, err := DigestContent([]byte("hello world"))
	assert.Nil(t, err)
	assert.Equal(t, digest, again)

	assert.Nil(t, VerifyContent(digest, []byte("hello world")))
	assert.IsErr(t, errors.ErrInput, VerifyContent(digest, []byte("hello world!")))
	assert.IsErr(t, errors.ErrInput, VerifyContent("garbage", []byte("hello world")))
}

func TestContentValidate(t *testing.T) {
	digest, err := DigestContent([]byte("x"))
	assert.Nil(t, err)

	cases := map[string]struct {
		content Content
		field   string
		want    *errors.Error
	}{
		"valid":        {content: Content{URI: "https://example.com/x", Digest: digest}},
		"digest only":  {content: Content{Digest: digest}},
		"empty":        {content: Content{}, field: "Digest", want: errors.ErrEmpty},
		"bad digest":   {content: Content{Digest: "Qm"}, field: "Digest", want: errors.ErrInput},
		"no scheme":    {content: Content{URI: "example.com/x"}, field: "URI", want: errors.ErrInput},
		"too long uri": {content: Content{URI: "https://" + strings.Repeat("a", maxURILength)}, field: "URI", want: errors.ErrInput},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.content.Validate()
			if tc.want == nil {
				assert.Nil(t, err)
				return
			}
			assert.FieldError(t, err, tc.field, tc.want)
		})
	}
}

func TestContentSerialization(t *testing.T) {
	c := Content{URI: "ipfs://bafk", Digest: "bafkreib"}
	raw, err := c.Marshal()
	assert.Nil(t, err)
	var got Content
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, c, got)
}
