package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/iov-one/arbiter"
	"github.com/iov-one/arbiter/arbitertest/assert"
	"github.com/iov-one/arbiter/x/docsign"
)

// submit signs the transaction with the key stored at keyPath, submits
// it and returns the printed address.
func submit(t *testing.T, unsigned []byte, keyPath string) arbiter.Address {
	t.Helper()
	signed := run(t, cmdSignTransaction, unsigned, "-key", keyPath)
	out := run(t, cmdSubmitTransaction, signed)
	addr, err := arbiter.ParseAddress(strings.TrimSpace(string(out)))
	if err != nil {
		t.Fatalf("cannot parse submit output %q: %s", out, err)
	}
	return addr
}

func TestDocumentSigningPipeline(t *testing.T) {
	authorityKey, authority := writeKey(t)
	signerKey, signer := writeKey(t)
	authorityAddr := authority.PublicKey().Address()
	signerAddr := signer.PublicKey().Address()

	c := useNode(t, authorityAddr, "1")

	lines := strings.Fields(string(run(t, cmdClerkAddress, nil, "-key", authorityKey)))
	clerkID, err := arbiter.ParseAddress(lines[0])
	assert.Nil(t, err)
	stagedID, err := arbiter.ParseAddress(lines[1])
	assert.Nil(t, err)

	lease := submit(t, run(t, cmdInitDocument, nil,
		"-title", "Lease",
		"-participants", signerAddr.String(),
	), authorityKey)
	wantID, err := docsign.DocumentAddress(authorityAddr, "Lease")
	assert.Nil(t, err)
	assert.Equal(t, wantID, lease)

	// The clerk is full, a second document cannot be registered.
	unsigned := run(t, cmdInitDocument, nil, "-title", "Deed", "-participants", signerAddr.String())
	signed := run(t, cmdSignTransaction, unsigned, "-key", authorityKey)
	var output bytes.Buffer
	if err := cmdSubmitTransaction(bytes.NewReader(signed), &output, nil); err == nil {
		t.Fatal("want full clerk to reject the document")
	}
	deedID, err := docsign.DocumentAddress(authorityAddr, "Deed")
	assert.Nil(t, err)
	deed, err := c.GetDocument(deedID)
	assert.Nil(t, err)
	assert.Nil(t, deed)

	got := submit(t, run(t, cmdStageUpgrade, nil, "-clerk", clerkID.String()), authorityKey)
	assert.Equal(t, stagedID, got)
	got = submit(t, run(t, cmdUpgradeLimit, nil,
		"-staged", stagedID.String(),
		"-clerk", clerkID.String(),
		"-increase", "2",
	), authorityKey)
	assert.Equal(t, clerkID, got)

	got = submit(t, unsigned, authorityKey)
	assert.Equal(t, deedID, got)

	submit(t, run(t, cmdAddSignature, nil, "-document", lease.String()), signerKey)
	submit(t, run(t, cmdFinalize, nil, "-document", lease.String(), "-clerk", clerkID.String()), authorityKey)

	var docs []struct {
		Key   arbiter.Address      `json:"key"`
		Value docsign.DocumentView `json:"value"`
	}
	out := run(t, cmdQuery, nil, "-path", "/documents", "-id", lease.String())
	assert.Nil(t, json.Unmarshal(out, &docs))
	assert.Equal(t, 1, len(docs))
	assert.Equal(t, lease, docs[0].Key)
	assert.Equal(t, "Lease", docs[0].Value.Title)
	if docs[0].Value.FinalizationTimestamp == 0 {
		t.Fatal("want document to be finalized")
	}
	if docs[0].Value.SignatureTimestamps[0] == 0 {
		t.Fatal("want document to be signed")
	}

	out = run(t, cmdQuery, nil, "-path", "/documents", "-prefix")
	docs = nil
	assert.Nil(t, json.Unmarshal(out, &docs))
	assert.Equal(t, 2, len(docs))

	var clerks []struct {
		Key   arbiter.Address   `json:"key"`
		Value docsign.ClerkView `json:"value"`
	}
	out = run(t, cmdQuery, nil, "-path", "/clerks", "-id", clerkID.String())
	assert.Nil(t, json.Unmarshal(out, &clerks))
	assert.Equal(t, 1, len(clerks))
	assert.Equal(t, 3, len(clerks[0].Value.Documents))
	assert.Equal(t, uint32(1), clerks[0].Value.Upgrades)

	out = run(t, cmdQuery, nil, "-path", "/staged", "-id", stagedID.String())
	assert.Equal(t, "[]\n", string(out))
}

func TestCmdTransactionView(t *testing.T) {
	keyPath, _ := writeKey(t)
	doc := arbiter.Address(bytes.Repeat([]byte{1}, arbiter.AddressLength))

	unsigned := run(t, cmdAddSignature, nil, "-document", doc.String())
	signed := run(t, cmdSignTransaction, unsigned, "-key", keyPath, "-chain", testChainID, "-seq", "0")

	var view struct {
		Path string `json:"path"`
		Msg  struct {
			DocumentID arbiter.Address
		} `json:"msg"`
		Signatures []json.RawMessage `json:"signatures"`
	}
	out := run(t, cmdTransactionView, signed)
	assert.Nil(t, json.Unmarshal(out, &view))
	assert.Equal(t, docsign.PathAddSignature, view.Path)
	assert.Equal(t, doc, view.Msg.DocumentID)
	assert.Equal(t, 1, len(view.Signatures))
}
