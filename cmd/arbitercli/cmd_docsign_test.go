package main

import (
	"bytes"
	"io"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iov-one/arbiter"
	"github.com/iov-one/arbiter/arbitertest"
	"github.com/iov-one/arbiter/arbitertest/assert"
	"github.com/iov-one/arbiter/x/docsign"
)

func TestMessageCommands(t *testing.T) {
	doc := arbitertest.NewCondition().Address()
	clerk := arbitertest.NewCondition().Address()
	alice := arbitertest.NewCondition().Address()
	bob := arbitertest.NewCondition().Address()

	cases := map[string]struct {
		cmd  func(io.Reader, io.Writer, []string) error
		args []string
		want arbiter.Msg
	}{
		"init clerk": {
			cmd:  cmdInitClerk,
			args: []string{"-authority", alice.String(), "-limit", "3"},
			want: &docsign.InitClerkMsg{Authority: alice, Limit: 3},
		},
		"init document": {
			cmd: cmdInitDocument,
			args: []string{
				"-title", "Lease",
				"-participants", alice.String() + "," + bob.String(),
				"-uri", "ipfs://lease",
			},
			want: &docsign.InitDocumentMsg{
				Title:        "Lease",
				Participants: []arbiter.Address{alice, bob},
				URI:          "ipfs://lease",
			},
		},
		"add signature": {
			cmd:  cmdAddSignature,
			args: []string{"-document", doc.String()},
			want: &docsign.AddSignatureMsg{DocumentID: doc},
		},
		"finalize": {
			cmd:  cmdFinalize,
			args: []string{"-document", doc.String(), "-clerk", clerk.String()},
			want: &docsign.FinalizeMsg{DocumentID: doc, ClerkID: clerk},
		},
		"stage upgrade": {
			cmd:  cmdStageUpgrade,
			args: []string{"-clerk", clerk.String()},
			want: &docsign.StageUpgradeMsg{ClerkID: clerk},
		},
		"upgrade limit": {
			cmd:  cmdUpgradeLimit,
			args: []string{"-staged", doc.String(), "-clerk", clerk.String(), "-increase", "5"},
			want: &docsign.UpgradeLimitMsg{StagedID: doc, ClerkID: clerk, IncreaseAmount: 5},
		},
		"add participant": {
			cmd:  cmdAddParticipant,
			args: []string{"-document", doc.String(), "-participant", bob.String()},
			want: &docsign.AddParticipantMsg{DocumentID: doc, Participant: bob},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			tx := mustReadTx(t, run(t, tc.cmd, nil, tc.args...))
			assert.Equal(t, 0, len(tx.Signatures))
			assert.Equal(t, tc.want.Path(), tx.MsgPath)
			msg, err := tx.GetMsg()
			assert.Nil(t, err)
			assert.Equal(t, tc.want, msg)
		})
	}
}

func TestInitDocumentDigestFromFile(t *testing.T) {
	content := []byte("the signed lease agreement")
	path := filepath.Join(t.TempDir(), "lease.txt")
	assert.Nil(t, ioutil.WriteFile(path, content, 0600))

	participant := arbitertest.NewCondition().Address()
	tx := mustReadTx(t, run(t, cmdInitDocument, nil,
		"-title", "Lease",
		"-participants", participant.String(),
		"-uri", "https://example.com/lease.txt",
		"-file", path,
	))
	msg, err := tx.GetMsg()
	assert.Nil(t, err)
	m := msg.(*docsign.InitDocumentMsg)

	want, err := docsign.DigestContent(content)
	assert.Nil(t, err)
	assert.Equal(t, want, m.Digest)
	assert.Nil(t, docsign.VerifyContent(m.Digest, content))
}

func TestCmdDigest(t *testing.T) {
	content := []byte("contract body")
	out := run(t, cmdDigest, content)
	digest := strings.TrimSpace(string(out))

	want, err := docsign.DigestContent(content)
	assert.Nil(t, err)
	assert.Equal(t, want, digest)

	out = run(t, cmdDigest, content, "-verify", digest)
	assert.Equal(t, "ok\n", string(out))

	var output bytes.Buffer
	err = cmdDigest(bytes.NewReader([]byte("tampered")), &output, []string{"-verify", digest})
	if err == nil {
		t.Fatal("want tampered content to fail verification")
	}
}
