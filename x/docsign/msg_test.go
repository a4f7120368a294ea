package docsign

import (
	"testing"

	"github.com/iov-one/arbiter"
	"github.com/iov-one/arbiter/arbitertest"
	"github.com/iov-one/arbiter/arbitertest/assert"
	"github.com/iov-one/arbiter/errors"
)

func TestMsgValidate(t *testing.T) {
	addr := arbitertest.NewCondition().Address()
	other := arbitertest.NewCondition().Address()
	bad := arbiter.Address("bad")

	cases := map[string]struct {
		msg    arbiter.Msg
		field  string
		wantOK bool
		want   *errors.Error
	}{
		"init clerk": {
			msg:    &InitClerkMsg{Limit: 1},
			wantOK: true,
		},
		"init clerk zero limit": {
			msg:   &InitClerkMsg{Limit: 0},
			field: "Limit",
			want:  ErrInvalidCapacity,
		},
		"init clerk bad authority": {
			msg:   &InitClerkMsg{Authority: bad, Limit: 1},
			field: "Authority",
			want:  errors.ErrInput,
		},
		"init document": {
			msg:    &InitDocumentMsg{Title: "a", Participants: []arbiter.Address{addr}},
			wantOK: true,
		},
		"init document empty title": {
			msg:   &InitDocumentMsg{Participants: []arbiter.Address{addr}},
			field: "Title",
			want:  ErrEmptyTitle,
		},
		"init document relative uri": {
			msg:   &InitDocumentMsg{Title: "a", Participants: []arbiter.Address{addr}, URI: "/docs/a.pdf"},
			field: "URI",
			want:  errors.ErrInput,
		},
		"add signature": {
			msg:    &AddSignatureMsg{DocumentID: addr},
			wantOK: true,
		},
		"add signature missing document": {
			msg:   &AddSignatureMsg{},
			field: "DocumentID",
			want:  errors.ErrInput,
		},
		"finalize missing clerk": {
			msg:   &FinalizeMsg{DocumentID: addr},
			field: "ClerkID",
			want:  errors.ErrInput,
		},
		"stage upgrade": {
			msg:    &StageUpgradeMsg{ClerkID: addr},
			wantOK: true,
		},
		"stage upgrade bad clerk": {
			msg:   &StageUpgradeMsg{ClerkID: bad},
			field: "ClerkID",
			want:  errors.ErrInput,
		},
		"upgrade limit": {
			msg:    &UpgradeLimitMsg{StagedID: addr, ClerkID: other, IncreaseAmount: 1},
			wantOK: true,
		},
		"upgrade limit negative": {
			msg:   &UpgradeLimitMsg{StagedID: addr, ClerkID: other, IncreaseAmount: -1},
			field: "IncreaseAmount",
			want:  ErrInvalidUpgradeAmount,
		},
		"add participant missing participant": {
			msg:   &AddParticipantMsg{DocumentID: addr},
			field: "Participant",
			want:  errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.msg.Validate()
			if tc.wantOK {
				assert.Nil(t, err)
				return
			}
			assert.FieldError(t, err, tc.field, tc.want)
		})
	}
}

func TestMsgSerialization(t *testing.T) {
	a := arbitertest.NewCondition().Address()
	b := arbitertest.NewCondition().Address()
	digest, err := DigestContent([]byte("payload"))
	assert.Nil(t, err)

	cases := map[string]struct {
		msg   arbiter.Msg
		empty arbiter.Msg
	}{
		"init clerk":      {msg: &InitClerkMsg{Authority: a, Limit: 12}, empty: &InitClerkMsg{}},
		"init document":   {msg: &InitDocumentMsg{Title: "t", Participants: []arbiter.Address{a, b}, URI: "ipfs://x", Digest: digest}, empty: &InitDocumentMsg{}},
		"add signature":   {msg: &AddSignatureMsg{DocumentID: a, Participant: b}, empty: &AddSignatureMsg{}},
		"finalize":        {msg: &FinalizeMsg{DocumentID: a, ClerkID: b}, empty: &FinalizeMsg{}},
		"stage upgrade":   {msg: &StageUpgradeMsg{ClerkID: a}, empty: &StageUpgradeMsg{}},
		"upgrade limit":   {msg: &UpgradeLimitMsg{StagedID: a, ClerkID: b, IncreaseAmount: 5}, empty: &UpgradeLimitMsg{}},
		"add participant": {msg: &AddParticipantMsg{DocumentID: a, Participant: b}, empty: &AddParticipantMsg{}},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			raw, err := tc.msg.Marshal()
			assert.Nil(t, err)
			assert.Nil(t, tc.empty.Unmarshal(raw))
			assert.Equal(t, tc.msg, tc.empty)
			assert.Equal(t, tc.msg.Path(), tc.empty.Path())
		})
	}
}

func TestInitDocumentMsgContent(t *testing.T) {
	msg := &InitDocumentMsg{Title: "a"}
	assert.Nil(t, msg.Content())

	msg.URI = "https://example.com/a"
	assert.Equal(t, &Content{URI: "https://example.com/a"}, msg.Content())
}
