package docsign

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/arbiter"
	"github.com/iov-one/arbiter/arbitertest"
	"github.com/iov-one/arbiter/arbitertest/assert"
	"github.com/iov-one/arbiter/errors"
)

func TestClerkView(t *testing.T) {
	c, err := NewClerk(arbitertest.NewCondition().Address(), 3)
	assert.Nil(t, err)
	doc := arbitertest.NewCondition().Address()
	assert.Nil(t, c.Register(doc))

	v := c.View()
	assert.Equal(t, 3, len(v.Documents))
	assert.Equal(t, doc, v.Documents[0])
	assert.Equal(t, arbiter.Address(emptyAddress()), v.Documents[1])

	raw, err := json.Marshal(v)
	assert.Nil(t, err)
	var decoded ClerkView
	assert.Nil(t, json.Unmarshal(raw, &decoded))

	got, err := decoded.Clerk()
	assert.Nil(t, err)
	assert.Equal(t, c, got)
}

func TestDocumentView(t *testing.T) {
	p1 := arbitertest.NewCondition().Address()
	p2 := arbitertest.NewCondition().Address()
	d, err := NewDocument(arbitertest.NewCondition().Address(), "a", []arbiter.Address{p1, p2}, 1000)
	assert.Nil(t, err)
	assert.Nil(t, d.Sign(p2, 1001))

	v := d.View()
	assert.Equal(t, []int64{0, 1001}, v.SignatureTimestamps)
	assert.Equal(t, int64(0), v.FinalizationTimestamp)

	raw, err := json.Marshal(v)
	assert.Nil(t, err)
	var decoded DocumentView
	assert.Nil(t, json.Unmarshal(raw, &decoded))
	got, err := decoded.Document()
	assert.Nil(t, err)
	assert.Equal(t, d, got)
}

func TestDocumentViewWithoutTimestamps(t *testing.T) {
	p1 := arbitertest.NewCondition().Address()
	v := DocumentView{
		Authority:    arbitertest.NewCondition().Address(),
		Title:        "genesis",
		CreatedAt:    1,
		Participants: []arbiter.Address{p1},
	}
	d, err := v.Document()
	assert.Nil(t, err)
	assert.Equal(t, 1, d.MissingSignatures())

	v.SignatureTimestamps = []int64{1, 2}
	_, err = v.Document()
	assert.FieldError(t, err, "SignatureTimestamps", errors.ErrInput)
}
