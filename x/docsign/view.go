package docsign

import (
	"github.com/iov-one/arbiter"
	"github.com/iov-one/arbiter/errors"
)

// ClerkView is the JSON representation of a clerk. It uses the sentinel
// form: free slots are the all zero address.
type ClerkView struct {
	Authority arbiter.Address   `json:"authority"`
	Documents []arbiter.Address `json:"documents"`
	Upgrades  uint32            `json:"upgrades"`
}

// View returns the JSON representation of the clerk.
func (c *Clerk) View() ClerkView {
	v := ClerkView{
		Authority: c.Authority,
		Documents: make([]arbiter.Address, len(c.Documents)),
		Upgrades:  c.Upgrades,
	}
	for i, d := range c.Documents {
		if d == nil {
			v.Documents[i] = emptyAddress()
		} else {
			v.Documents[i] = d
		}
	}
	return v
}

// Clerk converts the view back into a clerk.
func (v ClerkView) Clerk() (*Clerk, error) {
	c := &Clerk{
		Authority: v.Authority.Clone(),
		Documents: make([]arbiter.Address, len(v.Documents)),
		Upgrades:  v.Upgrades,
	}
	for i, d := range v.Documents {
		if !isEmptyAddress(d) {
			c.Documents[i] = d.Clone()
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// DocumentView is the JSON representation of a document. Unset timestamps
// are 0.
type DocumentView struct {
	Authority             arbiter.Address   `json:"authority"`
	Title                 string            `json:"title"`
	CreatedAt             int64             `json:"createdAt"`
	Participants          []arbiter.Address `json:"participants"`
	SignatureTimestamps   []int64           `json:"signatureTimestamps"`
	FinalizationTimestamp int64             `json:"finalizationTimestamp"`
}

// View returns the JSON representation of the document.
func (d *Document) View() DocumentView {
	v := DocumentView{
		Authority:             d.Authority,
		Title:                 d.Title,
		CreatedAt:             int64(d.CreatedAt),
		Participants:          d.Participants,
		SignatureTimestamps:   make([]int64, len(d.SignatureTimestamps)),
		FinalizationTimestamp: d.FinalizedAt.Wire(),
	}
	for i, ts := range d.SignatureTimestamps {
		v.SignatureTimestamps[i] = ts.Wire()
	}
	return v
}

// Document converts the view back into a document.
func (v DocumentView) Document() (*Document, error) {
	d := &Document{
		Authority:           v.Authority.Clone(),
		Title:               v.Title,
		CreatedAt:           arbiter.UnixTime(v.CreatedAt),
		Participants:        make([]arbiter.Address, len(v.Participants)),
		SignatureTimestamps: make([]arbiter.NullTime, len(v.Participants)),
		FinalizedAt:         arbiter.NullTimeFromWire(v.FinalizationTimestamp),
	}
	for i, p := range v.Participants {
		d.Participants[i] = p.Clone()
	}
	if len(v.SignatureTimestamps) != 0 {
		if len(v.SignatureTimestamps) != len(v.Participants) {
			return nil, errors.Field("SignatureTimestamps", errors.ErrInput, "must match participants")
		}
		for i, ts := range v.SignatureTimestamps {
			d.SignatureTimestamps[i] = arbiter.NullTimeFromWire(ts)
		}
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}
