package docsign

import (
	"github.com/iov-one/arbiter"
	"github.com/iov-one/arbiter/errors"
	"github.com/iov-one/arbiter/orm"
)

// ClerkBucket stores clerks keyed by their derived address. The same type
// is used for canonical and for staged clerks.
type ClerkBucket struct {
	orm.Bucket
}

// NewClerkBucket returns the bucket of canonical clerks.
func NewClerkBucket() ClerkBucket {
	return ClerkBucket{orm.NewBucket("clerks", orm.NewSimpleObj(nil, &Clerk{}))}
}

// NewStagedBucket returns the bucket of clerks being upgraded.
func NewStagedBucket() ClerkBucket {
	return ClerkBucket{orm.NewBucket("staged", orm.NewSimpleObj(nil, &Clerk{}))}
}

// GetClerk returns the clerk stored under the address or ErrNotFound.
func (b ClerkBucket) GetClerk(db arbiter.ReadOnlyKVStore, addr arbiter.Address) (*Clerk, error) {
	obj, err := b.Get(db, addr)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "%s %s", b.Name(), addr)
	}
	return obj.Value().(*Clerk), nil
}

// Put stores the clerk under the address.
func (b ClerkBucket) Put(db arbiter.KVStore, addr arbiter.Address, c *Clerk) error {
	return b.Save(db, orm.NewSimpleObj(addr, c))
}

// DocumentBucket stores documents keyed by their derived address.
type DocumentBucket struct {
	orm.Bucket
}

// NewDocumentBucket returns the bucket of documents.
func NewDocumentBucket() DocumentBucket {
	return DocumentBucket{orm.NewBucket("documents", orm.NewSimpleObj(nil, &Document{}))}
}

// GetDocument returns the document stored under the address or ErrNotFound.
func (b DocumentBucket) GetDocument(db arbiter.ReadOnlyKVStore, addr arbiter.Address) (*Document, error) {
	obj, err := b.Get(db, addr)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "document %s", addr)
	}
	return obj.Value().(*Document), nil
}

// Put stores the document under the address.
func (b DocumentBucket) Put(db arbiter.KVStore, addr arbiter.Address, d *Document) error {
	return b.Save(db, orm.NewSimpleObj(addr, d))
}

// ContentBucket stores content references keyed by document address.
type ContentBucket struct {
	orm.Bucket
}

// NewContentBucket returns the bucket of content references.
func NewContentBucket() ContentBucket {
	return ContentBucket{orm.NewBucket("contents", orm.NewSimpleObj(nil, &Content{}))}
}

// GetContent returns the content of a document, or nil if none was set.
func (b ContentBucket) GetContent(db arbiter.ReadOnlyKVStore, doc arbiter.Address) (*Content, error) {
	obj, err := b.Get(db, doc)
	if err != nil || obj == nil {
		return nil, err
	}
	return obj.Value().(*Content), nil
}

// Put stores the content reference of a document.
func (b ContentBucket) Put(db arbiter.KVStore, doc arbiter.Address, c *Content) error {
	return b.Save(db, orm.NewSimpleObj(doc, c))
}

// RegisterQuery exposes all records of this extension.
func RegisterQuery(qr arbiter.QueryRouter) {
	NewClerkBucket().Register("clerks", qr)
	NewStagedBucket().Register("staged", qr)
	NewDocumentBucket().Register("documents", qr)
	NewContentBucket().Register("contents", qr)
}
