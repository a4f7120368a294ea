package docsign

import (
	"github.com/iov-one/arbiter"
	"github.com/iov-one/arbiter/errors"
)

// Initializer fulfils the Initializer interface to load data from the
// genesis file.
type Initializer struct{}

var _ arbiter.Initializer = (*Initializer)(nil)

// FromGenesis stores the configuration and any preloaded clerks and
// documents. Records are stored under their derived addresses. Every
// occupied clerk slot must reference a preloaded document of the same
// authority.
func (*Initializer) FromGenesis(opts arbiter.Options, db arbiter.KVStore) error {
	conf := DefaultConfiguration()
	if err := opts.ReadOptions("docsign", &conf); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := SaveConfiguration(db, conf); err != nil {
		return err
	}

	var clerks []ClerkView
	if err := opts.ReadOptions("clerks", &clerks); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	var docs []DocumentView
	if err := opts.ReadOptions("documents", &docs); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	documents := NewDocumentBucket()
	authorities := make(map[string]arbiter.Address, len(docs))
	for i, v := range docs {
		d, err := v.Document()
		if err != nil {
			return errors.Wrapf(err, "document %d", i)
		}
		addr, err := DocumentAddress(d.Authority, d.Title)
		if err != nil {
			return errors.Wrapf(err, "document %d", i)
		}
		if has, err := documents.Has(db, addr); err != nil {
			return err
		} else if has {
			return errors.Wrapf(errors.ErrDuplicate, "document %d", i)
		}
		if err := documents.Put(db, addr, d); err != nil {
			return errors.Wrapf(err, "document %d", i)
		}
		authorities[addr.String()] = d.Authority
	}

	cb := NewClerkBucket()
	for i, v := range clerks {
		c, err := v.Clerk()
		if err != nil {
			return errors.Wrapf(err, "clerk %d", i)
		}
		if int64(c.Capacity()) > conf.MaxCapacity {
			return errors.Wrapf(ErrInvalidCapacity, "clerk %d above maximum", i)
		}
		for j, doc := range c.Documents {
			if doc == nil {
				continue
			}
			owner, ok := authorities[doc.String()]
			if !ok {
				return errors.Wrapf(errors.ErrNotFound, "clerk %d slot %d: document %s", i, j, doc)
			}
			if !owner.Equals(c.Authority) {
				return errors.Wrapf(ErrClerkDoesNotHoldDocument, "clerk %d slot %d: document %s", i, j, doc)
			}
		}
		addr, err := ClerkAddress(c.Authority)
		if err != nil {
			return errors.Wrapf(err, "clerk %d", i)
		}
		if has, err := cb.Has(db, addr); err != nil {
			return err
		} else if has {
			return errors.Wrapf(errors.ErrDuplicate, "clerk %d", i)
		}
		if err := cb.Put(db, addr, c); err != nil {
			return errors.Wrapf(err, "clerk %d", i)
		}
	}
	return nil
}
