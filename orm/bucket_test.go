package orm

import (
	"testing"

	"github.com/iov-one/arbiter"
	"github.com/iov-one/arbiter/arbitertest/assert"
	"github.com/iov-one/arbiter/errors"
	"github.com/iov-one/arbiter/store"
)

// note is a minimal model used by the tests.
type note struct {
	Text string
}

func (n *note) Marshal() ([]byte, error) { return []byte(n.Text), nil }

func (n *note) Unmarshal(raw []byte) error {
	n.Text = string(raw)
	return nil
}

func (n *note) Validate() error {
	if n.Text == "" {
		return errors.Wrap(errors.ErrEmpty, "text")
	}
	return nil
}

func newNote(key, text string) *SimpleObj {
	return NewSimpleObj([]byte(key), &note{Text: text})
}

func TestBucketCreateGetDelete(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("notes", newNote("", ""))

	obj, err := b.Get(db, []byte("a"))
	assert.Nil(t, err)
	assert.Nil(t, obj)

	assert.Nil(t, b.Create(db, newNote("a", "first")))
	err = b.Create(db, newNote("a", "second"))
	assert.IsErr(t, errors.ErrDuplicate, err)

	obj, err = b.Get(db, []byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, "first", obj.Value().(*note).Text)
	assert.Equal(t, []byte("a"), obj.Key())

	// Save overwrites.
	assert.Nil(t, b.Save(db, newNote("a", "updated")))
	obj, err = b.Get(db, []byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, "updated", obj.Value().(*note).Text)

	assert.Nil(t, b.Delete(db, []byte("a")))
	has, err := b.Has(db, []byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, false, has)
}

func TestBucketSaveValidates(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("notes", newNote("", ""))

	err := b.Save(db, newNote("a", ""))
	assert.FieldError(t, err, "Value", errors.ErrEmpty)

	err = b.Save(db, newNote("", "text"))
	assert.FieldError(t, err, "Key", errors.ErrEmpty)
}

func TestBucketsDoNotOverlap(t *testing.T) {
	db := store.MemStore()
	one := NewBucket("one", newNote("", ""))
	two := NewBucket("onex", newNote("", ""))

	assert.Nil(t, one.Save(db, newNote("key", "in one")))
	assert.Nil(t, two.Save(db, newNote("key", "in two")))

	objs, err := one.Scan(db, nil)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(objs))
	assert.Equal(t, "in one", objs[0].Value().(*note).Text)
}

func TestBucketQuery(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("notes", newNote("", ""))
	for _, k := range []string{"aa", "ab", "b"} {
		assert.Nil(t, b.Save(db, newNote(k, "value-"+k)))
	}

	qr := arbiter.NewQueryRouter()
	b.Register("", qr)
	h := qr.Handler("/notes")
	if h == nil {
		t.Fatal("bucket not registered")
	}

	res, err := h.Query(db, arbiter.KeyQueryMod, []byte("ab"))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))
	assert.Equal(t, []byte("notes:ab"), res[0].Key)
	assert.Equal(t, []byte("value-ab"), res[0].Value)

	res, err = h.Query(db, arbiter.KeyQueryMod, []byte("missing"))
	assert.Nil(t, err)
	assert.Equal(t, 0, len(res))

	res, err = h.Query(db, arbiter.PrefixQueryMod, []byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, 2, len(res))
	assert.Equal(t, []byte("notes:aa"), res[0].Key)
	assert.Equal(t, []byte("notes:ab"), res[1].Key)

	_, err = h.Query(db, "unknown", nil)
	assert.IsErr(t, errors.ErrInput, err)
}

func TestIllegalBucketName(t *testing.T) {
	assert.Panics(t, func() { NewBucket("No", newNote("", "")) })
}

func TestPrefixRange(t *testing.T) {
	cases := map[string]struct {
		prefix, want []byte
	}{
		"nil":        {nil, nil},
		"simple":     {[]byte("ab"), []byte("ac")},
		"carry":      {[]byte{1, 0xFF}, []byte{2}},
		"all max":    {[]byte{0xFF, 0xFF}, nil},
		"empty text": {[]byte{}, nil},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, prefixRange(tc.prefix))
		})
	}
}
