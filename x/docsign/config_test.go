package docsign

import (
	"testing"

	"github.com/iov-one/arbiter/arbitertest/assert"
	"github.com/iov-one/arbiter/errors"
	"github.com/iov-one/arbiter/store"
)

func TestConfiguration(t *testing.T) {
	db := store.MemStore()

	conf, err := LoadConfiguration(db)
	assert.Nil(t, err)
	assert.Equal(t, DefaultConfiguration(), conf)

	err = SaveConfiguration(db, Configuration{MaxCapacity: 10})
	assert.FieldError(t, err, "MaxParticipants", errors.ErrInput)

	want := Configuration{MaxCapacity: 10, MaxParticipants: 3, MaxTitleLength: 20}
	assert.Nil(t, SaveConfiguration(db, want))
	conf, err = LoadConfiguration(db)
	assert.Nil(t, err)
	assert.Equal(t, want, conf)

	assert.Nil(t, db.Set(configKey, []byte{0xff, 0xff}))
	_, err = LoadConfiguration(db)
	assert.IsErr(t, errors.ErrModel, err)
}
