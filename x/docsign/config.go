package docsign

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/arbiter"
	"github.com/iov-one/arbiter/errors"
)

// configKey is where the configuration is persisted.
var configKey = []byte("_c:docsign")

// Configuration holds the limits enforced by the handlers.
type Configuration struct {
	// MaxCapacity is the greatest number of slots a clerk may have,
	// including all upgrades.
	MaxCapacity int64 `protobuf:"varint,1,opt,name=max_capacity,proto3" json:"max_capacity"`
	// MaxParticipants limits the participants of a single document.
	MaxParticipants int64 `protobuf:"varint,2,opt,name=max_participants,proto3" json:"max_participants"`
	// MaxTitleLength limits the stored title, in bytes.
	MaxTitleLength int64 `protobuf:"varint,3,opt,name=max_title_length,proto3" json:"max_title_length"`
}

// DefaultConfiguration is used when no configuration was set in genesis.
func DefaultConfiguration() Configuration {
	return Configuration{
		MaxCapacity:     1024,
		MaxParticipants: 64,
		MaxTitleLength:  256,
	}
}

type wireConfiguration Configuration

func (m *wireConfiguration) Reset()         { *m = wireConfiguration{} }
func (m *wireConfiguration) String() string { return proto.CompactTextString(m) }
func (*wireConfiguration) ProtoMessage()    {}

// Marshal serializes the configuration.
func (c *Configuration) Marshal() ([]byte, error) {
	return proto.Marshal((*wireConfiguration)(c))
}

// Unmarshal loads the configuration.
func (c *Configuration) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*wireConfiguration)(c))
}

// Validate ensures all limits are positive.
func (c *Configuration) Validate() error {
	var errs error
	if c.MaxCapacity <= 0 {
		errs = errors.AppendField(errs, "MaxCapacity", errors.ErrInput)
	}
	if c.MaxParticipants <= 0 {
		errs = errors.AppendField(errs, "MaxParticipants", errors.ErrInput)
	}
	if c.MaxTitleLength <= 0 {
		errs = errors.AppendField(errs, "MaxTitleLength", errors.ErrInput)
	}
	return errs
}

// LoadConfiguration returns the persisted configuration, or the default one
// if none was saved.
func LoadConfiguration(db arbiter.ReadOnlyKVStore) (Configuration, error) {
	raw, err := db.Get(configKey)
	if err != nil {
		return Configuration{}, errors.Wrap(err, "cannot load configuration")
	}
	if raw == nil {
		return DefaultConfiguration(), nil
	}
	var c Configuration
	if err := c.Unmarshal(raw); err != nil {
		return Configuration{}, errors.Wrap(errors.ErrModel, err.Error())
	}
	return c, nil
}

// SaveConfiguration validates and persists the configuration.
func SaveConfiguration(db arbiter.KVStore, c Configuration) error {
	if err := c.Validate(); err != nil {
		return errors.Wrap(err, "configuration")
	}
	raw, err := c.Marshal()
	if err != nil {
		return errors.Wrap(err, "cannot serialize configuration")
	}
	return db.Set(configKey, raw)
}
