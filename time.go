package arbiter

import (
	"encoding/json"
	"time"

	"github.com/iov-one/arbiter/errors"
)

// UnixTime represents a point in time as POSIX time.
// This type comes in handy when dealing with protobuf messages. Instead of
// using Go's time.Time that includes nanoseconds use primitive int64 type and
// seconds precision. Some languages do not support nanoseconds precision
// anyway.
type UnixTime int64

// Time returns a time.Time structure that represents the same moment in time.
func (t UnixTime) Time() time.Time {
	return time.Unix(int64(t), 0)
}

// IsZero returns true if this time represents a zero value.
func (t UnixTime) IsZero() bool {
	return t == 0
}

// Add modifies this UNIX time by given duration. This is compatible with
// time.Time.Add method.
func (t UnixTime) Add(d time.Duration) UnixTime {
	return t + UnixTime(d/time.Second)
}

// AsUnixTime converts given Time structure into its UNIX time representation.
func AsUnixTime(t time.Time) UnixTime {
	return UnixTime(t.Unix())
}

// UnmarshalJSON supports unmarshaling both as time.Time and from a number.
// Usually a number is used as a representation of this time in JSON but it is
// convinient to use a string format in configurations (ie genesis file).
func (t *UnixTime) UnmarshalJSON(raw []byte) error {
	var unix int64
	if err := json.Unmarshal(raw, &unix); err == nil {
		if unix < 0 {
			return errors.Wrap(errors.ErrInput, "time before epoch")
		}
		*t = UnixTime(unix)
		return nil
	}

	var stdtime time.Time
	if err := json.Unmarshal(raw, &stdtime); err == nil {
		unix := UnixTime(stdtime.Unix())
		if unix < 0 {
			return errors.Wrap(errors.ErrInput, "time before epoch")
		}
		*t = unix
		return nil
	}

	return errors.Wrap(errors.ErrInput, "invalid time format")
}

// Validate returns an error if this time value is invalid.
func (t UnixTime) Validate() error {
	if t < 0 {
		return errors.Wrap(errors.ErrState, "negative value")
	}
	return nil
}

// String returns the usual string representation of this time as the time.Time
// structure would.
func (t UnixTime) String() string {
	return t.Time().UTC().String()
}

// NullTime is a UnixTime that may be unset. Records that persist an
// optional moment encode the unset state as zero on the wire and decode it
// back into a NullTime that is not Valid.
type NullTime struct {
	Time  UnixTime
	Valid bool
}

// SetTime returns a NullTime holding given moment.
func SetTime(t UnixTime) NullTime {
	return NullTime{Time: t, Valid: true}
}

// NullTimeFromWire decodes the zero sentinel representation.
func NullTimeFromWire(v int64) NullTime {
	if v == 0 {
		return NullTime{}
	}
	return SetTime(UnixTime(v))
}

// Wire returns the zero sentinel representation of this value.
func (n NullTime) Wire() int64 {
	if !n.Valid {
		return 0
	}
	return int64(n.Time)
}

// MarshalJSON encodes an unset value as null.
func (n NullTime) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Time)
}

// UnmarshalJSON accepts null, zero or any UnixTime representation.
func (n *NullTime) UnmarshalJSON(raw []byte) error {
	if string(raw) == "null" {
		*n = NullTime{}
		return nil
	}
	var t UnixTime
	if err := t.UnmarshalJSON(raw); err != nil {
		return err
	}
	*n = NullTimeFromWire(int64(t))
	return nil
}
