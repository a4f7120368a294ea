package arbiter

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/iov-one/arbiter/errors"
)

func TestUnixTimeUnmarshal(t *testing.T) {
	cases := map[string]struct {
		raw      string
		wantTime UnixTime
		wantErr  *errors.Error
	}{
		"zero time as number": {
			raw:      "0",
			wantTime: 0,
		},
		"zero time as string": {
			raw:      `"1970-01-01T01:00:00+01:00"`,
			wantTime: 0,
		},
		"a time as string": {
			raw:      `"2019-04-04T11:35:40.89181085+02:00"`,
			wantTime: 1554370540,
		},
		"a time as number": {
			raw:      "1554370540",
			wantTime: 1554370540,
		},
		"negative number": {
			raw:     "-1",
			wantErr: errors.ErrInput,
		},
		"negative time as string": {
			raw:     `"1950-01-01T01:00:00+01:00"`,
			wantErr: errors.ErrInput,
		},
		"invalid string": {
			raw:     `"not a time string"`,
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var got UnixTime
			err := json.Unmarshal([]byte(tc.raw), &got)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil && got != tc.wantTime {
				t.Fatalf("want %d, got %d", tc.wantTime, got)
			}
		})
	}
}

func TestUnixTimeArithmetic(t *testing.T) {
	now := time.Date(2019, 7, 1, 0, 0, 0, 0, time.UTC)
	ut := AsUnixTime(now)
	if !ut.Time().Equal(now) {
		t.Fatalf("want %s, got %s", now, ut.Time())
	}
	if got := ut.Add(90 * time.Second); got != ut+90 {
		t.Fatalf("want %d, got %d", ut+90, got)
	}
	// sub second precision is dropped
	if got := ut.Add(1500 * time.Millisecond); got != ut+1 {
		t.Fatalf("want %d, got %d", ut+1, got)
	}
	if !UnixTime(0).IsZero() || ut.IsZero() {
		t.Fatal("unexpected zero value check")
	}
	if err := UnixTime(-1).Validate(); !errors.ErrState.Is(err) {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestNullTime(t *testing.T) {
	unset := NullTimeFromWire(0)
	if unset.Valid {
		t.Fatal("zero must decode to an unset value")
	}
	if unset.Wire() != 0 {
		t.Fatalf("unset value must encode to zero, got %d", unset.Wire())
	}

	set := SetTime(1554370540)
	if got := NullTimeFromWire(set.Wire()); got != set {
		t.Fatalf("want %+v, got %+v", set, got)
	}

	raw, err := json.Marshal(unset)
	if err != nil {
		t.Fatalf("cannot marshal: %s", err)
	}
	if string(raw) != "null" {
		t.Fatalf("want null, got %s", raw)
	}

	cases := map[string]NullTime{
		`null`:                   {},
		`0`:                      {},
		`1554370540`:             set,
		`"2019-04-04T09:35:40Z"`: set,
	}
	for raw, want := range cases {
		var got NullTime
		if err := json.Unmarshal([]byte(raw), &got); err != nil {
			t.Fatalf("%s: cannot unmarshal: %s", raw, err)
		}
		if got != want {
			t.Fatalf("%s: want %+v, got %+v", raw, want, got)
		}
	}
}
