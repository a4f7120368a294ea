package docsign

import (
	"testing"

	"github.com/iov-one/arbiter/arbitertest/assert"
	"github.com/iov-one/arbiter/errors"
)

func TestClassify(t *testing.T) {
	cases := map[string]struct {
		err  error
		want Class
	}{
		"nil":                 {err: nil, want: Unknown},
		"empty title":         {err: ErrEmptyTitle, want: InputError},
		"wrapped capacity":    {err: errors.Wrap(ErrInvalidCapacity, "limit"), want: InputError},
		"upgrade amount":      {err: ErrInvalidUpgradeAmount, want: InputError},
		"unauthorized":        {err: errors.Wrap(errors.ErrUnauthorized, "x"), want: AuthorizationError},
		"not associated":      {err: ErrParticipantNotAssociated, want: AuthorizationError},
		"not custodian":       {err: ErrClerkDoesNotHoldDocument, want: AuthorizationError},
		"already signed":      {err: ErrAlreadySigned, want: StateConflict},
		"finalized":           {err: ErrDocumentAlreadyFinalized, want: StateConflict},
		"capacity exceeded":   {err: ErrCapacityExceeded, want: StateConflict},
		"remaining space":     {err: ErrClerkUpgradingWithRemainingSpace, want: StateConflict},
		"address in use":      {err: errors.Wrap(errors.ErrDuplicate, "address already in use"), want: StateConflict},
		"database":            {err: errors.ErrDatabase, want: Unknown},
		"field error":         {err: errors.Field("Title", ErrEmptyTitle, "title"), want: InputError},
		"input wins in group": {err: errors.Append(ErrAlreadySigned, ErrEmptyParticipants), want: InputError},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.err))
		})
	}
}

func TestClassString(t *testing.T) {
	assert.Equal(t, "input", InputError.String())
	assert.Equal(t, "authorization", AuthorizationError.String())
	assert.Equal(t, "state conflict", StateConflict.String())
	assert.Equal(t, "unknown", Unknown.String())
}
