package docsign

import (
	"github.com/iov-one/arbiter/errors"
)

// x/docsign reserves 300 ~ 319.
var (
	ErrInvalidCapacity                  = errors.Register(300, "invalid clerk capacity")
	ErrCapacityExceeded                 = errors.Register(301, "clerk capacity exceeded")
	ErrEmptyTitle                       = errors.Register(302, "empty document title")
	ErrEmptyParticipants                = errors.Register(303, "empty participants")
	ErrDuplicateParticipants            = errors.Register(304, "duplicate participants")
	ErrParticipantNotAssociated         = errors.Register(305, "participant not associated")
	ErrAlreadySigned                    = errors.Register(306, "already signed")
	ErrDocumentAlreadyFinalized         = errors.Register(307, "document already finalized")
	ErrClerkDoesNotHoldDocument         = errors.Register(308, "clerk does not hold document")
	ErrMissingSignatures                = errors.Register(309, "missing signatures")
	ErrClerkUpgradingWithRemainingSpace = errors.Register(310, "clerk upgrading with remaining space")
	ErrInvalidUpgradeAmount             = errors.Register(311, "invalid upgrade amount")
)

// Class groups errors by what the caller can do about them.
type Class int

const (
	// Unknown is any error not produced by a rejected transition.
	Unknown Class = iota
	// InputError can be fixed by correcting the request.
	InputError
	// AuthorizationError is a mismatch between the caller and the records.
	AuthorizationError
	// StateConflict means the operation does not apply to the current
	// state. The caller should read the state again before retrying.
	StateConflict
)

func (c Class) String() string {
	switch c {
	case InputError:
		return "input"
	case AuthorizationError:
		return "authorization"
	case StateConflict:
		return "state conflict"
	default:
		return "unknown"
	}
}

var classes = []struct {
	err   *errors.Error
	class Class
}{
	{ErrEmptyTitle, InputError},
	{ErrEmptyParticipants, InputError},
	{ErrDuplicateParticipants, InputError},
	{ErrInvalidCapacity, InputError},
	{ErrInvalidUpgradeAmount, InputError},
	{errors.ErrInput, InputError},
	{errors.ErrMsg, InputError},
	{errors.ErrEmpty, InputError},

	{errors.ErrUnauthorized, AuthorizationError},
	{ErrParticipantNotAssociated, AuthorizationError},
	{ErrClerkDoesNotHoldDocument, AuthorizationError},

	{ErrAlreadySigned, StateConflict},
	{ErrDocumentAlreadyFinalized, StateConflict},
	{ErrCapacityExceeded, StateConflict},
	{ErrClerkUpgradingWithRemainingSpace, StateConflict},
	{ErrMissingSignatures, StateConflict},
	{errors.ErrDuplicate, StateConflict},
	{errors.ErrNotFound, StateConflict},
}

// Classify returns the class of the given error. When err holds several
// errors, input errors take precedence over authorization errors and
// those over state conflicts.
func Classify(err error) Class {
	if err == nil {
		return Unknown
	}
	for _, c := range classes {
		if c.err.Is(err) {
			return c.class
		}
	}
	return Unknown
}
