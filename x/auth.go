package x

import (
	"github.com/iov-one/arbiter"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of
// handlers, so we can plug in another authentication system,
// rather than hard-coding x/sigs for all extensions.
type Authenticator interface {
	// GetConditions reveals all Conditions fulfilled,
	// you may want GetAddresses helper
	GetConditions(arbiter.Context) []arbiter.Condition
	// HasAddress checks if any condition matches this address
	HasAddress(arbiter.Context, arbiter.Address) bool
}

// MultiAuth chains together many Authenticators into one
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticator
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetConditions combines all Conditions from all Authenticators
func (m MultiAuth) GetConditions(ctx arbiter.Context) []arbiter.Condition {
	var res []arbiter.Condition
	for _, impl := range m.impls {
		if add := impl.GetConditions(ctx); len(add) > 0 {
			res = append(res, add...)
		}
	}
	return res
}

// HasAddress returns true iff any Authenticator support this
func (m MultiAuth) HasAddress(ctx arbiter.Context, addr arbiter.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// GetAddresses wraps the GetConditions method of any Authenticator
func GetAddresses(ctx arbiter.Context, auth Authenticator) []arbiter.Address {
	perms := auth.GetConditions(ctx)
	addrs := make([]arbiter.Address, len(perms))
	for i, p := range perms {
		addrs[i] = p.Address()
	}
	return addrs
}

// MainSigner returns the first permission if any, otherwise nil
func MainSigner(ctx arbiter.Context, auth Authenticator) arbiter.Condition {
	signers := auth.GetConditions(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}

// HasAllAddresses returns true if all elements in required are
// also in context.
func HasAllAddresses(ctx arbiter.Context, auth Authenticator, required []arbiter.Address) bool {
	for _, r := range required {
		if !auth.HasAddress(ctx, r) {
			return false
		}
	}
	return true
}

// AddressOrSigner returns addr if set. Otherwise the address of the main
// signer is returned, or nil if the transaction is not signed.
func AddressOrSigner(ctx arbiter.Context, auth Authenticator, addr arbiter.Address) arbiter.Address {
	if len(addr) != 0 {
		return addr
	}
	if s := MainSigner(ctx, auth); s != nil {
		return s.Address()
	}
	return nil
}
