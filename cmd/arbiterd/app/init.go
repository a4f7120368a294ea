package app

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/iov-one/arbiter"
	"github.com/iov-one/arbiter/crypto"
	"github.com/iov-one/arbiter/errors"
	"github.com/iov-one/arbiter/x/docsign"
)

// defaultClerkLimit is the capacity of the development clerk.
const defaultClerkLimit = 16

// GenInitOptions will produce the app state of a development chain: the
// default configuration and one clerk.
//
// The first argument is the hex address of the clerk authority. When it
// is missing a key is generated and printed out. The second argument is
// the clerk capacity.
func GenInitOptions(args []string) (json.RawMessage, error) {
	var addr arbiter.Address
	if len(args) > 0 {
		a, err := arbiter.ParseAddress(args[0])
		if err != nil {
			return nil, err
		}
		addr = a
	} else {
		// if no address provided, auto-generate one
		// and print out the keys
		a, keys, err := GenerateKey()
		if err != nil {
			return nil, err
		}
		addr = a
		fmt.Println(keys)
	}

	limit := int64(defaultClerkLimit)
	if len(args) > 1 {
		n, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil || n <= 0 {
			return nil, errors.Wrapf(docsign.ErrInvalidCapacity, "invalid limit %q", args[1])
		}
		limit = n
	}

	conf := docsign.DefaultConfiguration()
	if limit > conf.MaxCapacity {
		return nil, errors.Wrapf(docsign.ErrInvalidCapacity, "limit above %d", conf.MaxCapacity)
	}
	clerk, err := docsign.NewClerk(addr, limit)
	if err != nil {
		return nil, err
	}

	state := struct {
		Docsign docsign.Configuration `json:"docsign"`
		Clerks  []docsign.ClerkView   `json:"clerks"`
	}{
		Docsign: conf,
		Clerks:  []docsign.ClerkView{clerk.View()},
	}
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}

type output struct {
	Pubkey *crypto.PublicKey  `json:"pub_key"`
	Secret *crypto.PrivateKey `json:"secret"`
}

// GenerateKey returns the address of a new public key,
// along with a json representation of the keys.
func GenerateKey() (arbiter.Address, string, error) {
	privKey := crypto.GenPrivKeyEd25519()
	pubKey := privKey.PublicKey()

	out := output{Pubkey: pubKey, Secret: privKey}
	keys, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrInput, err.Error())
	}
	return pubKey.Address(), string(keys), nil
}
