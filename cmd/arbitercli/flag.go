package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/iov-one/arbiter"
)

// flAddress returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided. This
// function follows Go's flag package convention.
// If given value cannot be deserialized to required type, process is
// terminated.
func flAddress(fl *flag.FlagSet, name, defaultVal, usage string) *arbiter.Address {
	var a arbiter.Address
	if defaultVal != "" {
		var err error
		a, err = arbiter.ParseAddress(defaultVal)
		if err != nil {
			flagDie("Cannot parse %q address flag value. %s", name, err)
		}
	}
	fl.Var((*addressValue)(&a), name, usage)
	return &a
}

type addressValue arbiter.Address

func (a addressValue) String() string {
	if len(a) == 0 {
		return ""
	}
	return arbiter.Address(a).String()
}

func (a *addressValue) Set(raw string) error {
	addr, err := arbiter.ParseAddress(raw)
	if err != nil {
		return err
	}
	*a = addressValue(addr)
	return nil
}

// flAddresses returns a list of addresses that can be provided as a comma
// separated list or by repeating the flag.
func flAddresses(fl *flag.FlagSet, name, usage string) *[]arbiter.Address {
	var list []arbiter.Address
	fl.Var((*addressList)(&list), name, usage)
	return &list
}

type addressList []arbiter.Address

func (l addressList) String() string {
	s := make([]string, len(l))
	for i, a := range l {
		s[i] = a.String()
	}
	return strings.Join(s, ",")
}

func (l *addressList) Set(raw string) error {
	for _, enc := range strings.Split(raw, ",") {
		addr, err := arbiter.ParseAddress(strings.TrimSpace(enc))
		if err != nil {
			return err
		}
		*l = append(*l, addr)
	}
	return nil
}

// flagDie terminates the program when a flag is invalid. This is the
// behaviour of the flag package as well.
func flagDie(description string, args ...interface{}) {
	msg := fmt.Sprintf(description, args...)
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(2)
}
