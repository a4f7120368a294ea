package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/iov-one/arbiter/crypto"
	"github.com/iov-one/arbiter/x/docsign"
)

func keyPathFlag(fl *flag.FlagSet) *string {
	return fl.String("key", env("ARBITERCLI_PRIV_KEY", os.Getenv("HOME")+"/.arbiter.priv.key"),
		"Path to the private key file. You can use ARBITERCLI_PRIV_KEY environment variable to set it.")
}

func cmdKeygen(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Generate a new private key.

When successful a new file with binary content containing private key is
created. This command fails if the private key file already exists.
`)
		fl.PrintDefaults()
	}
	keyPathFl := keyPathFlag(fl)
	fl.Parse(args)

	if _, err := os.Stat(*keyPathFl); !os.IsNotExist(err) {
		// Do not allow to overwrite already existing private key. User
		// must manually delete it first.
		return fmt.Errorf("private key file %q already exists, delete this file and try again", *keyPathFl)
	}

	key := crypto.GenPrivKeyEd25519()

	fd, err := os.OpenFile(*keyPathFl, os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("cannot create private key file: %s", err)
	}
	defer fd.Close()

	if _, err := fd.Write(key.Ed25519); err != nil {
		return fmt.Errorf("cannot write private key: %s", err)
	}
	if err := fd.Close(); err != nil {
		return fmt.Errorf("cannot close private key file: %s", err)
	}
	return nil
}

func cmdKeyaddr(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out a hex-address associated with your private key.
`)
		fl.PrintDefaults()
	}
	keyPathFl := keyPathFlag(fl)
	fl.Parse(args)

	key, err := decodePrivateKey(*keyPathFl)
	if err != nil {
		return fmt.Errorf("cannot load private key: %s", err)
	}
	_, err = fmt.Fprintln(output, key.PublicKey().Address())
	return err
}

func cmdClerkAddress(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out the addresses of the clerk owned by an authority. The first line
is the clerk address, the second one is the address the clerk is moved to
when it is staged for an upgrade.

When no authority is given, the address of the private key is used.
`)
		fl.PrintDefaults()
	}
	var (
		authorityFl = flAddress(fl, "authority", "", "Hex encoded address of the clerk authority.")
		keyPathFl   = keyPathFlag(fl)
	)
	fl.Parse(args)

	authority := *authorityFl
	if len(authority) == 0 {
		key, err := decodePrivateKey(*keyPathFl)
		if err != nil {
			return fmt.Errorf("cannot load private key: %s", err)
		}
		authority = key.PublicKey().Address()
	}

	clerk, err := docsign.ClerkAddress(authority)
	if err != nil {
		return fmt.Errorf("cannot derive clerk address: %s", err)
	}
	staged, err := docsign.StagedClerkAddress(authority)
	if err != nil {
		return fmt.Errorf("cannot derive staged clerk address: %s", err)
	}
	_, err = fmt.Fprintf(output, "%s\n%s\n", clerk, staged)
	return err
}
