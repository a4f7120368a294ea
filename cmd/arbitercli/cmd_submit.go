package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/arbiter"
)

func cmdSubmitTransaction(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read binary serialized transaction from standard input and submit it.

When successful, the address of the created or modified record is printed.

Make sure to collect enough signatures before submitting the transaction.
`)
		fl.PrintDefaults()
	}
	tmAddrFl := tmAddrFlag(fl)
	fl.Parse(args)

	tx, _, err := readTx(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction from input: %s", err)
	}

	resp := connect(*tmAddrFl).BroadcastTx(tx)
	if err := resp.IsError(); err != nil {
		return fmt.Errorf("cannot broadcast transaction: %s", err)
	}
	if data := resp.Data(); len(data) != 0 {
		fmt.Fprintln(output, arbiter.Address(data))
	}
	return nil
}
