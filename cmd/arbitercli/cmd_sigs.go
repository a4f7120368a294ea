package main

import (
	"flag"
	"fmt"
	"io"
)

func tmAddrFlag(fl *flag.FlagSet) *string {
	return fl.String("tm", env("ARBITERCLI_TM_ADDR", "http://localhost:26657"),
		"Tendermint node address. You can use ARBITERCLI_TM_ADDR environment variable to set it.")
}

func cmdSignTransaction(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Sign given transaction. This is decoding a transaction data from standard
input, adds a signature and writes back to standard output signed transaction
content.

The chain ID and the sequence of the signer are fetched from the node, unless
both are provided. Providing both allows to sign offline.
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl  = tmAddrFlag(fl)
		keyPathFl = keyPathFlag(fl)
		chainFl   = fl.String("chain", "", "Chain ID of the network the transaction is signed for.")
		seqFl     = fl.Int64("seq", -1, "Sequence of the signer. Negative value means the sequence is fetched from the node.")
	)
	fl.Parse(args)

	key, err := decodePrivateKey(*keyPathFl)
	if err != nil {
		return fmt.Errorf("cannot load private key: %s", err)
	}

	tx, _, err := readTx(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction: %s", err)
	}

	chainID, seq := *chainFl, *seqFl
	if chainID == "" || seq < 0 {
		c := connect(*tmAddrFl)
		if chainID == "" {
			if chainID, err = c.ChainID(); err != nil {
				return fmt.Errorf("cannot fetch chain ID: %s", err)
			}
		}
		if seq < 0 {
			user, err := c.GetUser(key.PublicKey().Address())
			if err != nil {
				return fmt.Errorf("cannot get the next sequence number: %s", err)
			}
			if user != nil {
				seq = user.UserData.Sequence
			} else {
				seq = 0
			}
		}
	}

	if err := tx.Sign(key, chainID, seq); err != nil {
		return fmt.Errorf("cannot sign transaction: %s", err)
	}
	_, err = writeTx(output, tx)
	return err
}
