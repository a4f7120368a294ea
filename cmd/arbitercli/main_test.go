package main

import (
	"bytes"
	"io"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/iov-one/arbiter"
	"github.com/iov-one/arbiter/client"
	"github.com/iov-one/arbiter/client/clienttest"
	arbiterd "github.com/iov-one/arbiter/cmd/arbiterd/app"
	"github.com/iov-one/arbiter/crypto"
	"github.com/iov-one/arbiter/store/iavl"
)

const testChainID = "arbiter-test"

// useNode replaces the node connection of all commands with an in-process
// application. The genesis registers a clerk of the given authority.
func useNode(t *testing.T, authority arbiter.Address, limit string) *client.Client {
	t.Helper()

	genesis, err := arbiterd.GenInitOptions([]string{authority.String(), limit})
	if err != nil {
		t.Fatalf("cannot generate genesis: %s", err)
	}
	app := arbiterd.Application("arbiter", arbiterd.Stack(), arbiterd.TxDecoder, iavl.MockCommitStore(), false)
	app.WithInit(arbiterd.Initializers())
	c := client.NewClient(clienttest.NewNode(app, testChainID, genesis))

	prev := connect
	connect = func(string) *client.Client { return c }
	t.Cleanup(func() { connect = prev })
	return c
}

// writeKey stores a new private key in a temporary file and returns its
// path.
func writeKey(t testing.TB) (string, *crypto.PrivateKey) {
	t.Helper()
	key := crypto.GenPrivKeyEd25519()
	path := filepath.Join(t.TempDir(), "priv.key")
	if err := ioutil.WriteFile(path, key.Ed25519, 0600); err != nil {
		t.Fatalf("cannot write key: %s", err)
	}
	return path, key
}

// run executes the command with given input and returns its output.
func run(t testing.TB, cmd func(io.Reader, io.Writer, []string) error, input []byte, args ...string) []byte {
	t.Helper()
	var output bytes.Buffer
	if err := cmd(bytes.NewReader(input), &output, args); err != nil {
		t.Fatalf("command failed: %s", err)
	}
	return output.Bytes()
}

func mustReadTx(t testing.TB, raw []byte) *arbiterd.Tx {
	t.Helper()
	tx, _, err := readTx(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("cannot read transaction: %s", err)
	}
	return tx
}

func TestAvailableCommands(t *testing.T) {
	names := availableCmds()
	if len(names) != len(commands) {
		t.Fatalf("want %d commands, got %d", len(commands), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("commands not sorted: %q before %q", names[i-1], names[i])
		}
	}
}

func TestCmdVersion(t *testing.T) {
	out := run(t, cmdVersion, nil)
	if got := string(out); got != arbiter.Version()+"\n" {
		t.Fatalf("unexpected version output: %q", got)
	}
}
