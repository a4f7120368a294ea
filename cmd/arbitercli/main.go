package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/iov-one/arbiter"
)

// commands is a register of all available commands that can be executed by
// this program. The name is used to match with the first argument given.
//
// A command function is given stdin, stdout and the command line arguments
// without the program name and the command name. It must parse the
// arguments itself, using the flag package. A command function reads and
// writes only to the provided input and output. In the special case of an
// invalid argument, a message to os.Stderr and an os.Exit(2) call are
// allowed.
//
// Each command provides a single functionality. Use a unix pipe to build a
// pipeline, for example to create, sign and submit a transaction:
//
//	$ arbitercli add-signature -document 8E1C... \
//	    | arbitercli sign \
//	    | arbitercli submit
var commands = map[string]func(input io.Reader, output io.Writer, args []string) error{
	"add-participant": cmdAddParticipant,
	"add-signature":   cmdAddSignature,
	"clerk-address":   cmdClerkAddress,
	"digest":          cmdDigest,
	"finalize":        cmdFinalize,
	"init-clerk":      cmdInitClerk,
	"init-document":   cmdInitDocument,
	"keyaddr":         cmdKeyaddr,
	"keygen":          cmdKeygen,
	"query":           cmdQuery,
	"sign":            cmdSignTransaction,
	"stage-upgrade":   cmdStageUpgrade,
	"submit":          cmdSubmitTransaction,
	"upgrade-limit":   cmdUpgradeLimit,
	"version":         cmdVersion,
	"view":            cmdTransactionView,
}

func main() {
	if len(os.Args) == 1 {
		fmt.Fprintf(os.Stderr, "%s is a command line client for the arbiter application.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s <command> [<flags>]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		fmt.Fprintf(os.Stderr, "Run '%s <command> -help' to learn more about each command.\n", os.Args[0])
		os.Exit(2)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		os.Exit(2)
	}

	// Skip the program name and the command name that we just consumed.
	if err := run(os.Stdin, os.Stdout, os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func availableCmds() []string {
	available := make([]string, 0, len(commands))
	for name := range commands {
		available = append(available, name)
	}
	sort.Strings(available)
	return available
}

func cmdVersion(in io.Reader, out io.Writer, args []string) error {
	fmt.Fprintln(out, arbiter.Version())
	return nil
}
