package main

import (
	"flag"
	"fmt"
	"io"
	"io/ioutil"

	"github.com/iov-one/arbiter/x/docsign"
)

func cmdInitClerk(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction for registering a new clerk. A clerk holds up to limit
documents created by its authority.

When no authority is given, the main signer of the transaction becomes the
authority.
`)
		fl.PrintDefaults()
	}
	var (
		authorityFl = flAddress(fl, "authority", "", "Hex encoded address of the clerk authority.")
		limitFl     = fl.Int64("limit", 16, "Number of documents the clerk can hold.")
	)
	fl.Parse(args)

	if *limitFl <= 0 {
		flagDie("limit must be greater than zero")
	}
	return writeMsg(output, &docsign.InitClerkMsg{
		Authority: *authorityFl,
		Limit:     *limitFl,
	})
}

func cmdInitDocument(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction for registering a new document. The document address is
derived from the authority and the title, so a title can be used only once
per authority.

Optionally the document can reference its content. Provide the location of
the content and either its digest or the path to a local copy, to compute
the digest from.
`)
		fl.PrintDefaults()
	}
	var (
		authorityFl    = flAddress(fl, "authority", "", "Hex encoded address of the document authority. Defaults to the main signer.")
		titleFl        = fl.String("title", "", "Title of the document.")
		participantsFl = flAddresses(fl, "participants", "Comma separated hex addresses of the participants that must sign the document. Can be repeated.")
		uriFl          = fl.String("uri", "", "Optional location of the document content.")
		digestFl       = fl.String("digest", "", "Optional CID of the document content.")
		fileFl         = fl.String("file", "", "Optional path to the document content. The digest is computed from it.")
	)
	fl.Parse(args)

	if *titleFl == "" {
		flagDie("title is required")
	}
	if len(*participantsFl) == 0 {
		flagDie("at least one participant is required")
	}

	digest := *digestFl
	if *fileFl != "" {
		if digest != "" {
			flagDie("digest and file cannot be used together")
		}
		raw, err := ioutil.ReadFile(*fileFl)
		if err != nil {
			return fmt.Errorf("cannot read content file: %s", err)
		}
		if digest, err = docsign.DigestContent(raw); err != nil {
			return fmt.Errorf("cannot compute digest: %s", err)
		}
	}

	return writeMsg(output, &docsign.InitDocumentMsg{
		Authority:    *authorityFl,
		Title:        *titleFl,
		Participants: *participantsFl,
		URI:          *uriFl,
		Digest:       digest,
	})
}

func cmdAddSignature(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction for signing a document. When no participant is given,
the main signer of the transaction is signing.
`)
		fl.PrintDefaults()
	}
	var (
		documentFl    = flAddress(fl, "document", "", "Hex encoded address of the document.")
		participantFl = flAddress(fl, "participant", "", "Hex encoded address of the signing participant.")
	)
	fl.Parse(args)

	if len(*documentFl) == 0 {
		flagDie("document address is required")
	}
	return writeMsg(output, &docsign.AddSignatureMsg{
		DocumentID:  *documentFl,
		Participant: *participantFl,
	})
}

func cmdFinalize(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction for finalizing a document. All participants must have
signed the document and the clerk must hold it. Finalizing releases the slot
of the document in the clerk.
`)
		fl.PrintDefaults()
	}
	var (
		documentFl = flAddress(fl, "document", "", "Hex encoded address of the document.")
		clerkFl    = flAddress(fl, "clerk", "", "Hex encoded address of the clerk holding the document.")
	)
	fl.Parse(args)

	if len(*documentFl) == 0 || len(*clerkFl) == 0 {
		flagDie("document and clerk addresses are required")
	}
	return writeMsg(output, &docsign.FinalizeMsg{
		DocumentID: *documentFl,
		ClerkID:    *clerkFl,
	})
}

func cmdStageUpgrade(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction for staging a full clerk for a capacity upgrade. This is
the first step of the upgrade, complete it with the upgrade-limit command.
`)
		fl.PrintDefaults()
	}
	clerkFl := flAddress(fl, "clerk", "", "Hex encoded address of the clerk.")
	fl.Parse(args)

	if len(*clerkFl) == 0 {
		flagDie("clerk address is required")
	}
	return writeMsg(output, &docsign.StageUpgradeMsg{ClerkID: *clerkFl})
}

func cmdUpgradeLimit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction for completing a clerk capacity upgrade. The staged clerk
is moved back to its address with additional free slots.
`)
		fl.PrintDefaults()
	}
	var (
		stagedFl   = flAddress(fl, "staged", "", "Hex encoded address of the staged clerk.")
		clerkFl    = flAddress(fl, "clerk", "", "Hex encoded address the clerk is moved back to.")
		increaseFl = fl.Int64("increase", 0, "Number of free slots to add.")
	)
	fl.Parse(args)

	if len(*stagedFl) == 0 || len(*clerkFl) == 0 {
		flagDie("staged and clerk addresses are required")
	}
	if *increaseFl <= 0 {
		flagDie("increase must be greater than zero")
	}
	return writeMsg(output, &docsign.UpgradeLimitMsg{
		StagedID:       *stagedFl,
		ClerkID:        *clerkFl,
		IncreaseAmount: *increaseFl,
	})
}

func cmdAddParticipant(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction for adding a participant to a document that is not
finalized yet. Only the document authority can add participants.
`)
		fl.PrintDefaults()
	}
	var (
		documentFl    = flAddress(fl, "document", "", "Hex encoded address of the document.")
		participantFl = flAddress(fl, "participant", "", "Hex encoded address of the new participant.")
	)
	fl.Parse(args)

	if len(*documentFl) == 0 || len(*participantFl) == 0 {
		flagDie("document and participant addresses are required")
	}
	return writeMsg(output, &docsign.AddParticipantMsg{
		DocumentID:  *documentFl,
		Participant: *participantFl,
	})
}

func cmdDigest(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read the document content from standard input and print out its CID, as
used by the init-document command.

When a digest is given, verify instead that the content matches it.
`)
		fl.PrintDefaults()
	}
	verifyFl := fl.String("verify", "", "CID the content is expected to match.")
	fl.Parse(args)

	raw, err := ioutil.ReadAll(input)
	if err != nil {
		return fmt.Errorf("cannot read content: %s", err)
	}
	if *verifyFl != "" {
		if err := docsign.VerifyContent(*verifyFl, raw); err != nil {
			return fmt.Errorf("cannot verify content: %s", err)
		}
		_, err = fmt.Fprintln(output, "ok")
		return err
	}
	digest, err := docsign.DigestContent(raw)
	if err != nil {
		return fmt.Errorf("cannot compute digest: %s", err)
	}
	_, err = fmt.Fprintln(output, digest)
	return err
}
