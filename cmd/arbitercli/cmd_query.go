package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/iov-one/arbiter"
	"github.com/iov-one/arbiter/x/docsign"
	"github.com/iov-one/arbiter/x/sigs"
)

// queryDecoders maps a query path to a function that returns the human
// readable representation of a stored value.
var queryDecoders = map[string]func([]byte) (interface{}, error){
	"/clerks":    decodeClerk,
	"/staged":    decodeClerk,
	"/documents": decodeDocument,
	"/contents":  decodeContent,
	"/auth":      decodeUser,
}

func decodeClerk(raw []byte) (interface{}, error) {
	var c docsign.Clerk
	if err := c.Unmarshal(raw); err != nil {
		return nil, err
	}
	return c.View(), nil
}

func decodeDocument(raw []byte) (interface{}, error) {
	var d docsign.Document
	if err := d.Unmarshal(raw); err != nil {
		return nil, err
	}
	return d.View(), nil
}

func decodeContent(raw []byte) (interface{}, error) {
	var c docsign.Content
	if err := c.Unmarshal(raw); err != nil {
		return nil, err
	}
	return &c, nil
}

func decodeUser(raw []byte) (interface{}, error) {
	var u sigs.UserData
	if err := u.Unmarshal(raw); err != nil {
		return nil, err
	}
	return &u, nil
}

func cmdQuery(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), `
Query the ledger state and print found records as JSON.

Available paths are: %s
`, strings.Join(queryPaths(), ", "))
		fl.PrintDefaults()
	}
	var (
		tmAddrFl = tmAddrFlag(fl)
		pathFl   = fl.String("path", "", "Query path.")
		idFl     = fl.String("id", "", "Hex encoded key of the record. In prefix mode, the hex encoded key prefix.")
		prefixFl = fl.Bool("prefix", false, "Return all records which key starts with the given id.")
	)
	fl.Parse(args)

	decode, ok := queryDecoders[*pathFl]
	if !ok {
		flagDie("unknown query path %q", *pathFl)
	}
	id, err := hex.DecodeString(*idFl)
	if err != nil {
		flagDie("invalid id: %s", err)
	}
	path := *pathFl
	if *prefixFl {
		path += "?" + arbiter.PrefixQueryMod
	} else if len(id) == 0 {
		flagDie("id is required unless prefix mode is used")
	}

	resp, err := connect(*tmAddrFl).AbciQuery(path, id)
	if err != nil {
		return fmt.Errorf("cannot query: %s", err)
	}

	type record struct {
		Key   arbiter.Address `json:"key"`
		Value interface{}     `json:"value"`
	}
	records := make([]record, 0, len(resp.Models))
	for _, m := range resp.Models {
		v, err := decode(m.Value)
		if err != nil {
			return fmt.Errorf("cannot decode %X value: %s", m.Key, err)
		}
		records = append(records, record{Key: recordKey(m.Key), Value: v})
	}
	pretty, err := json.MarshalIndent(records, "", "\t")
	if err != nil {
		return fmt.Errorf("cannot JSON serialize: %s", err)
	}
	_, err = fmt.Fprintln(output, string(pretty))
	return err
}

func queryPaths() []string {
	paths := make([]string, 0, len(queryDecoders))
	for p := range queryDecoders {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// recordKey strips the bucket prefix from a database key.
func recordKey(key []byte) []byte {
	if i := bytes.IndexByte(key, ':'); i >= 0 {
		return key[i+1:]
	}
	return key
}
