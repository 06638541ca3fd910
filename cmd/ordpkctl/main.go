// Command ordpkctl is a small playground CLI over a store.Store.
//
// Usage:
//
//	ordpkctl --dir=<path> --key-size=N --value-size=N put <hex-key> <hex-value>
//	ordpkctl --dir=<path> --key-size=N --value-size=N get <hex-key>
//	ordpkctl --dir=<path> --key-size=N --value-size=N delete <hex-key>
//	ordpkctl --dir=<path> --key-size=N --value-size=N compact
//	ordpkctl --dir=<path> --key-size=N --value-size=N dump
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/flashpack/ordpk/store"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flagSet := flag.NewFlagSet("ordpkctl", flag.ContinueOnError)
	dir := flagSet.String("dir", "./ordpk-data", "data directory")
	keySize := flagSet.Int("key-size", 8, "fixed key width in bytes")
	valueSize := flagSet.Int("value-size", 8, "fixed value width in bytes")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	rest := flagSet.Args()
	if len(rest) == 0 {
		fmt.Print(usage())
		return nil
	}

	s, err := store.Open(*dir, *keySize, *valueSize)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer s.Close()

	switch rest[0] {
	case "put":
		return cmdPut(s, rest[1:])
	case "get":
		return cmdGet(s, rest[1:])
	case "delete", "rm":
		return cmdDelete(s, rest[1:])
	case "compact":
		return s.Compact()
	case "dump":
		return cmdDump(s)
	case "help", "-h", "--help":
		fmt.Print(usage())
		return nil
	default:
		return fmt.Errorf("unknown command: %s\n%s", rest[0], usage())
	}
}

func usage() string {
	return `ordpkctl: a fixed-width ordered dictionary store

Commands:
  put <hex-key> <hex-value>   Insert or overwrite a key
  get <hex-key>                Look up a key
  delete, rm <hex-key>          Remove a key
  compact                      Fold the journal into a snapshot
  dump                         Print every key/value pair, in order

Flags:
  --dir=<path>         data directory (default ./ordpk-data)
  --key-size=N          fixed key width in bytes (default 8)
  --value-size=N        fixed value width in bytes (default 8)
`
}

func decodeHexArg(name, s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%s must be hex-encoded: %w", name, err)
	}
	return b, nil
}

func cmdPut(s *store.Store, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: put <hex-key> <hex-value>")
	}
	k, err := decodeHexArg("key", args[0])
	if err != nil {
		return err
	}
	v, err := decodeHexArg("value", args[1])
	if err != nil {
		return err
	}
	return s.Put(k, v)
}

func cmdGet(s *store.Store, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: get <hex-key>")
	}
	k, err := decodeHexArg("key", args[0])
	if err != nil {
		return err
	}
	v, ok := s.Get(k)
	if !ok {
		return fmt.Errorf("key not found")
	}
	fmt.Println(hex.EncodeToString(v))
	return nil
}

func cmdDelete(s *store.Store, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: delete <hex-key>")
	}
	k, err := decodeHexArg("key", args[0])
	if err != nil {
		return err
	}
	return s.Delete(k)
}

func cmdDump(s *store.Store) error {
	snap := s.Snapshot()
	for k, v, ok := snap.First(); ok; k, v, ok = snap.Next(k) {
		fmt.Printf("%s %s\n", hex.EncodeToString(k), hex.EncodeToString(v))
	}
	return nil
}
