package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dynlib/dynaval/dyn"
)

func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return usageError()
	}
	switch args[1] {
	case "repl":
		return runREPL()
	case "inspect":
		return inspectCommand(args[2:])
	case "convert":
		return convertCommand(args[2:])
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return usageError()
	}
}

func usageError() error {
	printUsage()
	return errors.New("invalid command")
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [flags] [args]\n", prog)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  repl")
	fmt.Fprintln(os.Stderr, "    interactive value workbench")
	fmt.Fprintln(os.Stderr, "  inspect [-format json|yaml] <file>")
	fmt.Fprintln(os.Stderr, "    print the kind tree of a document")
	fmt.Fprintln(os.Stderr, "  convert -to json|yaml [-indent] <file>")
	fmt.Fprintln(os.Stderr, "    re-encode a document in the other format")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}

// loadDocument reads and decodes a JSON or YAML file. The format follows
// the extension unless forced.
func loadDocument(path, format string) (dyn.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return dyn.NewUndefined(), fmt.Errorf("read document: %w", err)
	}
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			format = "yaml"
		default:
			format = "json"
		}
	}
	switch format {
	case "json":
		return dyn.FromJSON(data)
	case "yaml":
		return dyn.FromYAML(data)
	default:
		return dyn.NewUndefined(), fmt.Errorf("unknown format %q", format)
	}
}
