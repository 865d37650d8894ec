package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/dynlib/dynaval/dyn"
)

func convertCommand(args []string) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	to := fs.String("to", "", "target format (json or yaml)")
	from := fs.String("format", "", "force the input format (json or yaml)")
	indent := fs.Bool("indent", false, "pretty-print JSON output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) != 1 {
		return errors.New("dyn convert: document path required")
	}
	v, err := loadDocument(remaining[0], *from)
	if err != nil {
		return err
	}

	switch *to {
	case "json":
		var out []byte
		if *indent {
			out, err = dyn.ToJSONIndent(v, "", "  ")
		} else {
			out, err = dyn.ToJSON(v)
		}
		if err != nil {
			return fmt.Errorf("encode failed: %w", err)
		}
		fmt.Println(string(out))
		return nil
	case "yaml":
		out, err := dyn.ToYAML(v)
		if err != nil {
			return fmt.Errorf("encode failed: %w", err)
		}
		_, err = os.Stdout.Write(out)
		return err
	case "":
		return errors.New("dyn convert: -to json|yaml required")
	default:
		return fmt.Errorf("unknown target format %q", *to)
	}
}
