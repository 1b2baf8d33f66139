package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	j "github.com/goccy/go-json"

	gokata "github.com/reoring/gokata"
	"github.com/reoring/gokata/i18n"
	js "github.com/reoring/gokata/jsonschema"
	"github.com/reoring/gokata/schemayaml"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	switch sub {
	case "check":
		checkCmd(os.Args[2:])
	case "dump":
		dumpCmd(os.Args[2:])
	case "schema":
		schemaCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "gokata CLI\n\nUsage:\n  gokata check  -schema schema.yaml [-name S] [-lang en|ja] [input.json]\n  gokata dump   -schema schema.yaml [-name S] [-pretty] [input.json]\n  gokata schema -schema schema.yaml [-name S]\n\nNotes:\n  - Input is read from the named file, or stdin when omitted.\n  - Multi-document YAML picks the first schema unless -name selects one.")
}

func checkCmd(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	var schemaPath, name, lang string
	fs.StringVar(&schemaPath, "schema", "", "YAML schema declaration file")
	fs.StringVar(&name, "name", "", "schema name inside a multi-document file")
	fs.StringVar(&lang, "lang", "en", "issue message language (en|ja)")
	_ = fs.Parse(args)
	i18n.SetLanguage(lang)
	s := loadSchema(schemaPath, name)
	data := readInput(fs.Args())

	if _, err := gokata.Decode(s, data); err != nil {
		if iss, ok := gokata.AsIssues(err); ok {
			for _, it := range iss {
				fmt.Printf("%s: %s %s\n", it.Path, it.Code, it.Message)
			}
			os.Exit(1)
		}
		fatalf("decode: %v", err)
	}
	fmt.Println("OK")
}

func dumpCmd(args []string) {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	var schemaPath, name string
	var pretty bool
	fs.StringVar(&schemaPath, "schema", "", "YAML schema declaration file")
	fs.StringVar(&name, "name", "", "schema name inside a multi-document file")
	fs.BoolVar(&pretty, "pretty", false, "indent the output")
	_ = fs.Parse(args)
	s := loadSchema(schemaPath, name)
	data := readInput(fs.Args())

	rec, err := gokata.Decode(s, data)
	if err != nil {
		fatalf("decode: %v", err)
	}
	out, err := rec.AppendJSON(nil)
	if err != nil {
		fatalf("dump: %v", err)
	}
	if pretty {
		var buf []byte
		var m map[string]any
		if err := j.Unmarshal(out, &m); err == nil {
			if buf, err = j.MarshalIndent(m, "", "  "); err == nil {
				out = buf
			}
		}
	}
	fmt.Println(string(out))
}

func schemaCmd(args []string) {
	fs := flag.NewFlagSet("schema", flag.ExitOnError)
	var schemaPath, name string
	fs.StringVar(&schemaPath, "schema", "", "YAML schema declaration file")
	fs.StringVar(&name, "name", "", "schema name inside a multi-document file")
	_ = fs.Parse(args)
	s := loadSchema(schemaPath, name)

	out, err := j.MarshalIndent(js.Export(s), "", "  ")
	if err != nil {
		fatalf("export: %v", err)
	}
	fmt.Println(string(out))
}

func loadSchema(path, name string) *gokata.Schema {
	if path == "" {
		fatalf("missing -schema")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		fatalf("reading schema: %v", err)
	}
	if name != "" {
		s, err := schemayaml.LoadNamed(data, name)
		if err != nil {
			fatalf("%v", err)
		}
		return s
	}
	s, err := schemayaml.Load(data)
	if err != nil {
		fatalf("%v", err)
	}
	return s
}

func readInput(args []string) []byte {
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			fatalf("reading input: %v", err)
		}
		return data
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		fatalf("reading stdin: %v", err)
	}
	return data
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
