// Command xmltree parses an XML document and prints the resulting
// tree, or evaluates an XPath expression against it.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/antchfx/xmlquery"

	"github.com/andaru/xmltree/parser"
	"github.com/andaru/xmltree/query"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("xmltree", flag.ContinueOnError)
	fs.SetOutput(stderr)
	xpathExpr := fs.String("xpath", "", "evaluate an XPath expression instead of dumping the tree")
	keepWS := fs.Bool("keep-whitespace", false, "retain whitespace-only character data runs")
	noNames := fs.Bool("no-validate-names", false, "skip XML Name grammar checks")
	noDups := fs.Bool("no-dup-check", false, "allow duplicate attribute names")
	lenient := fs.Bool("lenient-escapes", false, "pass unresolved entity references through verbatim")
	trace := fs.Bool("trace", false, "print a parse trace to stderr")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: xmltree [options] <document.xml>\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	path := fs.Arg(0)

	buf, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	var opts []parser.Option
	if *keepWS {
		opts = append(opts, parser.KeepInsignificantWhitespace())
	}
	if *noNames {
		opts = append(opts, parser.WithoutNameValidation())
	}
	if *noDups {
		opts = append(opts, parser.WithoutDuplicateAttributeCheck())
	}
	if *lenient {
		opts = append(opts, parser.IgnoreBadEscapes())
	}
	if *trace {
		opts = append(opts, parser.WithTrace(func(event, detail string, offset int) {
			fmt.Fprintf(stderr, "%8d  %-14s %s\n", offset, event, detail)
		}))
	}

	doc, err := parser.Parse(buf, opts...)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", path, err)
		return 1
	}

	if *xpathExpr == "" {
		fmt.Fprint(stdout, doc.Dump())
		return 0
	}
	nodes, err := query.Find(doc, *xpathExpr)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	for _, n := range nodes {
		switch n.Type {
		case xmlquery.TextNode:
			fmt.Fprintln(stdout, n.Data)
		default:
			fmt.Fprintln(stdout, n.OutputXML(true))
		}
	}
	return 0
}
