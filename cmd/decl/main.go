// Package main is the main entrypoint to the decl application.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tanema/decl/src/check"
	"github.com/tanema/decl/src/conf"
	"github.com/tanema/decl/src/parse"
)

var (
	listDecls   bool
	parseOnly   bool
	showVersion bool
	evalMatch   string
	capsPath    string
	timeFormat  string
)

func init() {
	flag.BoolVar(&listDecls, "l", false, "list parsed declarations in canonical form")
	flag.BoolVar(&parseOnly, "p", false, "parse and validate only")
	flag.BoolVar(&showVersion, "v", false, "show version information")
	flag.StringVar(&evalMatch, "e", "", "evaluate a single 'value :: typeexpr' match and exit")
	flag.StringVar(&capsPath, "c", "", "load capability registry config from a yaml file")
	flag.StringVar(&timeFormat, "t", "%Y-%m-%d %H:%M:%S", "strftime format for report timestamps")
}

func main() {
	flag.Usage = printUsage
	flag.Parse()

	if showVersion {
		printVersion()
	}

	rpt, err := newReporter(timeFormat)
	checkErr(err)

	reg := check.NewRegistry()
	if capsPath != "" {
		checkErr(reg.LoadCapabilities(capsPath))
	}

	indexes := []*parse.Index{}
	for _, path := range flag.Args() {
		idx, err := parse.File(path)
		if err != nil {
			rpt.printf("%v", err)
			os.Exit(1)
		}
		checkErr(reg.AddIndex(idx))
		indexes = append(indexes, idx)
		if listDecls {
			fmt.Fprintln(os.Stdout, idx.String())
		}
	}

	if parseOnly || listDecls {
		return
	} else if evalMatch != "" {
		checkErr(evalOnce(reg, evalMatch))
	} else if !showVersion {
		runREPL(reg, rpt)
	}
}

func printVersion() {
	fmt.Fprintf(os.Stderr, "%v\n", conf.FullVersion())
}

func printUsage() {
	printVersion()
	fmt.Fprint(os.Stderr, "\nUsage: decl [options] [declfile ...]\n")
	flag.PrintDefaults()
}

func checkErr(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
