package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/tanema/decl/src/check"
	"github.com/tanema/decl/src/parse"
)

// evalOnce evaluates a single `value :: typeexpr` line, printing ok on a
// match and surfacing the mismatch otherwise.
func evalOnce(reg *check.Registry, line string) error {
	ok, err := evalLine(reg, line)
	if err != nil {
		return err
	} else if !ok {
		return errors.New("no match")
	}
	fmt.Fprintln(os.Stdout, "ok")
	return nil
}

// runREPL starts an interactive loop where each line is a literal value and
// a type expression separated by `::`. The value side is JSON so lists,
// mappings, strings, numbers, booleans, and null are all expressible.
func runREPL(reg *check.Registry, rpt *reporter) {
	printVersion()
	fmt.Fprint(os.Stderr, "Enter <value> :: <typeexpr> to test a match, ctrl-c to quit.\n")
	rl, err := readline.New("> ")
	checkErr(err)
	for {
		src, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				break
			}
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		if ok, err := evalLine(reg, src); err != nil {
			rpt.printf("%v", err)
		} else if ok {
			fmt.Fprintln(os.Stderr, "true")
		} else {
			fmt.Fprintln(os.Stderr, "false")
		}
	}
}

func evalLine(reg *check.Registry, line string) (bool, error) {
	valSrc, exprSrc, found := strings.Cut(line, "::")
	if !found {
		return false, errors.New("expected <value> :: <typeexpr>")
	}
	expr, err := parse.TypeExpr(strings.TrimSpace(exprSrc))
	if err != nil {
		return false, err
	}
	val, err := decodeValue(strings.TrimSpace(valSrc))
	if err != nil {
		return false, err
	}
	return reg.Satisfies(check.Classify(val), expr)
}

// decodeValue parses the JSON literal on the value side of a repl line.
// Integral numbers decode to int64 so that int and float declarations stay
// distinguishable.
func decodeValue(src string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(src))
	dec.UseNumber()
	var val any
	if err := dec.Decode(&val); err != nil {
		return nil, fmt.Errorf("bad value literal: %w", err)
	}
	return convertNumbers(val), nil
}

func convertNumbers(val any) any {
	switch tval := val.(type) {
	case json.Number:
		if ival, err := tval.Int64(); err == nil {
			return ival
		}
		fval, _ := tval.Float64()
		return fval
	case []any:
		for i, elem := range tval {
			tval[i] = convertNumbers(elem)
		}
		return tval
	case map[string]any:
		for key, elem := range tval {
			tval[key] = convertNumbers(elem)
		}
		return tval
	default:
		return val
	}
}
