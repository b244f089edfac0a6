// Package terrors is a unified errors package for declaration parsing and
// runtime checking so that they can be formatted in a unified way and handled
// in a unified way.
package terrors

import (
	"fmt"
)

type (
	// ErrorKind is an enum to describe where the error originates from.
	ErrorKind int
	// Error captures all errors raised while loading declaration files. It
	// distinguishes between lexer and parser errors and will format them with
	// their source position so that a bad declaration file points at the
	// offending token.
	Error struct {
		Line     int64
		Column   int64
		Kind     ErrorKind
		Err      error
		Filename string
		Token    string
	}
)

const (
	// LexerErr is an error that originates from the lexer.
	LexerErr ErrorKind = iota
	// ParserErr is an error that originates from the parser.
	ParserErr
)

func (err *Error) Error() string {
	switch err.Kind {
	case ParserErr:
		if err.Token != "" {
			return fmt.Sprintf("Parse Error: %s:%v:%v at %q %v", err.Filename, err.Line, err.Column, err.Token, err.Err)
		}
		return fmt.Sprintf("Parse Error: %s:%v:%v %v", err.Filename, err.Line, err.Column, err.Err)
	case LexerErr:
		return fmt.Sprintf("Lex Error: %s:%v:%v %v", err.Filename, err.Line, err.Column, err.Err)
	default:
		return err.Err.Error()
	}
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (err *Error) Unwrap() error { return err.Err }
