package parse

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tanema/decl/src/terrors"
	"github.com/tanema/decl/src/types"
)

// Parser is the object that will parse a single declaration file and return
// an Index ready for the runtime checker.
type Parser struct {
	lex           *lexer
	filename      string
	idx           *Index
	lastTokenInfo LineInfo
}

// New creates a new parser that can parse one file at a time.
func New() *Parser {
	return &Parser{}
}

// File is a helper function around Parse to open and close a file automatically.
func File(path string) (*Index, error) {
	src, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = src.Close() }()
	return Parse(path, src)
}

// Parse will parse declaration source text into an Index.
func Parse(filename string, src io.Reader) (*Index, error) {
	return New().Parse(filename, src)
}

// TypeExpr parses a standalone type expression, like list<int | str>?. This
// is primarily for the repl and one-shot evaluation.
func TypeExpr(src string) (types.Expr, error) {
	p := New()
	p.filename = "<expr>"
	p.lex = newLexer(p.filename, strings.NewReader(src))
	expr, err := p.typeExpr()
	if err != nil {
		return nil, err
	}
	if tk, err := p.peek(); err != nil {
		return nil, p.parseErr(tk, err)
	} else if tk.Kind != tokenEOS {
		return nil, p.parseErr(tk, fmt.Errorf("unexpected trailing token"))
	}
	return expr, nil
}

// Parse will reset the parser and parse the source into a new Index. Repeated
// declarations of one function name accumulate as an overload set in file
// order; duplicate class or interface names are an error.
func (p *Parser) Parse(filename string, src io.Reader) (*Index, error) {
	p.filename = filename
	p.lex = newLexer(filename, src)
	p.idx = &Index{
		Filename:   filename,
		funcs:      map[string]*FunctionDecl{},
		classes:    map[string]*ClassDecl{},
		interfaces: map[string]*InterfaceDecl{},
	}
	for {
		tk, err := p.lex.Next()
		if errors.Is(err, io.EOF) {
			return p.idx, nil
		} else if err != nil {
			return nil, err
		}
		switch tk.Kind {
		case tokenComment:
		case tokenEOS:
			return p.idx, nil
		case tokenClass:
			if err := p.classDef(); err != nil {
				return nil, err
			}
		case tokenInterface:
			if err := p.interfaceDef(); err != nil {
				return nil, err
			}
		case tokenIdentifier:
			sig, err := p.signature()
			if err != nil {
				return nil, err
			}
			p.addSignature(p.idx.funcs, tk.StringVal, sig, func(fn *FunctionDecl) {
				p.idx.order = append(p.idx.order, fn)
			})
		default:
			return nil, p.parseErr(tk, fmt.Errorf("unexpected token at top level"))
		}
	}
}

func (p *Parser) parseErr(tk *token, err error) error {
	if err == nil {
		return nil
	}
	var declErr *terrors.Error
	if errors.As(err, &declErr) {
		return err
	} else if errors.Is(err, io.EOF) {
		err = errors.New("unexpected end of file")
	}
	newErr := &terrors.Error{
		Kind:     terrors.ParserErr,
		Filename: p.filename,
		Err:      err,
	}
	if tk != nil {
		newErr.Line = tk.Line
		newErr.Column = tk.Column
		newErr.Token = tk.String()
	} else {
		newErr.Line = p.lastTokenInfo.Line
		newErr.Column = p.lastTokenInfo.Column
	}
	return newErr
}

func (p *Parser) consumeToken(tt tokenType) (*token, error) {
	tk, err := p.lex.Next()
	if err != nil {
		return nil, p.parseErr(tk, err)
	} else if tt != tk.Kind {
		return nil, p.parseErr(tk, fmt.Errorf("expected %q but consumed %q", tt, tk.Kind))
	}
	p.lastTokenInfo = tk.LineInfo
	return tk, nil
}

func (p *Parser) next(tt tokenType) error {
	_, err := p.consumeToken(tt)
	return err
}

func (p *Parser) peek() (*token, error) {
	return p.lex.Peek()
}

// addSignature appends sig to the overload set for name in decls, creating
// the set on first sight. onNew fires only when the set is created so the
// caller can track declaration order.
func (p *Parser) addSignature(decls map[string]*FunctionDecl, name string, sig *Signature, onNew func(*FunctionDecl)) {
	fn, ok := decls[name]
	if !ok {
		fn = &FunctionDecl{Name: name}
		decls[name] = fn
		if onNew != nil {
			onNew(fn)
		}
	}
	fn.Signatures = append(fn.Signatures, sig)
}

// classDef parses `class Name { methoddecl* }` after the class keyword has
// been consumed.
func (p *Parser) classDef() error {
	nameTk, err := p.consumeToken(tokenIdentifier)
	if err != nil {
		return err
	} else if _, exists := p.idx.classes[nameTk.StringVal]; exists {
		return p.parseErr(nameTk, fmt.Errorf("duplicate class declaration %q", nameTk.StringVal))
	}
	cls := &ClassDecl{Name: nameTk.StringVal}
	methods := map[string]*FunctionDecl{}
	if err := p.next(tokenOpenCurly); err != nil {
		return err
	}
	for {
		tk, err := p.lex.Next()
		if err != nil {
			return p.parseErr(tk, err)
		}
		switch tk.Kind {
		case tokenComment:
		case tokenCloseCurly:
			p.idx.classes[cls.Name] = cls
			p.idx.order = append(p.idx.order, cls)
			return nil
		case tokenIdentifier:
			sig, err := p.signature()
			if err != nil {
				return err
			}
			p.addSignature(methods, tk.StringVal, sig, func(fn *FunctionDecl) {
				cls.Methods = append(cls.Methods, fn)
			})
		default:
			return p.parseErr(tk, fmt.Errorf("unexpected token in class body"))
		}
	}
}

// interfaceDef parses `interface Name [(Parent, ...)] { member, ... }` after
// the interface keyword has been consumed.
func (p *Parser) interfaceDef() error {
	nameTk, err := p.consumeToken(tokenIdentifier)
	if err != nil {
		return err
	} else if _, exists := p.idx.interfaces[nameTk.StringVal]; exists {
		return p.parseErr(nameTk, fmt.Errorf("duplicate interface declaration %q", nameTk.StringVal))
	}
	ifc := &InterfaceDecl{Name: nameTk.StringVal}
	if tk, err := p.peek(); err != nil {
		return p.parseErr(tk, err)
	} else if tk.Kind == tokenOpenParen {
		if ifc.Parents, err = p.nameList(tokenOpenParen, tokenCloseParen); err != nil {
			return err
		}
	}
	if ifc.Members, err = p.nameList(tokenOpenCurly, tokenCloseCurly); err != nil {
		return err
	}
	p.idx.interfaces[ifc.Name] = ifc
	p.idx.order = append(p.idx.order, ifc)
	return nil
}

// nameList parses a comma separated identifier list between open and end.
func (p *Parser) nameList(open, end tokenType) ([]string, error) {
	if err := p.next(open); err != nil {
		return nil, err
	}
	names := []string{}
	for {
		tk, err := p.consumeToken(tokenIdentifier)
		if err != nil {
			return nil, err
		}
		names = append(names, tk.StringVal)
		if tk, err := p.lex.Next(); err != nil {
			return nil, p.parseErr(tk, err)
		} else if tk.Kind == end {
			return names, nil
		} else if tk.Kind != tokenComma {
			return nil, p.parseErr(tk, fmt.Errorf("expected %q or %q", tokenComma, end))
		}
	}
}

// signature parses `(param, ...) [raises Name, ...] [-> typeexpr]` after the
// function name has been consumed. An omitted return type means any.
func (p *Parser) signature() (*Signature, error) {
	if err := p.next(tokenOpenParen); err != nil {
		return nil, err
	}
	sig := &Signature{Return: types.Any}
	if tk, err := p.peek(); err != nil {
		return nil, p.parseErr(tk, err)
	} else if tk.Kind == tokenCloseParen {
		if err := p.next(tokenCloseParen); err != nil {
			return nil, err
		}
	} else {
		for {
			param, err := p.param()
			if err != nil {
				return nil, err
			}
			sig.Params = append(sig.Params, param)
			if tk, err := p.lex.Next(); err != nil {
				return nil, p.parseErr(tk, err)
			} else if tk.Kind == tokenCloseParen {
				break
			} else if tk.Kind != tokenComma {
				return nil, p.parseErr(tk, fmt.Errorf("expected %q or %q in parameter list", tokenComma, tokenCloseParen))
			}
		}
	}

	if tk, err := p.peek(); err != nil {
		return nil, p.parseErr(tk, err)
	} else if tk.Kind == tokenRaises {
		if err := p.next(tokenRaises); err != nil {
			return nil, err
		}
		for {
			name, err := p.consumeToken(tokenIdentifier)
			if err != nil {
				return nil, err
			}
			sig.Raises = append(sig.Raises, &types.Named{Name: name.StringVal})
			if tk, err := p.peek(); err != nil {
				return nil, p.parseErr(tk, err)
			} else if tk.Kind != tokenComma {
				break
			} else if err := p.next(tokenComma); err != nil {
				return nil, err
			}
		}
	}

	if tk, err := p.peek(); err != nil {
		return nil, p.parseErr(tk, err)
	} else if tk.Kind == tokenArrow {
		if err := p.next(tokenArrow); err != nil {
			return nil, err
		}
		ret, err := p.typeExpr()
		if err != nil {
			return nil, err
		}
		sig.Return = ret
	}
	return sig, p.validateParams(sig)
}

// optional parameters must be trailing so that arity bounds are well defined.
func (p *Parser) validateParams(sig *Signature) error {
	seenOptional := false
	for _, param := range sig.Params {
		if param.Optional {
			seenOptional = true
		} else if seenOptional {
			return p.parseErr(nil, fmt.Errorf("required parameter %q follows an optional parameter", param.Name))
		}
	}
	return nil
}

// param parses `name[?]: typeexpr`. The marker on the name makes the
// parameter optional; a marker on the type makes the type nullable.
func (p *Parser) param() (*Parameter, error) {
	nameTk, err := p.consumeToken(tokenIdentifier)
	if err != nil {
		return nil, err
	}
	param := &Parameter{Name: nameTk.StringVal}
	if tk, err := p.peek(); err != nil {
		return nil, p.parseErr(tk, err)
	} else if tk.Kind == tokenQuestion {
		if err := p.next(tokenQuestion); err != nil {
			return nil, err
		}
		param.Optional = true
	}
	if err := p.next(tokenColon); err != nil {
		return nil, err
	}
	param.Type, err = p.typeExpr()
	return param, err
}

// typeExpr parses a full type expression. Intersection binds tighter than
// union so A & B | C reads as (A & B) | C.
func (p *Parser) typeExpr() (types.Expr, error) {
	first, err := p.intersection()
	if err != nil {
		return nil, err
	}
	members := []types.Expr{first}
	for {
		if tk, err := p.peek(); err != nil {
			return nil, p.parseErr(tk, err)
		} else if tk.Kind != tokenUnion {
			break
		} else if err := p.next(tokenUnion); err != nil {
			return nil, err
		}
		member, err := p.intersection()
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	if len(members) == 1 {
		return members[0], nil
	}
	return &types.Union{Members: members}, nil
}

func (p *Parser) intersection() (types.Expr, error) {
	first, err := p.atom()
	if err != nil {
		return nil, err
	}
	members := []types.Expr{first}
	for {
		if tk, err := p.peek(); err != nil {
			return nil, p.parseErr(tk, err)
		} else if tk.Kind != tokenIntersect {
			break
		} else if err := p.next(tokenIntersect); err != nil {
			return nil, err
		}
		member, err := p.atom()
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	if len(members) == 1 {
		return members[0], nil
	}
	return &types.Intersection{Members: members}, nil
}

// atom parses a named type with optional generic arguments and an optional
// trailing nullable marker. The marker applies to the whole atom, generic
// arguments included, so list<int>? is a nullable list of ints.
func (p *Parser) atom() (types.Expr, error) {
	nameTk, err := p.consumeToken(tokenIdentifier)
	if err != nil {
		return nil, err
	}
	var expr types.Expr
	if nameTk.StringVal == "any" {
		expr = types.Any
	} else {
		expr = &types.Named{Name: nameTk.StringVal}
	}
	if tk, err := p.peek(); err != nil {
		return nil, p.parseErr(tk, err)
	} else if tk.Kind == tokenOpenAngle {
		named, isNamed := expr.(*types.Named)
		if !isNamed {
			return nil, p.parseErr(tk, errors.New("any cannot take type arguments"))
		}
		args, err := p.typeArgs()
		if err != nil {
			return nil, err
		}
		expr = &types.Generic{Base: named, Args: args}
	}
	if tk, err := p.peek(); err != nil {
		return nil, p.parseErr(tk, err)
	} else if tk.Kind == tokenQuestion {
		if err := p.next(tokenQuestion); err != nil {
			return nil, err
		}
		expr = &types.Nullable{Inner: expr}
	}
	return expr, nil
}

func (p *Parser) typeArgs() ([]types.Expr, error) {
	if err := p.next(tokenOpenAngle); err != nil {
		return nil, err
	}
	args := []types.Expr{}
	for {
		arg, err := p.typeExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if tk, err := p.lex.Next(); err != nil {
			return nil, p.parseErr(tk, errors.New("unbalanced generic brackets"))
		} else if tk.Kind == tokenCloseAngle {
			return args, nil
		} else if tk.Kind != tokenComma {
			return nil, p.parseErr(tk, fmt.Errorf("expected %q or %q in type arguments", tokenComma, tokenCloseAngle))
		}
	}
}
