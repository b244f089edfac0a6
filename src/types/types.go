// Package types contains the type expression algebra that declaration files
// are written in: nominal names, nullables, unions, intersections, and
// generics. It is pure data with structural equality and a canonical
// rendering; resolution and matching live in the check package.
package types

import (
	"fmt"
	"strings"
)

type (
	// Expr is a general interface for all declared type expressions.
	Expr interface {
		fmt.Stringer
	}
	// Named references a concrete class or a capability protocol by name.
	Named struct{ Name string }
	// Nullable admits the inner type's values plus a nil value.
	Nullable struct{ Inner Expr }
	// Union describes a type whose values match at least one member.
	Union struct{ Members []Expr }
	// Intersection describes a type whose values match every member.
	Intersection struct{ Members []Expr }
	// Generic is a named base with positional type arguments, like list<str>.
	Generic struct {
		Base *Named
		Args []Expr
	}
	anyType struct{}
)

const (
	// NameInt is the label for the builtin integer type.
	NameInt = "int"
	// NameFloat is the label for the builtin float type.
	NameFloat = "float"
	// NameStr is the label for the builtin string type.
	NameStr = "str"
	// NameBool is the label for the builtin bool type.
	NameBool = "bool"
	// NameList is the label for sequence shaped values.
	NameList = "list"
	// NameDict is the label for mapping shaped values.
	NameDict = "dict"
	// NameSet is the label for set shaped values.
	NameSet = "set"
	// NameTuple is the label for fixed sequence shaped values.
	NameTuple = "tuple"
	// NameGenerator is the label for generator shaped values.
	NameGenerator = "generator"
	// NameNone is the label for the null value's type.
	NameNone = "none"
	// NameFunction is the label for callable values.
	NameFunction = "function"
	// NameObject is the common ancestor of every class shaped value.
	NameObject = "object"
)

var (
	// Any matches every value. It is used when a return type is omitted.
	Any = &anyType{}
	// Builtins are the type names known without any declaration.
	Builtins = map[string]bool{
		NameInt:       true,
		NameFloat:     true,
		NameStr:       true,
		NameBool:      true,
		NameList:      true,
		NameDict:      true,
		NameSet:       true,
		NameTuple:     true,
		NameGenerator: true,
		NameNone:      true,
		NameFunction:  true,
		NameObject:    true,
	}
)

func (t *Named) String() string    { return t.Name }
func (t *Nullable) String() string { return t.Inner.String() + "?" }
func (t *Union) String() string    { return fmtExprs(t.Members, " | ") }

func (t *Intersection) String() string { return fmtExprs(t.Members, " & ") }

func (t *Generic) String() string {
	return fmt.Sprintf("%s<%s>", t.Base.Name, fmtExprs(t.Args, ", "))
}

func (t *anyType) String() string { return "any" }

// Equal compares two type expressions structurally. Nested unions and
// intersections are not flattened; shape is shape.
func Equal(a, b Expr) bool {
	if a == b {
		return true
	}

	switch ta := a.(type) {
	case *anyType:
		_, isAny := b.(*anyType)
		return isAny
	case *Named:
		other, isNamed := b.(*Named)
		return isNamed && ta.Name == other.Name
	case *Nullable:
		other, isNullable := b.(*Nullable)
		return isNullable && Equal(ta.Inner, other.Inner)
	case *Union:
		other, isUnion := b.(*Union)
		return isUnion && equalAll(ta.Members, other.Members)
	case *Intersection:
		other, isInter := b.(*Intersection)
		return isInter && equalAll(ta.Members, other.Members)
	case *Generic:
		other, isGeneric := b.(*Generic)
		return isGeneric && Equal(ta.Base, other.Base) && equalAll(ta.Args, other.Args)
	default:
		return false
	}
}

func equalAll(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i, expr := range a {
		if !Equal(expr, b[i]) {
			return false
		}
	}
	return true
}

func fmtExprs(exprs []Expr, sep string) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, sep)
}
