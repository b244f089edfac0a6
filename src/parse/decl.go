package parse

import (
	"fmt"
	"strings"

	"github.com/tanema/decl/src/types"
)

type (
	// Parameter is a single declared parameter. Optional parameters may be
	// omitted from a call but must be trailing in the signature.
	Parameter struct {
		Name     string
		Type     types.Expr
		Optional bool
	}
	// Signature is one declared alternative for calling a function.
	Signature struct {
		Params []*Parameter
		Return types.Expr
		Raises []*types.Named
	}
	// FunctionDecl is a named overload set. The order of signatures is the
	// order they were declared in and is semantically significant: the first
	// matching signature wins at call time.
	FunctionDecl struct {
		Name       string
		Signatures []*Signature
	}
	// ClassDecl is a named collection of method declarations.
	ClassDecl struct {
		Name    string
		Methods []*FunctionDecl
	}
	// InterfaceDecl declares a capability protocol: a name with the member
	// names a value must expose to satisfy it. Parents are flattened into
	// the required set when the capability registry is built.
	InterfaceDecl struct {
		Name    string
		Parents []string
		Members []string
	}
	// Index is the lookup table built from one declaration file. It is built
	// once per file and never mutated afterwards so concurrent checked calls
	// can share it without locking.
	Index struct {
		Filename   string
		funcs      map[string]*FunctionDecl
		classes    map[string]*ClassDecl
		interfaces map[string]*InterfaceDecl
		order      []fmt.Stringer
	}
)

// MinArity is the count of required parameters of the signature.
func (sig *Signature) MinArity() int {
	count := 0
	for _, param := range sig.Params {
		if !param.Optional {
			count++
		}
	}
	return count
}

// MaxArity is the total count of parameters of the signature.
func (sig *Signature) MaxArity() int { return len(sig.Params) }

func (param *Parameter) String() string {
	if param.Optional {
		return fmt.Sprintf("%s?: %s", param.Name, param.Type)
	}
	return fmt.Sprintf("%s: %s", param.Name, param.Type)
}

func (sig *Signature) String() string {
	params := make([]string, len(sig.Params))
	for i, param := range sig.Params {
		params[i] = param.String()
	}
	out := fmt.Sprintf("(%s)", strings.Join(params, ", "))
	if len(sig.Raises) > 0 {
		raises := make([]string, len(sig.Raises))
		for i, r := range sig.Raises {
			raises[i] = r.Name
		}
		out += " raises " + strings.Join(raises, ", ")
	}
	if !types.Equal(sig.Return, types.Any) {
		out += " -> " + sig.Return.String()
	}
	return out
}

func (fn *FunctionDecl) String() string {
	lines := make([]string, len(fn.Signatures))
	for i, sig := range fn.Signatures {
		lines[i] = fn.Name + sig.String()
	}
	return strings.Join(lines, "\n")
}

func (cls *ClassDecl) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "class %s {\n", cls.Name)
	for _, fn := range cls.Methods {
		for _, sig := range fn.Signatures {
			fmt.Fprintf(&sb, "\t%s%s\n", fn.Name, sig.String())
		}
	}
	sb.WriteString("}")
	return sb.String()
}

func (ifc *InterfaceDecl) String() string {
	if len(ifc.Parents) > 0 {
		return fmt.Sprintf("interface %s(%s) { %s }",
			ifc.Name, strings.Join(ifc.Parents, ", "), strings.Join(ifc.Members, ", "))
	}
	return fmt.Sprintf("interface %s { %s }", ifc.Name, strings.Join(ifc.Members, ", "))
}

// Method looks up a named method declaration on the class.
func (cls *ClassDecl) Method(name string) *FunctionDecl {
	for _, fn := range cls.Methods {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}

// Func looks up a top level function declaration by name.
func (idx *Index) Func(name string) *FunctionDecl { return idx.funcs[name] }

// Class looks up a class declaration by name.
func (idx *Index) Class(name string) *ClassDecl { return idx.classes[name] }

// Interface looks up a declared capability protocol by name.
func (idx *Index) Interface(name string) *InterfaceDecl { return idx.interfaces[name] }

// Interfaces returns every declared capability protocol keyed by name.
func (idx *Index) Interfaces() map[string]*InterfaceDecl { return idx.interfaces }

// Classes returns every declared class keyed by name.
func (idx *Index) Classes() map[string]*ClassDecl { return idx.classes }

// Funcs returns every top level function declaration keyed by name.
func (idx *Index) Funcs() map[string]*FunctionDecl { return idx.funcs }

// HasClass reports whether name was declared as a class in this file.
func (idx *Index) HasClass(name string) bool { return idx.classes[name] != nil }

// String renders every declaration in file order in the canonical form.
func (idx *Index) String() string {
	parts := make([]string, len(idx.order))
	for i, decl := range idx.order {
		parts[i] = decl.String()
	}
	return strings.Join(parts, "\n")
}
