// Package check contains the runtime half of the declaration system: the
// value classifier, the capability registry, the matcher, the overload
// resolver, and the checker facade that wraps live functions so every call
// runs precheck, invoke, postcheck in order.
package check

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"unicode"

	"github.com/tanema/decl/src/parse"
)

type (
	// Func is the dynamic call shape of a wrapped function. Violations and
	// resolution failures surface as the returned error; the wrapped
	// function's own error passes through untouched.
	Func func(args ...any) (any, error)
	// Module is a set of named functions and object instances eligible for
	// checking.
	Module map[string]any
	// Checker drives checked calls against one loaded declaration index.
	// The index and registry are never mutated after construction so one
	// checker may serve concurrent calls without locking.
	Checker struct {
		idx *parse.Index
		reg *Registry
	}
	// Object wraps an instance of a declared class so that its method calls
	// run through the checker.
	Object struct {
		val any
		cls *parse.ClassDecl
		chk *Checker
	}
	// call is the per call state machine. Each checked call walks precheck,
	// invoke, postcheck in order on the calling goroutine; all of its state
	// is call local.
	call struct {
		chk  *Checker
		name string
		fn   reflect.Value
		decl *parse.FunctionDecl
		args []any
		sig  *parse.Signature
	}
)

// NewChecker builds a checker for one parsed index. When reg is nil a fresh
// registry is populated from the index; a declaration that cannot be
// registered fails construction rather than degrading to a no-op check.
func NewChecker(idx *parse.Index, reg *Registry) (*Checker, error) {
	if reg == nil {
		reg = NewRegistry()
	}
	if err := reg.AddIndex(idx); err != nil {
		return nil, err
	}
	return &Checker{idx: idx, reg: reg}, nil
}

// Registry exposes the capability registry backing this checker.
func (chk *Checker) Registry() *Registry { return chk.reg }

// Index exposes the declaration index backing this checker.
func (chk *Checker) Index() *parse.Index { return chk.idx }

// Wrap returns a checked version of fn using the overload set declared for
// name. The wrapped function never mutates arguments or results; it only
// validates them.
func (chk *Checker) Wrap(name string, fn any) (Func, error) {
	decl := chk.idx.Func(name)
	if decl == nil {
		return nil, fmt.Errorf("no declaration for function %q in %s", name, chk.idx.Filename)
	}
	return chk.wrapDecl(name, fn, decl)
}

func (chk *Checker) wrapDecl(name string, fn any, decl *parse.FunctionDecl) (Func, error) {
	rv := reflect.ValueOf(fn)
	if !rv.IsValid() || rv.Kind() != reflect.Func {
		return nil, fmt.Errorf("%q is declared as a function but is not callable", name)
	}
	return func(args ...any) (any, error) {
		return (&call{chk: chk, name: name, fn: rv, decl: decl, args: args}).run()
	}, nil
}

// WrapObject wraps an instance whose concrete type is declared as a class.
func (chk *Checker) WrapObject(obj any) (*Object, error) {
	name := typeName(obj)
	cls := chk.idx.Class(name)
	if cls == nil {
		return nil, fmt.Errorf("no class declaration for %q in %s", name, chk.idx.Filename)
	}
	return &Object{val: obj, cls: cls, chk: chk}, nil
}

// CheckModule wraps every function and object in the module that appears in
// the index. Functions are matched by entry name, objects by their concrete
// type name. Entries with no declaration are left untouched and reported in
// the returned list; declarations are per function opt-in, not all or
// nothing. An entry that has a declaration but cannot be wrapped fails the
// whole module so nothing is silently reported as checked when it is not.
func (chk *Checker) CheckModule(mod Module) (Module, []string, error) {
	out := make(Module, len(mod))
	unchecked := []string{}
	for name, val := range mod {
		if decl := chk.idx.Func(name); decl != nil {
			wrapped, err := chk.wrapDecl(name, val, decl)
			if err != nil {
				return nil, nil, err
			}
			out[name] = wrapped
			continue
		}
		if cls := chk.idx.Class(typeName(val)); cls != nil {
			out[name] = &Object{val: val, cls: cls, chk: chk}
			continue
		}
		out[name] = val
		unchecked = append(unchecked, name)
	}
	sort.Strings(unchecked)
	return out, unchecked, nil
}

// Value returns the wrapped instance.
func (obj *Object) Value() any { return obj.val }

// Call invokes a method on the wrapped instance. Declared methods run
// through the checker; a live method with no declaration is called straight
// through, unchecked.
func (obj *Object) Call(method string, args ...any) (any, error) {
	fn := methodValue(obj.val, method)
	if !fn.IsValid() {
		return nil, fmt.Errorf("%s has no method %q", obj.cls.Name, method)
	}
	decl := obj.cls.Method(method)
	if decl == nil {
		return (&call{name: obj.cls.Name + "." + method, fn: fn, args: args}).invoke()
	}
	qualified := obj.cls.Name + "." + method
	return (&call{chk: obj.chk, name: qualified, fn: fn, decl: decl, args: args}).run()
}

// run drives the call through its phases. A resolution failure stops the
// call before the wrapped function is invoked; a postcheck failure can only
// report, since the call's effects already happened.
func (c *call) run() (any, error) {
	if err := c.precheck(); err != nil {
		return nil, err
	}
	result, err := c.invoke()
	if err != nil {
		return result, err
	}
	return result, c.postcheck(result)
}

// precheck classifies each argument and resolves the overload set against
// the observations. The return type plays no part here; it is unknown until
// the function runs.
func (c *call) precheck() error {
	obs := make([]*Observed, len(c.args))
	for i, arg := range c.args {
		obs[i] = Classify(arg)
	}
	sig, err := c.chk.reg.Resolve(c.decl, obs)
	if err != nil {
		var resErr *ResolutionError
		if errors.As(err, &resErr) {
			resErr.Func = c.name
		}
		return err
	}
	c.sig = sig
	return nil
}

// invoke calls the wrapped function with the untouched original arguments.
// When the function's last result is an error it is passed through unchanged
// and never postchecked.
func (c *call) invoke() (any, error) {
	ft := c.fn.Type()
	if !ft.IsVariadic() && len(c.args) != ft.NumIn() {
		return nil, fmt.Errorf("%s takes %d arguments but was called with %d", c.name, ft.NumIn(), len(c.args))
	}
	in := make([]reflect.Value, len(c.args))
	for i, arg := range c.args {
		at := argType(ft, i)
		if arg == nil {
			in[i] = reflect.Zero(at)
			continue
		}
		rv := reflect.ValueOf(arg)
		if !rv.Type().AssignableTo(at) {
			return nil, fmt.Errorf("%s parameter %d takes %s but was called with %s", c.name, i, at, rv.Type())
		}
		in[i] = rv
	}
	out := c.fn.Call(in)
	var ferr error
	if len(out) > 0 && ft.Out(ft.NumOut()-1) == errType {
		errOut := out[len(out)-1]
		out = out[:len(out)-1]
		if !errOut.IsNil() {
			ferr = errOut.Interface().(error)
		}
	}
	switch len(out) {
	case 0:
		return nil, ferr
	case 1:
		return out[0].Interface(), ferr
	default:
		results := make([]any, len(out))
		for i, res := range out {
			results[i] = res.Interface()
		}
		return results, ferr
	}
}

// postcheck classifies the return value against the resolved signature.
func (c *call) postcheck(result any) error {
	obs := Classify(result)
	if ok, err := c.chk.reg.Satisfies(obs, c.sig.Return); err != nil {
		return err
	} else if !ok {
		return &Violation{
			Func:     c.name,
			Phase:    PhaseReturn,
			Expected: c.sig.Return,
			Observed: obs.String(),
		}
	}
	return nil
}

var errType = reflect.TypeOf((*error)(nil)).Elem()

func argType(ft reflect.Type, i int) reflect.Type {
	if ft.IsVariadic() && i >= ft.NumIn()-1 {
		return ft.In(ft.NumIn() - 1).Elem()
	}
	return ft.In(i)
}

func typeName(val any) string {
	rt := reflect.TypeOf(val)
	for rt != nil && rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt == nil {
		return ""
	}
	return rt.Name()
}

// methodValue resolves a declared method name on a live value, trying the
// name as written and then with the first rune upcased so declaration files
// written lowercase still bind to exported Go methods.
func methodValue(val any, name string) reflect.Value {
	rv := reflect.ValueOf(val)
	if fn := rv.MethodByName(name); fn.IsValid() {
		return fn
	}
	exported := strings.ToUpper(name[:1]) + name[1:]
	if unicode.IsUpper(rune(name[0])) || exported == name {
		return reflect.Value{}
	}
	return rv.MethodByName(exported)
}
