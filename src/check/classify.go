package check

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/tanema/decl/src/conf"
	"github.com/tanema/decl/src/types"
)

// Observed is the runtime derived description of a single value that the
// matcher consumes. It is recomputed per call per value and never cached,
// since a value's shape may change between calls. Classes is the concrete
// class name followed by its ancestors, Caps is the set of member names
// reachable on the value, and Elems holds bounded element samples per
// generic position for recognized container shapes.
type Observed struct {
	Classes []string
	Caps    map[string]bool
	Elems   [][]*Observed
	Null    bool
}

// Classify inspects a live value and produces its Observed description. This
// is the only place the checker touches the host runtime's introspection;
// matching operates purely on the result.
func Classify(val any) *Observed {
	if val == nil {
		return &Observed{Null: true}
	}
	rv := reflect.ValueOf(val)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return &Observed{Null: true}
		}
		rv = rv.Elem()
	}
	obs := &Observed{
		Classes: classChain(rv.Type()),
		Caps:    memberSet(rv.Type()),
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		obs.Elems = [][]*Observed{sampleSeq(rv)}
	case reflect.Map:
		keys, vals := sampleMap(rv)
		obs.Elems = [][]*Observed{keys, vals}
	}
	return obs
}

// HasClass reports whether name appears anywhere in the identity chain.
func (obs *Observed) HasClass(name string) bool {
	for _, cls := range obs.Classes {
		if cls == name {
			return true
		}
	}
	return false
}

// HasMember reports whether a member name is reachable on the value. The
// comparison is case insensitive so declaration files written with lowercase
// protocol members still match exported Go names.
func (obs *Observed) HasMember(name string) bool {
	return obs.Caps[strings.ToLower(name)]
}

// String renders a short summary of the observation for diagnostics.
func (obs *Observed) String() string {
	if obs.Null {
		return types.NameNone
	}
	if len(obs.Classes) == 0 {
		return types.NameObject
	}
	name := obs.Classes[0]
	if len(obs.Elems) == 0 {
		return name
	}
	args := make([]string, 0, len(obs.Elems))
	for _, samples := range obs.Elems {
		seen := []string{}
		for _, elem := range samples {
			if summary := elem.String(); !contains(seen, summary) {
				seen = append(seen, summary)
			}
		}
		if len(seen) == 0 {
			return name
		}
		args = append(args, strings.Join(seen, " | "))
	}
	return fmt.Sprintf("%s<%s>", name, strings.Join(args, ", "))
}

// classChain builds the identity chain for a type: its own name first, then
// embedded ancestors, then the builtin name for its underlying kind.
func classChain(rt reflect.Type) []string {
	chain := []string{}
	if name := rt.Name(); name != "" {
		chain = append(chain, name)
	}
	if rt.Kind() == reflect.Struct {
		chain = append(chain, embeddedChain(rt)...)
	}
	if builtin := kindName(rt.Kind()); builtin != "" && !contains(chain, builtin) {
		chain = append(chain, builtin)
	}
	if rt.Kind() == reflect.Struct {
		chain = append(chain, types.NameObject)
	}
	return chain
}

// embeddedChain walks anonymous struct fields, the closest Go has to an
// ancestor chain, depth first.
func embeddedChain(rt reflect.Type) []string {
	chain := []string{}
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.Anonymous {
			continue
		}
		ft := field.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if name := ft.Name(); name != "" && !contains(chain, name) {
			chain = append(chain, name)
		}
		if ft.Kind() == reflect.Struct {
			for _, name := range embeddedChain(ft) {
				if !contains(chain, name) {
					chain = append(chain, name)
				}
			}
		}
	}
	return chain
}

func kindName(kind reflect.Kind) string {
	switch kind {
	case reflect.Bool:
		return types.NameBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return types.NameInt
	case reflect.Float32, reflect.Float64:
		return types.NameFloat
	case reflect.String:
		return types.NameStr
	case reflect.Slice, reflect.Array:
		return types.NameList
	case reflect.Map:
		return types.NameDict
	case reflect.Chan:
		return types.NameGenerator
	case reflect.Func:
		return types.NameFunction
	default:
		return ""
	}
}

// memberSet collects reachable member names: methods from both the value and
// pointer method sets plus exported field names, all lowercased.
func memberSet(rt reflect.Type) map[string]bool {
	caps := map[string]bool{}
	mt := rt
	if mt.Kind() != reflect.Pointer {
		mt = reflect.PointerTo(rt)
	}
	for i := 0; i < mt.NumMethod(); i++ {
		caps[strings.ToLower(mt.Method(i).Name)] = true
	}
	if rt.Kind() == reflect.Struct {
		for i := 0; i < rt.NumField(); i++ {
			if field := rt.Field(i); field.IsExported() {
				caps[strings.ToLower(field.Name)] = true
			}
		}
	}
	return caps
}

func sampleSeq(rv reflect.Value) []*Observed {
	limit := min(rv.Len(), conf.SEQSAMPLELIMIT)
	samples := make([]*Observed, limit)
	for i := 0; i < limit; i++ {
		samples[i] = Classify(rv.Index(i).Interface())
	}
	return samples
}

func sampleMap(rv reflect.Value) (keys, vals []*Observed) {
	iter := rv.MapRange()
	for iter.Next() && len(keys) < conf.MAPSAMPLELIMIT {
		keys = append(keys, Classify(iter.Key().Interface()))
		vals = append(vals, Classify(iter.Value().Interface()))
	}
	return keys, vals
}

func contains(haystack []string, needle string) bool {
	for _, straw := range haystack {
		if straw == needle {
			return true
		}
	}
	return false
}
