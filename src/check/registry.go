package check

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tanema/decl/src/parse"
	"github.com/tanema/decl/src/types"
)

// Registry holds the names the matcher can resolve: capability protocols
// mapped to their required member sets, and the set of known concrete class
// names. It is populated at load time and read only afterwards, so checked
// calls on multiple goroutines can share one registry without locking.
type Registry struct {
	caps    map[string]map[string]bool
	classes map[string]bool
}

// NewRegistry creates a registry that knows the builtin type names and
// nothing else.
func NewRegistry() *Registry {
	reg := &Registry{
		caps:    map[string]map[string]bool{},
		classes: map[string]bool{},
	}
	for name := range types.Builtins {
		reg.classes[name] = true
	}
	return reg
}

// AddIndex registers every class and interface declared in the index. An
// interface's parents are flattened into its required member set; a parent
// that was never declared is an error so a half resolvable protocol cannot
// silently degrade to a weaker check.
func (reg *Registry) AddIndex(idx *parse.Index) error {
	for name := range idx.Interfaces() {
		members := map[string]bool{}
		if err := reg.flattenInterface(idx, name, members, map[string]bool{}); err != nil {
			return err
		}
		reg.caps[name] = members
	}
	for name := range idx.Classes() {
		reg.classes[name] = true
	}
	return nil
}

func (reg *Registry) flattenInterface(idx *parse.Index, name string, into, visiting map[string]bool) error {
	if visiting[name] {
		return fmt.Errorf("interface %q inherits from itself", name)
	}
	visiting[name] = true
	decl := idx.Interface(name)
	if decl == nil {
		return fmt.Errorf("interface %q references undeclared parent", name)
	}
	for _, member := range decl.Members {
		into[strings.ToLower(member)] = true
	}
	for _, parent := range decl.Parents {
		if err := reg.flattenInterface(idx, parent, into, visiting); err != nil {
			return err
		}
	}
	delete(visiting, name)
	return nil
}

// AddCapability registers a protocol name with its required member names.
func (reg *Registry) AddCapability(name string, members []string) {
	set := map[string]bool{}
	for _, member := range members {
		set[strings.ToLower(member)] = true
	}
	reg.caps[name] = set
}

// RegisterClass marks names as known concrete classes so that an unmatched
// reference to them is a plain mismatch instead of a lookup failure.
func (reg *Registry) RegisterClass(names ...string) {
	for _, name := range names {
		reg.classes[name] = true
	}
}

// LoadCapabilities reads a YAML file mapping capability names to member name
// lists and registers each entry.
func (reg *Registry) LoadCapabilities(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	caps := map[string][]string{}
	if err := yaml.Unmarshal(data, &caps); err != nil {
		return err
	}
	for name, members := range caps {
		reg.AddCapability(name, members)
	}
	return nil
}

// Capability returns the required member set for a registered protocol.
func (reg *Registry) Capability(name string) (map[string]bool, bool) {
	members, ok := reg.caps[name]
	return members, ok
}

// KnownClass reports whether name is a builtin or registered class name.
func (reg *Registry) KnownClass(name string) bool { return reg.classes[name] }
