package check

import (
	"sort"

	"github.com/tanema/decl/src/types"
)

// Satisfies decides whether an observed value description satisfies a
// declared type expression. It recurses over the expression only; it never
// performs fresh introspection, so matching cost is bounded by the size of
// the expression rather than the size of the value.
func (reg *Registry) Satisfies(obs *Observed, expr types.Expr) (bool, error) {
	switch te := expr.(type) {
	case *types.Named:
		return reg.satisfiesNamed(obs, te)
	case *types.Nullable:
		if obs.Null {
			return true, nil
		}
		return reg.Satisfies(obs, te.Inner)
	case *types.Union:
		for _, member := range te.Members {
			if ok, err := reg.Satisfies(obs, member); err != nil {
				return false, err
			} else if ok {
				return true, nil
			}
		}
		return false, nil
	case *types.Intersection:
		for _, member := range te.Members {
			if ok, err := reg.Satisfies(obs, member); err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	case *types.Generic:
		return reg.satisfiesGeneric(obs, te)
	default:
		// types.Any is the only remaining variant.
		return true, nil
	}
}

// satisfiesNamed checks the identity chain first, then falls back to a
// capability subset check when the name denotes a registered protocol rather
// than a concrete class. An unknown name is a lookup failure, raised lazily
// here on the first match that needs it.
func (reg *Registry) satisfiesNamed(obs *Observed, expr *types.Named) (bool, error) {
	if obs.Null {
		return expr.Name == types.NameNone, nil
	}
	if obs.HasClass(expr.Name) {
		return true, nil
	}
	if members, ok := reg.Capability(expr.Name); ok {
		for member := range members {
			if !obs.HasMember(member) {
				return false, nil
			}
		}
		return true, nil
	}
	if reg.KnownClass(expr.Name) {
		return false, nil
	}
	return false, &LookupError{Name: expr.Name}
}

// satisfiesGeneric requires the base to match structurally, then checks the
// sampled elements against the positional arguments. A container with no
// samples vacuously satisfies any arguments; sampling is a bounded
// approximation, not exhaustive verification.
func (reg *Registry) satisfiesGeneric(obs *Observed, expr *types.Generic) (bool, error) {
	if ok, err := reg.Satisfies(obs, expr.Base); err != nil || !ok {
		return false, err
	}
	for i, arg := range expr.Args {
		if i >= len(obs.Elems) {
			break
		}
		for _, elem := range obs.Elems[i] {
			if ok, err := reg.Satisfies(elem, arg); err != nil || !ok {
				return false, err
			}
		}
	}
	return true, nil
}

// MissingMembers lists which of a registered capability's members the
// observation lacks, for diagnostics.
func (reg *Registry) MissingMembers(obs *Observed, name string) []string {
	members, ok := reg.Capability(name)
	if !ok {
		return nil
	}
	missing := []string{}
	for member := range members {
		if !obs.HasMember(member) {
			missing = append(missing, member)
		}
	}
	sort.Strings(missing)
	return missing
}

// missingCaps walks a failed expression and collects the member names the
// observation lacks for every capability it references, so a failure report
// can name what is actually missing.
func (reg *Registry) missingCaps(obs *Observed, expr types.Expr) []string {
	if obs.Null {
		return nil
	}
	switch te := expr.(type) {
	case *types.Named:
		if obs.HasClass(te.Name) {
			return nil
		}
		return reg.MissingMembers(obs, te.Name)
	case *types.Nullable:
		return reg.missingCaps(obs, te.Inner)
	case *types.Union:
		return reg.missingCapsAll(obs, te.Members)
	case *types.Intersection:
		return reg.missingCapsAll(obs, te.Members)
	case *types.Generic:
		return reg.missingCaps(obs, te.Base)
	default:
		return nil
	}
}

func (reg *Registry) missingCapsAll(obs *Observed, members []types.Expr) []string {
	missing := []string{}
	for _, member := range members {
		missing = append(missing, reg.missingCaps(obs, member)...)
	}
	return missing
}
