package check

import (
	"fmt"

	"github.com/tanema/decl/src/parse"
)

// Resolve picks the first signature in declaration order whose arity fits
// the call and whose bound parameters are all satisfied by the classified
// arguments. First declared wins; there is no specificity scoring. A lookup
// failure inside any attempt aborts resolution immediately so an
// unresolvable declaration never degrades to a skipped signature. When no
// signature matches, one failure record per attempted signature is
// aggregated into a single ResolutionError.
func (reg *Registry) Resolve(fn *parse.FunctionDecl, args []*Observed) (*parse.Signature, error) {
	attempts := make([]AttemptFailure, 0, len(fn.Signatures))
	for _, sig := range fn.Signatures {
		fail, err := reg.attempt(sig, args)
		if err != nil {
			return nil, err
		} else if fail == nil {
			return sig, nil
		}
		attempts = append(attempts, *fail)
	}
	return nil, &ResolutionError{Func: fn.Name, Attempts: attempts}
}

// attempt checks one signature against the arguments and returns the first
// failure, or nil when every bound parameter is satisfied.
func (reg *Registry) attempt(sig *parse.Signature, args []*Observed) (*AttemptFailure, error) {
	if len(args) < sig.MinArity() || len(args) > sig.MaxArity() {
		return &AttemptFailure{
			Signature:  sig,
			ParamIndex: -1,
			Observed:   fmt.Sprintf("takes %d to %d arguments but got %d", sig.MinArity(), sig.MaxArity(), len(args)),
		}, nil
	}
	for i, obs := range args {
		param := sig.Params[i]
		if ok, err := reg.Satisfies(obs, param.Type); err != nil {
			return nil, err
		} else if !ok {
			return &AttemptFailure{
				Signature:  sig,
				ParamIndex: i,
				Expected:   param.Type.String(),
				Observed:   obs.String(),
				Missing:    reg.missingCaps(obs, param.Type),
			}, nil
		}
	}
	return nil, nil
}
