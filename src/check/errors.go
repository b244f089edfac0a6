package check

import (
	"fmt"
	"strings"

	"github.com/tanema/decl/src/parse"
	"github.com/tanema/decl/src/types"
)

const (
	// PhaseReturn marks a violation detected after the wrapped call returned.
	PhaseReturn = "return"
)

type (
	// LookupError is raised lazily when a type expression references a name
	// that is neither a known concrete class nor a registered capability.
	LookupError struct {
		Name string
	}
	// AttemptFailure records why one overload alternative rejected a call:
	// the first failing parameter index (-1 for an arity mismatch) and the
	// expected versus observed summaries.
	AttemptFailure struct {
		Signature  *parse.Signature
		ParamIndex int
		Expected   string
		Observed   string
		Missing    []string
	}
	// ResolutionError means no signature in a function's overload set matched
	// the call. It aggregates one failure record per attempted signature and
	// is raised before the wrapped function runs.
	ResolutionError struct {
		Func     string
		Attempts []AttemptFailure
	}
	// Violation is a mismatch between a declared type and an observed value,
	// either an argument at precheck or the return value at postcheck.
	Violation struct {
		Func     string
		Phase    string
		Expected types.Expr
		Observed string
	}
)

func (err *LookupError) Error() string {
	return fmt.Sprintf("type declaration references %q which is neither a known class nor a registered capability", err.Name)
}

func (fail AttemptFailure) String() string {
	if fail.ParamIndex < 0 {
		return fmt.Sprintf("%s: %s", fail.Signature, fail.Observed)
	}
	out := fmt.Sprintf("%s: parameter %d found %s but expected %s",
		fail.Signature, fail.ParamIndex, fail.Observed, fail.Expected)
	if len(fail.Missing) > 0 {
		out += fmt.Sprintf(" (missing %s)", strings.Join(fail.Missing, ", "))
	}
	return out
}

func (err *ResolutionError) Error() string {
	lines := make([]string, len(err.Attempts))
	for i, attempt := range err.Attempts {
		lines[i] = "\t" + attempt.String()
	}
	return fmt.Sprintf("no signature of %s matched the call:\n%s",
		err.Func, strings.Join(lines, "\n"))
}

func (err *Violation) Error() string {
	if err.Phase == PhaseReturn {
		return fmt.Sprintf("type violation: %s returned %s but expected %s",
			err.Func, err.Observed, err.Expected)
	}
	return fmt.Sprintf("type violation: %s %s found %s but expected %s",
		err.Func, err.Phase, err.Observed, err.Expected)
}
