package decl

import (
	"strings"

	"github.com/tanema/decl/src/check"
	"github.com/tanema/decl/src/parse"
)

// ParseFile loads a declaration file into an immutable index.
func ParseFile(path string) (*parse.Index, error) {
	return parse.File(path)
}

// ParseString parses declaration source text into an immutable index.
func ParseString(label, src string) (*parse.Index, error) {
	return parse.Parse(label, strings.NewReader(src))
}

// CheckModule loads the declaration file at path and wraps every function
// and object in the module that it declares. It returns the checked module,
// the names that had no declaration and were left unchecked, and any load or
// attachment failure.
func CheckModule(mod check.Module, path string) (check.Module, []string, error) {
	idx, err := parse.File(path)
	if err != nil {
		return nil, nil, err
	}
	chk, err := check.NewChecker(idx, nil)
	if err != nil {
		return nil, nil, err
	}
	return chk.CheckModule(mod)
}
