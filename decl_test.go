package decl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanema/decl/src/check"
)

func TestParseString(t *testing.T) {
	t.Parallel()
	idx, err := ParseString("inline", `add(a: int, b: int) -> int`)
	require.NoError(t, err)
	require.NotNil(t, idx.Func("add"))

	_, err = ParseString("inline", `add(a: int`)
	assert.Error(t, err)
}

func TestParseFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "math.decl")
	require.NoError(t, os.WriteFile(path, []byte(`
# basic arithmetic
add(a: int, b: int) -> int
`), 0o644))

	idx, err := ParseFile(path)
	require.NoError(t, err)
	assert.NotNil(t, idx.Func("add"))

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.decl"))
	assert.Error(t, err)
}

func TestCheckModule(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "math.decl")
	require.NoError(t, os.WriteFile(path, []byte(`
add(a: int, b: int) -> int
add(a: float, b: float) -> float
`), 0o644))

	mod, unchecked, err := CheckModule(check.Module{
		"add": func(a, b any) any {
			if x, ok := a.(int); ok {
				return x + b.(int)
			}
			return a.(float64) + b.(float64)
		},
		"version": "1.0",
	}, path)
	require.NoError(t, err)
	assert.Equal(t, []string{"version"}, unchecked)

	add := mod["add"].(check.Func)
	result, err := add(2, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, result)

	result, err = add(2.5, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 3.0, result)

	_, err = add(2, "three")
	assert.Error(t, err)
}
