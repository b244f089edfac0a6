package parse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanema/decl/src/terrors"
	"github.com/tanema/decl/src/types"
)

func parseIdx(t *testing.T, src string) *Index {
	t.Helper()
	idx, err := Parse("test.decl", strings.NewReader(src))
	require.NoError(t, err)
	return idx
}

func TestParser_Function(t *testing.T) {
	t.Parallel()
	idx := parseIdx(t, `find(tree: Tree?, name: str) raises NotFound -> Node`)
	fn := idx.Func("find")
	require.NotNil(t, fn)
	require.Len(t, fn.Signatures, 1)
	sig := fn.Signatures[0]
	require.Len(t, sig.Params, 2)
	assert.Equal(t, "tree", sig.Params[0].Name)
	assert.True(t, types.Equal(&types.Nullable{Inner: &types.Named{Name: "Tree"}}, sig.Params[0].Type))
	assert.Equal(t, "name", sig.Params[1].Name)
	assert.True(t, types.Equal(&types.Named{Name: "str"}, sig.Params[1].Type))
	require.Len(t, sig.Raises, 1)
	assert.Equal(t, "NotFound", sig.Raises[0].Name)
	assert.True(t, types.Equal(&types.Named{Name: "Node"}, sig.Return))
}

func TestParser_OmittedReturnIsAny(t *testing.T) {
	t.Parallel()
	idx := parseIdx(t, `setStatus(status: int | str)`)
	sig := idx.Func("setStatus").Signatures[0]
	assert.True(t, types.Equal(types.Any, sig.Return))
}

func TestParser_OverloadsAccumulate(t *testing.T) {
	t.Parallel()
	idx := parseIdx(t, `
		# conversions in both directions
		f(x: int) -> str
		f(x: str) -> int
	`)
	fn := idx.Func("f")
	require.NotNil(t, fn)
	require.Len(t, fn.Signatures, 2)
	assert.True(t, types.Equal(&types.Named{Name: "str"}, fn.Signatures[0].Return))
	assert.True(t, types.Equal(&types.Named{Name: "int"}, fn.Signatures[1].Return))
}

func TestParser_ClassBlock(t *testing.T) {
	t.Parallel()
	idx := parseIdx(t, `
		class Emailer {
			send(recipient: str, message: str) -> bool
			send(recipients: list<str>, message: str) -> bool
			close()
		}
	`)
	cls := idx.Class("Emailer")
	require.NotNil(t, cls)
	require.Len(t, cls.Methods, 2)
	assert.Len(t, cls.Method("send").Signatures, 2)
	assert.Len(t, cls.Method("close").Signatures, 1)
	assert.Nil(t, cls.Method("open"))
}

func TestParser_Interface(t *testing.T) {
	t.Parallel()
	idx := parseIdx(t, `
		interface Openable { open }
		interface Readable(Openable) { read, close }
	`)
	ifc := idx.Interface("Readable")
	require.NotNil(t, ifc)
	assert.Equal(t, []string{"Openable"}, ifc.Parents)
	assert.Equal(t, []string{"read", "close"}, ifc.Members)
}

func TestParser_Precedence(t *testing.T) {
	t.Parallel()
	idx := parseIdx(t, `f(x: A & B | C)`)
	expected := &types.Union{Members: []types.Expr{
		&types.Intersection{Members: []types.Expr{&types.Named{Name: "A"}, &types.Named{Name: "B"}}},
		&types.Named{Name: "C"},
	}}
	assert.True(t, types.Equal(expected, idx.Func("f").Signatures[0].Params[0].Type))
}

func TestParser_NullableGeneric(t *testing.T) {
	t.Parallel()
	idx := parseIdx(t, `f(x: list<int>?)`)
	expected := &types.Nullable{Inner: &types.Generic{
		Base: &types.Named{Name: "list"},
		Args: []types.Expr{&types.Named{Name: "int"}},
	}}
	assert.True(t, types.Equal(expected, idx.Func("f").Signatures[0].Params[0].Type))
}

func TestParser_NestedGeneric(t *testing.T) {
	t.Parallel()
	idx := parseIdx(t, `f(x: dict<str, list<int>>)`)
	expected := &types.Generic{
		Base: &types.Named{Name: "dict"},
		Args: []types.Expr{
			&types.Named{Name: "str"},
			&types.Generic{Base: &types.Named{Name: "list"}, Args: []types.Expr{&types.Named{Name: "int"}}},
		},
	}
	assert.True(t, types.Equal(expected, idx.Func("f").Signatures[0].Params[0].Type))
}

func TestParser_OptionalParams(t *testing.T) {
	t.Parallel()
	idx := parseIdx(t, `greet(name: str, greeting?: str) -> str`)
	sig := idx.Func("greet").Signatures[0]
	assert.False(t, sig.Params[0].Optional)
	assert.True(t, sig.Params[1].Optional)
	assert.Equal(t, 1, sig.MinArity())
	assert.Equal(t, 2, sig.MaxArity())
}

func TestParser_Errors(t *testing.T) {
	t.Parallel()
	cases := []struct {
		desc string
		src  string
	}{
		{"required after optional", `f(a?: int, b: str)`},
		{"duplicate class", "class A {}\nclass A {}"},
		{"duplicate interface", "interface A { x }\ninterface A { y }"},
		{"unbalanced generic", `f(x: list<int)`},
		{"missing param type", `f(x)`},
		{"stray token", `class {`},
		{"unterminated class", `class A {`},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()
			_, err := Parse("test.decl", strings.NewReader(tc.src))
			require.Error(t, err, tc.desc)
		})
	}
}

func TestParser_ErrorPosition(t *testing.T) {
	t.Parallel()
	_, err := Parse("test.decl", strings.NewReader("f(a?: int,\n\tb: str)"))
	require.Error(t, err)
	var declErr *terrors.Error
	require.ErrorAs(t, err, &declErr)
	assert.Equal(t, "test.decl", declErr.Filename)
	// the error carries the position of the last consumed token even when
	// it is raised by a validation pass rather than a bad token.
	assert.Equal(t, int64(2), declErr.Line)
}

func TestParser_ForwardReference(t *testing.T) {
	t.Parallel()
	// names are not resolved at parse time so forward references are fine.
	idx := parseIdx(t, `
		makeTree() -> Tree
		class Tree {}
	`)
	assert.NotNil(t, idx.Func("makeTree"))
	assert.NotNil(t, idx.Class("Tree"))
}

func TestParser_RenderRoundTrip(t *testing.T) {
	t.Parallel()
	src := strings.Join([]string{
		`interface Readable { read, close }`,
		`class Emailer {`,
		`	send(recipient: str, message: str) -> bool`,
		`}`,
		`find(tree: Tree?, name: str) raises NotFound -> Node & Comparable`,
		`f(x: list<int>?) -> dict<str, int | float>`,
	}, "\n")
	idx := parseIdx(t, src)
	reparsed := parseIdx(t, idx.String())
	assert.Equal(t, idx.String(), reparsed.String())
}

func TestTypeExpr(t *testing.T) {
	t.Parallel()
	exprs := []string{
		"int",
		"str?",
		"int | str",
		"Readable & Writeable",
		"list<int>",
		"dict<str, int>",
		"list<int>?",
		"A & B | C",
		"list<int | str>",
		"any",
	}
	for _, src := range exprs {
		expr, err := TypeExpr(src)
		require.NoError(t, err, src)
		assert.Equal(t, src, expr.String(), src)
		reparsed, err := TypeExpr(expr.String())
		require.NoError(t, err, src)
		assert.True(t, types.Equal(expr, reparsed), src)
	}

	_, err := TypeExpr("list<int")
	require.Error(t, err)
	_, err = TypeExpr("int |")
	require.Error(t, err)
}
