package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqual(t *testing.T) {
	t.Parallel()
	cases := []struct {
		a, b  Expr
		equal bool
	}{
		{Any, Any, true},
		{Any, &Named{Name: "int"}, false},
		{&Named{Name: "int"}, &Named{Name: "int"}, true},
		{&Named{Name: "int"}, &Named{Name: "str"}, false},
		{&Nullable{Inner: &Named{Name: "int"}}, &Nullable{Inner: &Named{Name: "int"}}, true},
		{&Nullable{Inner: &Named{Name: "int"}}, &Named{Name: "int"}, false},
		{
			&Union{Members: []Expr{&Named{Name: "int"}, &Named{Name: "str"}}},
			&Union{Members: []Expr{&Named{Name: "int"}, &Named{Name: "str"}}},
			true,
		},
		{
			&Union{Members: []Expr{&Named{Name: "int"}, &Named{Name: "str"}}},
			&Union{Members: []Expr{&Named{Name: "str"}, &Named{Name: "int"}}},
			false,
		},
		{
			&Union{Members: []Expr{&Named{Name: "int"}, &Named{Name: "str"}}},
			&Intersection{Members: []Expr{&Named{Name: "int"}, &Named{Name: "str"}}},
			false,
		},
		{
			&Generic{Base: &Named{Name: "list"}, Args: []Expr{&Named{Name: "int"}}},
			&Generic{Base: &Named{Name: "list"}, Args: []Expr{&Named{Name: "int"}}},
			true,
		},
		{
			&Generic{Base: &Named{Name: "list"}, Args: []Expr{&Named{Name: "int"}}},
			&Generic{Base: &Named{Name: "list"}, Args: []Expr{&Named{Name: "str"}}},
			false,
		},
		{
			&Generic{Base: &Named{Name: "dict"}, Args: []Expr{&Named{Name: "str"}, &Named{Name: "int"}}},
			&Generic{Base: &Named{Name: "dict"}, Args: []Expr{&Named{Name: "str"}}},
			false,
		},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.equal, Equal(tc.a, tc.b), "Equal(%s, %s)", tc.a, tc.b)
	}
}

func TestString(t *testing.T) {
	t.Parallel()
	cases := []struct {
		expr     Expr
		expected string
	}{
		{Any, "any"},
		{&Named{Name: "int"}, "int"},
		{&Nullable{Inner: &Named{Name: "str"}}, "str?"},
		{&Union{Members: []Expr{&Named{Name: "int"}, &Named{Name: "str"}}}, "int | str"},
		{&Intersection{Members: []Expr{&Named{Name: "Readable"}, &Named{Name: "Writeable"}}}, "Readable & Writeable"},
		{&Generic{Base: &Named{Name: "list"}, Args: []Expr{&Named{Name: "int"}}}, "list<int>"},
		{
			&Generic{Base: &Named{Name: "dict"}, Args: []Expr{&Named{Name: "str"}, &Named{Name: "int"}}},
			"dict<str, int>",
		},
		{
			&Nullable{Inner: &Generic{Base: &Named{Name: "list"}, Args: []Expr{&Named{Name: "int"}}}},
			"list<int>?",
		},
		{
			&Union{Members: []Expr{
				&Intersection{Members: []Expr{&Named{Name: "A"}, &Named{Name: "B"}}},
				&Named{Name: "C"},
			}},
			"A & B | C",
		},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.expected, tc.expr.String())
	}
}
