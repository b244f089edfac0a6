package check

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanema/decl/src/parse"
)

func parseIdx(t *testing.T, src string) *parse.Index {
	t.Helper()
	idx, err := parse.Parse("test.decl", strings.NewReader(src))
	require.NoError(t, err)
	return idx
}

func TestRegistry_Builtins(t *testing.T) {
	t.Parallel()
	reg := NewRegistry()
	assert.True(t, reg.KnownClass("int"))
	assert.True(t, reg.KnownClass("generator"))
	assert.False(t, reg.KnownClass("Widget"))
}

func TestRegistry_AddIndex(t *testing.T) {
	t.Parallel()
	reg := NewRegistry()
	require.NoError(t, reg.AddIndex(parseIdx(t, `
		interface Readable { read }
		class logger {
			flush()
		}
	`)))
	members, ok := reg.Capability("Readable")
	require.True(t, ok)
	assert.True(t, members["read"])
	assert.True(t, reg.KnownClass("logger"))
}

func TestRegistry_ParentFlattening(t *testing.T) {
	t.Parallel()
	reg := NewRegistry()
	require.NoError(t, reg.AddIndex(parseIdx(t, `
		interface Openable { open }
		interface Closeable { close }
		interface Readable(Openable, Closeable) { read }
	`)))
	members, ok := reg.Capability("Readable")
	require.True(t, ok)
	for _, member := range []string{"read", "open", "close"} {
		assert.True(t, members[member], member)
	}
}

func TestRegistry_DiamondParents(t *testing.T) {
	t.Parallel()
	reg := NewRegistry()
	require.NoError(t, reg.AddIndex(parseIdx(t, `
		interface Base { close }
		interface Readable(Base) { read }
		interface Writeable(Base) { write }
		interface Stream(Readable, Writeable) { seek }
	`)))
	members, ok := reg.Capability("Stream")
	require.True(t, ok)
	for _, member := range []string{"seek", "read", "write", "close"} {
		assert.True(t, members[member], member)
	}
}

func TestRegistry_UndeclaredParent(t *testing.T) {
	t.Parallel()
	reg := NewRegistry()
	err := reg.AddIndex(parseIdx(t, `interface Readable(Openable) { read }`))
	assert.ErrorContains(t, err, "undeclared parent")
}

func TestRegistry_InheritanceCycle(t *testing.T) {
	t.Parallel()
	reg := NewRegistry()
	err := reg.AddIndex(parseIdx(t, `
		interface A(B) { a }
		interface B(A) { b }
	`))
	assert.ErrorContains(t, err, "inherits from itself")
}

func TestRegistry_AddCapability(t *testing.T) {
	t.Parallel()
	reg := NewRegistry()
	reg.AddCapability("Closeable", []string{"Close"})
	members, ok := reg.Capability("Closeable")
	require.True(t, ok)
	assert.True(t, members["close"], "member names are matched case insensitively")
}

func TestRegistry_LoadCapabilities(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "caps.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
Readable: [read]
Writeable:
  - write
  - flush
`), 0o644))

	reg := NewRegistry()
	require.NoError(t, reg.LoadCapabilities(path))
	members, ok := reg.Capability("Writeable")
	require.True(t, ok)
	assert.True(t, members["write"])
	assert.True(t, members["flush"])

	assert.Error(t, reg.LoadCapabilities(filepath.Join(t.TempDir(), "missing.yaml")))
	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("[not, a, map]"), 0o644))
	assert.Error(t, reg.LoadCapabilities(bad))
}
