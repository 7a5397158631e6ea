package dwarf

import (
	stddwarf "debug/dwarf"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompileUnitContains(t *testing.T) {
	cu := &compileUnit{low: 0x1000, high: 0x2000}
	assert.True(t, cu.contains(0x1000))
	assert.True(t, cu.contains(0x1fff))
	assert.False(t, cu.contains(0x2000))
	assert.False(t, cu.contains(0x0fff))
}

func TestCompileUnitContainsRejectsEmptyRange(t *testing.T) {
	cu := &compileUnit{low: 0, high: 0}
	assert.False(t, cu.contains(0))
}

func TestSymbolKindString(t *testing.T) {
	assert.Equal(t, "func", SymFunc.String())
	assert.Equal(t, "notype", SymbolKind(99).String())
}

func TestToLineEntryHandlesNilFile(t *testing.T) {
	le := toLineEntry(stddwarf.LineEntry{Address: 0x100, Line: 5, IsStmt: true})
	assert.Equal(t, uint64(0x100), le.Address)
	assert.Equal(t, "", le.File)
	assert.True(t, le.IsStmt)
}

func TestFunctionRange(t *testing.T) {
	fn := Function{Name: "main", Low: 0x1149, High: 0x1160}
	low, high := fn.Range()
	assert.Equal(t, uint64(0x1149), low)
	assert.Equal(t, uint64(0x1160), high)
}
