package registers_test

import (
	"testing"

	"github.com/chinzhiweiblank/custom-debugger/curated"
	"github.com/chinzhiweiblank/custom-debugger/registers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByNameExactMatch(t *testing.T) {
	id, err := registers.ByName("rax")
	require.NoError(t, err)
	assert.Equal(t, registers.Rax, id)
	assert.Equal(t, "rax", registers.Name(id))
}

func TestByNameUnknown(t *testing.T) {
	_, err := registers.ByName("not-a-register")
	require.Error(t, err)
	assert.True(t, curated.Is(err, curated.UnknownRegister))
}

func TestByDwarfID(t *testing.T) {
	id, err := registers.ByDwarfID(7)
	require.NoError(t, err)
	assert.Equal(t, registers.Rsp, id)

	_, err = registers.ByDwarfID(12345)
	require.Error(t, err)
	assert.True(t, curated.Is(err, curated.UnknownRegister))
}

func TestOrigRaxHasNoDwarfID(t *testing.T) {
	_, ok := registers.DwarfID(registers.OrigRax)
	assert.False(t, ok)
}

func TestRipDwarfID(t *testing.T) {
	id, ok := registers.DwarfID(registers.Rip)
	require.True(t, ok)
	assert.Equal(t, 16, id)
}
