package breakpoint_test

import (
	"testing"

	"github.com/chinzhiweiblank/custom-debugger/breakpoint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMem is an in-process stand-in for tracee memory, addressed the same
// way dbgmem.IO is: one 8-byte word at a time.
type fakeMem struct {
	words map[uint64]uint64
}

func newFakeMem() *fakeMem {
	return &fakeMem{words: make(map[uint64]uint64)}
}

func (f *fakeMem) ReadWord(addr uint64) (uint64, error) {
	return f.words[addr], nil
}

func (f *fakeMem) WriteWord(addr uint64, value uint64) error {
	f.words[addr] = value
	return nil
}

func TestEnableDisableRoundTrip(t *testing.T) {
	mem := newFakeMem()
	const addr = 0x1000
	mem.words[addr] = 0x1122334455667788

	tbl := breakpoint.NewTable(mem)
	bp, err := tbl.Set(addr)
	require.NoError(t, err)
	assert.True(t, bp.Enabled())
	assert.Equal(t, uint64(0x11223344556677cc), mem.words[addr])

	require.NoError(t, bp.Disable())
	assert.False(t, bp.Enabled())
	assert.Equal(t, uint64(0x1122334455667788), mem.words[addr])

	require.NoError(t, bp.Enable())
	assert.Equal(t, uint64(0x11223344556677cc), mem.words[addr])
}

func TestSetIsIdempotentPerAddress(t *testing.T) {
	mem := newFakeMem()
	tbl := breakpoint.NewTable(mem)

	bp1, err := tbl.Set(0x2000)
	require.NoError(t, err)
	bp2, err := tbl.Set(0x2000)
	require.NoError(t, err)
	assert.Same(t, bp1, bp2)
}

func TestRemoveRestoresOriginalByte(t *testing.T) {
	mem := newFakeMem()
	mem.words[0x3000] = 0xdeadbeefcafebabe
	tbl := breakpoint.NewTable(mem)

	_, err := tbl.Set(0x3000)
	require.NoError(t, err)
	require.NoError(t, tbl.Remove(0x3000))

	assert.Equal(t, uint64(0xdeadbeefcafebabe), mem.words[0x3000])
	assert.False(t, tbl.Has(0x3000))
}

func TestEnabledAddrsReflectsCurrentState(t *testing.T) {
	mem := newFakeMem()
	tbl := breakpoint.NewTable(mem)

	_, err := tbl.Set(0x1000)
	require.NoError(t, err)
	_, err = tbl.Set(0x2000)
	require.NoError(t, err)

	require.NoError(t, tbl.Remove(0x2000))

	assert.ElementsMatch(t, []uint64{0x1000}, tbl.EnabledAddrs())
}

func TestStepOverIfArmedRestoresEnabledState(t *testing.T) {
	mem := newFakeMem()
	mem.words[0x4000] = 0x1122334455667788
	tbl := breakpoint.NewTable(mem)

	_, err := tbl.Set(0x4000)
	require.NoError(t, err)

	var sawOriginalByte bool
	err = tbl.StepOverIfArmed(0x4000, func() error {
		sawOriginalByte = byte(mem.words[0x4000]&0xff) == 0x88
		return nil
	})
	require.NoError(t, err)
	assert.True(t, sawOriginalByte)

	bp, ok := tbl.Get(0x4000)
	require.True(t, ok)
	assert.True(t, bp.Enabled())
	assert.Equal(t, uint64(0x11223344556677cc), mem.words[0x4000])
}
