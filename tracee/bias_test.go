package tracee

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBiasRoundTrip(t *testing.T) {
	bias := LoadBias(0x555500000000)
	const dwarfAddr = 0x1149

	runtimeAddr := bias.ToRuntime(dwarfAddr)
	assert.Equal(t, dwarfAddr+uint64(bias), runtimeAddr)
	assert.Equal(t, uint64(dwarfAddr), bias.ToDWARF(runtimeAddr))
}

func TestZeroBiasIsIdentity(t *testing.T) {
	var bias LoadBias
	assert.Equal(t, uint64(0x1149), bias.ToRuntime(0x1149))
	assert.Equal(t, uint64(0x1149), bias.ToDWARF(0x1149))
}

func TestParseFirstMapAddr(t *testing.T) {
	bias, err := parseFirstMapAddr("55a1b2c3d000-55a1b2c3e000 r-xp 00000000 00:00 0")
	require.NoError(t, err)
	assert.Equal(t, LoadBias(0x55a1b2c3d000), bias)
}

func TestParseFirstMapAddrRejectsMalformedLine(t *testing.T) {
	_, err := parseFirstMapAddr("not a maps line")
	assert.Error(t, err)
}
