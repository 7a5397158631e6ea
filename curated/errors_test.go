package curated_test

import (
	"fmt"
	"testing"

	"github.com/chinzhiweiblank/custom-debugger/curated"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndIs(t *testing.T) {
	err := curated.New(curated.NoFunction, "pc %#x not in any function", 0x1000)
	require.Error(t, err)
	assert.True(t, curated.Is(err, curated.NoFunction))
	assert.False(t, curated.Is(err, curated.TraceeIO))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("errno 5")
	err := curated.Wrap(curated.TraceeIO, cause, "peek failed at %#x", 0x400000)
	require.Error(t, err)
	assert.True(t, curated.Is(err, curated.TraceeIO))
	assert.Contains(t, err.Error(), "errno 5")

	kind, ok := curated.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, curated.TraceeIO, kind)
}

func TestIsOnPlainError(t *testing.T) {
	assert.False(t, curated.Is(fmt.Errorf("plain"), curated.BadCommand))
	assert.False(t, curated.Is(nil, curated.BadCommand))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "TraceeGone", curated.TraceeGone.String())
	assert.Equal(t, "Unknown", curated.Kind(99).String())
}
