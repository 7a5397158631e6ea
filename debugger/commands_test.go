package debugger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chinzhiweiblank/custom-debugger/curated"
)

func TestMatchKeywordExactAndPrefix(t *testing.T) {
	cases := []struct {
		token string
		want  string
	}{
		{"continue", "continue"},
		{"c", "continue"},
		{"b", "break"},
		{"break", "break"},
		{"reg", "register"},
		{"mem", "memory"},
		{"stepi", "stepi"},
		{"st", "stepi"}, // stepi precedes step in the grammar table
		{"step", "step"},
		{"n", "next"},
		{"fin", "finish"},
		{"sym", "symbol"},
	}
	for _, c := range cases {
		got, ok := matchKeyword(c.token)
		assert.True(t, ok, "token %q", c.token)
		assert.Equal(t, c.want, got, "token %q", c.token)
	}
}

func TestMatchKeywordRejectsUnknown(t *testing.T) {
	_, ok := matchKeyword("xyz")
	assert.False(t, ok)
}

func TestMatchKeywordRejectsEmpty(t *testing.T) {
	_, ok := matchKeyword("")
	assert.False(t, ok)
}

func TestParseHexAddrRequiresPrefix(t *testing.T) {
	_, err := parseHexAddr("1149")
	assert.True(t, curated.Is(err, curated.BadCommand))
}

func TestParseHexAddrParsesValue(t *testing.T) {
	v, err := parseHexAddr("0x1149")
	assert.NoError(t, err)
	assert.Equal(t, uint64(0x1149), v)
}

func TestParseHexAddrRejectsGarbage(t *testing.T) {
	_, err := parseHexAddr("0xzzzz")
	assert.True(t, curated.Is(err, curated.BadCommand))
}
