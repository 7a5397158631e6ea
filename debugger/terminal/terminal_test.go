package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chinzhiweiblank/custom-debugger/curated"
)

func TestFormatErrorPrefixesKind(t *testing.T) {
	err := curated.New(curated.BadCommand, "missing argument")
	got := formatError(err, false)
	assert.Equal(t, "BadCommand: missing argument", got)
}

func TestFormatErrorPlainWhenNotCurated(t *testing.T) {
	err := assert.AnError
	got := formatError(err, false)
	assert.Equal(t, err.Error(), got)
}

func TestFormatErrorKeepsKindAndMessageWhenColorEnabled(t *testing.T) {
	err := curated.New(curated.TraceeIO, "peek failed")
	got := formatError(err, true)
	assert.Contains(t, got, "TraceeIO: peek failed")
}

type fakeDispatcher struct {
	calls []string
	exitOn string
	err   error
}

func (f *fakeDispatcher) Dispatch(line string) (bool, error) {
	f.calls = append(f.calls, line)
	if line == f.exitOn {
		return true, nil
	}
	return false, f.err
}
