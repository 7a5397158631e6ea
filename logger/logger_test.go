package logger_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/chinzhiweiblank/custom-debugger/logger"
	"github.com/stretchr/testify/assert"
)

func TestLogAndTail(t *testing.T) {
	logger.Log("test", "hello world")

	var buf bytes.Buffer
	logger.Tail(&buf, 1)
	assert.True(t, strings.Contains(buf.String(), "hello world"))
	assert.True(t, strings.Contains(buf.String(), "tag=test"))
}

func TestLogfFormats(t *testing.T) {
	logger.Logf("test", "value=%d", 42)

	var buf bytes.Buffer
	logger.Tail(&buf, 1)
	assert.Contains(t, buf.String(), "value=42")
}

func TestTailMoreThanAvailableIsNotAnError(t *testing.T) {
	logger.Log("test", "only one more line")

	var buf bytes.Buffer
	logger.Tail(&buf, 1_000_000)
	assert.Contains(t, buf.String(), "only one more line")
}
