package logger

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureInfo(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := InfoLogger
	InfoLogger = log.New(&buf, "INFO: ", 0)
	t.Cleanup(func() { InfoLogger = old })
	return &buf
}

func captureError(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := ErrorLogger
	ErrorLogger = log.New(&buf, "ERROR: ", 0)
	t.Cleanup(func() { ErrorLogger = old })
	return &buf
}

func TestInfo(t *testing.T) {
	buf := captureInfo(t)

	Info("server started")

	assert.Contains(t, buf.String(), "INFO: ")
	assert.Contains(t, buf.String(), "server started")
}

func TestInfoWithKVPairs(t *testing.T) {
	buf := captureInfo(t)

	Info("request completed", "method", "GET", "status", 200)

	out := buf.String()
	assert.Contains(t, out, "request completed")
	assert.Contains(t, out, "method=GET")
	assert.Contains(t, out, "status=200")
}

func TestInfoWithOddKVPairs(t *testing.T) {
	buf := captureInfo(t)

	Info("something happened", "dangling")

	out := buf.String()
	assert.Contains(t, out, "something happened")
	assert.Contains(t, out, "dangling")
}

func TestInfof(t *testing.T) {
	buf := captureInfo(t)

	Infof("listening on port %d", 8080)

	assert.Contains(t, buf.String(), "listening on port 8080")
}

func TestError(t *testing.T) {
	buf := captureError(t)

	Error("query failed", "error", "connection refused")

	out := buf.String()
	assert.Contains(t, out, "ERROR: ")
	assert.Contains(t, out, "query failed")
	assert.Contains(t, out, "error=connection refused")
}

func TestErrorf(t *testing.T) {
	buf := captureError(t)

	Errorf("failed after %d attempts", 3)

	assert.Contains(t, buf.String(), "failed after 3 attempts")
}

func TestFormatKV(t *testing.T) {
	assert.Equal(t, "plain", formatKV("plain", nil))
	assert.Equal(t, "msg a=1 b=two", formatKV("msg", []interface{}{"a", 1, "b", "two"}))
	assert.Equal(t, "msg orphan", formatKV("msg", []interface{}{"orphan"}))
}

func TestInitResetsLoggers(t *testing.T) {
	var buf bytes.Buffer
	InfoLogger = log.New(&buf, "INFO: ", 0)

	Init()

	assert.NotNil(t, InfoLogger)
	assert.NotNil(t, ErrorLogger)
	assert.NotNil(t, DebugLogger)

	Info("after init")
	assert.Empty(t, buf.String())
}
