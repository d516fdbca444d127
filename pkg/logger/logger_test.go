package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONOutsideLocal(t *testing.T) {
	var buf bytes.Buffer
	l := New("prod", &buf)
	l.Debug("hidden")
	l.Info("hello", "user", "alice")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "alice", line["user"])
}

func TestNew_TextInLocal(t *testing.T) {
	var buf bytes.Buffer
	l := New("local", &buf)
	l.Debug("visible", "k", "v")
	assert.Contains(t, buf.String(), "msg=visible")
	assert.Contains(t, buf.String(), "k=v")
}
