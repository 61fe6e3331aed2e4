package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterIndent(t *testing.T) {
	var buf bytes.Buffer
	w := New(Config{Output: &buf})

	require.NoError(t, w.Write(map[string]string{"context": "<html> & more"}))
	assert.Equal(t, "{\n  \"context\": \"<html> & more\"\n}\n", buf.String())
}

func TestWriterCompact(t *testing.T) {
	var buf bytes.Buffer
	w := New(Config{Output: &buf, Compact: true})

	require.NoError(t, w.Write([]int{1, 2}))
	assert.Equal(t, "[1,2]\n", buf.String())
}

func TestWriteError(t *testing.T) {
	var buf bytes.Buffer
	old := Stderr
	Stderr = &buf
	t.Cleanup(func() { Stderr = old })

	WriteError(fmt.Errorf("load config: %w", errors.New("boom")))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, map[string]any{"error": "load config: boom"}, got)
}

func TestWriteErrorJoined(t *testing.T) {
	var buf bytes.Buffer
	old := Stderr
	Stderr = &buf
	t.Cleanup(func() { Stderr = old })

	WriteError(fmt.Errorf("invalid configuration:\n%w", errors.Join(errors.New("first"), errors.New("second"))))

	var got struct {
		Error   string   `json:"error"`
		Details []string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "invalid configuration", got.Error)
	assert.Equal(t, []string{"first", "second"}, got.Details)
}
