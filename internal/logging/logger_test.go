package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLoggerWithServiceAddsField(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithService("sitepulse")
	l.SetOutput(&buf)

	l.WithField("k", "v").Info("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "sitepulse", entry["service"])
	require.Equal(t, "v", entry["k"])
}
