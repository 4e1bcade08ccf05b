package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"":       InfoLevel,
		"debug":  DebugLevel,
		" WARN ": WarnLevel,
		"error":  ErrorLevel,
	}
	for raw, want := range cases {
		got, err := ParseLevel(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := ParseLevel("verbose")
	assert.ErrorContains(t, err, `unknown level "verbose"`)
}

func TestNewLogrText(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogr(Config{Level: InfoLevel, Output: &buf})

	log.Info("generated", "record", "Data")
	log.V(1).Info("trace hidden")

	out := buf.String()
	assert.Contains(t, out, "generated")
	assert.Contains(t, out, "record=Data")
	assert.NotContains(t, out, "trace hidden")
}

func TestNewLogrDebugShowsVerbose(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogr(Config{Level: DebugLevel, Output: &buf})

	log.V(1).Info("directive", "field", "Field2")

	assert.Contains(t, buf.String(), "field=Field2")
}

func TestNewLogrJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogr(Config{Level: InfoLevel, Output: &buf, JSON: true})

	log.Info("wrote", "path", "data_podgen.go")

	line := strings.TrimSpace(buf.String())
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "wrote", entry["msg"])
	assert.Equal(t, "data_podgen.go", entry["path"])
}

func TestLogrNil(t *testing.T) {
	log := Logr(nil)
	log.Info("dropped")
	assert.Nil(t, log.GetSink())
}
