package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn", "json")
	log.Info("dropped")
	log.Warn("kept", "component", "index")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "kept", record["msg"])
	assert.Equal(t, "index", record["component"])
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"Warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.name)
		assert.Equal(t, tt.want, got, tt.name)
		assert.Equal(t, tt.wantErr, err != nil, tt.name)
	}
}

func TestNewTextFormat(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "debug", "text").Debug("document added", "doc_id", 3)
	assert.Contains(t, buf.String(), "doc_id=3")
}

func TestSetupAndWithComponent(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	Setup(&buf, "info", "text")
	WithComponent("memory-index").Info("ready")
	assert.Contains(t, buf.String(), "component=memory-index")
}

func TestValidFormat(t *testing.T) {
	assert.True(t, ValidFormat("json"))
	assert.True(t, ValidFormat("text"))
	assert.False(t, ValidFormat("xml"))
}
