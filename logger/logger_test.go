package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"TRACE", LevelTrace, false},
		{"debug", LevelDebug, false},
		{" Info ", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"WARN", LevelWarn, false},
		{"error", LevelError, false},
		{"FATAL", LevelFatal, false},
		{"chatty", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultLogger_ConsoleLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewLogger("test", WithConsoleWriter(&buf), WithConsoleLevel(LevelInfo))
	require.NoError(t, err)

	l.Trace("hidden %d", 1)
	l.Debug("hidden %d", 2)
	l.Info("shown %d", 3)
	l.Warn("shown %d", 4)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[INFO] test | shown 3")
	assert.Contains(t, out, "[WARN] test | shown 4")
}

func TestDefaultLogger_FileSinkHasOwnLevel(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "log", "tarkash.log")

	l, err := NewLogger("test",
		WithConsoleWriter(&console),
		WithConsoleLevel(LevelError),
		WithFile(path, LevelDebug),
	)
	require.NoError(t, err)

	l.Debug("to file only")
	l.Trace("nowhere")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file only")
	assert.NotContains(t, string(data), "nowhere")
	assert.Empty(t, console.String())

	lvl, ok := l.FileLevel()
	assert.False(t, ok, "file sink is dropped on close")
	assert.Equal(t, Level(0), lvl)
}

func TestDefaultLogger_Disabled(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewLogger("test", WithConsoleWriter(&buf))
	require.NoError(t, err)

	LoggerEnabled = false
	defer func() { LoggerEnabled = true }()

	l.Error("silenced")
	assert.Equal(t, "", strings.TrimSpace(buf.String()))
}
