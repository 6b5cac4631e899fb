// SPDX-License-Identifier: MIT

package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLevels(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{"error", []string{"ERROR"}, []string{"WARN", "INFO", "DEBUG"}},
		{"warn", []string{"ERROR", "WARN"}, []string{"INFO", "DEBUG"}},
		{"info", []string{"ERROR", "WARN", "INFO"}, []string{"DEBUG"}},
		{"debug", []string{"ERROR", "WARN", "INFO", "DEBUG"}, nil},
	}
	for _, tc := range tests {
		t.Run(tc.level, func(t *testing.T) {
			path := filepath.Join(dir, tc.level+".log")
			fc := DefaultFileConfig(path)
			fc.Compress = false
			require.NoError(t, InitWithFileConfig(tc.level, fc, false))

			l := Named("test")
			l.Debug("debug message")
			l.Info("info message")
			l.Warn("warn message")
			l.Error("error message")
			Sync()

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			out := string(data)
			for _, s := range tc.expected {
				assert.Contains(t, out, `"level":"`+s+`"`)
			}
			for _, s := range tc.excluded {
				assert.NotContains(t, out, `"level":"`+s+`"`)
			}
			assert.Contains(t, out, `"logger":"test"`)
		})
	}
}

func TestConsoleCore(t *testing.T) {
	var buf bytes.Buffer
	prev := console
	console = &buf
	t.Cleanup(func() { console = prev })

	require.NoError(t, Init("info", ""))
	Log.Info("solved", zap.Int("iterations", 7))
	Sugar.Debugf("hidden %d", 1)
	Sync()

	out := buf.String()
	assert.Contains(t, out, "solved")
	assert.Contains(t, out, "iterations")
	assert.False(t, strings.Contains(out, "hidden"))
}

func TestNoCores(t *testing.T) {
	require.NoError(t, InitWithFileConfig("info", FileConfig{}, false))
	assert.NotPanics(t, func() { Log.Info("dropped") })
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]zapcore.Level{
		"":        zapcore.InfoLevel,
		"DEBUG":   zapcore.DebugLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
	assert.Error(t, Init("verbose", ""))
}

func TestDefaultFileConfig(t *testing.T) {
	fc := DefaultFileConfig("/tmp/unfold.log")
	assert.Equal(t, "/tmp/unfold.log", fc.Path)
	assert.Equal(t, 20, fc.MaxSizeMB)
	assert.Equal(t, 3, fc.MaxBackups)
	assert.Equal(t, 14, fc.MaxAgeDays)
	assert.True(t, fc.Compress)
}
