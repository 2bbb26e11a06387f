package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevelFromString(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"chatty":  slog.LevelInfo,
	}
	for in, want := range tests {
		require.Equal(t, want, LevelFromString(in), in)
	}
}

func TestNew_Formats(t *testing.T) {
	var text, js bytes.Buffer
	New(&text, slog.LevelInfo, "text").Info("registry built", "files", 3)
	New(&js, slog.LevelInfo, "json").Info("registry built", "files", 3)

	require.Contains(t, text.String(), "msg=\"registry built\"")
	require.True(t, strings.HasPrefix(js.String(), "{"), js.String())
	require.Contains(t, js.String(), `"files":3`)
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, slog.LevelWarn, "text")
	l.Info("hidden")
	l.Warn("shown")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")
}

func TestFromConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "keysync.log")
	l, closer, err := FromConfig(Config{Level: "debug", Format: "json", File: path})
	require.NoError(t, err)
	l.Debug("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"msg":"hello"`)
}

func TestFromConfig_Stderr(t *testing.T) {
	l, closer, err := FromConfig(DefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, l)
	require.NoError(t, closer.Close())
}

func TestFromConfig_UnknownFormat(t *testing.T) {
	_, _, err := FromConfig(Config{Format: "xml"})
	require.Error(t, err)
}
