package log_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/macropad/internal/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"trace", log.LevelTrace},
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, log.ParseLevel(tt.in))
		})
	}
}

func TestRawLogger(t *testing.T) {
	var buf bytes.Buffer
	r := log.NewRaw(&buf)
	r.Log(true, []byte{0x01, 0xab})
	r.Log(false, nil)
	r.Log(false, []byte{0xff})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], "HOST->PAD 2 bytes: 01 ab"))
	assert.True(t, strings.HasSuffix(lines[1], "PAD->HOST 1 bytes: ff"))

	log.NewRaw(nil).Log(true, []byte{1})
}

func TestSetupLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pad.log")
	logger, closers, err := log.SetupLogger(log.Options{Level: "debug", File: path, NoConsole: true})
	require.NoError(t, err)
	logger.Debug("boot", "slots", 3)
	logger.Log(context.Background(), log.LevelTrace, "hidden")
	for _, c := range closers {
		require.NoError(t, c.Close())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=boot slots=3")
	assert.NotContains(t, string(data), "hidden")
}

func TestSetupLoggerConsoleWriter(t *testing.T) {
	var console bytes.Buffer
	logger, _, err := log.SetupLogger(log.Options{Level: "info", Console: &console})
	require.NoError(t, err)
	logger.Info("listening", "addr", "localhost:3243")
	logger.Debug("quiet")

	assert.Contains(t, console.String(), "msg=listening addr=localhost:3243")
	assert.NotContains(t, console.String(), "quiet")
}
