package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogLogger_TextLevels(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlogLoggerTo(&buf, true, slog.LevelDebug)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)

	tests := []struct {
		level string
		msg   string
		attr  string
	}{
		{"DEBUG", "dbg", "a=1"},
		{"INFO", "inf", "b=2"},
		{"WARN", "wrn", "c=3"},
		{"ERROR", "err", "d=4"},
	}
	for i, tc := range tests {
		assert.Contains(t, lines[i], "level="+tc.level)
		assert.Contains(t, lines[i], "msg="+tc.msg)
		assert.Contains(t, lines[i], tc.attr)
	}
}

func TestSlogLogger_JSONWithModule(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlogLoggerTo(&buf, false, slog.LevelInfo).With("module", "grpc_server")

	log.Info(context.Background(), "account created", "user_id", "u1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "account created", entry["msg"])
	assert.Equal(t, "grpc_server", entry["module"])
	assert.Equal(t, "u1", entry["user_id"])
}

func TestSlogLogger_DropsBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlogLoggerTo(&buf, true, slog.LevelWarn)
	ctx := context.Background()

	log.Debug(ctx, "quiet")
	log.Info(ctx, "quiet")
	assert.Empty(t, buf.String())

	log.Warn(ctx, "loud")
	assert.Contains(t, buf.String(), "msg=loud")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"debug", slog.LevelDebug, false},
		{"WARN", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
