package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"testing"

	"golang.org/x/exp/slog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithLevel_EnvDefaults(t *testing.T) {
	tests := []struct {
		name          string
		env           string
		expectedLevel slog.Level
	}{
		{
			name:          "local environment",
			env:           EnvLocal,
			expectedLevel: slog.LevelDebug,
		},
		{
			name:          "dev environment",
			env:           EnvDev,
			expectedLevel: slog.LevelDebug,
		},
		{
			name:          "prod environment",
			env:           EnvProd,
			expectedLevel: slog.LevelInfo,
		},
		{
			name:          "unknown environment falls back to info",
			env:           "staging",
			expectedLevel: slog.LevelInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewWithLevel(tt.env, "", io.Discard)
			require.NoError(t, err)
			ctx := context.Background()
			assert.Equal(t, tt.expectedLevel <= slog.LevelDebug, logger.Enabled(ctx, slog.LevelDebug))
			assert.True(t, logger.Enabled(ctx, slog.LevelInfo))
		})
	}
}

func TestSetupPrettySlogWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := setupPrettySlogWriter(&buf, slog.LevelDebug)
	require.NotNil(t, logger)

	ctx := context.Background()
	assert.True(t, logger.Enabled(ctx, slog.LevelDebug))

	logger.Debug("отладка")
	assert.Contains(t, buf.String(), "отладка")
}

func TestNewWithLevel(t *testing.T) {
	tests := []struct {
		name      string
		env       string
		level     string
		wantDebug bool
		wantWarn  bool
		wantErr   bool
	}{
		{name: "empty keeps env default", env: EnvProd, level: "", wantDebug: false, wantWarn: true},
		{name: "debug overrides prod", env: EnvProd, level: "debug", wantDebug: true, wantWarn: true},
		{name: "warn raises local", env: EnvLocal, level: "WARN", wantDebug: false, wantWarn: true},
		{name: "error hides warn", env: EnvDev, level: "error", wantDebug: false, wantWarn: false},
		{name: "unknown level", env: EnvProd, level: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log, err := NewWithLevel(tt.env, tt.level, &buf)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unknown log level")
				return
			}
			require.NoError(t, err)

			ctx := context.Background()
			assert.Equal(t, tt.wantDebug, log.Enabled(ctx, slog.LevelDebug))
			assert.Equal(t, tt.wantWarn, log.Enabled(ctx, slog.LevelWarn))
		})
	}
}

func TestNewWithLevel_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithLevel(EnvProd, "", &buf)
	require.NoError(t, err)

	log.Info("очередь обработана", "processed", 2)
	log.Debug("не должно попасть в вывод")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "очередь обработана", entry["msg"])
	assert.EqualValues(t, 2, entry["processed"])
}

func TestNewWithLevel_Pretty(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithLevel(EnvLocal, "", &buf)
	require.NoError(t, err)
	log = log.With("component", "sync")

	log.Warn("сеть недоступна")

	assert.Contains(t, buf.String(), "сеть недоступна")
	assert.Contains(t, buf.String(), "component")
}

func TestNewRotatingWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.log")
	w := NewRotatingWriter(path)
	defer w.Close()

	log, err := NewWithLevel(EnvDev, "", w)
	require.NoError(t, err)
	log.Info("запись в файл")

	assert.FileExists(t, path)
}
