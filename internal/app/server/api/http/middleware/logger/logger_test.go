package logger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func TestLogger_Middleware(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{"success", http.StatusOK, "INFO"},
		{"client error", http.StatusNotFound, "WARN"},
		{"server error", http.StatusInternalServerError, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := slog.New(slog.NewJSONHandler(&buf, nil))
			mw := New(log).Middleware()

			req := httptest.NewRequest(http.MethodGet, "/api/v1/themes", nil)
			ctx := humatest.NewContext(&huma.Operation{OperationID: "themes-list"}, req, httptest.NewRecorder())

			mw(ctx, func(next huma.Context) {
				next.SetStatus(tt.status)
			})

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, "/api/v1/themes", entry["path"])
			assert.Equal(t, "themes-list", entry["operation"])
			assert.Equal(t, float64(tt.status), entry["status"])
		})
	}
}
