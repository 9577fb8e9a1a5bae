package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serverMetrics "feedkeeper/internal/app/server/metrics"
)

func TestMiddleware_CountsByOperation(t *testing.T) {
	counter := serverMetrics.RequestsTotal.WithLabelValues("favorites-put", http.MethodPut, "204")
	read := func() float64 {
		var m dto.Metric
		require.NoError(t, counter.Write(&m))
		return m.GetCounter().GetValue()
	}
	before := read()

	req := httptest.NewRequest(http.MethodPut, "/api/v1/favorites/a1", nil)
	ctx := humatest.NewContext(&huma.Operation{OperationID: "favorites-put"}, req, httptest.NewRecorder())

	called := false
	Middleware()(ctx, func(next huma.Context) {
		called = true
		next.SetStatus(http.StatusNoContent)
	})

	assert.True(t, called)
	assert.Equal(t, before+1, read())
}
