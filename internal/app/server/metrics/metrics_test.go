package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func value(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()
	var out dto.Metric
	require.NoError(t, m.Write(&out))
	if out.Counter != nil {
		return out.Counter.GetValue()
	}
	return out.GetGauge().GetValue()
}

func TestRecordRequest(t *testing.T) {
	counter := RequestsTotal.WithLabelValues("sources-list", "GET", "200")
	before := value(t, counter)

	RecordRequest("sources-list", "GET", 200, 0.01)
	RecordRequest("sources-list", "GET", 200, 0.02)

	assert.Equal(t, before+2, value(t, counter))
}

func TestCountersAndGauge(t *testing.T) {
	ingested := value(t, ArticlesIngested)
	RecordIngested(5)
	assert.Equal(t, ingested+5, value(t, ArticlesIngested))

	expired := value(t, SessionsExpired)
	RecordExpiredSessions(2)
	assert.Equal(t, expired+2, value(t, SessionsExpired))

	SetDatabaseUp(true)
	assert.Equal(t, float64(1), value(t, DatabaseUp))
	SetDatabaseUp(false)
	assert.Equal(t, float64(0), value(t, DatabaseUp))
}
