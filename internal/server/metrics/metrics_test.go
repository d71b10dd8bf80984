package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	m.RecordRequest(http.MethodGet, "GET /health", http.StatusOK, 5*time.Millisecond)
	m.RecordRequest(http.MethodGet, "GET /health", http.StatusOK, time.Millisecond)
	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()
	m.RecordPass("session")
	m.RecordCatalogFetch(nil)
	m.RecordCatalogFetch(errors.New("down"))

	assert.InDelta(t, 2, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "GET /health", "200")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.sessionsActive), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.sessionsTotal), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.passesTotal.WithLabelValues("session")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.catalogFetches.WithLabelValues("error")), 0)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "flowsheet_editor_sessions_active 1")
}

func TestNilMetricsRecordNothing(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("GET", "/", 200, time.Second)
		m.SessionOpened()
		m.SessionClosed()
		m.RecordPass("preview")
		m.RecordCatalogFetch(nil)
	})
}
