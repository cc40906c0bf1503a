package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveCheck("failure", 120)
	m.ObserveCheck("failure", 80)
	m.ObserveCheck("success", 10)
	m.IncIncidentsOpened()
	m.ObserveCycle("completed", time.Second, 2)
	m.ObserveDelivery("slack", errors.New("boom"))
	m.ObserveDelivery("slack", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.checksTotal.WithLabelValues("failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.incidentsOpened))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.sitesSkipped))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.alertDeliveries.WithLabelValues("slack", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.alertDeliveries.WithLabelValues("slack", "ok")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveCheck("success", 1)
	m.IncIncidentsOpened()
	m.ObserveCycle("busy", 0, 0)
	m.ObserveDelivery("email", nil)
}

func TestHandlerServesRegistry(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.IncIncidentsOpened()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "sitepulse_incidents_opened_total 1"))
}
