package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, c.Write(m))
	return m.GetCounter().GetValue()
}

func TestPrometheus_LockMetrics(t *testing.T) {
	p := NewPrometheus("ewl")

	p.ObserveClaims("payment:SUBMIT_RESULT_REQUESTED", 3)
	p.ObserveClaims("payment:SUBMIT_RESULT_REQUESTED", 2)
	p.ObserveSkip("collateral", "wallet_busy")
	p.ObserveConflict("acquire_batch")
	p.ObserveReclaimed(4)
	p.ObserveRelease("CONFIRMED")

	assert.Equal(t, 5.0, counterValue(t, p.claims.WithLabelValues("payment:SUBMIT_RESULT_REQUESTED")))
	assert.Equal(t, 1.0, counterValue(t, p.skips.WithLabelValues("collateral", "wallet_busy")))
	assert.Equal(t, 1.0, counterValue(t, p.conflicts.WithLabelValues("acquire_batch")))
	assert.Equal(t, 4.0, counterValue(t, p.reclaimed))
	assert.Equal(t, 1.0, counterValue(t, p.releases.WithLabelValues("CONFIRMED")))
}

func TestPrometheus_LedgerMetrics(t *testing.T) {
	p := NewPrometheus("ewl")

	p.ObserveReservation("created")
	p.ObserveReservation("created")
	p.ObserveReservation("insufficient_funds")

	assert.Equal(t, 2.0, counterValue(t, p.reservations.WithLabelValues("created")))
	assert.Equal(t, 1.0, counterValue(t, p.reservations.WithLabelValues("insufficient_funds")))
}

func TestPrometheus_Handler(t *testing.T) {
	p := NewPrometheus("ewl")
	p.ObserveClaims("collateral", 1)
	p.ObserveHTTP(http.MethodGet, "/health", http.StatusOK, 3*time.Millisecond)

	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `ewl_wallet_claims_total{workload="collateral"} 1`)
	assert.Contains(t, string(body), `ewl_http_requests_total{method="GET",route="/health",status="200"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestPrometheus_SeparateRegistries(t *testing.T) {
	a := NewPrometheus("ewl")
	b := NewPrometheus("ewl")
	a.ObserveReclaimed(1)

	assert.NotSame(t, a.Registry(), b.Registry())
	assert.Equal(t, 0.0, counterValue(t, b.reclaimed))
}
