// Package metrics exposes lock manager, ledger and HTTP activity in Prometheus format.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus implements ports.LockMetrics and ports.LedgerMetrics. Metrics live in a
// dedicated registry so tests and multiple instances never collide on the global one.
type Prometheus struct {
	registry *prometheus.Registry

	claims       *prometheus.CounterVec
	skips        *prometheus.CounterVec
	conflicts    *prometheus.CounterVec
	releases     *prometheus.CounterVec
	reclaimed    prometheus.Counter
	reservations *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewPrometheus creates the collectors under namespace and registers them.
func NewPrometheus(namespace string) *Prometheus {
	reg := prometheus.NewRegistry()

	p := &Prometheus{
		registry: reg,
		claims: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wallet_claims_total",
			Help:      "Wallets locked by acquire batch, by workload.",
		}, []string{"workload"}),
		skips: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "request_skips_total",
			Help:      "Eligible requests left out of a batch, by workload and reason.",
		}, []string{"workload", "reason"}),
		conflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "serialization_conflicts_total",
			Help:      "Store transactions aborted by serialization conflicts, by operation.",
		}, []string{"operation"}),
		releases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wallet_releases_total",
			Help:      "Wallet releases applied, by outcome.",
		}, []string{"outcome"}),
		reclaimed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_locks_reclaimed_total",
			Help:      "Wallet locks reclaimed after exceeding the maximum lock age.",
		}),
		reservations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "credit_reservations_total",
			Help:      "Credit reservations, by result.",
		}, []string{"result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}, []string{"route"}),
	}

	reg.MustRegister(
		p.claims,
		p.skips,
		p.conflicts,
		p.releases,
		p.reclaimed,
		p.reservations,
		p.httpRequests,
		p.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return p
}

// Registry returns the registry backing this collector.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

func (p *Prometheus) ObserveClaims(workload string, n int) {
	p.claims.WithLabelValues(workload).Add(float64(n))
}

func (p *Prometheus) ObserveSkip(workload string, reason string) {
	p.skips.WithLabelValues(workload, reason).Inc()
}

func (p *Prometheus) ObserveConflict(operation string) {
	p.conflicts.WithLabelValues(operation).Inc()
}

func (p *Prometheus) ObserveReclaimed(n int) {
	p.reclaimed.Add(float64(n))
}

func (p *Prometheus) ObserveRelease(kind string) {
	p.releases.WithLabelValues(kind).Inc()
}

func (p *Prometheus) ObserveReservation(result string) {
	p.reservations.WithLabelValues(result).Inc()
}

// ObserveHTTP records one served request.
func (p *Prometheus) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	p.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.httpDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus text exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
