package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "signal_requests_total",
		Help: "Total HTTP requests by route and status code",
	}, []string{"route", "status"})
	RequestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "signal_request_duration_ms",
		Help:    "Request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	}, []string{"route"})
	LookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "signal_lookups_total",
		Help: "Lookup outcomes by operation (location, signal, search, summary)",
	}, []string{"op", "outcome"})
	DirectoryLocations = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "signal_directory_locations",
		Help: "Number of locations in the loaded directory",
	})
	QuarantinedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "signal_directory_quarantined_total",
		Help: "Snapshot entries rejected at load time",
	})
	DirectoryLoadFailTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "signal_directory_load_fail_total",
		Help: "Snapshot loads that degraded to an empty directory",
	})
	MissEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "signal_miss_events_total",
		Help: "Lookup-miss events by publish status",
	}, []string{"status"})
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDurationMs)
	prometheus.MustRegister(LookupsTotal)
	prometheus.MustRegister(DirectoryLocations)
	prometheus.MustRegister(QuarantinedTotal)
	prometheus.MustRegister(DirectoryLoadFailTotal)
	prometheus.MustRegister(MissEventsTotal)
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Lookup records a hit or miss for op.
func Lookup(op string, hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	LookupsTotal.WithLabelValues(op, outcome).Inc()
}
