package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Tracks outbound calls to the Proxmox API.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "proxmox_api_requests_total",
			Help: "Total number of Proxmox API requests made (by method and status).",
		},
		[]string{"method", "status"},
	)

	// Measures duration of Proxmox API requests.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "proxmox_api_request_duration_seconds",
			Help:    "Duration of Proxmox API requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms → ~16s
		},
		[]string{"method"},
	)
)

func IncRequest(method, status string) {
	RequestsTotal.WithLabelValues(method, status).Inc()
}

func ObserveRequest(method string, elapsed time.Duration) {
	RequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// StartServer exposes /metrics on addr in the background. Long-running
// consumers opt in; the library never starts it on its own.
func StartServer(addr string) {
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		http.ListenAndServe(addr, nil) //nolint:errcheck
	}()
}
