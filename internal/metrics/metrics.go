// Package metrics exports match and reload statistics in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder implements the matcher's MatchRecorder on a private registry so
// several instances can coexist in one process.
type Recorder struct {
	registry   *prometheus.Registry
	matches    *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	indexSize  prometheus.Gauge
	reloads    *prometheus.CounterVec
	lastReload prometheus.Gauge
}

// NewRecorder creates a Recorder with Go runtime and process collectors
// registered alongside the service metrics.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		matches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fundmatch_matches_total",
			Help: "Match requests by outcome",
		}, []string{"outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fundmatch_match_duration_seconds",
			Help:    "Latency of match requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"outcome"}),
		indexSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fundmatch_index_funds",
			Help: "Number of funds in the active index",
		}),
		reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fundmatch_catalog_reloads_total",
			Help: "Catalog reloads by status",
		}, []string{"status"}),
		lastReload: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fundmatch_catalog_last_reload_timestamp_seconds",
			Help: "Unix time of the last successful catalog reload",
		}),
	}

	r.registry.MustRegister(
		r.matches,
		r.latency,
		r.indexSize,
		r.reloads,
		r.lastReload,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveMatch records one match request.
func (r *Recorder) ObserveMatch(outcome string, d time.Duration) {
	r.matches.WithLabelValues(outcome).Inc()
	r.latency.WithLabelValues(outcome).Observe(d.Seconds())
}

// ObserveReload records one catalog reload. funds is the size of the new
// index and is ignored for failed reloads.
func (r *Recorder) ObserveReload(success bool, funds int) {
	if !success {
		r.reloads.WithLabelValues("error").Inc()
		return
	}
	r.reloads.WithLabelValues("success").Inc()
	r.indexSize.Set(float64(funds))
	r.lastReload.SetToCurrentTime()
}

// Registry returns the registry holding the recorder's collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{
		Registry: r.registry,
	})
}
