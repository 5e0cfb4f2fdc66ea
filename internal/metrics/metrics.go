package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Upload outcomes used as the "result" label.
const (
	ResultOK         = "ok"
	ResultValidation = "validation_error"
	ResultParse      = "parse_error"
	ResultTooLarge   = "too_large"
)

// Metrics bundles the pipeline collectors on a dedicated registry.
type Metrics struct {
	Registry *prometheus.Registry

	Uploads          *prometheus.CounterVec
	RowsIngested     prometheus.Counter
	ValuesImputed    *prometheus.CounterVec
	PipelineDuration prometheus.Histogram
	SessionsActive   prometheus.Gauge
}

// New registers every collector, plus Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		Uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "airq_uploads_total",
			Help: "Uploads processed, by outcome.",
		}, []string{"result"}),
		RowsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "airq_rows_ingested_total",
			Help: "Readings accepted by the pipeline.",
		}),
		ValuesImputed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "airq_values_imputed_total",
			Help: "Missing or unparseable values replaced by the column mean.",
		}, []string{"column"}),
		PipelineDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "airq_pipeline_duration_seconds",
			Help:    "Time spent in ingest, clean and summarize.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "airq_sessions_active",
			Help: "Live upload sessions.",
		}),
	}
	reg.MustRegister(
		m.Uploads, m.RowsIngested, m.ValuesImputed, m.PipelineDuration, m.SessionsActive,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveUpload records one finished pipeline run.
func (m *Metrics) ObserveUpload(result string, rows int, imputed map[string]int, took time.Duration) {
	m.Uploads.WithLabelValues(result).Inc()
	m.PipelineDuration.Observe(took.Seconds())
	if result != ResultOK {
		return
	}
	m.RowsIngested.Add(float64(rows))
	for col, n := range imputed {
		m.ValuesImputed.WithLabelValues(col).Add(float64(n))
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
