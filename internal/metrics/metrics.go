// Package metrics holds the Prometheus collectors for parse activity.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/beetlebugorg/citygml/internal/model"
)

var (
	DocumentsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "citygml_documents_total",
		Help: "Total number of documents parsed successfully",
	})
	FailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "citygml_parse_failures_total",
		Help: "Total number of documents that failed to parse",
	})
	IssuesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "citygml_issues_total",
		Help: "Recovered parse issues by kind",
	}, []string{"kind"})
	ObjectsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "citygml_objects_total",
		Help: "City objects read by kind",
	}, []string{"kind"})
	ParseDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "citygml_parse_duration_ms",
		Help:    "Document parse duration in milliseconds",
		Buckets: []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
	})
	IndexedObjects = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "citygml_indexed_objects",
		Help: "City objects currently held by the spatial index",
	})
)

func init() {
	prometheus.MustRegister(DocumentsTotal)
	prometheus.MustRegister(FailuresTotal)
	prometheus.MustRegister(IssuesTotal)
	prometheus.MustRegister(ObjectsTotal)
	prometheus.MustRegister(ParseDurationMs)
	prometheus.MustRegister(IndexedObjects)
}

// ObserveParse records the outcome of one parse.
func ObserveParse(m *model.CityModel, elapsed time.Duration, err error) {
	ParseDurationMs.Observe(float64(elapsed.Milliseconds()))
	if err != nil || m == nil {
		FailuresTotal.Inc()
		return
	}
	DocumentsTotal.Inc()
	for _, issue := range m.Diagnostics.Issues() {
		IssuesTotal.WithLabelValues(issue.Kind.String()).Inc()
	}
	for _, obj := range m.AllObjects() {
		ObjectsTotal.WithLabelValues(obj.Kind.String()).Inc()
	}
}

// Handler exposes the registered collectors for scraping.
func Handler() http.Handler { return promhttp.Handler() }
