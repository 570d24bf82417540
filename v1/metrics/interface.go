package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Aleph-Alpha/storefront/v1/connection"
)

// MetricsCollector abstracts the storefront's metric operations.
//
// This interface is implemented by the concrete *Metrics type.
type MetricsCollector interface {
	connection.Observer

	// RecordRequest counts a finished HTTP request and observes its duration.
	RecordRequest(method, route string, status int, start time.Time)

	// ObserveStage records the duration and result of a startup stage.
	ObserveStage(stage string, duration time.Duration, err error)

	// IncrementGateRejections counts a request refused by the request gate.
	IncrementGateRejections()

	// CreateCounter creates a new CounterVec metric and registers it.
	CreateCounter(name, help string, labels []string) *prometheus.CounterVec

	// CreateHistogram creates a new HistogramVec metric and registers it.
	CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec

	// CreateGauge creates a new GaugeVec metric and registers it.
	CreateGauge(name, help string, labels []string) *prometheus.GaugeVec
}

var _ MetricsCollector = (*Metrics)(nil)
