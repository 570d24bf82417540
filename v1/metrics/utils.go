package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Aleph-Alpha/storefront/v1/connection"
)

var allStates = []connection.State{
	connection.Disconnected,
	connection.Connecting,
	connection.Connected,
	connection.Failed,
}

// ObserveTransition counts the transition and moves the state gauge.
func (m *Metrics) ObserveTransition(from, to connection.State) {
	m.transitionsTotal.WithLabelValues(from.String(), to.String()).Inc()
	for _, s := range allStates {
		v := 0.0
		if s == to {
			v = 1
		}
		m.connectionState.WithLabelValues(s.String()).Set(v)
	}
}

// ObserveDial records the duration of a connect attempt.
func (m *Metrics) ObserveDial(duration time.Duration, err error) {
	m.dialDuration.WithLabelValues(result(err)).Observe(duration.Seconds())
}

// RecordRequest counts a finished HTTP request and observes its duration.
// Example: defer m.RecordRequest(r.Method, "/api/products", ww.Status(), time.Now())
func (m *Metrics) RecordRequest(method, route string, status int, start time.Time) {
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
}

// ObserveStage records a startup stage.
func (m *Metrics) ObserveStage(stage string, duration time.Duration, err error) {
	m.startupStage.WithLabelValues(stage, result(err)).Observe(duration.Seconds())
}

// IncrementGateRejections counts a 503 from the request gate.
func (m *Metrics) IncrementGateRejections() {
	m.gateRejections.Inc()
}

// CreateCounter creates a new CounterVec metric and registers it.
func (m *Metrics) CreateCounter(name, help string, labels []string) *prometheus.CounterVec {
	counter := createCounterVec(m.namespace, name, help, labels)
	m.registerer.MustRegister(counter)
	return counter
}

// CreateHistogram creates a new HistogramVec metric and registers it.
func (m *Metrics) CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	hist := createHistogramVec(m.namespace, name, help, labels, buckets)
	m.registerer.MustRegister(hist)
	return hist
}

// CreateGauge creates a new GaugeVec metric and registers it.
func (m *Metrics) CreateGauge(name, help string, labels []string) *prometheus.GaugeVec {
	gauge := createGaugeVec(m.namespace, name, help, labels)
	m.registerer.MustRegister(gauge)
	return gauge
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func createCounterVec(namespace, name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		},
		labels,
	)
}

func createHistogramVec(namespace, name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
			Buckets:   buckets,
		},
		labels,
	)
}

func createGaugeVec(namespace, name, help string, labels []string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		},
		labels,
	)
}
