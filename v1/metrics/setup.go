package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns an isolated Prometheus registry and the storefront's
// built-in collectors.
type Metrics struct {
	// Server exposes /metrics on a dedicated address; nil when Config.Address is empty.
	Server *http.Server

	// Registry is the isolated registry all metrics are gathered from.
	Registry *prometheus.Registry

	registerer prometheus.Registerer
	namespace  string
	handler    http.Handler

	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	connectionState  *prometheus.GaugeVec
	transitionsTotal *prometheus.CounterVec
	dialDuration     *prometheus.HistogramVec
	startupStage     *prometheus.HistogramVec
	gateRejections   prometheus.Counter
}

// NewMetrics builds the registry, wraps it with the constant service label
// and registers the built-in metrics.
func NewMetrics(cfg Config) *Metrics {
	registry := prometheus.NewRegistry()

	// All metrics carry service="<cfg.ServiceName>".
	wrapped := prometheus.WrapRegistererWith(
		prometheus.Labels{"service": cfg.ServiceName},
		registry,
	)

	m := &Metrics{
		Registry:   registry,
		registerer: wrapped,
		namespace:  cfg.Namespace,
	}

	m.requestsTotal = createCounterVec(cfg.Namespace, "http_requests_total", "Total number of processed HTTP requests", []string{"method", "route", "status"})
	m.requestDuration = createHistogramVec(cfg.Namespace, "http_request_duration_seconds", "Duration of HTTP requests in seconds", []string{"route"}, prometheus.DefBuckets)
	m.connectionState = createGaugeVec(cfg.Namespace, "db_connection_state", "1 for the current database connection state, 0 otherwise", []string{"state"})
	m.transitionsTotal = createCounterVec(cfg.Namespace, "db_connection_transitions_total", "Database connection state transitions", []string{"from", "to"})
	m.dialDuration = createHistogramVec(cfg.Namespace, "db_dial_duration_seconds", "Duration of database connect attempts", []string{"result"}, dialBuckets)
	m.startupStage = createHistogramVec(cfg.Namespace, "startup_stage_duration_seconds", "Duration of startup stages", []string{"stage", "result"}, dialBuckets)
	m.gateRejections = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Name:      "gate_rejections_total",
		Help:      "Requests rejected with 503 because the database was unreachable",
	})

	wrapped.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.connectionState,
		m.transitionsTotal,
		m.dialDuration,
		m.startupStage,
		m.gateRejections,
	)

	if cfg.EnableDefaultCollectors {
		wrapped.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})

	if cfg.Address != "" {
		m.Server = &http.Server{
			Addr:    cfg.Address,
			Handler: m.handler,
		}
	}
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return m.handler
}

// dialBuckets spans serverless (sub-second) to traditional (30s) timeouts.
var dialBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}
