// Package metrics exposes Prometheus metrics for the storefront.
//
// Each process owns an isolated registry; every metric carries the constant
// label service="<ServiceName>". Nothing is registered on the global
// Prometheus registry, so tests can build as many Metrics values as they
// like.
//
// # Architecture
//
// This package follows the "accept interfaces, return structs" design pattern:
//   - MetricsCollector interface: the storefront's metric operations
//   - Metrics struct: the concrete implementation
//   - NewMetrics constructor: returns *Metrics (concrete type)
//   - FX module: provides *Metrics, MetricsCollector and connection.Observer
//
// Core Features:
//   - Database connection lifecycle metrics fed by the connection manager
//   - Startup stage timings fed by the startup orchestrator
//   - Request gate rejections in serverless mode
//   - Per-route HTTP request counts and latencies
//   - Optional Go runtime, process and build info collectors
//   - Optional dedicated metrics listener managed by fx
//
// # Built-in Metrics
//
//	http_requests_total{method,route,status}
//	http_request_duration_seconds{route}
//	db_connection_state{state}                 one-hot gauge
//	db_connection_transitions_total{from,to}
//	db_dial_duration_seconds{result}
//	startup_stage_duration_seconds{stage,result}
//	gate_rejections_total
//
// Routes are recorded by their chi pattern (for example
// /api/products/{id}), never by the raw path, so label cardinality stays
// bounded.
//
// # Direct Usage (Without FX)
//
//	import "github.com/Aleph-Alpha/storefront/v1/metrics"
//
//	m := metrics.NewMetrics(metrics.Config{
//		ServiceName:             "storefront",
//		EnableDefaultCollectors: true,
//	})
//
//	manager := connection.NewManager(dialer, uri, opts, log).WithObserver(m)
//	orchestrator := startup.NewOrchestrator(manager, seeder, syncer, startupOpts, log).WithObserver(m)
//	g := gate.New(manager, log, gate.WithRejectionCounter(m))
//
//	mux.Handle("/metrics", m.Handler())
//
// # FX Module Integration
//
//	app := fx.New(
//		logger.FXModule,
//		metrics.FXModule, // Provides *Metrics, MetricsCollector and connection.Observer
//		fx.Supply(metrics.Config{ServiceName: "storefront"}),
//	)
//
// With no Address configured, the server package mounts Handler() at
// /metrics on the application router. Setting Address starts a dedicated
// listener on start and shuts it down on stop instead.
//
// # Custom Metrics
//
// Additional collectors go through the same wrapped registerer, so they carry
// the service label and the configured namespace:
//
//	orders := m.CreateCounter("orders_total", "Orders placed", []string{"status"})
//	orders.WithLabelValues("paid").Inc()
//
// # Configuration
//
//	METRICS_ADDRESS=:9090             # dedicated listener; empty serves /metrics on the router
//	METRICS_DEFAULT_COLLECTORS=true   # runtime, process and build info collectors
//	SERVICE_NAME=storefront           # value of the service label
//
// # Thread Safety
//
// All methods of Metrics are safe for concurrent use.
package metrics
