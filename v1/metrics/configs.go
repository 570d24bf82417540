package metrics

// Config defines how metrics are collected and exposed.
type Config struct {
	// Address starts a dedicated metrics HTTP server when set, e.g. ":9090".
	// When empty, metrics are only served by the application router at /metrics.
	Address string `mapstructure:"address"`

	// EnableDefaultCollectors registers the Go runtime, process and build
	// info collectors.
	EnableDefaultCollectors bool `mapstructure:"enable_default_collectors"`

	// Namespace prefixes every metric name, e.g. "storefront".
	Namespace string `mapstructure:"namespace"`

	// ServiceName is attached to every metric as the constant label service.
	ServiceName string `mapstructure:"service_name"`
}
