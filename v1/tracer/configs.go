package tracer

// Config controls the OpenTelemetry tracer provider.
type Config struct {
	// ServiceName is recorded as the service.name resource attribute.
	ServiceName string `mapstructure:"service_name"`

	// AppEnv is recorded as deployment.environment, e.g. "production".
	AppEnv string `mapstructure:"app_env"`

	// EnableExport sends spans to an OTLP/HTTP collector. The endpoint is
	// taken from EndpointURL or the standard OTEL_EXPORTER_OTLP_* variables.
	EnableExport bool `mapstructure:"enable_export"`

	// EndpointURL overrides the collector URL, e.g. "http://otel:4318/v1/traces".
	EndpointURL string `mapstructure:"endpoint_url"`
}
