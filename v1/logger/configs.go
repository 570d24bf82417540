package logger

const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

// Config controls how the zap logger is built.
type Config struct {
	// Level is one of debug, info, warning, error. Unknown values fall back to info.
	Level string `mapstructure:"level" validate:"omitempty,oneof=debug info warning warn error"`

	// ServiceName is attached to every entry as the "service" field.
	ServiceName string `mapstructure:"service_name"`

	// Development switches to a human readable console encoder.
	// Production deployments keep JSON output.
	Development bool `mapstructure:"development"`
}
