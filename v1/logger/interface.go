package logger

// Logger is the logging contract shared by every package in this module.
//
// Each method accepts an optional error and any number of field maps. Later maps
// override keys from earlier ones.
type Logger interface {
	Debug(msg string, err error, fields ...map[string]interface{})
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
	Fatal(msg string, err error, fields ...map[string]interface{})
}

var _ Logger = (*LoggerClient)(nil)
