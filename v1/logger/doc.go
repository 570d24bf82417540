// Package logger provides structured logging backed by Uber's zap.
//
// Every package in this module logs through the Logger interface, so the
// same fields, levels and encoding apply to the connection manager, the
// startup orchestrator, the request gate and the HTTP layer alike.
//
// # Architecture
//
// This package follows the "accept interfaces, return structs" design pattern:
//   - Logger interface: the contract every other package depends on
//   - LoggerClient struct: the zap-backed implementation
//   - NewLoggerClient constructor: returns *LoggerClient (concrete type)
//   - FX module: provides both *LoggerClient and the Logger interface
//
// Core Features:
//   - Structured logging with field maps merged left to right
//   - An optional error argument attached as the "error" field
//   - JSON output with ISO8601 timestamps for log collectors
//   - Console encoder with colored levels for local development
//   - "pid" and "service" fields on every entry
//   - Buffered entries flushed on fx shutdown
//
// # Direct Usage (Without FX)
//
// For simple programs or tests, create a logger directly:
//
//	import "github.com/Aleph-Alpha/storefront/v1/logger"
//
//	log := logger.NewLoggerClient(logger.Config{
//		Level:       logger.Info,
//		ServiceName: "storefront",
//	})
//
//	log.Info("Server ready", nil, map[string]interface{}{
//		"port": 8000,
//		"mode": "traditional",
//	})
//
//	// The error is attached to the entry; fields may be nil.
//	log.Error("Index sync failed", err, nil)
//
// Tests that do not care about output use NewNopLogger:
//
//	m := connection.NewManager(dialer, uri, opts, logger.NewNopLogger())
//
// # FX Module Integration
//
// Include FXModule and supply a logger.Config. The config package's
// ProvideSections does this for the whole application:
//
//	app := fx.New(
//		logger.FXModule, // Provides *LoggerClient and logger.Logger
//		fx.Supply(logger.Config{Level: logger.Debug, ServiceName: "storefront"}),
//		fx.Invoke(func(log logger.Logger) {
//			log.Info("Service started", nil)
//		}),
//	)
//	app.Run()
//
// fx's own events are routed through the same zap core with
// fxevent.ZapLogger{Logger: client.Zap}.
//
// # Field Maps
//
// Any number of field maps may be passed. Later maps override keys of
// earlier ones, which lets a caller add request-specific fields on top of a
// shared base map:
//
//	base := map[string]interface{}{"stage": "seed"}
//	log.Info("Stage finished", nil, base, map[string]interface{}{"duration_ms": 42})
//
// # Logging Levels
//
//	log.Debug("Startup stage begin", nil, nil) // only with Level debug
//	log.Info("Catalog indexed", nil, nil)
//	log.Warn("Vector search failed, using keyword fallback", err, nil)
//	log.Error("Seeding failed", err, nil)
//	log.Fatal("Unrecoverable", err, nil)       // exits the process
//
// Level accepts debug, info, warning (or warn) and error. Unknown values
// fall back to info.
//
// # Configuration
//
// The application reads these environment variables:
//
//	LOG_LEVEL=debug          # debug, info, warning, error
//	SERVICE_NAME=storefront  # value of the "service" field
//	NODE_ENV=production      # JSON output; anything else selects the console encoder
//
// # Thread Safety
//
// All methods of LoggerClient are safe for concurrent use.
package logger
