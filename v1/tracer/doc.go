// Package tracer provides distributed tracing using OpenTelemetry.
//
// Basic Usage:
//
//	t, err := tracer.NewClient(tracer.Config{
//		ServiceName:  "storefront",
//		AppEnv:       "production",
//		EnableExport: true,
//	}, log)
//
//	ctx, span := t.StartSpan(ctx, "startup.connect")
//	defer span.End()
//	if err != nil {
//		t.RecordErrorOnSpan(span, err)
//	}
//
// Incoming HTTP requests are traced with Middleware, which continues any
// W3C traceparent header. GetCarrier and SetCarrierOnContext move trace
// context across other boundaries.
//
// Export is off by default; spans are then recorded but dropped.
package tracer
