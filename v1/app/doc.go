// Package app composes the storefront from its fx modules.
//
// New builds the server application. Its start hook runs the lifecycle
// strategy's Prepare: in traditional mode that is the full startup pass, and
// a connection failure makes Start return an error before any listener
// opens. In serverless mode Start only builds the graph; the request gate
// connects on demand.
//
//	cfg, err := config.Load("")
//	if err != nil {
//		return err
//	}
//	application := app.New(cfg)
//	if err := application.Start(ctx); err != nil {
//		return err // traditional: database unreachable
//	}
//
// Seed and Sync run a single stage against the configured database for
// operational use.
package app
