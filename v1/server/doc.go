// Package server is the HTTP surface of the storefront: a chi router with
// docs, health and business routes, a listener for traditional processes and
// an API Gateway v2 adapter for Lambda.
//
// The /api group is wrapped by the lifecycle strategy's middleware. In
// serverless mode that is the request gate, so a request reaches a business
// route only once the database connection is up. Documentation, health and
// metrics routes are never gated.
//
// Basic usage:
//
//	router := server.NewRouter(server.RouterDeps{
//		Gate:     strategy.Middleware,
//		Source:   manager,
//		Searcher: searcher,
//		Mode:     mode,
//		Logger:   log,
//	})
//	srv := server.NewServer(server.Config{Port: 8000}, router, log)
//	if err := srv.Listen(); err != nil {
//		return err
//	}
//	go srv.Serve()
//
// Under Lambda:
//
//	lambda.Start(server.NewLambdaHandler(router))
package server
