// Package gate provides the request gate used in serverless mode, where the
// database is connected on first use instead of at process start.
//
// Every wrapped request calls EnsureConnected. On failure the client gets
//
//	503 Service Unavailable
//	{"error":"Database connection failed"}
//
// without a Retry-After header and the downstream handler is not invoked.
// Because the connection manager does not make failure sticky, the next
// request issues a fresh attempt.
package gate
