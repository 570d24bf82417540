// Package connection owns the lifecycle of the single database connection a
// process uses.
//
// The Manager is a small state machine:
//
//	Disconnected -> Connecting -> Connected
//	                Connecting -> Failed -> Connecting (next caller retries)
//
// EnsureConnected is idempotent and safe for concurrent use. Concurrent callers
// that arrive while a dial is in flight are coalesced onto that dial and all
// observe its outcome. Failed is not sticky: the next caller starts a fresh
// attempt. Nothing retries automatically.
//
// Dial tuning depends on the execution mode (see TuningFor): Serverless keeps a
// single pooled session with short selection timeouts; Traditional uses a larger
// pool and longer timeouts.
//
// The Dialer is chosen by URI scheme through SchemeRouter, so the same Manager
// drives MongoDB (v1/mongo) and PostgreSQL (v1/postgres) backends.
package connection
