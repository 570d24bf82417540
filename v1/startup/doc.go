// Package startup sequences the one-time work a process does before (or,
// in serverless mode, while) it serves traffic.
//
// The Orchestrator runs three stages strictly in order:
//
//  1. connect: connection.Manager.EnsureConnected. A failure is returned and
//     leaves the pass unspent, so the next trigger retries.
//  2. seed: the baseline catalog is written unless SkipSeed is set. ForceSeed
//     replaces a populated catalog; otherwise only an empty one is seeded.
//     Failures become a *SeedError in the Outcome and are not returned.
//  3. sync: the vector index is rebuilt from the catalog. Failures become a
//     *SyncError in the Outcome and are not returned.
//
// A completed pass is recorded and never repeated. Concurrent callers share
// the pass in progress.
//
// Two strategies decide when the pass runs:
//
//	Eager (traditional)  Prepare runs the pass before the listener opens;
//	                     a connect failure aborts the process.
//	Lazy  (serverless)   Prepare is a no-op; the request gate connects on
//	                     each cold request and triggers the pass in the
//	                     background after the first success.
package startup
