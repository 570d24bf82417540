// Package mongo is the MongoDB backend: a connection.Dialer built on the
// official driver and a catalog.Store over the "products" collection.
//
// Dial tuning comes from connection.Options; the driver's server selection
// timeout bounds the initial ping, so a cold serverless instance fails fast.
package mongo
