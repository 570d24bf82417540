// Package config loads the process configuration from environment variables
// and an optional .env file with viper, resolves the execution mode once and
// validates the result.
//
// The database URI is read from MONGO_URI, or DATABASE_URI when MONGO_URI is
// unset. Its scheme selects the backend: mongodb:// and mongodb+srv:// use
// MongoDB, postgres:// and postgresql:// use PostgreSQL.
//
// Durations accept Go syntax ("30s") or bare milliseconds ("30000").
package config
