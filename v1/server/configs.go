package server

import (
	"net"
	"strconv"
	"time"
)

// Config holds the HTTP listener settings.
type Config struct {
	// Host is the bind address. Defaults to 0.0.0.0.
	Host string `mapstructure:"host"`

	// Port is the TCP port. Defaults to 8000.
	Port int `mapstructure:"port" validate:"gte=0,lte=65535"`

	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// LambdaRuntime is set when the process runs inside the AWS Lambda runtime.
	// No listener is opened; lambda.Start drives the router instead.
	LambdaRuntime bool `mapstructure:"-"`
}

const (
	defaultHost            = "0.0.0.0"
	defaultPort            = 8000
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 60 * time.Second
	defaultIdleTimeout     = 120 * time.Second
	defaultRequestTimeout  = 55 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

// applyDefaults fills zero values. It is idempotent.
func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = defaultHost
	}
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = defaultReadTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = defaultWriteTimeout
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = defaultIdleTimeout
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = defaultRequestTimeout
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = defaultShutdownTimeout
	}
}

// Addr is the host:port the listener binds.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
