package server

import (
	"fmt"
	"time"
)

// Config holds server configuration.
type Config struct {
	// Server settings
	Host string
	Port int

	// CORS settings
	CORSEnabled bool
	CORSOrigins []string

	// RateLimit is requests per minute per IP (0 to disable)
	RateLimit int

	// HTTP timeouts
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:           "localhost",
		Port:           8080,
		CORSEnabled:    false,
		CORSOrigins:    []string{},
		RateLimit:      0,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    120 * time.Second,
		RequestTimeout: 60 * time.Second,
	}
}

// Addr returns the host:port listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
