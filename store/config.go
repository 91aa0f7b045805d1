package store

import "github.com/google/uuid"

// Config holds configuration for the Store.
type Config struct {
	// IDGenerator returns a fresh record id for create operations.
	// Default: random UUIDv4 strings.
	IDGenerator func() string

	// Registry declares the relationships cascades follow.
	// Default: DefaultRegistry()
	Registry *Registry
}

// DefaultConfig returns the configuration used by the API server.
func DefaultConfig() Config {
	return Config{
		IDGenerator: uuid.NewString,
		Registry:    DefaultRegistry(),
	}
}

// validate fills in missing fields with defaults.
func (c *Config) validate() {
	if c.IDGenerator == nil {
		c.IDGenerator = uuid.NewString
	}
	if c.Registry == nil {
		c.Registry = DefaultRegistry()
	}
}
