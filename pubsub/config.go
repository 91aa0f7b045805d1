package pubsub

// Config holds configuration for the Bus.
type Config struct {
	// Buffer is the capacity of each subscription's Events channel.
	// Pending messages beyond it wait in the subscription's unbounded queue.
	// Default: 16. Zero makes the channel unbuffered.
	Buffer int
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{Buffer: 16}
}

// validate clamps invalid values.
func (c *Config) validate() {
	if c.Buffer < 0 {
		c.Buffer = 0
	}
}
