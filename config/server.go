package config

import (
	"fmt"
	"net"
)

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Address string `json:"address"`
	// ReadTimeoutSeconds bounds reading a request, headers included.
	ReadTimeoutSeconds int `json:"read_timeout_seconds"`
	// AuthToken protects /api/v1 with a bearer token when set.
	AuthToken string `json:"auth_token"`
}

// SetDefaults applies fallback values for optional fields.
func (c *ServerConfig) SetDefaults() {
	if c.Address == "" {
		c.Address = ":8080"
	}
	if c.ReadTimeoutSeconds <= 0 {
		c.ReadTimeoutSeconds = 10
	}
}

// Validate checks the listen address.
func (c ServerConfig) Validate() error {
	if _, _, err := net.SplitHostPort(c.Address); err != nil {
		return fmt.Errorf("server address %q: %w", c.Address, err)
	}
	return nil
}
