package rpcnode

import (
	"fmt"
)

type Config struct {
	Host string
}

// NewConfig returns a Config for the given node endpoint.
func NewConfig(host string) *Config {
	return &Config{
		Host: host,
	}
}

// String returns a custom string representation.
func (c Config) String() string {
	return fmt.Sprintf("{Host:%v}", c.Host)
}
