package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig mirrors Config for the environment overlay. Unset variables
// leave the current values untouched.
type envConfig struct {
	EndpointAddrHTTP string        `env:"ADDRESS"`
	DatabaseDSN      string        `env:"DATABASE_DSN"`
	SessionTimeout   time.Duration `env:"SESSION_TIMEOUT"`
}

// parseEnv overlays environment variables onto config. Malformed values
// panic, the same policy as the JSON overlay.
func parseEnv(config *Config) {
	c := envConfig{}
	if err := env.Parse(&c); err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SessionTimeout != 0 {
		config.SessionTimeout = c.SessionTimeout
	}
}
