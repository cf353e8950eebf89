package config

import (
	"encoding/json"
	"os"

	"github.com/Trevrosa/pcupback/internal/flagx"
	"github.com/Trevrosa/pcupback/internal/timex"
)

// JsonConfig is the DTO for reading JSON configuration files. It uses
// timex.Duration for interval fields, which allows parsing both string
// values such as "24h" and integer nanoseconds. After unmarshalling, its
// fields are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddrHTTP string         `json:"endpoint_addr_http"`
	DatabaseDSN      string         `json:"database_dsn"`
	SessionTimeout   timex.Duration `json:"session_timeout"`
}

// parseJson loads configuration values from the JSON file named by the
// -c or -config flags, if any. Unset fields keep their current values.
// An unreadable or invalid file panics; startup must not continue on a
// half-applied config.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SessionTimeout.Duration != 0 {
		config.SessionTimeout = c.SessionTimeout.Duration
	}
}
