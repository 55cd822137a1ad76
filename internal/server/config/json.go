package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/symptoms/internal/flagx"
	"github.com/dmitrijs2005/symptoms/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept
// "15s" style strings or integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP    string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC    string         `json:"endpoint_addr_grpc"`
	DatabaseDSN         string         `json:"database_dsn"`
	MongoDatabase       string         `json:"mongo_database"`
	ValidationPolicy    string         `json:"validation_policy"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	HealthCheckInterval timex.Duration `json:"health_check_interval"`
	LogLevel            string         `json:"log_level"`
	AllowOrigins        []string       `json:"allow_origins"`
}

// parseJson overlays values from the file named by -c/-config. Keys absent
// from the file leave the current value alone. An unreadable file or
// invalid JSON panics: the server must not start half-configured.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
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

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.MongoDatabase, c.MongoDatabase)
	setString(&config.ValidationPolicy, c.ValidationPolicy)
	setString(&config.LogLevel, c.LogLevel)
	if c.RequestTimeout.Duration != 0 {
		config.RequestTimeout = c.RequestTimeout.Duration
	}
	if c.HealthCheckInterval.Duration != 0 {
		config.HealthCheckInterval = c.HealthCheckInterval.Duration
	}
	if len(c.AllowOrigins) > 0 {
		config.AllowOrigins = c.AllowOrigins
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
