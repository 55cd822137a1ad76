// Package config handles configuration for the registration server,
// including defaults, JSON overlay, environment (with .env support) and
// command-line flags.
package config

import "time"

// Config holds runtime settings for the server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the registration HTTP endpoint.
//   - EndpointAddrGRPC: bind address for the gRPC health endpoint.
//   - DatabaseDSN: postgres://, mongodb:// or a SQLite DSN/path.
//   - MongoDatabase: database name used when DatabaseDSN is a Mongo URL.
//   - ValidationPolicy: "lenient" (any field present) or "strict" (all present).
//   - RequestTimeout: upper bound on storage work per request; 0 disables it.
//   - HealthCheckInterval: how often storage reachability is re-checked.
//   - LogLevel: debug, info, warn or error.
//   - AllowOrigins: CORS origins allowed to post the form.
type Config struct {
	EndpointAddrHTTP    string
	EndpointAddrGRPC    string
	DatabaseDSN         string
	MongoDatabase       string
	ValidationPolicy    string
	RequestTimeout      time.Duration
	HealthCheckInterval time.Duration
	LogLevel            string
	AllowOrigins        []string
}

// LoadDefaults populates Config with development defaults: an on-disk
// SQLite database next to the binary and permissive CORS.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDSN = "file:symptoms.db?_pragma=busy_timeout(5000)"
	c.MongoDatabase = "symptoms"
	c.ValidationPolicy = "lenient"
	c.RequestTimeout = 10 * time.Second
	c.HealthCheckInterval = 15 * time.Second
	c.LogLevel = "info"
	c.AllowOrigins = []string{"*"}
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment (after loading .env when
// present) and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
