package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/symptoms/internal/flagx"
	"github.com/joho/godotenv"
)

const (
	EnvHTTPAddress         = "HTTP_ADDRESS"
	EnvGRPCAddress         = "GRPC_ADDRESS"
	EnvDatabaseDSN         = "DATABASE_DSN"
	EnvMongoDatabase       = "MONGO_DATABASE"
	EnvValidationPolicy    = "VALIDATION_POLICY"
	EnvRequestTimeout      = "REQUEST_TIMEOUT"
	EnvHealthCheckInterval = "HEALTH_CHECK_INTERVAL"
	EnvLogLevel            = "LOG_LEVEL"
	EnvCORSAllowOrigins    = "CORS_ALLOW_ORIGINS"
)

// dotEnvFile is loaded (if present) before the environment is read. Values
// already set in the process environment win over the file.
var dotEnvFile = ".env"

// parseEnv overlays values from the process environment. Durations use Go
// syntax ("30s"); malformed durations panic like malformed JSON does.
func parseEnv(config *Config) {
	_ = godotenv.Load(dotEnvFile)

	lookupString(&config.EndpointAddrHTTP, EnvHTTPAddress)
	lookupString(&config.EndpointAddrGRPC, EnvGRPCAddress)
	lookupString(&config.DatabaseDSN, EnvDatabaseDSN)
	lookupString(&config.MongoDatabase, EnvMongoDatabase)
	lookupString(&config.ValidationPolicy, EnvValidationPolicy)
	lookupString(&config.LogLevel, EnvLogLevel)
	lookupDuration(&config.RequestTimeout, EnvRequestTimeout)
	lookupDuration(&config.HealthCheckInterval, EnvHealthCheckInterval)

	if v, ok := os.LookupEnv(EnvCORSAllowOrigins); ok && v != "" {
		config.AllowOrigins = flagx.SplitList(v)
	}
}

func lookupString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func lookupDuration(dst *time.Duration, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}
