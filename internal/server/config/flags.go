package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/symptoms/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-g string   gRPC bind address (e.g., ":50051")
//	-d string   database DSN
//	-m string   Mongo database name
//	-v string   validation policy: lenient | strict
//	-t int      request timeout, seconds
//	-i int      storage health check interval, seconds
//	-l string   log level
//	-o string   comma separated CORS origins
//
// Only the flags above are taken from os.Args (see flagx.FilterArgs), so
// -c/-config and unknown flags pass through untouched.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-d", "-m", "-v", "-t", "-i", "-l", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to serve registrations")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "address and port for the gRPC health endpoint")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.MongoDatabase, "m", config.MongoDatabase, "mongo database name")
	fs.StringVar(&config.ValidationPolicy, "v", config.ValidationPolicy, "validation policy (lenient|strict)")

	requestTimeout := fs.Int("t", int(config.RequestTimeout.Seconds()), "request timeout (in seconds)")
	healthCheckInterval := fs.Int("i", int(config.HealthCheckInterval.Seconds()), "health check interval (in seconds)")

	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	origins := fs.String("o", strings.Join(config.AllowOrigins, ","), "comma separated CORS origins")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.RequestTimeout = time.Duration(*requestTimeout) * time.Second
	config.HealthCheckInterval = time.Duration(*healthCheckInterval) * time.Second
	config.AllowOrigins = flagx.SplitList(*origins)
}
