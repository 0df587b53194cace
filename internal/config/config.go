package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations and costs.
type Config struct {
	Env             string // application environment (e.g. "dev", "prod")
	Port            string // HTTP port to listen on
	DatabaseURL     string // postgres connection URL, or a sqlite file path for local use
	SessionSecret   string // secret used to sign the session cookie; never defaulted
	SessionTTLHours int    // fixed session lifetime in hours, counted from creation
	BcryptCost      int    // bcrypt cost for password hashing
	MigrationsDir   string // directory holding ordered *.sql change scripts
	PCCSVPath       string // bootstrap CSV with branch PC specs
	StaticDir       string // directory served to browsers (page scripts, login page)

	MinioEndpoint  string // object storage endpoint (host:port); empty disables uploads
	MinioAccessKey string // object storage access key
	MinioSecretKey string // object storage secret key
	MinioBucket    string // bucket holding uploaded images
	MinioUseSSL    bool   // whether to talk to object storage over TLS

	AMQPURL string // broker URL for asset change events; empty disables publishing
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:             getenv("APP_ENV", "dev"),
		Port:            must("APP_PORT"),
		DatabaseURL:     must("DATABASE_URL"),
		SessionSecret:   must("SESSION_SECRET"), // a hardcoded fallback here would defeat cookie signing
		SessionTTLHours: atoiDefault(getenv("SESSION_TTL_HOURS", "24"), 24),
		BcryptCost:      atoiDefault(getenv("BCRYPT_COST", "10"), 10),
		MigrationsDir:   getenv("MIGRATIONS_DIR", "migrations"),
		PCCSVPath:       getenv("PC_CSV_PATH", "public/Copy of BRANCHES PC SPECS.csv"),
		StaticDir:       getenv("STATIC_DIR", "public"),
		MinioEndpoint:   os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey:  os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey:  os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:     getenv("MINIO_BUCKET", "it-asset-tracker"),
		MinioUseSSL:     getenv("MINIO_USE_SSL", "false") == "true",
		AMQPURL:         os.Getenv("AMQP_URL"),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// getenv returns the value of key, or def when the variable is unset or empty.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// atoiDefault converts s to an int, falling back to def on any parse error.
func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
