package config // package config loads application configuration from environment variables

import (
	"log"      // log is used to report configuration errors and halt execution
	"os"       // os provides access to environment variables
	"strconv"  // strconv converts strings to other types
	"time"     // time is used for the sweep interval
)

// Config holds all runtime configuration values.  Each field
// corresponds to an environment variable.  Required variables are
// enforced by must(); the rest carry sensible defaults so a local
// run only needs the database settings.
type Config struct {
	Env               string        // application environment (e.g. "dev", "prod")
	Port              string        // HTTP port to listen on
	DBUser            string        // database username
	DBPass            string        // database password (optional)
	DBHost            string        // database host address
	DBPort            string        // database port number
	DBName            string        // database name
	JWTSecret         string        // secret used to sign admin JWTs
	AccessTTLMin      int           // admin token time-to-live in minutes
	AdminEmail        string        // admin login email
	AdminPasswordHash string        // bcrypt hash of the admin password
	AMQPURL           string        // RabbitMQ URL (empty -> library default)
	SweepInterval     time.Duration // cadence of the reservation status sweep
}

// Load reads configuration values from environment variables and
// returns a Config.  Missing required values cause the program to
// exit with a fatal log message.
func Load() Config {
	return Config{
		Env:               must("APP_ENV"),
		Port:              must("APP_PORT"),
		DBUser:            must("DB_USER"),
		DBPass:            os.Getenv("DB_PASS"), // empty allowed
		DBHost:            must("DB_HOST"),
		DBPort:            must("DB_PORT"),
		DBName:            must("DB_NAME"),
		JWTSecret:         must("JWT_SECRET"),
		AccessTTLMin:      intOr("ACCESS_TOKEN_TTL_MIN", 60),
		AdminEmail:        must("ADMIN_EMAIL"),
		AdminPasswordHash: must("ADMIN_PASSWORD_HASH"),
		AMQPURL:           os.Getenv("RABBITMQ_URL"),
		SweepInterval:     time.Duration(intOr("SWEEP_INTERVAL_SEC", 60)) * time.Second,
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

// intOr reads an integer environment variable, falling back to the
// default when unset.  An unparsable value is fatal rather than
// silently ignored.
func intOr(key string, def int) int {
	s, ok := os.LookupEnv(key)
	if !ok || s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
