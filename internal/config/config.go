package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  Database fields are only consulted when the
// mysql storage backend is selected.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DataDir        string // directory holding hall/seance configuration files
	HallFile       string // hall layout file, relative to DataDir
	CatalogFile    string // seance catalog file, relative to DataDir
	StorageBackend string // seance-state provider: file, redis or mysql
	StateDir       string // state directory for the file backend
	JWTSecret      string // secret used to sign cashier access tokens
	AccessTTLMin   int    // access token time-to-live in minutes
	CashierLogin   string // cashier login name
	CashierHash    string // bcrypt hash of the cashier password
	DBUser         string // database username (mysql backend)
	DBPass         string // database password (mysql backend, optional)
	DBHost         string // database host (mysql backend)
	DBPort         string // database port (mysql backend)
	DBName         string // database name (mysql backend)
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:            getenv("APP_ENV", "dev"),
		Port:           must("APP_PORT"),
		DataDir:        getenv("DATA_DIR", "data"),
		HallFile:       getenv("HALL_FILE", "halls/shevchenko-big.json"),
		CatalogFile:    getenv("SEANCE_CATALOG", "seances.json"),
		StorageBackend: getenv("STORAGE_BACKEND", "file"),
		StateDir:       getenv("STATE_DIR", "data/state"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		CashierLogin:   must("CASHIER_LOGIN"),
		CashierHash:    must("CASHIER_PASSWORD_HASH"),
		DBUser:         os.Getenv("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         os.Getenv("DB_HOST"),
		DBPort:         os.Getenv("DB_PORT"),
		DBName:         os.Getenv("DB_NAME"),
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

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// getenv returns the value of an optional environment variable or the
// provided default when unset.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
