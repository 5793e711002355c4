package config // package config loads application configuration from environment variables

import (
	"log"  // log reports when optional configuration is missing
	"os"   // os provides access to environment variables
	"time" // time is used for the sweep interval

	"github.com/joho/godotenv" // godotenv loads a local .env file when present
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Unlike secrets, coordination-core settings
// default sensibly so the service boots with no environment at all: the
// in-memory order store needs nothing, and the optional collaborators
// (menu database, broker, redis) degrade to local substitutes when unset.
type Config struct {
	Env           string        // application environment (e.g. "dev", "prod")
	Port          string        // HTTP port to listen on
	JWTSecret     string        // secret used to verify bearer tokens; empty disables token auth
	SweepInterval time.Duration // how often the expiration sweep runs
	AMQPURL       string        // broker URL for the event pipeline; empty disables it
	MenuSeedFile  string        // JSON file seeding the in-memory menu catalog

	// Menu catalog database (optional).  When MenuDBHost is set the MySQL
	// catalog adapter is used; otherwise the in-memory catalog serves.
	MenuDBUser string
	MenuDBPass string
	MenuDBHost string
	MenuDBPort string
	MenuDBName string
}

// Load reads the .env file when one exists and then the environment.
func Load() Config {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := Config{
		Env:           envStr("APP_ENV", "dev"),
		Port:          envStr("APP_PORT", "8080"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		SweepInterval: envDur("ORDER_SWEEP_INTERVAL", 60*time.Second),
		AMQPURL:       amqpURL(),
		MenuSeedFile:  os.Getenv("MENU_SEED_FILE"),
		MenuDBUser:    os.Getenv("MENU_DB_USER"),
		MenuDBPass:    os.Getenv("MENU_DB_PASS"),
		MenuDBHost:    os.Getenv("MENU_DB_HOST"),
		MenuDBPort:    envStr("MENU_DB_PORT", "3306"),
		MenuDBName:    envStr("MENU_DB_NAME", "menus"),
	}
	if cfg.JWTSecret == "" {
		log.Printf("config: JWT_SECRET not set; bearer tokens will be rejected, guest sessions still work")
	}
	return cfg
}

// UseMenuDB reports whether a MySQL menu catalog is configured.
func (c Config) UseMenuDB() bool {
	return c.MenuDBHost != "" && c.MenuDBUser != ""
}

// amqpURL honors both RABBITMQ_URL and the shorter AMQP_URL.
func amqpURL() string {
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		return v
	}
	return os.Getenv("AMQP_URL")
}
