package appconf

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all the configuration settings for the server and the importer.
type Config struct {
	Port            int
	Env             Environment
	ApiKeys         []string
	DBDriver        string
	DatabaseURL     string
	CachePath       string
	RefreshInterval time.Duration
	Timezone        string
	RateLimit       float64
	CORSOrigins     []string
	Verbose         bool
}

// Location resolves Timezone, falling back to the process local zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// LoadDotEnv reads .env.local then .env into the process environment. Variables already
// set in the environment win. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env.local", ".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// Load parses args on a named flag set whose defaults come from the environment.
// Commands register their own flags on the same set through extra.
func Load(name string, args []string, extra ...func(fs *flag.FlagSet)) (Config, error) {
	var (
		cfg             Config
		envFlag         string
		apiKeysFlag     string
		corsOriginsFlag string
	)

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.IntVar(&cfg.Port, "port", getEnvInt("PORT", 4000), "API server port")
	fs.StringVar(&envFlag, "env", getEnv("ENV", "development"), "Environment (development|test|production)")
	fs.StringVar(&apiKeysFlag, "api-keys", getEnv("API_KEYS", ""), "Comma separated API keys for admin routes")
	fs.StringVar(&cfg.DBDriver, "db-driver", getEnv("DB_DRIVER", DriverSQLite), "Database driver (sqlite|postgres)")
	fs.StringVar(&cfg.DatabaseURL, "database-url", getEnv("DATABASE_URL", "timetable.db"), "SQLite path or PostgreSQL URL")
	fs.StringVar(&cfg.CachePath, "cache-path", getEnv("CACHE_PATH", ""), "Offline snapshot file, empty disables the cache")
	fs.DurationVar(&cfg.RefreshInterval, "refresh-interval", getEnvDuration("REFRESH_INTERVAL", 5*time.Minute), "Snapshot refresh interval")
	fs.StringVar(&cfg.Timezone, "timezone", getEnv("TIMEZONE", ""), "IANA timezone of the published timetables")
	fs.Float64Var(&cfg.RateLimit, "rate-limit", getEnvFloat("RATE_LIMIT", 10), "Requests per second allowed per API key or client, 0 disables limiting")
	fs.StringVar(&corsOriginsFlag, "cors-origins", getEnv("CORS_ORIGINS", "*"), "Comma separated allowed CORS origins")
	fs.BoolVar(&cfg.Verbose, "verbose", getEnvBool("VERBOSE", false), "Verbose logging")
	for _, register := range extra {
		register(fs)
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	env, err := EnvFlagToEnvironment(envFlag)
	if err != nil {
		return Config{}, err
	}
	cfg.Env = env
	cfg.ApiKeys = splitList(apiKeysFlag)
	cfg.CORSOrigins = splitList(corsOriginsFlag)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.DBDriver != DriverSQLite && c.DBDriver != DriverPostgres {
		return fmt.Errorf("unsupported database driver %q", c.DBDriver)
	}
	if c.DatabaseURL == "" {
		return errors.New("database url is required")
	}
	if c.RefreshInterval <= 0 {
		return errors.New("refresh interval must be positive")
	}
	if c.RateLimit < 0 {
		return errors.New("rate limit must not be negative")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}
