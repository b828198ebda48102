package appconf

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "ENV", "API_KEYS", "DB_DRIVER", "DATABASE_URL", "REFRESH_INTERVAL", "TIMEZONE", "RATE_LIMIT", "CORS_ORIGINS"} {
		t.Setenv(k, "")
	}

	cfg, err := Load("api", nil)
	require.NoError(t, err)
	assert.Equal(t, 4000, cfg.Port)
	assert.Equal(t, Development, cfg.Env)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "timetable.db", cfg.DatabaseURL)
	assert.Equal(t, 5*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Empty(t, cfg.ApiKeys)
}

func TestLoadEnvironmentDefaults(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("ENV", "production")
	t.Setenv("API_KEYS", "alpha, beta,,")
	t.Setenv("REFRESH_INTERVAL", "30s")
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := Load("api", nil)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, Production, cfg.Env)
	assert.Equal(t, []string{"alpha", "beta"}, cfg.ApiKeys)
	assert.Equal(t, 30*time.Second, cfg.RefreshInterval)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")
	cfg, err := Load("api", []string{"-port", "9090", "-db-driver", "postgres", "-database-url", "postgres://localhost/timetable"})
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
}

func TestRateLimitZeroDisables(t *testing.T) {
	cfg, err := Load("api", []string{"-rate-limit", "0"})
	require.NoError(t, err)
	assert.Zero(t, cfg.RateLimit)

	_, err = Load("api", []string{"-rate-limit", "-1"})
	assert.Error(t, err)
}

func TestLoadRegistersCommandFlags(t *testing.T) {
	var source string
	cfg, err := Load("import-gtfs", []string{"-source", "feed.zip", "-verbose"}, func(fs *flag.FlagSet) {
		fs.StringVar(&source, "source", "", "feed")
	})
	require.NoError(t, err)
	assert.Equal(t, "feed.zip", source)
	assert.True(t, cfg.Verbose)

	_, err = Load("api", []string{"-source", "feed.zip"})
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown env", []string{"-env", "staging"}},
		{"unknown driver", []string{"-db-driver", "mysql"}},
		{"bad port", []string{"-port", "0"}},
		{"bad timezone", []string{"-timezone", "Mars/Olympus"}},
		{"zero refresh", []string{"-refresh-interval", "0s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load("api", tt.args)
			assert.Error(t, err)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("TIMETABLE_DOTENV_PROBE=from-file\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("TIMETABLE_DOTENV_PROBE") })

	require.NoError(t, LoadDotEnv(path, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "from-file", os.Getenv("TIMETABLE_DOTENV_PROBE"))
}

func TestEnvFlagToEnvironment(t *testing.T) {
	env, err := EnvFlagToEnvironment("PROD")
	require.NoError(t, err)
	assert.Equal(t, Production, env)
	assert.Equal(t, "production", env.String())

	env, err = EnvFlagToEnvironment("test")
	require.NoError(t, err)
	assert.Equal(t, Test, env)
}
