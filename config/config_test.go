package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvVars = []string{
	"MEALPLANNER_SERVER_PORT",
	"MEALPLANNER_SERVER_ENVIRONMENT",
	"MEALPLANNER_SERVER_ALLOWED_ORIGINS",
	"MEALPLANNER_CATALOG_PATH",
	"MEALPLANNER_CACHE_TYPE",
	"MEALPLANNER_CACHE_TTL",
	"MEALPLANNER_RATELIMIT_PER_IP",
	"MEALPLANNER_RATELIMIT_BURST",
	"MEALPLANNER_GOALS_CALORIES",
	"MEALPLANNER_GOALS_PROTEIN",
	"MEALPLANNER_GOALS_CARBS",
	"MEALPLANNER_GOALS_FAT",
	"MEALPLANNER_LOG_LEVEL",
	"MEALPLANNER_LOG_FORMAT",
}

// clearEnv unsets every config variable for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvVars {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, "development", cfg.Server.Environment)
		assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
		assert.Empty(t, cfg.Catalog.Path)
		assert.Equal(t, "memory", cfg.Cache.Type)
		assert.Equal(t, 720*time.Hour, cfg.Cache.TTL)
		assert.Equal(t, 100, cfg.RateLimit.PerIP)
		assert.Equal(t, 20, cfg.RateLimit.Burst)
		assert.Equal(t, GoalsConfig{Calories: 1400, Protein: 19, Carbs: 130, Fat: 45}, cfg.Goals)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "console", cfg.Log.Format)
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MEALPLANNER_SERVER_PORT", "9090")
		t.Setenv("MEALPLANNER_SERVER_ENVIRONMENT", "production")
		t.Setenv("MEALPLANNER_SERVER_ALLOWED_ORIGINS", "https://app.example.com,https://*.example.org")
		t.Setenv("MEALPLANNER_CATALOG_PATH", "/data/foods.json")
		t.Setenv("MEALPLANNER_CACHE_TTL", "24h")
		t.Setenv("MEALPLANNER_RATELIMIT_PER_IP", "200")
		t.Setenv("MEALPLANNER_RATELIMIT_BURST", "40")
		t.Setenv("MEALPLANNER_GOALS_CALORIES", "1600")
		t.Setenv("MEALPLANNER_GOALS_PROTEIN", "34")
		t.Setenv("MEALPLANNER_LOG_LEVEL", "debug")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.Server.Port)
		assert.Equal(t, "production", cfg.Server.Environment)
		assert.Equal(t, []string{"https://app.example.com", "https://*.example.org"}, cfg.Server.AllowedOrigins)
		assert.Equal(t, "/data/foods.json", cfg.Catalog.Path)
		assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
		assert.Equal(t, 200, cfg.RateLimit.PerIP)
		assert.Equal(t, 40, cfg.RateLimit.Burst)
		assert.Equal(t, 1600.0, cfg.Goals.Calories)
		assert.Equal(t, 34.0, cfg.Goals.Protein)
		assert.Equal(t, 130.0, cfg.Goals.Carbs)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "json", cfg.Log.Format)
	})

	t.Run("explicit log format wins over environment", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MEALPLANNER_SERVER_ENVIRONMENT", "production")
		t.Setenv("MEALPLANNER_LOG_FORMAT", "console")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "console", cfg.Log.Format)
	})

	invalid := []struct {
		name string
		key  string
		val  string
	}{
		{"invalid cache type", "MEALPLANNER_CACHE_TYPE", "redis"},
		{"non-positive cache TTL", "MEALPLANNER_CACHE_TTL", "0s"},
		{"non-positive rate limit", "MEALPLANNER_RATELIMIT_PER_IP", "0"},
		{"non-positive burst", "MEALPLANNER_RATELIMIT_BURST", "-1"},
		{"negative goal", "MEALPLANNER_GOALS_FAT", "-5"},
		{"unknown log format", "MEALPLANNER_LOG_FORMAT", "xml"},
	}
	for _, tt := range invalid {
		t.Run("fails validation for "+tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			if err == nil {
				t.Errorf("Load() error = nil, want error for %s=%s", tt.key, tt.val)
			}
		})
	}
}

func TestDefaultLogFormat(t *testing.T) {
	assert.Equal(t, "console", defaultLogFormat("development"))
	assert.Equal(t, "console", defaultLogFormat("test"))
	assert.Equal(t, "json", defaultLogFormat("production"))
	assert.Equal(t, "json", defaultLogFormat("staging"))
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("returns nil when .env file doesn't exist", func(t *testing.T) {
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		os.Chdir(t.TempDir())

		if err := loadEnvFile(); err != nil {
			t.Errorf("loadEnvFile() error = %v, want nil when file doesn't exist", err)
		}
	})

	t.Run("loads variables from .env file", func(t *testing.T) {
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		os.Chdir(t.TempDir())

		envContent := `
# Comment line
MEALPLANNER_TEST_VAR_1=value1
MEALPLANNER_TEST_VAR_2="quoted value"

# Another comment
MEALPLANNER_TEST_VAR_3=value3
`
		require.NoError(t, os.WriteFile(".env", []byte(envContent), 0o644))

		for _, key := range []string{"MEALPLANNER_TEST_VAR_1", "MEALPLANNER_TEST_VAR_2", "MEALPLANNER_TEST_VAR_3"} {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}

		require.NoError(t, loadEnvFile())

		assert.Equal(t, "value1", os.Getenv("MEALPLANNER_TEST_VAR_1"))
		assert.Equal(t, "quoted value", os.Getenv("MEALPLANNER_TEST_VAR_2"))
		assert.Equal(t, "value3", os.Getenv("MEALPLANNER_TEST_VAR_3"))
	})

	t.Run("does not override existing variables", func(t *testing.T) {
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		os.Chdir(t.TempDir())
		require.NoError(t, os.WriteFile(".env", []byte("MEALPLANNER_SERVER_PORT=7000\n"), 0o644))
		t.Setenv("MEALPLANNER_SERVER_PORT", "9000")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "9000", cfg.Server.Port)
	})

	t.Run("values from .env reach the config", func(t *testing.T) {
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		clearEnv(t)
		os.Chdir(t.TempDir())
		require.NoError(t, os.WriteFile(".env", []byte("MEALPLANNER_GOALS_CARBS=150\n"), 0o644))
		t.Cleanup(func() { os.Unsetenv("MEALPLANNER_GOALS_CARBS") })

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 150.0, cfg.Goals.Carbs)
	})
}
