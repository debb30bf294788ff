package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearStoreEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"DATABASE_URL", "SQLITE_PATH", "PORT", "LOG_LEVEL"} {
		old, had := os.LookupEnv(key)
		os.Unsetenv(key)
		if had {
			t.Cleanup(func() { os.Setenv(key, old) })
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	clearStoreEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "./pureflow.db", cfg.SQLitePath)
	assert.Equal(t, "", cfg.DatabaseURL)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "test", cfg.GoEnv)
	assert.True(t, cfg.IsTest())
	assert.False(t, cfg.IsProduction())
}

func TestLoadReadsEnvironment(t *testing.T) {
	clearStoreEnv(t)
	os.Setenv("DATABASE_URL", "postgres://pureflow:pw@localhost:5432/pureflow")
	os.Setenv("PORT", "9090")
	t.Cleanup(func() {
		os.Unsetenv("DATABASE_URL")
		os.Unsetenv("PORT")
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.UsesPostgres())
}

func TestUsesPostgres(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		expected bool
	}{
		{"sqlite path only", Config{SQLitePath: "./pureflow.db"}, false},
		{"database url set", Config{DatabaseURL: "postgres://localhost/pureflow"}, true},
		{"both set prefers postgres", Config{DatabaseURL: "postgres://localhost/pureflow", SQLitePath: "./pureflow.db"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.cfg.UsesPostgres())
		})
	}
}

func TestValidateRequiresAStore(t *testing.T) {
	cfg := Config{}
	assert.Error(t, cfg.Validate())

	cfg.SQLitePath = "./pureflow.db"
	assert.NoError(t, cfg.Validate())
}

func TestGetConfigReturnsLoadedInstance(t *testing.T) {
	clearStoreEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Same(t, cfg, GetConfig())

	other := &Config{SQLitePath: ":memory:"}
	SetConfig(other)
	assert.Same(t, other, GetConfig())
}
