package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetenv clears key for the duration of the test. godotenv never
// overrides a variable that is already present, even when it is empty.
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		prev, had := os.LookupEnv(key)
		require.NoError(t, os.Unsetenv(key))
		t.Cleanup(func() {
			if had {
				os.Setenv(key, prev)
			} else {
				os.Unsetenv(key)
			}
		})
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	unsetenv(t, "RESULTS_DIR", "BLOB_DRIVER", "STORAGE_BUCKET", "UPLOAD_CONCURRENCY", "LOG_LEVEL", "STORAGE_USE_SSL", "PUSHGATEWAY_URL")

	cfg := Load()

	assert.Equal(t, "", cfg.EnvSource)
	assert.Equal(t, "./results", cfg.ResultsDir)
	assert.Equal(t, "minio", cfg.BlobDriver)
	assert.Equal(t, "results", cfg.StorageBucket)
	assert.Equal(t, 1, cfg.Concurrency)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.False(t, cfg.StorageUseSSL)
	assert.Empty(t, cfg.PushgatewayURL)
}

func TestLoadPrefersEnvLocal(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	unsetenv(t, "STORAGE_BUCKET")

	writeFile(t, dir, ".env.local", "STORAGE_BUCKET=from-local\n")
	writeFile(t, dir, ".env", "STORAGE_BUCKET=from-dotenv\n")

	cfg := Load()

	assert.Equal(t, ".env.local", cfg.EnvSource)
	assert.Equal(t, "from-local", cfg.StorageBucket)
}

func TestLoadFallsBackToDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	unsetenv(t, "STORAGE_BUCKET", "STORAGE_USE_SSL")

	writeFile(t, dir, ".env", "STORAGE_BUCKET=from-dotenv\nSTORAGE_USE_SSL=true\n")

	cfg := Load()

	assert.Equal(t, ".env", cfg.EnvSource)
	assert.Equal(t, "from-dotenv", cfg.StorageBucket)
	assert.True(t, cfg.StorageUseSSL)
}

func TestLoadProcessEnvWins(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("STORAGE_BUCKET", "from-process")

	writeFile(t, dir, ".env.local", "STORAGE_BUCKET=from-local\n")

	cfg := Load()

	assert.Equal(t, "from-process", cfg.StorageBucket)
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{"unset", "", 4},
		{"valid", "8", 8},
		{"garbage", "many", 4},
		{"zero", "0", 4},
		{"negative", "-2", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("UPLOAD_CONCURRENCY", tt.value)
			assert.Equal(t, tt.want, getEnvInt("UPLOAD_CONCURRENCY", 4))
		})
	}
}
