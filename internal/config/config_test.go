package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("SERVER_PORT", "")
	os.Unsetenv("SERVER_PORT")

	LoadConfig()

	assert.Equal(t, "8080", ServerPort)
	assert.Equal(t, 50, ApplicationsPageSize)
	assert.Equal(t, 100, PaymentQueuePageSize)
	assert.Equal(t, SessionBackendDatabase, SessionBackend)
	assert.Equal(t, 12*time.Hour, SessionTTL)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "SERVER_PORT: \"9090\"\nBACKEND_URL: http://backend.internal/\nACTION_TIMEOUT: 5s\nSESSION_BACKEND: redis\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SESSION_BACKEND", "memory")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test,")

	LoadConfig()

	assert.Equal(t, "9090", ServerPort)
	assert.Equal(t, "http://backend.internal", BackendURL)
	assert.Equal(t, 5*time.Second, ActionTimeout)
	assert.Equal(t, SessionBackendMemory, SessionBackend)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, AllowedOrigins)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("APPLICATIONS_PAGE_SIZE", "lots")
	t.Setenv("BACKEND_TIMEOUT", "-3s")
	t.Setenv("MINIO_ENABLED", "maybe")

	LoadConfig()

	assert.Equal(t, 50, ApplicationsPageSize)
	assert.Equal(t, 15*time.Second, BackendTimeout)
	assert.False(t, MinioEnabled)
}
