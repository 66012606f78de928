package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoad_ValidFull(t *testing.T) {
	yaml := `
server:
  host: "127.0.0.1"
  port: 9090
backend:
  type: http
  url: "http://rag:8000"
  timeout: 10s
logging:
  level: debug
  format: text
  file: /var/log/rag/gateway.log
  max_size_mb: 50
  max_age_days: 3
  max_backups: 2
metrics:
  enabled: false
  path: /internal/metrics
`
	cfg, err := Load(writeTemp(t, "gateway.yaml", yaml))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)

	assert.Equal(t, BackendHTTP, cfg.Backend.Type)
	assert.Equal(t, "http://rag:8000", cfg.Backend.URL)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "/var/log/rag/gateway.log", cfg.Logging.File)
	assert.Equal(t, 50, cfg.Logging.MaxSizeMB)
	assert.Equal(t, 3, cfg.Logging.MaxAgeDays)
	assert.Equal(t, 2, cfg.Logging.MaxBackups)

	assert.False(t, cfg.Metrics.IsEnabled())
	assert.Equal(t, "/internal/metrics", cfg.Metrics.Path)
}

func TestLoad_Defaults(t *testing.T) {
	// Minimal YAML, everything should get defaults.
	cfg, err := Load(writeTemp(t, "gateway.yaml", "{}"))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, BackendHTTP, cfg.Backend.Type)
	assert.Equal(t, "http://localhost:8000", cfg.Backend.URL)
	assert.Equal(t, 30*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Empty(t, cfg.Logging.File)
	assert.True(t, cfg.Metrics.IsEnabled())
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_ExpandEnv(t *testing.T) {
	t.Setenv("TEST_RAG_HOST", "rag.internal")

	cfg, err := Load(writeTemp(t, "gateway.yaml", `
backend:
  url: "http://${TEST_RAG_HOST}:8000"
`))
	require.NoError(t, err)
	assert.Equal(t, "http://rag.internal:8000", cfg.Backend.URL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("RAG_BACKEND_URL", "https://override:9000")
	t.Setenv("RAG_BACKEND_TIMEOUT", "5s")
	t.Setenv("RAG_SERVER_PORT", "7070")
	t.Setenv("RAG_LOG_LEVEL", "warn")

	cfg, err := Load(writeTemp(t, "gateway.yaml", `
server:
  port: 9090
backend:
  url: "http://file:8000"
`))
	require.NoError(t, err)
	assert.Equal(t, "https://override:9000", cfg.Backend.URL)
	assert.Equal(t, 5*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_BadEnvOverride(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"RAG_BACKEND_TIMEOUT", "soon"},
		{"RAG_SERVER_PORT", "eighty"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"port too high", "server:\n  port: 70000\n"},
		{"negative port", "server:\n  port: -1\n"},
		{"unknown backend type", "backend:\n  type: grpc\n"},
		{"relative backend url", "backend:\n  url: localhost:8000\n"},
		{"non-http scheme", "backend:\n  url: ftp://rag:21\n"},
		{"negative timeout", "backend:\n  timeout: -1s\n"},
		{"negative rotation", "logging:\n  max_backups: -2\n"},
		{"metrics path", "metrics:\n  path: metrics\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeTemp(t, "gateway.yaml", tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad_StubBackendSkipsURLCheck(t *testing.T) {
	cfg, err := Load(writeTemp(t, "gateway.yaml", "backend:\n  type: stub\n  url: not a url\n"))
	require.NoError(t, err)
	assert.Equal(t, BackendStub, cfg.Backend.Type)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/gateway.yaml")
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeTemp(t, "gateway.yaml", ":\n  - :\n  invalid: [yaml"))
	assert.Error(t, err)
}

func TestLoadEnvFile(t *testing.T) {
	path := writeTemp(t, ".env", "TEST_RAG_DOTENV=from-file\n")
	t.Setenv("TEST_RAG_DOTENV", "")
	os.Unsetenv("TEST_RAG_DOTENV")

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "from-file", os.Getenv("TEST_RAG_DOTENV"))
}

func TestLoadEnvFile_DoesNotOverride(t *testing.T) {
	path := writeTemp(t, ".env", "TEST_RAG_DOTENV_KEEP=from-file\n")
	t.Setenv("TEST_RAG_DOTENV_KEEP", "from-env")

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "from-env", os.Getenv("TEST_RAG_DOTENV_KEEP"))
}

func TestLoadEnvFile_Missing(t *testing.T) {
	assert.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), ".env")))
	assert.NoError(t, LoadEnvFile(""))
}
