package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "~/.local/share/recall", cfg.Storage.Path)
	assert.Equal(t, "recall.db", cfg.Storage.SQLiteFile)
	assert.Equal(t, "screenshots", cfg.Storage.ScreenshotsDir)
	assert.Equal(t, 3, cfg.Capture.IntervalSeconds)
	assert.True(t, cfg.Capture.SkipUnchanged)
	assert.NotEmpty(t, cfg.Capture.DenylistApps)
	assert.Equal(t, "ollama", cfg.Embeddings.Provider)
	assert.Equal(t, "nomic-embed-text", cfg.Embeddings.Model)
	assert.Equal(t, 768, cfg.Embeddings.Dimensions)
	assert.Equal(t, 8082, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_PartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
capture:
  interval_seconds: 10
server:
  port: 9090
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	// Overridden fields take effect.
	assert.Equal(t, 10, cfg.Capture.IntervalSeconds)
	assert.Equal(t, 9090, cfg.Server.Port)

	// Untouched fields keep defaults.
	assert.Equal(t, "recall.db", cfg.Storage.SQLiteFile)
	assert.Equal(t, "ollama", cfg.Embeddings.Provider)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{{not yaml"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadOrCreateAt_CreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := LoadOrCreateAt(path)
	require.NoError(t, err)
	assert.Equal(t, 8082, cfg.Server.Port)

	// File was written; a second load parses it back.
	_, err = os.Stat(path)
	require.NoError(t, err)

	again, err := LoadOrCreateAt(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Storage.SQLiteFile, again.Storage.SQLiteFile)
}

func TestEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))

	t.Setenv("RECALL_STORAGE_PATH", "/tmp/recall-test")
	t.Setenv("RECALL_PORT", "7070")
	t.Setenv("RECALL_EMBED_PROVIDER", "openai")
	t.Setenv("RECALL_EMBED_MODEL", "text-embedding-3-small")
	t.Setenv("OLLAMA_HOST", "http://gpu-box:11434")
	t.Setenv("RECALL_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/recall-test", cfg.Storage.Path)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "openai", cfg.Embeddings.Provider)
	assert.Equal(t, "text-embedding-3-small", cfg.Embeddings.Model)
	assert.Equal(t, "http://gpu-box:11434", cfg.Embeddings.OllamaURL)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestEnvOverrides_BadPortIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))

	t.Setenv("RECALL_PORT", "not-a-number")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8082, cfg.Server.Port)
}

func TestDerivedPaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Path = "/data/recall"

	assert.Equal(t, "/data/recall", cfg.DataPath())
	assert.Equal(t, "/data/recall/recall.db", cfg.DBPath())
	assert.Equal(t, "/data/recall/screenshots", cfg.ScreenshotsPath())
	assert.Equal(t, "127.0.0.1:8082", cfg.ServerAddr())
}

func TestDataPath_ExpandsHome(t *testing.T) {
	cfg := DefaultConfig()

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".local/share/recall"), cfg.DataPath())
}

func TestLogLevel_Mapping(t *testing.T) {
	tests := []struct {
		level    string
		expected string
	}{
		{"debug", "DEBUG"},
		{"info", "INFO"},
		{"warn", "WARN"},
		{"error", "ERROR"},
		{"bogus", "INFO"},
		{"", "INFO"},
	}

	for _, tc := range tests {
		cfg := DefaultConfig()
		cfg.Logging.Level = tc.level
		assert.Equal(t, tc.expected, cfg.LogLevel().String(), "level %q", tc.level)
	}
}

func TestEnsureDirs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Path = filepath.Join(t.TempDir(), "recall")

	require.NoError(t, cfg.EnsureDirs())

	for _, dir := range []string{cfg.DataPath(), cfg.ScreenshotsPath()} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}
