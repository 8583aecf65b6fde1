package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is where recall looks for its config file.
const DefaultConfigPath = "~/.config/recall/config.yaml"

// Config holds all recall configuration. It is constructed once at process
// start and passed into each component's constructor.
type Config struct {
	Storage    StorageConfig    `yaml:"storage"`
	Capture    CaptureConfig    `yaml:"capture"`
	Embeddings EmbeddingsConfig `yaml:"embeddings"`
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type StorageConfig struct {
	Path           string `yaml:"path"`
	SQLiteFile     string `yaml:"sqlite_file"`
	ScreenshotsDir string `yaml:"screenshots_dir"`
}

type CaptureConfig struct {
	IntervalSeconds    int      `yaml:"interval_seconds"`
	PausePollSeconds   int      `yaml:"pause_poll_seconds"`
	PrimaryMonitorOnly bool     `yaml:"primary_monitor_only"`
	SkipUnchanged      bool     `yaml:"skip_unchanged"`
	DenylistApps       []string `yaml:"denylist_apps"`
	OCRBinary          string   `yaml:"ocr_binary"`
	OCRLanguages       string   `yaml:"ocr_languages"`
}

type EmbeddingsConfig struct {
	Provider      string `yaml:"provider"`
	OllamaURL     string `yaml:"ollama_url"`
	OpenAIBaseURL string `yaml:"openai_base_url"`
	Model         string `yaml:"model"`
	Dimensions    int    `yaml:"dimensions"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads a YAML config file at path, merges it with defaults, then
// applies RECALL_* environment overrides. Returns an error if the file
// cannot be read or contains invalid YAML.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnv(cfg)
	return cfg, nil
}

// LoadOrCreate loads the config from the default path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreate() (*Config, error) {
	path, err := expandPath(DefaultConfigPath)
	if err != nil {
		return nil, err
	}
	return LoadOrCreateAt(path)
}

// LoadOrCreateAt loads the config from the given path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreateAt(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()

		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating config directory: %w", err)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("marshaling default config: %w", err)
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}

		applyEnv(cfg)
		return cfg, nil
	}

	return Load(path)
}

// applyEnv overlays environment variables on top of the loaded config.
// A .env file in the working directory is honored when the caller loads it
// with godotenv before parsing flags.
func applyEnv(cfg *Config) {
	if v := os.Getenv("RECALL_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("RECALL_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("RECALL_EMBED_PROVIDER"); v != "" {
		cfg.Embeddings.Provider = v
	}
	if v := os.Getenv("RECALL_EMBED_MODEL"); v != "" {
		cfg.Embeddings.Model = v
	}
	if v := os.Getenv("OLLAMA_HOST"); v != "" {
		cfg.Embeddings.OllamaURL = v
	}
	if v := os.Getenv("RECALL_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// DataPath returns the expanded data directory.
func (c *Config) DataPath() string {
	path, err := expandPath(c.Storage.Path)
	if err != nil {
		return c.Storage.Path
	}
	return path
}

// DBPath returns the expanded path of the SQLite database file.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataPath(), c.Storage.SQLiteFile)
}

// ScreenshotsPath returns the expanded path of the screenshot directory.
func (c *Config) ScreenshotsPath() string {
	return filepath.Join(c.DataPath(), c.Storage.ScreenshotsDir)
}

// ServerAddr returns the host:port the dashboard listens on.
func (c *Config) ServerAddr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// LogLevel maps the configured level string onto a slog level. Unknown
// values fall back to Info.
func (c *Config) LogLevel() slog.Level {
	switch c.Logging.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// EnsureDirs creates the data and screenshot directories. An unwritable
// data directory is a startup-fatal configuration fault: recall must not
// run half-initialized.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.DataPath(), c.ScreenshotsPath()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating data directory %s: %w", dir, err)
		}
	}
	return nil
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}
