package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Path:           "~/.local/share/recall",
			SQLiteFile:     "recall.db",
			ScreenshotsDir: "screenshots",
		},
		Capture: CaptureConfig{
			IntervalSeconds:    3,
			PausePollSeconds:   1,
			PrimaryMonitorOnly: true,
			SkipUnchanged:      true,
			DenylistApps:       DefaultDenylistApps(),
			OCRBinary:          "tesseract",
			OCRLanguages:       "eng",
		},
		Embeddings: EmbeddingsConfig{
			Provider:   "ollama",
			OllamaURL:  "http://localhost:11434",
			Model:      "nomic-embed-text",
			Dimensions: 768,
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8082,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
