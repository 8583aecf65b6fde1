package cli

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/runnerr0/recall/internal/config"
	"github.com/runnerr0/recall/internal/storage"
)

// loadConfig reads the config file named by --config, or the default path
// (creating it with defaults on first run).
func loadConfig(globals *GlobalFlags) (*config.Config, error) {
	if globals != nil && globals.Config != "" {
		return config.Load(globals.Config)
	}
	return config.LoadOrCreate()
}

// newLogger builds the process logger from config; --verbose forces debug.
func newLogger(cfg *config.Config, globals *GlobalFlags) *slog.Logger {
	level := cfg.LogLevel()
	if globals != nil && globals.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openStore creates the data directories, opens the SQLite database, runs
// migrations, and returns a ready-to-use store and the underlying *sql.DB.
// Directory or migration failures here are startup-fatal.
func openStore(cfg *config.Config) (*storage.SQLiteStore, *sql.DB, error) {
	if err := cfg.EnsureDirs(); err != nil {
		return nil, nil, err
	}

	db, err := sql.Open("sqlite3", cfg.DBPath()+"?_busy_timeout=5000")
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	runner := storage.NewMigrationRunner(db)
	if err := runner.Run(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	store, err := storage.NewSQLiteStore(db, cfg.ScreenshotsPath())
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("init store: %w", err)
	}

	return store, db, nil
}

// formatNumber formats an int64 with comma separators.
func formatNumber(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var out []byte
	remainder := len(s) % 3
	if remainder > 0 {
		out = append(out, s[:remainder]...)
		out = append(out, ',')
	}
	for i := remainder; i < len(s); i += 3 {
		if i > remainder {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	return string(out)
}

// formatBytes formats a byte count into a human-readable string.
func formatBytes(b int64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/float64(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
