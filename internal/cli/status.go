package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/runnerr0/recall/internal/storage"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version          string         `json:"version"`
	DatabasePath     string         `json:"database_path"`
	TotalEntries     int64          `json:"total_entries"`
	FirstEntry       string         `json:"first_entry,omitempty"`
	LastEntry        string         `json:"last_entry,omitempty"`
	ScreenshotsBytes int64          `json:"screenshots_bytes"`
	TopApps          []appCountJSON `json:"top_apps"`
}

type appCountJSON struct {
	App   string `json:"app"`
	Count int64  `json:"count"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	store, db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	defer store.Close()

	return c.executeWithStore(store, cfg.DBPath())
}

// executeWithStore runs status against a provided store (for testing).
func (c *StatusCommand) executeWithStore(store storage.Store, dbPath string) error {
	stats, err := store.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		return c.printJSON(stats, dbPath)
	}
	return c.printHuman(stats, dbPath)
}

func (c *StatusCommand) printHuman(stats *storage.Stats, dbPath string) error {
	fmt.Println("Recall Status")
	fmt.Println("=============")
	fmt.Printf("Version:       %s\n", c.version)
	fmt.Printf("Database:      %s\n", dbPath)
	fmt.Printf("Entries:       %s\n", formatNumber(stats.TotalEntries))

	if stats.TotalEntries > 0 {
		fmt.Printf("First entry:   %s\n", time.Unix(stats.FirstTimestamp, 0).Local().Format("2006-01-02 15:04"))
		fmt.Printf("Last entry:    %s\n", time.Unix(stats.LastTimestamp, 0).Local().Format("2006-01-02 15:04"))
	}

	fmt.Printf("Screenshots:   %s\n", formatBytes(stats.ScreenshotsBytes))

	if len(stats.TopApps) > 0 {
		fmt.Println()
		fmt.Println("Top Apps:")
		for _, a := range stats.TopApps {
			name := a.App
			if name == "" {
				name = "Unknown"
			}
			fmt.Printf("  %-24s %s\n", name, formatNumber(a.Count))
		}
	}

	return nil
}

func (c *StatusCommand) printJSON(stats *storage.Stats, dbPath string) error {
	out := statusJSON{
		Version:          c.version,
		DatabasePath:     dbPath,
		TotalEntries:     stats.TotalEntries,
		ScreenshotsBytes: stats.ScreenshotsBytes,
		TopApps:          make([]appCountJSON, len(stats.TopApps)),
	}

	if stats.TotalEntries > 0 {
		out.FirstEntry = time.Unix(stats.FirstTimestamp, 0).UTC().Format(time.RFC3339)
		out.LastEntry = time.Unix(stats.LastTimestamp, 0).UTC().Format(time.RFC3339)
	}

	for i, a := range stats.TopApps {
		out.TopApps[i] = appCountJSON{App: a.App, Count: a.Count}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
