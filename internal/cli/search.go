package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/runnerr0/recall/internal/embeddings"
	"github.com/runnerr0/recall/internal/search"
)

// searcher is satisfied by *search.Searcher; narrowed for testing.
type searcher interface {
	Search(ctx context.Context, query string, limit int) ([]search.Result, error)
}

type searchResultJSON struct {
	ID        int64   `json:"id"`
	App       string  `json:"app"`
	Title     string  `json:"title"`
	Text      string  `json:"text"`
	Timestamp int64   `json:"timestamp"`
	Time      string  `json:"time"`
	Score     float64 `json:"score"`
}

// Execute implements the go-flags Commander interface for SearchCommand.
// The query is the joined positional arguments.
func (c *SearchCommand) Execute(args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return fmt.Errorf("search requires a query, e.g.: recall search kubernetes deployment")
	}

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

	provider, err := embeddings.New(cfg.Embeddings)
	if err != nil {
		return err
	}

	return c.executeWithSearcher(search.NewSearcher(store, provider), query)
}

// executeWithSearcher runs the search against a provided searcher (for testing).
func (c *SearchCommand) executeWithSearcher(s searcher, query string) error {
	results, err := s.Search(context.Background(), query, c.Limit)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		return c.printJSON(results)
	}
	return c.printHuman(query, results)
}

func (c *SearchCommand) printHuman(query string, results []search.Result) error {
	if len(results) == 0 {
		fmt.Printf("No results for %q\n", query)
		return nil
	}

	fmt.Printf("Results for %q:\n\n", query)
	for i, r := range results {
		app := r.Entry.App
		if app == "" {
			app = "Unknown"
		}

		header := app
		if r.Entry.Title != "" {
			header += " - " + r.Entry.Title
		}

		fmt.Printf("%2d. %s  (%.3f)\n", i+1, header, r.Score)
		fmt.Printf("    %s\n", time.Unix(r.Entry.Timestamp, 0).Local().Format("2006-01-02 15:04"))

		if snippet := snippetOf(r.Entry.Text, 160); snippet != "" {
			fmt.Printf("    %s\n", snippet)
		}
		fmt.Println()
	}

	return nil
}

func (c *SearchCommand) printJSON(results []search.Result) error {
	out := make([]searchResultJSON, len(results))
	for i, r := range results {
		out[i] = searchResultJSON{
			ID:        r.Entry.ID,
			App:       r.Entry.App,
			Title:     r.Entry.Title,
			Text:      r.Entry.Text,
			Timestamp: r.Entry.Timestamp,
			Time:      time.Unix(r.Entry.Timestamp, 0).UTC().Format(time.RFC3339),
			Score:     r.Score,
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// snippetOf collapses whitespace and truncates text for terminal display.
func snippetOf(text string, max int) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}
