// Package server exposes the dashboard's read API over HTTP/JSON. It only
// talks to the entry store and the searcher; it never touches storage
// directly, and storage trouble degrades to empty payloads rather than
// error pages.
package server

import (
	"context"
	"net/http"

	"github.com/runnerr0/recall/internal/config"
	"github.com/runnerr0/recall/internal/search"
	"github.com/runnerr0/recall/internal/storage"
)

// Searcher is the slice of the search engine the API consumes.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]search.Result, error)
}

// Recorder is the slice of recording control the API exposes.
type Recorder interface {
	Running() bool
	Paused() bool
	IsRecording() bool
	Pause()
	Resume()
}

// EmbedderHealth reports whether the embedding backend is reachable.
// Providers without a health probe pass nil and the status payload omits
// the field.
type EmbedderHealth interface {
	Healthy(ctx context.Context) bool
}

// New builds the dashboard HTTP server. Screenshots are served as static
// files straight out of the screenshots directory, named by timestamp.
func New(cfg *config.Config, store storage.Store, searcher Searcher, rec Recorder, health EmbedderHealth, version string) *http.Server {
	h := NewHandlers(store, searcher, rec, health, version)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/entries", h.Entries)
	mux.HandleFunc("GET /api/entries/{id}", h.EntryByID)
	mux.HandleFunc("GET /api/search", h.Search)
	mux.HandleFunc("GET /api/timeline", h.Timeline)
	mux.HandleFunc("GET /api/apps", h.Apps)
	mux.HandleFunc("GET /api/stats", h.Stats)
	mux.HandleFunc("GET /api/status", h.Status)
	mux.HandleFunc("POST /api/pause", h.Pause)
	mux.HandleFunc("POST /api/resume", h.Resume)
	mux.Handle("GET /static/", http.StripPrefix("/static/",
		http.FileServer(http.Dir(cfg.ScreenshotsPath()))))

	return &http.Server{
		Addr:    cfg.ServerAddr(),
		Handler: mux,
	}
}
