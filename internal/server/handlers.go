package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/runnerr0/recall/internal/search"
	"github.com/runnerr0/recall/internal/storage"
)

// searchResultCeiling bounds the search limit at the API layer; the search
// engine itself does not enforce a maximum.
const searchResultCeiling = 200

type Handlers struct {
	store    storage.Store
	searcher Searcher
	rec      Recorder
	health   EmbedderHealth
	logger   *slog.Logger
	version  string
}

func NewHandlers(store storage.Store, searcher Searcher, rec Recorder, health EmbedderHealth, version string) *Handlers {
	return &Handlers{
		store:    store,
		searcher: searcher,
		rec:      rec,
		health:   health,
		logger:   slog.Default(),
		version:  version,
	}
}

// entryJSON is the wire shape of an entry.
type entryJSON struct {
	ID            int64    `json:"id"`
	App           string   `json:"app"`
	Title         string   `json:"title"`
	Text          string   `json:"text"`
	Timestamp     int64    `json:"timestamp"`
	ScreenshotURL string   `json:"screenshot_url"`
	FormattedTime string   `json:"formatted_time"`
	Tags          []string `json:"tags"`
	Score         *float64 `json:"similarity_score,omitempty"`
}

func entryToJSON(e storage.Entry, score *float64) entryJSON {
	app := e.App
	if app == "" {
		app = "Unknown"
	}
	return entryJSON{
		ID:            e.ID,
		App:           app,
		Title:         e.Title,
		Text:          e.Text,
		Timestamp:     e.Timestamp,
		ScreenshotURL: fmt.Sprintf("/static/%d.png", e.Timestamp),
		FormattedTime: time.Unix(e.Timestamp, 0).Local().Format("2006-01-02 15:04:05"),
		Tags:          generateTags(e.App, e.Title),
		Score:         score,
	}
}

// Entries returns one page of the timeline, newest first.
// Query params: page, limit, start_time, end_time, app.
func (h *Handlers) Entries(w http.ResponseWriter, r *http.Request) {
	q := storage.PageQuery{
		Page:      queryInt(r, "page", 1),
		Limit:     queryInt(r, "limit", storage.DefaultPageLimit),
		StartTime: int64(queryInt(r, "start_time", 0)),
		EndTime:   int64(queryInt(r, "end_time", 0)),
		App:       r.URL.Query().Get("app"),
	}

	entries, total, err := h.store.EntriesPage(r.Context(), q)
	if err != nil {
		// Storage trouble shows as an empty timeline, never an error page.
		h.logger.Error("entries page failed", "err", err)
		entries, total = nil, 0
	}

	out := make([]entryJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryToJSON(e, nil))
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit <= 0 {
		limit = storage.DefaultPageLimit
	}
	if limit > storage.MaxPageLimit {
		limit = storage.MaxPageLimit
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"entries":  out,
		"total":    total,
		"page":     page,
		"limit":    limit,
		"has_more": int64(page*limit) < total,
	})
}

// EntryByID returns a single entry or 404.
func (h *Handlers) EntryByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	entry, err := h.store.EntryByID(r.Context(), id)
	if err != nil {
		h.logger.Error("entry lookup failed", "id", id, "err", err)
		entry = nil
	}
	if entry == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "entry not found"})
		return
	}

	writeJSON(w, http.StatusOK, entryToJSON(*entry, nil))
}

// Search ranks entries against the query by embedding similarity.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing query parameter 'q'"})
		return
	}

	limit := queryInt(r, "limit", search.DefaultLimit)
	if limit > searchResultCeiling {
		limit = searchResultCeiling
	}

	results, err := h.searcher.Search(r.Context(), query, limit)
	if err != nil {
		h.logger.Error("search failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "search failed"})
		return
	}

	out := make([]entryJSON, 0, len(results))
	for _, res := range results {
		score := res.Score
		out = append(out, entryToJSON(res.Entry, &score))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"query":   query,
		"results": out,
		"total":   len(out),
	})
}

// Timeline returns all capture timestamps, newest first.
func (h *Handlers) Timeline(w http.ResponseWriter, r *http.Request) {
	timestamps, err := h.store.Timestamps(r.Context())
	if err != nil {
		h.logger.Error("timeline failed", "err", err)
		timestamps = []int64{}
	}

	var start, end any
	if len(timestamps) > 0 {
		start = timestamps[len(timestamps)-1]
		end = timestamps[0]
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"timestamps":  timestamps,
		"date_range":  map[string]any{"start": start, "end": end},
		"total_count": len(timestamps),
	})
}

// Apps lists the distinct foreground applications seen so far.
func (h *Handlers) Apps(w http.ResponseWriter, r *http.Request) {
	apps, err := h.store.UniqueApps(r.Context())
	if err != nil {
		h.logger.Error("apps failed", "err", err)
		apps = []storage.AppCount{}
	}

	type appJSON struct {
		Name     string `json:"name"`
		Count    int64  `json:"count"`
		Category string `json:"category,omitempty"`
	}

	out := make([]appJSON, 0, len(apps))
	for _, a := range apps {
		name := a.App
		if name == "" {
			name = "Unknown"
		}
		out = append(out, appJSON{
			Name:     name,
			Count:    a.Count,
			Category: appCategory(a.App),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"apps": out})
}

// Stats returns aggregate archive statistics plus recording status.
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		h.logger.Error("stats failed", "err", err)
		stats = &storage.Stats{}
	}

	type appJSON struct {
		Name  string `json:"name"`
		Count int64  `json:"count"`
	}
	type hourJSON struct {
		Hour  int   `json:"hour"`
		Count int64 `json:"count"`
	}

	topApps := make([]appJSON, 0, len(stats.TopApps))
	for _, a := range stats.TopApps {
		topApps = append(topApps, appJSON{Name: a.App, Count: a.Count})
	}
	byHour := make([]hourJSON, 0, len(stats.ActivityByHour))
	for _, hc := range stats.ActivityByHour {
		byHour = append(byHour, hourJSON{Hour: hc.Hour, Count: hc.Count})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total_entries": stats.TotalEntries,
		"date_range": map[string]any{
			"first_entry": stats.FirstTimestamp,
			"last_entry":  stats.LastTimestamp,
		},
		"apps":             topApps,
		"activity_by_hour": byHour,
		"storage_used_mb":  float64(stats.ScreenshotsBytes) / (1 << 20),
		"memory_status":    h.recordingStatus(),
		"version":          h.version,
	})
}

// Status reports the recorder state, the most recent capture, and the
// embedding backend's health when the provider exposes a probe.
func (h *Handlers) Status(w http.ResponseWriter, r *http.Request) {
	var lastCapture any
	if timestamps, err := h.store.Timestamps(r.Context()); err == nil && len(timestamps) > 0 {
		lastCapture = timestamps[0]
	}

	payload := map[string]any{
		"status":       h.recordingStatus(),
		"recording":    h.rec.IsRecording(),
		"paused":       h.rec.Paused(),
		"last_capture": lastCapture,
		"version":      h.version,
	}
	if h.health != nil {
		payload["embedder_healthy"] = h.health.Healthy(r.Context())
	}

	writeJSON(w, http.StatusOK, payload)
}

// Pause suspends recording at the loop's next tick boundary.
func (h *Handlers) Pause(w http.ResponseWriter, r *http.Request) {
	h.rec.Pause()
	writeJSON(w, http.StatusOK, map[string]string{"status": "paused"})
}

// Resume re-enables recording.
func (h *Handlers) Resume(w http.ResponseWriter, r *http.Request) {
	h.rec.Resume()
	writeJSON(w, http.StatusOK, map[string]string{"status": "recording"})
}

// recordingStatus reduces the recorder flags to one display word. A stopped
// recorder is inactive even if a pause flag is still set.
func (h *Handlers) recordingStatus() string {
	switch {
	case !h.rec.Running():
		return "inactive"
	case h.rec.Paused():
		return "paused"
	default:
		return "active"
	}
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
