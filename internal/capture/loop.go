package capture

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/runnerr0/recall/internal/embeddings"
	"github.com/runnerr0/recall/internal/storage"
)

const (
	defaultInterval  = 3 * time.Second
	defaultPausePoll = time.Second
)

// LoopConfig carries the tunables of a capture loop.
type LoopConfig struct {
	// ScreenshotsDir receives one image file per stored timestamp,
	// named <timestamp>.png.
	ScreenshotsDir string
	// Interval is the cadence between ticks.
	Interval time.Duration
	// PausePoll is how often the pause gate is re-checked while paused.
	PausePoll time.Duration
	// SkipUnchanged skips OCR, embedding, and writes when the frame is
	// byte-identical to the previous tick's.
	SkipUnchanged bool
	// DenylistApps lists app-name substrings that must never be captured.
	DenylistApps []string
	// Now is the clock, injectable for tests. Defaults to time.Now.
	Now func() time.Time
}

// Loop drives the capture pipeline at a fixed cadence. Ticks are strictly
// sequential: tick N finishes (success or skip) before tick N+1 begins.
type Loop struct {
	source   Source
	ocr      OCR
	provider embeddings.Provider
	store    storage.Store
	logger   *slog.Logger

	shotsDir      string
	interval      time.Duration
	pausePoll     time.Duration
	skipUnchanged bool
	denylist      []string
	now           func() time.Time

	lastHash [sha256.Size]byte
	hasLast  bool
}

// NewLoop wires a capture loop. provider may be nil only if every frame is
// expected to OCR to empty text; in practice pass a real provider.
func NewLoop(cfg LoopConfig, source Source, ocr OCR, provider embeddings.Provider, store storage.Store, logger *slog.Logger) *Loop {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.PausePoll <= 0 {
		cfg.PausePoll = defaultPausePoll
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Loop{
		source:        source,
		ocr:           ocr,
		provider:      provider,
		store:         store,
		logger:        logger,
		shotsDir:      cfg.ScreenshotsDir,
		interval:      cfg.Interval,
		pausePoll:     cfg.PausePoll,
		skipUnchanged: cfg.SkipUnchanged,
		denylist:      cfg.DenylistApps,
		now:           cfg.Now,
	}
}

// Run executes capture ticks until ctx is cancelled. While gate reports
// paused, the loop sleeps and re-checks without capturing, running OCR, or
// writing. Per-tick failures are logged and skip the tick; they never
// terminate the loop.
func (l *Loop) Run(ctx context.Context, gate Gate) {
	l.logger.Info("capture loop started", "interval", l.interval)

	for {
		if ctx.Err() != nil {
			l.logger.Info("capture loop stopped")
			return
		}

		if gate != nil && gate.Paused() {
			if !sleep(ctx, l.pausePoll) {
				l.logger.Info("capture loop stopped")
				return
			}
			continue
		}

		l.tick(ctx)

		if !sleep(ctx, l.interval) {
			l.logger.Info("capture loop stopped")
			return
		}
	}
}

func (l *Loop) tick(ctx context.Context) {
	frame, err := l.source.Capture(ctx)
	if err != nil {
		l.logger.Warn("screen capture failed, retrying next tick", "err", err)
		return
	}

	if l.denied(frame.App) {
		l.logger.Debug("foreground app is denylisted, skipping tick", "app", frame.App)
		return
	}

	var frameHash [sha256.Size]byte
	if l.skipUnchanged {
		frameHash = sha256.Sum256(frame.Image)
		if l.hasLast && frameHash == l.lastHash {
			l.logger.Debug("screen unchanged, skipping tick")
			return
		}
	}

	text, err := l.ocr.Text(ctx, frame.Image)
	if err != nil {
		l.logger.Warn("ocr failed, skipping tick", "err", err)
		return
	}

	var embedding []float32
	if text != "" && l.provider != nil {
		embedding, err = l.provider.Embed(ctx, text)
		if err != nil {
			l.logger.Warn("embedding failed, skipping tick", "err", err)
			return
		}
	}

	ts := l.now().Unix()

	// The dashboard expects one image file per stored timestamp, so the
	// entry is only inserted once the screenshot is on disk.
	if err := l.writeScreenshot(ts, frame.Image); err != nil {
		l.logger.Error("screenshot write failed, entry not recorded", "timestamp", ts, "err", err)
		return
	}

	id, inserted, err := l.store.InsertEntry(ctx, storage.NewEntry{
		App:       frame.App,
		Title:     frame.Title,
		Text:      text,
		Timestamp: ts,
		Embedding: embedding,
	})
	if err != nil {
		l.logger.Warn("entry insert failed, skipping tick", "timestamp", ts, "err", err)
		return
	}

	// The frame only counts as seen once it is persisted. Committing the
	// hash earlier would make a transient OCR or write failure suppress a
	// static screen forever.
	if l.skipUnchanged {
		l.lastHash = frameHash
		l.hasLast = true
	}

	if !inserted {
		l.logger.Debug("timestamp already captured", "timestamp", ts)
		return
	}

	l.logger.Debug("entry recorded", "id", id, "timestamp", ts, "app", frame.App)
}

// denied reports whether the foreground app matches the privacy denylist.
func (l *Loop) denied(app string) bool {
	if app == "" {
		return false
	}
	lower := strings.ToLower(app)
	for _, d := range l.denylist {
		if d != "" && strings.Contains(lower, strings.ToLower(d)) {
			return true
		}
	}
	return false
}

func (l *Loop) writeScreenshot(ts int64, image []byte) error {
	path := filepath.Join(l.shotsDir, fmt.Sprintf("%d.png", ts))
	return os.WriteFile(path, image, 0644)
}

// sleep waits for d or ctx cancellation, reporting false when cancelled.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
