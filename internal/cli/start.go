package cli

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/runnerr0/recall/internal/capture"
	"github.com/runnerr0/recall/internal/config"
	"github.com/runnerr0/recall/internal/controller"
	"github.com/runnerr0/recall/internal/embeddings"
	"github.com/runnerr0/recall/internal/search"
	"github.com/runnerr0/recall/internal/server"
)

// Execute implements the go-flags Commander interface for StartCommand.
func (c *StartCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}
	c.applyOverrides(cfg)

	logger := newLogger(cfg, c.globals)
	slog.SetDefault(logger)

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

	source := capture.NewScreenSource(cfg.Capture.PrimaryMonitorOnly)
	ocr := capture.NewTesseractOCR(cfg.Capture.OCRBinary, cfg.Capture.OCRLanguages)
	loop := capture.NewLoop(capture.LoopConfig{
		ScreenshotsDir: cfg.ScreenshotsPath(),
		Interval:       time.Duration(cfg.Capture.IntervalSeconds) * time.Second,
		PausePoll:      time.Duration(cfg.Capture.PausePollSeconds) * time.Second,
		SkipUnchanged:  cfg.Capture.SkipUnchanged,
		DenylistApps:   cfg.Capture.DenylistApps,
	}, source, ocr, provider, store, logger)

	state := controller.NewState()

	var newServer func() *http.Server
	if !c.NoServer {
		searcher := search.NewSearcher(store, provider)
		health, _ := provider.(server.EmbedderHealth)
		newServer = func() *http.Server {
			return server.New(cfg, store, searcher, state, health, c.version)
		}
	}

	ctrl := controller.New(state, loop, newServer, logger)
	ctrl.Start()

	logger.Info("recall started",
		"data", cfg.DataPath(),
		"dashboard", fmt.Sprintf("http://%s", cfg.ServerAddr()),
	)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	logger.Info("shutting down")
	ctrl.Stop()
	return nil
}

func (c *StartCommand) applyOverrides(cfg *config.Config) {
	if c.Port > 0 {
		cfg.Server.Port = c.Port
	}
	if c.Interval > 0 {
		cfg.Capture.IntervalSeconds = c.Interval
	}
	if c.StoragePath != "" {
		cfg.Storage.Path = c.StoragePath
	}
	if c.PrimaryMonitorOnly {
		cfg.Capture.PrimaryMonitorOnly = true
	}
}
