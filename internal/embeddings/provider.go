// Package embeddings turns text into fixed-width float vectors for
// similarity search. Providers must be deterministic for identical input
// within a process lifetime, and the vector width must match whatever was
// used for previously stored embeddings: changing providers invalidates
// historical search ranking, and there is no migration path.
package embeddings

import (
	"context"
	"fmt"

	"github.com/runnerr0/recall/internal/config"
)

// Provider produces an embedding vector for a piece of text.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// New builds the provider selected by the embeddings config.
func New(cfg config.EmbeddingsConfig) (Provider, error) {
	switch cfg.Provider {
	case "", "ollama":
		return NewOllamaProvider(cfg.OllamaURL, cfg.Model, cfg.Dimensions), nil
	case "openai":
		return NewOpenAIProvider(cfg)
	default:
		return nil, fmt.Errorf("unknown embeddings provider %q", cfg.Provider)
	}
}
