// Package search ranks stored entries against a free-text query by
// embedding similarity. It is an exhaustive linear scan, O(N*D) per query
// for N entries of dimension D, which holds up at personal-archive scale
// (tens of thousands of entries). Swapping in a different algorithm
// requires re-validating ranking order.
package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/runnerr0/recall/internal/embeddings"
	"github.com/runnerr0/recall/internal/storage"
)

// DefaultLimit is used when a search does not specify a result limit.
// No hard maximum is enforced at this layer; callers impose their own.
const DefaultLimit = 20

// Result is one entry scored against the query.
type Result struct {
	Entry storage.Entry
	Score float64
}

// Searcher ranks stored entries by semantic closeness to a query.
type Searcher struct {
	store    storage.Store
	provider embeddings.Provider
}

func NewSearcher(store storage.Store, provider embeddings.Provider) *Searcher {
	return &Searcher{
		store:    store,
		provider: provider,
	}
}

// Search embeds the query and returns entries ordered by cosine similarity,
// highest first, ties broken by timestamp descending. Entries without an
// embedding (OCR found no text) are excluded from ranking entirely; they
// remain visible in the timeline. An empty query or empty corpus yields an
// empty result, not an error.
func (s *Searcher) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return []Result{}, nil
	}

	entries, err := s.store.AllEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}
	if len(entries) == 0 {
		return []Result{}, nil
	}

	queryVec, err := s.provider.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results := make([]Result, 0, len(entries))
	for _, entry := range entries {
		if len(entry.Embedding) == 0 {
			continue
		}
		results = append(results, Result{
			Entry: entry,
			Score: CosineSimilarity(queryVec, entry.Embedding),
		})
	}

	// AllEntries is timestamp-descending, so a stable sort keeps the most
	// recent entry first among equal scores.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit < len(results) {
		results = results[:limit]
	}

	return results, nil
}
