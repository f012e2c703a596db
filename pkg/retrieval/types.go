package retrieval

import "context"

// Hit is one ranked result from a single provider. Rank is 1-based and
// assigned per provider; Score is provider-local and NOT comparable across
// providers (cosine similarity vs ts_rank), which is why fusion works on
// ranks only.
type Hit struct {
	DocID      string
	Text       string
	Source     string
	URL        string
	Title      string
	ChunkIndex int
	Score      float64
	Rank       int
}

// Filters narrow every provider search. Read-only after config load.
type Filters struct {
	Tenant string
	Lang   string
}

// Provider is a ranked-list retrieval capability. Implementations must
// return hits best-first and respect ctx cancellation.
type Provider interface {
	ID() string
	Search(ctx context.Context, query string, filters Filters, k int) ([]Hit, error)
}
