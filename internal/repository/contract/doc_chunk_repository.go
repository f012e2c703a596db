package contract

import (
	"context"
	"errors"

	"ai-symptomcheck-be/internal/model"
)

// ErrDuplicateChunk is returned by Create when a chunk with the same doc_id
// already exists.
var ErrDuplicateChunk = errors.New("doc chunk already exists")

// ScoredChunk pairs a chunk with the provider-local relevance score that
// produced it. Scores from different search modes are not comparable; only
// their ranks are.
type ScoredChunk struct {
	Chunk *model.DocChunk
	Score float64
}

type DocChunkRepository interface {
	Create(ctx context.Context, chunk *model.DocChunk) error
	CreateBatch(ctx context.Context, chunks []*model.DocChunk) error
	Count(ctx context.Context, tenant string) (int64, error)

	// SearchSimilar orders by pgvector cosine distance against a unit query
	// vector and returns cosine similarity as the score.
	SearchSimilar(ctx context.Context, embedding []float32, limit int, tenant, lang string) ([]*ScoredChunk, error)

	// SearchKeyword orders by Postgres full-text rank (plainto_tsquery over
	// Text) and returns ts_rank as the score.
	SearchKeyword(ctx context.Context, query string, limit int, tenant, lang string) ([]*ScoredChunk, error)
}
