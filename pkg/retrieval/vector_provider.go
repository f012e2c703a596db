package retrieval

import (
	"context"
	"fmt"

	"ai-symptomcheck-be/internal/repository/contract"
	"ai-symptomcheck-be/pkg/embedding"
)

// ProviderVector is the provider id for the pgvector ANN search.
const ProviderVector = "vector"

// DefaultVectorK is the provider's own result depth when none is set.
const DefaultVectorK = 8

// VectorProvider embeds the query and runs a cosine-distance search over
// the pgvector chunk index.
type VectorProvider struct {
	embedder embedding.Provider
	repo     contract.DocChunkRepository
	k        int
}

var _ Provider = &VectorProvider{}

func NewVectorProvider(embedder embedding.Provider, repo contract.DocChunkRepository, k int) *VectorProvider {
	if k <= 0 {
		k = DefaultVectorK
	}
	return &VectorProvider{
		embedder: embedder,
		repo:     repo,
		k:        k,
	}
}

func (p *VectorProvider) ID() string {
	return ProviderVector
}

func (p *VectorProvider) Search(ctx context.Context, query string, filters Filters, k int) ([]Hit, error) {
	vec, err := p.embedder.Embed(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	limit := p.k
	if k > 0 && k < limit {
		limit = k
	}

	scored, err := p.repo.SearchSimilar(ctx, vec, limit, filters.Tenant, filters.Lang)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	return chunksToHits(scored), nil
}

func chunksToHits(scored []*contract.ScoredChunk) []Hit {
	hits := make([]Hit, 0, len(scored))
	for _, s := range scored {
		hits = append(hits, Hit{
			DocID:      s.Chunk.DocId,
			Text:       s.Chunk.Text,
			Source:     s.Chunk.Source,
			URL:        s.Chunk.Url,
			Title:      s.Chunk.Title,
			ChunkIndex: s.Chunk.ChunkIndex,
			Score:      s.Score,
		})
	}
	return hits
}
