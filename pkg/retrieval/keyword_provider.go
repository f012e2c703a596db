package retrieval

import (
	"context"
	"fmt"

	"ai-symptomcheck-be/internal/repository/contract"
)

// ProviderKeyword is the provider id for the lexical full-text search.
const ProviderKeyword = "keyword"

// DefaultKeywordK is the provider's own result depth when none is set.
// Lexical search runs deeper than vector search; fusion trims the merge.
const DefaultKeywordK = 12

// KeywordProvider runs a Postgres full-text search over the same chunk
// table the vector provider uses. Its ts_rank scores live on a different
// scale than cosine similarity, which fusion absorbs by ignoring scores.
type KeywordProvider struct {
	repo contract.DocChunkRepository
	k    int
}

var _ Provider = &KeywordProvider{}

func NewKeywordProvider(repo contract.DocChunkRepository, k int) *KeywordProvider {
	if k <= 0 {
		k = DefaultKeywordK
	}
	return &KeywordProvider{repo: repo, k: k}
}

func (p *KeywordProvider) ID() string {
	return ProviderKeyword
}

func (p *KeywordProvider) Search(ctx context.Context, query string, filters Filters, k int) ([]Hit, error) {
	limit := p.k
	if k > 0 && k < limit {
		limit = k
	}

	scored, err := p.repo.SearchKeyword(ctx, query, limit, filters.Tenant, filters.Lang)
	if err != nil {
		return nil, fmt.Errorf("keyword search failed: %w", err)
	}
	return chunksToHits(scored), nil
}
