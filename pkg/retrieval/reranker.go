package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"
)

// Reranker re-scores fused candidates with a cross-encoder and returns a
// re-ordered subset of at most topN. Optional: reranker failure is always
// non-fatal and callers fall back to the fused order.
type Reranker interface {
	Rerank(ctx context.Context, query string, candidates []FusedCandidate, lookup map[string]Hit, topN int) ([]FusedCandidate, error)
}

// HTTPReranker calls an external cross-encoder scoring service
// (bge-reranker-base behind a small HTTP wrapper).
type HTTPReranker struct {
	BaseURL string
	Client  *http.Client
}

var _ Reranker = &HTTPReranker{}

func NewHTTPReranker(baseURL string) *HTTPReranker {
	return &HTTPReranker{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 5 * time.Second},
	}
}

type rerankRequest struct {
	Query string   `json:"query"`
	Texts []string `json:"texts"`
}

type rerankResponse struct {
	Scores []float64 `json:"scores"`
}

func (r *HTTPReranker) Rerank(ctx context.Context, query string, candidates []FusedCandidate, lookup map[string]Hit, topN int) ([]FusedCandidate, error) {
	if len(candidates) == 0 {
		return candidates, nil
	}
	if topN <= 0 || topN > len(candidates) {
		topN = len(candidates)
	}

	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = lookup[c.DocID].Text
	}

	payload, err := json.Marshal(rerankRequest{Query: query, Texts: texts})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.BaseURL+"/rerank", bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reranker request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reranker error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var out rerankResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	if len(out.Scores) != len(candidates) {
		return nil, fmt.Errorf("reranker returned %d scores for %d candidates", len(out.Scores), len(candidates))
	}

	scoreByDoc := make(map[string]float64, len(candidates))
	for i, c := range candidates {
		scoreByDoc[c.DocID] = out.Scores[i]
	}

	reranked := make([]FusedCandidate, len(candidates))
	copy(reranked, candidates)
	sort.SliceStable(reranked, func(i, j int) bool {
		return scoreByDoc[reranked[i].DocID] > scoreByDoc[reranked[j].DocID]
	})

	return reranked[:topN], nil
}
