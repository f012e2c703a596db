package evidence

import (
	"ai-symptomcheck-be/pkg/retrieval"
)

// Citation is a per-response reference number bound to one evidence chunk.
// Ids are 1-based and contiguous in final acceptance order; the mapping is
// never persisted.
type Citation struct {
	ID     int    `json:"id"`
	DocID  string `json:"doc_id"`
	Title  string `json:"title"`
	URL    string `json:"url"`
	Source string `json:"source"`
}

// ContextChunk is one accepted evidence chunk tagged with its citation id.
type ContextChunk struct {
	CitationID int
	Text       string
}

// ContextBundle is the budget-constrained evidence set handed to the
// generation gateway. TotalTokens <= the configured budget always holds;
// an empty bundle is a valid "no evidence" outcome, not an error.
type ContextBundle struct {
	Chunks      []ContextChunk
	Citations   []Citation
	TotalTokens int
}

// Empty reports whether assembly accepted nothing.
func (b *ContextBundle) Empty() bool {
	return len(b.Chunks) == 0
}

// Options bound what assembly may accept.
type Options struct {
	BudgetTokens  int
	MaxPerSource  int
	MaxCandidates int
	CountTokens   TokenCounter
}

// DefaultOptions mirror the production configuration defaults.
func DefaultOptions() Options {
	return Options{
		BudgetTokens:  1200,
		MaxPerSource:  2,
		MaxCandidates: 5,
		CountTokens:   EstimateTokens,
	}
}

// Assembler turns fused candidates into a deduplicated, diversified,
// budget-trimmed context bundle. Pure and deterministic: identical inputs
// produce identical bundles.
type Assembler struct {
	opts Options
}

func NewAssembler(opts Options) *Assembler {
	if opts.MaxPerSource <= 0 {
		opts.MaxPerSource = 2
	}
	if opts.MaxCandidates <= 0 {
		opts.MaxCandidates = 5
	}
	if opts.CountTokens == nil {
		opts.CountTokens = EstimateTokens
	}
	return &Assembler{opts: opts}
}

// Assemble walks candidates in fused order and applies, in order: source
// diversity cap, candidate cap, and token budget. A chunk that would
// overflow the budget is skipped, not aborted on, so later smaller chunks
// may still fit. Citation ids are assigned 1..N in acceptance order.
func (a *Assembler) Assemble(candidates []retrieval.FusedCandidate, lookup map[string]retrieval.Hit) *ContextBundle {
	bundle := &ContextBundle{}
	perSource := make(map[string]int)
	seen := make(map[string]struct{})

	for _, cand := range candidates {
		if len(bundle.Chunks) >= a.opts.MaxCandidates {
			break
		}

		hit, ok := lookup[cand.DocID]
		if !ok {
			continue
		}
		if _, dup := seen[cand.DocID]; dup {
			continue
		}
		seen[cand.DocID] = struct{}{}

		if perSource[hit.Source] >= a.opts.MaxPerSource {
			continue
		}

		tokens := a.opts.CountTokens(hit.Text)
		if a.opts.BudgetTokens > 0 && bundle.TotalTokens+tokens > a.opts.BudgetTokens {
			continue
		}

		id := len(bundle.Chunks) + 1
		bundle.Chunks = append(bundle.Chunks, ContextChunk{
			CitationID: id,
			Text:       hit.Text,
		})
		bundle.Citations = append(bundle.Citations, Citation{
			ID:     id,
			DocID:  hit.DocID,
			Title:  hit.Title,
			URL:    hit.URL,
			Source: hit.Source,
		})
		bundle.TotalTokens += tokens
		perSource[hit.Source]++
	}

	return bundle
}
