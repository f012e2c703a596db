package evidence

import (
	"strings"
	"testing"

	"ai-symptomcheck-be/pkg/retrieval"
)

// fixedTokens counts every chunk as exactly 100 tokens unless its text
// encodes a size, e.g. "big" chunks count 500.
func fixedTokens(text string) int {
	if strings.HasPrefix(text, "big") {
		return 500
	}
	return 100
}

func fixtures(specs ...[2]string) ([]retrieval.FusedCandidate, map[string]retrieval.Hit) {
	candidates := make([]retrieval.FusedCandidate, 0, len(specs))
	lookup := make(map[string]retrieval.Hit, len(specs))
	for _, s := range specs {
		docID, source := s[0], s[1]
		candidates = append(candidates, retrieval.FusedCandidate{DocID: docID})
		lookup[docID] = retrieval.Hit{
			DocID:  docID,
			Text:   "chunk " + docID,
			Title:  "Title " + docID,
			Source: source,
		}
	}
	return candidates, lookup
}

func newTestAssembler(budget, perSource, maxCand int) *Assembler {
	return NewAssembler(Options{
		BudgetTokens:  budget,
		MaxPerSource:  perSource,
		MaxCandidates: maxCand,
		CountTokens:   fixedTokens,
	})
}

func TestAssembleAcceptsInFusedOrder(t *testing.T) {
	candidates, lookup := fixtures(
		[2]string{"a", "s1"},
		[2]string{"b", "s2"},
		[2]string{"c", "s3"},
	)

	bundle := newTestAssembler(1200, 2, 5).Assemble(candidates, lookup)

	if len(bundle.Chunks) != 3 {
		t.Fatalf("accepted %d chunks, want 3", len(bundle.Chunks))
	}
	for i, want := range []string{"a", "b", "c"} {
		if bundle.Citations[i].DocID != want {
			t.Errorf("citation %d = %s, want %s", i, bundle.Citations[i].DocID, want)
		}
		if bundle.Citations[i].ID != i+1 {
			t.Errorf("citation id = %d, want %d", bundle.Citations[i].ID, i+1)
		}
		if bundle.Chunks[i].CitationID != i+1 {
			t.Errorf("chunk citation id = %d, want %d", bundle.Chunks[i].CitationID, i+1)
		}
	}
	if bundle.TotalTokens != 300 {
		t.Errorf("TotalTokens = %d, want 300", bundle.TotalTokens)
	}
}

func TestAssembleDeduplicatesByDocID(t *testing.T) {
	candidates, lookup := fixtures(
		[2]string{"a", "s1"},
		[2]string{"b", "s2"},
	)
	// The same doc appears again later in fused order.
	candidates = append(candidates, retrieval.FusedCandidate{DocID: "a"})

	bundle := newTestAssembler(1200, 2, 5).Assemble(candidates, lookup)

	if len(bundle.Chunks) != 2 {
		t.Fatalf("accepted %d chunks, want 2 (duplicate skipped)", len(bundle.Chunks))
	}
}

func TestAssembleSourceDiversityCap(t *testing.T) {
	candidates, lookup := fixtures(
		[2]string{"a", "s1"},
		[2]string{"b", "s1"},
		[2]string{"c", "s1"}, // third from same source must be skipped
		[2]string{"d", "s2"},
	)

	bundle := newTestAssembler(1200, 2, 5).Assemble(candidates, lookup)

	got := make([]string, 0, len(bundle.Citations))
	for _, c := range bundle.Citations {
		got = append(got, c.DocID)
	}
	want := []string{"a", "b", "d"}
	if len(got) != len(want) {
		t.Fatalf("accepted %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("accepted[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestAssembleCandidateCap(t *testing.T) {
	candidates, lookup := fixtures(
		[2]string{"a", "s1"},
		[2]string{"b", "s2"},
		[2]string{"c", "s3"},
		[2]string{"d", "s4"},
		[2]string{"e", "s5"},
		[2]string{"f", "s6"},
	)

	bundle := newTestAssembler(10000, 2, 5).Assemble(candidates, lookup)
	if len(bundle.Chunks) != 5 {
		t.Errorf("accepted %d chunks, want 5 (candidate cap)", len(bundle.Chunks))
	}
}

func TestAssembleBudgetSkipAndContinue(t *testing.T) {
	// a fits, big-b would overflow and is skipped, c still fits after.
	candidates, lookup := fixtures(
		[2]string{"a", "s1"},
		[2]string{"b", "s2"},
		[2]string{"c", "s3"},
	)
	hit := lookup["b"]
	hit.Text = "big " + hit.Text
	lookup["b"] = hit

	bundle := newTestAssembler(250, 2, 5).Assemble(candidates, lookup)

	if len(bundle.Chunks) != 2 {
		t.Fatalf("accepted %d chunks, want 2", len(bundle.Chunks))
	}
	if bundle.Citations[0].DocID != "a" || bundle.Citations[1].DocID != "c" {
		t.Errorf("accepted %s, %s; want a, c", bundle.Citations[0].DocID, bundle.Citations[1].DocID)
	}
	if bundle.TotalTokens > 250 {
		t.Errorf("TotalTokens = %d exceeds budget 250", bundle.TotalTokens)
	}
	// Ids stay contiguous after the skip.
	if bundle.Citations[1].ID != 2 {
		t.Errorf("second citation id = %d, want 2", bundle.Citations[1].ID)
	}
}

func TestAssembleMissingLookupSkipped(t *testing.T) {
	candidates, lookup := fixtures([2]string{"a", "s1"})
	candidates = append(candidates, retrieval.FusedCandidate{DocID: "ghost"})

	bundle := newTestAssembler(1200, 2, 5).Assemble(candidates, lookup)
	if len(bundle.Chunks) != 1 {
		t.Errorf("accepted %d chunks, want 1", len(bundle.Chunks))
	}
}

func TestAssembleEmptyInput(t *testing.T) {
	bundle := newTestAssembler(1200, 2, 5).Assemble(nil, nil)
	if !bundle.Empty() {
		t.Errorf("bundle not empty: %+v", bundle)
	}
	if bundle.TotalTokens != 0 {
		t.Errorf("TotalTokens = %d, want 0", bundle.TotalTokens)
	}
}

func TestAssembleDeterministic(t *testing.T) {
	candidates, lookup := fixtures(
		[2]string{"a", "s1"},
		[2]string{"b", "s1"},
		[2]string{"c", "s2"},
	)
	a := newTestAssembler(1200, 2, 5)

	first := a.Assemble(candidates, lookup)
	for i := 0; i < 5; i++ {
		got := a.Assemble(candidates, lookup)
		if len(got.Chunks) != len(first.Chunks) || got.TotalTokens != first.TotalTokens {
			t.Fatalf("run %d diverged: %+v vs %+v", i, got, first)
		}
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"word", 1},
		{"four char blocks estimate", 6}, // 25 chars / 4 = 6 > 4 words
		{"a b c d e f g h i j", 10},      // word count dominates short words
	}

	for _, tt := range tests {
		if got := EstimateTokens(tt.text); got != tt.want {
			t.Errorf("EstimateTokens(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}
