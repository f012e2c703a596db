package retrieval

import "sort"

// DefaultRRFK is the reciprocal-rank-fusion smoothing constant.
const DefaultRRFK = 60

// FusedCandidate is one distinct document after rank fusion, with the
// 1-based rank it held in each contributing provider list.
type FusedCandidate struct {
	DocID string
	Score float64
	Ranks map[string]int
}

// FuseRRF merges per-provider ranked lists with reciprocal-rank fusion:
// a hit at 1-based rank r contributes 1/(k+r) to its document's fused
// score, and documents absent from a list contribute nothing from it.
//
// The result is ordered by descending fused score with ties broken by the
// lexicographically smallest doc id, so output is deterministic and
// commutative over the provider map. Empty input yields empty output.
func FuseRRF(lists map[string][]Hit, k int) []FusedCandidate {
	if k <= 0 {
		k = DefaultRRFK
	}

	byDoc := make(map[string]*FusedCandidate)
	for providerID, hits := range lists {
		for i, hit := range hits {
			rank := i + 1
			c, ok := byDoc[hit.DocID]
			if !ok {
				c = &FusedCandidate{
					DocID: hit.DocID,
					Ranks: make(map[string]int, len(lists)),
				}
				byDoc[hit.DocID] = c
			}
			c.Score += 1.0 / float64(k+rank)
			c.Ranks[providerID] = rank
		}
	}

	fused := make([]FusedCandidate, 0, len(byDoc))
	for _, c := range byDoc {
		fused = append(fused, *c)
	}

	sort.Slice(fused, func(i, j int) bool {
		if fused[i].Score == fused[j].Score {
			return fused[i].DocID < fused[j].DocID
		}
		return fused[i].Score > fused[j].Score
	})

	return fused
}

// HitLookup indexes hits by doc id so the assembler can recover chunk text
// and source metadata for fused candidates. First occurrence wins; provider
// lists carry identical payloads for the same doc id.
func HitLookup(lists map[string][]Hit) map[string]Hit {
	lookup := make(map[string]Hit)
	for _, hits := range lists {
		for _, hit := range hits {
			if _, ok := lookup[hit.DocID]; !ok {
				lookup[hit.DocID] = hit
			}
		}
	}
	return lookup
}
