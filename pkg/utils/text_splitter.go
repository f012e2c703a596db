package utils

import "unicode"

// SplitText splits a document into chunks of approximately chunkSize
// characters with an overlap to preserve context across boundaries. Cuts
// snap back to the nearest whitespace so words are never bisected; a chunk
// with no whitespace near the cut falls back to a hard slice.
func SplitText(text string, chunkSize int, overlap int) []string {
	runes := []rune(text)
	if len(runes) <= chunkSize {
		return []string{text}
	}

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize
	}

	var chunks []string
	for i := 0; i < len(runes); i += step {
		end := i + chunkSize
		if end >= len(runes) {
			chunks = append(chunks, string(runes[i:]))
			break
		}

		cut := end
		for cut > i && !unicode.IsSpace(runes[cut-1]) {
			if end-cut > chunkSize/5 {
				cut = end // no whitespace nearby, hard cut
				break
			}
			cut--
		}
		if cut == i {
			cut = end
		}

		chunks = append(chunks, string(runes[i:cut]))
	}

	return chunks
}
