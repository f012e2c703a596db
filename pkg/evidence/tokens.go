package evidence

import "strings"

// TokenCounter measures a chunk in model input tokens. The generation
// model's real tokenizer lives outside this process, so the default is a
// heuristic; callers with access to the tokenizer inject their own.
type TokenCounter func(text string) int

// EstimateTokens approximates English prose at roughly four characters per
// token, never under-counting below the word count.
func EstimateTokens(text string) int {
	byChars := len(text) / 4
	byWords := len(strings.Fields(text))
	if byWords > byChars {
		return byWords
	}
	return byChars
}
