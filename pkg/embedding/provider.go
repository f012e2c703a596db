package embedding

import "context"

// Task types hint the provider how the embedding will be used. Some models
// (Gemini, nomic) produce asymmetric embeddings for queries vs documents.
const (
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
)

// Provider generates a unit-length embedding vector for a piece of text.
type Provider interface {
	Embed(ctx context.Context, text string, taskType string) ([]float32, error)
}
