package search

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// Embedder turns text into embedding vectors. Process-wide, constructed
// once from configuration at startup.
type Embedder struct {
	client *openai.Client
}

func NewEmbedder(apiKey string) *Embedder {
	return &Embedder{client: openai.NewClient(apiKey)}
}

// Embed converts text to an embedding vector using OpenAI's API.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.AdaEmbeddingV2,
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI embedding creation failed: %w", err)
	}
	return resp.Data[0].Embedding, nil
}
