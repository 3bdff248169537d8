// internal/embedding/gemini.go
package embedding

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const geminiEmbedModel = "text-embedding-004"

// GeminiEncoder computes embeddings with the Gemini embedding API. The API
// is stable for a fixed model version, which is all the cache key needs.
type GeminiEncoder struct {
	client    *genai.Client
	model     string
	dimension int
}

func NewGeminiEncoder(ctx context.Context, apiKey string, dimension int) (*GeminiEncoder, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	if dimension <= 0 {
		dimension = DefaultDimension
	}

	return &GeminiEncoder{
		client:    client,
		model:     geminiEmbedModel,
		dimension: dimension,
	}, nil
}

func (g *GeminiEncoder) ModelVersion() string { return g.model }

func (g *GeminiEncoder) Dimension() int { return g.dimension }

func (g *GeminiEncoder) Encode(ctx context.Context, text string) (Vector, error) {
	if len(text) > maxEncodeLength {
		text = text[:maxEncodeLength]
	}

	dim := int32(g.dimension)
	result, err := g.client.Models.EmbedContent(ctx, g.model, genai.Text(text), &genai.EmbedContentConfig{
		OutputDimensionality: &dim,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 || len(result.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	v := Vector(result.Embeddings[0].Values)
	v.normalize()
	return v, nil
}
