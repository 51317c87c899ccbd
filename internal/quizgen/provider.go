package quizgen

import (
	"context"
	"encoding/json"
)

// Provider abstracts the hosted generative model. Implementations send one
// prompt and return the raw textual reply; every call is an independent
// network round trip with no caching and no retries.
type Provider interface {
	// Generate sends the request and returns the model's reply. When the
	// request carries a Schema, the provider asks the service for
	// structured JSON output conforming to it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes one generation call.
type Request struct {
	// System sets the model's role and constraints.
	System string

	// Prompt is the user instruction embedding topic, difficulty and count.
	Prompt string

	// Schema is the JSON Schema the reply must conform to. Providers with
	// native structured output send it server-side.
	Schema *Schema

	// MaxTokens bounds the reply length. Zero means provider default.
	MaxTokens int

	// Temperature controls randomness. Range 0.0 - 1.0.
	Temperature float64
}

// Schema defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies this schema for caching and provider-side naming.
	Name string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the model's reply.
type Response struct {
	// Content is the raw reply text. Expected to be JSON, but sanitized
	// and validated by the caller regardless.
	Content json.RawMessage

	// Model is the actual model that served the request.
	Model string
}
