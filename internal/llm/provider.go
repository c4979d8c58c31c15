package llm

import (
	"context"
	"encoding/json"
)

// Provider generates structured output with a large language model.
type Provider interface {
	// Generate sends the request and returns the model output. When
	// req.Schema is set, the content is JSON validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model this provider targets.
	ModelID() string
}

// Request is a single generation request.
type Request struct {
	// System sets the model's role and rules.
	System string

	// Messages holds the conversation. Question generation sends one user
	// message.
	Messages []Message

	// Schema, when set, switches the provider to its native structured
	// output mode.
	Schema *Schema

	MaxTokens int

	// Temperature ranges 0.0-1.0; zero keeps the provider default.
	Temperature float64
}

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is the JSON Schema expected from the model.
type Schema struct {
	// Name identifies the schema in provider requests and the compiled
	// schema cache. Kebab-case.
	Name string

	Description string

	// Definition is the JSON Schema document.
	Definition map[string]any
}

// Response holds the model output.
type Response struct {
	// Content is validated JSON when the request carried a Schema.
	Content json.RawMessage

	Usage Usage

	// Model is the model that served the request.
	Model string

	// StopReason is normalized to "end", "max_tokens" or "error".
	StopReason string
}

// Usage reports token consumption of one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
