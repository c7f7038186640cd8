// Package llm holds thin chat clients for the providers the CLI can
// query: Anthropic, Ollama, and Perplexity.
package llm

import (
	"context"
	"fmt"
	"io"
	"strings"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ModelType picks a capability tier, mapped to a concrete model per
// provider.
type ModelType string

const (
	ModelSmall    ModelType = "small"
	ModelLarge    ModelType = "large"
	ModelThinking ModelType = "thinking"
)

func ParseModelType(s string) (ModelType, error) {
	switch ModelType(s) {
	case ModelSmall, ModelLarge, ModelThinking:
		return ModelType(s), nil
	default:
		return "", fmt.Errorf("unknown model type %q, expected small, large, or thinking", s)
	}
}

type ChatRequest struct {
	Query string
	Model ModelType
}

type ChatResponse struct {
	Message Message
	// Citations are source URLs, set by providers that search the web.
	Citations []string
}

// Delta is one streamed chunk of a response.
type Delta struct {
	Text string
	// Thinking marks reasoning output, rendered apart from the answer.
	Thinking  bool
	Citations []string
}

// Chat is a provider that can answer a single-turn query.
type Chat interface {
	CreateMessage(ctx context.Context, request ChatRequest) (ChatResponse, error)
}

// Streamer is a provider that can stream the response incrementally.
type Streamer interface {
	StreamMessage(ctx context.Context, request ChatRequest, onDelta func(Delta) error) error
}

// GetQuery returns the query argument, falling back to stdin so the
// command can be piped into.
func GetQuery(query string, stdin io.Reader) (string, error) {
	if strings.TrimSpace(query) != "" {
		return query, nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("reading query from stdin: %w", err)
	}
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return "", fmt.Errorf("no query given on the command line or stdin")
	}
	return trimmed, nil
}
