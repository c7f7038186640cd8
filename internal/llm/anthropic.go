package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kdeal/misc/internal/config"
	"github.com/kdeal/misc/internal/log"
)

const anthropicMessagesURL = "https://api.anthropic.com/v1/messages"
const anthropicVersion = "2023-06-01"

const anthropicSmallModel = "claude-3-5-haiku-latest"
const anthropicLargeModel = "claude-3-7-sonnet-latest"

type anthropicThinking struct {
	Type         string `json:"type"`
	BudgetTokens int    `json:"budget_tokens"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	Messages  []Message          `json:"messages"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Stream    bool               `json:"stream,omitempty"`
	Thinking  *anthropicThinking `json:"thinking,omitempty"`
}

type anthropicContentBlock struct {
	Type     string `json:"type"`
	Text     string `json:"text"`
	Thinking string `json:"thinking"`
}

type anthropicResponse struct {
	ID         string                  `json:"id"`
	Model      string                  `json:"model"`
	Role       Role                    `json:"role"`
	Content    []anthropicContentBlock `json:"content"`
	StopReason string                  `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// AnthropicClient talks to the Anthropic messages API.
type AnthropicClient struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
}

func NewAnthropicClient(apiKey string) *AnthropicClient {
	return &AnthropicClient{
		apiKey: apiKey,
		apiURL: anthropicMessagesURL,
		// Streams can sit open much longer than a normal request.
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}
}

func NewAnthropicFromConfig(cfg config.Config) (*AnthropicClient, error) {
	if cfg.AnthropicAPIKey == "" {
		return nil, fmt.Errorf("missing anthropic_api_key in config")
	}
	apiKey, err := config.ResolveSecret(cfg.AnthropicAPIKey)
	if err != nil {
		return nil, fmt.Errorf("resolving anthropic api key: %w", err)
	}
	return NewAnthropicClient(apiKey), nil
}

func (c *AnthropicClient) buildRequest(request ChatRequest, stream bool) anthropicRequest {
	model := anthropicLargeModel
	if request.Model == ModelSmall {
		model = anthropicSmallModel
	}

	maxTokens := 1024
	var thinking *anthropicThinking
	if request.Model == ModelThinking {
		// Room for the thinking tokens on top of the answer.
		maxTokens = 2048
		thinking = &anthropicThinking{Type: "enabled", BudgetTokens: 1024}
	}

	return anthropicRequest{
		Model:     model,
		Messages:  []Message{{Role: RoleUser, Content: request.Query}},
		MaxTokens: maxTokens,
		Stream:    stream,
		Thinking:  thinking,
	}
}

func (c *AnthropicClient) send(ctx context.Context, apiRequest anthropicRequest) (*http.Response, error) {
	payload, err := json.Marshal(apiRequest)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("Content-Type", "application/json")

	log.Debug(log.CatLLM, "anthropic request", "model", apiRequest.Model, "stream", apiRequest.Stream)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling anthropic api: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		resp.Body.Close()
		return nil, fmt.Errorf("anthropic api returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return resp, nil
}

func (c *AnthropicClient) CreateMessage(ctx context.Context, request ChatRequest) (ChatResponse, error) {
	resp, err := c.send(ctx, c.buildRequest(request, false))
	if err != nil {
		return ChatResponse{}, err
	}
	defer resp.Body.Close()

	var apiResponse anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return ChatResponse{}, fmt.Errorf("parsing anthropic response: %w", err)
	}

	for _, block := range apiResponse.Content {
		if block.Type == "text" {
			return ChatResponse{Message: Message{Role: apiResponse.Role, Content: block.Text}}, nil
		}
	}
	return ChatResponse{}, fmt.Errorf("anthropic response contained no text content")
}

type anthropicStreamEvent struct {
	Type         string                `json:"type"`
	ContentBlock anthropicContentBlock `json:"content_block"`
	Delta        struct {
		Type     string `json:"type"`
		Text     string `json:"text"`
		Thinking string `json:"thinking"`
	} `json:"delta"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *AnthropicClient) StreamMessage(ctx context.Context, request ChatRequest, onDelta func(Delta) error) error {
	resp, err := c.send(ctx, c.buildRequest(request, true))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return readSSE(resp.Body, func(_, data string) error {
		var event anthropicStreamEvent
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			return fmt.Errorf("parsing anthropic stream event: %w", err)
		}

		switch event.Type {
		case "content_block_start":
			switch event.ContentBlock.Type {
			case "text":
				if event.ContentBlock.Text != "" {
					return onDelta(Delta{Text: event.ContentBlock.Text})
				}
			case "thinking":
				if event.ContentBlock.Thinking != "" {
					return onDelta(Delta{Text: event.ContentBlock.Thinking, Thinking: true})
				}
			}
		case "content_block_delta":
			switch event.Delta.Type {
			case "text_delta":
				return onDelta(Delta{Text: event.Delta.Text})
			case "thinking_delta":
				return onDelta(Delta{Text: event.Delta.Thinking, Thinking: true})
			}
		case "error":
			return fmt.Errorf("anthropic stream error: %s - %s", event.Error.Type, event.Error.Message)
		}
		return nil
	})
}
