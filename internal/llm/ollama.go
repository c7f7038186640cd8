package llm

import (
	"bufio"
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

const ollamaChatEndpoint = "/api/chat"

type ollamaChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

type ollamaChatResponse struct {
	Message *Message `json:"message"`
	Done    bool     `json:"done"`
}

// OllamaClient talks to a local Ollama server.
type OllamaClient struct {
	baseURL       string
	smallModel    string
	largeModel    string
	thinkingModel string
	httpClient    *http.Client
}

// NewOllamaFromConfig reads the ollama config section. The small model
// is required, larger tiers fall back down the chain.
func NewOllamaFromConfig(cfg config.Config) (*OllamaClient, error) {
	smallModel := strings.TrimSpace(cfg.Ollama.SmallModel)
	if smallModel == "" {
		return nil, fmt.Errorf("missing small model name in ollama configuration")
	}
	largeModel := strings.TrimSpace(cfg.Ollama.LargeModel)
	if largeModel == "" {
		largeModel = smallModel
	}
	thinkingModel := strings.TrimSpace(cfg.Ollama.ThinkingModel)
	if thinkingModel == "" {
		thinkingModel = largeModel
	}

	return &OllamaClient{
		baseURL:       cfg.OllamaBaseURL(),
		smallModel:    smallModel,
		largeModel:    largeModel,
		thinkingModel: thinkingModel,
		httpClient:    &http.Client{Timeout: 5 * time.Minute},
	}, nil
}

func (c *OllamaClient) modelForType(modelType ModelType) string {
	switch modelType {
	case ModelLarge:
		return c.largeModel
	case ModelThinking:
		return c.thinkingModel
	default:
		return c.smallModel
	}
}

func (c *OllamaClient) send(ctx context.Context, apiRequest ollamaChatRequest) (*http.Response, error) {
	payload, err := json.Marshal(apiRequest)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ollamaChatEndpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	log.Debug(log.CatLLM, "ollama request", "model", apiRequest.Model, "stream", apiRequest.Stream)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling ollama chat endpoint: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		resp.Body.Close()
		return nil, fmt.Errorf("ollama returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return resp, nil
}

func (c *OllamaClient) CreateMessage(ctx context.Context, request ChatRequest) (ChatResponse, error) {
	resp, err := c.send(ctx, ollamaChatRequest{
		Model:    c.modelForType(request.Model),
		Messages: []Message{{Role: RoleUser, Content: request.Query}},
	})
	if err != nil {
		return ChatResponse{}, err
	}
	defer resp.Body.Close()

	var apiResponse ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return ChatResponse{}, fmt.Errorf("parsing ollama response: %w", err)
	}
	if apiResponse.Message == nil {
		return ChatResponse{}, fmt.Errorf("ollama response did not contain a message")
	}
	return ChatResponse{Message: *apiResponse.Message}, nil
}

// StreamMessage reads Ollama's newline-delimited JSON stream.
func (c *OllamaClient) StreamMessage(ctx context.Context, request ChatRequest, onDelta func(Delta) error) error {
	resp, err := c.send(ctx, ollamaChatRequest{
		Model:    c.modelForType(request.Model),
		Messages: []Message{{Role: RoleUser, Content: request.Query}},
		Stream:   true,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var chunk ollamaChatResponse
		if err := json.Unmarshal([]byte(line), &chunk); err != nil {
			return fmt.Errorf("parsing ollama stream chunk: %w", err)
		}
		if chunk.Message != nil && chunk.Message.Content != "" {
			if err := onDelta(Delta{Text: chunk.Message.Content}); err != nil {
				return err
			}
		}
		if chunk.Done {
			break
		}
	}
	return scanner.Err()
}
