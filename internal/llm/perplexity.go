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

const perplexityChatURL = "https://api.perplexity.ai/chat/completions"

const perplexitySmallModel = "sonar"
const perplexityLargeModel = "sonar-pro"

type perplexityRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream,omitempty"`
}

type perplexityChoice struct {
	Index        int      `json:"index"`
	Message      Message  `json:"message"`
	Delta        *Message `json:"delta"`
	FinishReason string   `json:"finish_reason"`
}

type perplexityResponse struct {
	ID        string             `json:"id"`
	Model     string             `json:"model"`
	Choices   []perplexityChoice `json:"choices"`
	Citations []string           `json:"citations"`
}

// PerplexityClient talks to the Perplexity chat completions API.
type PerplexityClient struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
}

func NewPerplexityClient(apiKey string) *PerplexityClient {
	return &PerplexityClient{
		apiKey:     apiKey,
		apiURL:     perplexityChatURL,
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}
}

func NewPerplexityFromConfig(cfg config.Config) (*PerplexityClient, error) {
	if cfg.PerplexityAPIKey == "" {
		return nil, fmt.Errorf("missing perplexity_api_key in config")
	}
	apiKey, err := config.ResolveSecret(cfg.PerplexityAPIKey)
	if err != nil {
		return nil, fmt.Errorf("resolving perplexity api key: %w", err)
	}
	return NewPerplexityClient(apiKey), nil
}

func perplexityModelForType(modelType ModelType) string {
	if modelType == ModelSmall {
		return perplexitySmallModel
	}
	return perplexityLargeModel
}

func (c *PerplexityClient) send(ctx context.Context, apiRequest perplexityRequest) (*http.Response, error) {
	payload, err := json.Marshal(apiRequest)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	log.Debug(log.CatLLM, "perplexity request", "model", apiRequest.Model, "stream", apiRequest.Stream)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling perplexity api: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		resp.Body.Close()
		return nil, fmt.Errorf("perplexity api returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return resp, nil
}

func (c *PerplexityClient) CreateMessage(ctx context.Context, request ChatRequest) (ChatResponse, error) {
	resp, err := c.send(ctx, perplexityRequest{
		Model:    perplexityModelForType(request.Model),
		Messages: []Message{{Role: RoleUser, Content: request.Query}},
	})
	if err != nil {
		return ChatResponse{}, err
	}
	defer resp.Body.Close()

	var apiResponse perplexityResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return ChatResponse{}, fmt.Errorf("parsing perplexity response: %w", err)
	}
	if len(apiResponse.Choices) == 0 {
		return ChatResponse{}, fmt.Errorf("perplexity response contained no choices")
	}
	return ChatResponse{
		Message:   apiResponse.Choices[0].Message,
		Citations: apiResponse.Citations,
	}, nil
}

// StreamMessage reads the SSE stream. Citations arrive on the chunks,
// so the first chunk carrying them passes them through once.
func (c *PerplexityClient) StreamMessage(ctx context.Context, request ChatRequest, onDelta func(Delta) error) error {
	resp, err := c.send(ctx, perplexityRequest{
		Model:    perplexityModelForType(request.Model),
		Messages: []Message{{Role: RoleUser, Content: request.Query}},
		Stream:   true,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	citationsSent := false
	return readSSE(resp.Body, func(_, data string) error {
		var chunk perplexityResponse
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			return fmt.Errorf("parsing perplexity stream chunk: %w", err)
		}
		if len(chunk.Choices) == 0 {
			return nil
		}

		delta := Delta{}
		if chunk.Choices[0].Delta != nil {
			delta.Text = chunk.Choices[0].Delta.Content
		}
		if !citationsSent && len(chunk.Citations) > 0 {
			delta.Citations = chunk.Citations
			citationsSent = true
		}
		if delta.Text == "" && len(delta.Citations) == 0 {
			return nil
		}
		return onDelta(delta)
	})
}
