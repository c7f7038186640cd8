package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdeal/misc/internal/config"
)

func newTestOllama(t *testing.T, handler http.Handler) *OllamaClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewOllamaFromConfig(config.Config{
		Ollama: config.OllamaConfig{
			BaseURL:       server.URL,
			SmallModel:    "llama3.2",
			LargeModel:    "llama3.3",
			ThinkingModel: "deepseek-r1",
		},
	})
	require.NoError(t, err)
	client.httpClient = server.Client()
	return client
}

func TestNewOllamaFromConfig_ModelFallbacks(t *testing.T) {
	t.Run("small required", func(t *testing.T) {
		_, err := NewOllamaFromConfig(config.Config{})
		assert.Error(t, err)
	})

	t.Run("tiers fall back down the chain", func(t *testing.T) {
		client, err := NewOllamaFromConfig(config.Config{
			Ollama: config.OllamaConfig{SmallModel: "llama3.2"},
		})
		require.NoError(t, err)
		assert.Equal(t, "llama3.2", client.modelForType(ModelSmall))
		assert.Equal(t, "llama3.2", client.modelForType(ModelLarge))
		assert.Equal(t, "llama3.2", client.modelForType(ModelThinking))
	})

	t.Run("thinking falls back to large", func(t *testing.T) {
		client, err := NewOllamaFromConfig(config.Config{
			Ollama: config.OllamaConfig{SmallModel: "llama3.2", LargeModel: "llama3.3"},
		})
		require.NoError(t, err)
		assert.Equal(t, "llama3.3", client.modelForType(ModelThinking))
	})
}

func TestOllamaCreateMessage(t *testing.T) {
	client := newTestOllama(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)

		var req ollamaChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3.3", req.Model)
		assert.False(t, req.Stream)

		_, _ = w.Write([]byte(`{"message": {"role": "assistant", "content": "hi there"}, "done": true}`))
	}))

	resp, err := client.CreateMessage(context.Background(), ChatRequest{Query: "hello", Model: ModelLarge})
	require.NoError(t, err)
	assert.Equal(t, "hi there", resp.Message.Content)
}

func TestOllamaCreateMessage_MissingMessage(t *testing.T) {
	client := newTestOllama(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"done": true}`))
	}))

	_, err := client.CreateMessage(context.Background(), ChatRequest{Query: "hello", Model: ModelSmall})
	assert.Error(t, err)
}

func TestOllamaStreamMessage(t *testing.T) {
	client := newTestOllama(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Stream)
		assert.Equal(t, "deepseek-r1", req.Model)

		_, _ = w.Write([]byte(
			`{"message": {"role": "assistant", "content": "chunk one"}, "done": false}` + "\n" +
				`{"message": {"role": "assistant", "content": " chunk two"}, "done": false}` + "\n" +
				`{"message": {"role": "assistant", "content": ""}, "done": true}` + "\n"))
	}))

	var text string
	err := client.StreamMessage(context.Background(), ChatRequest{Query: "hello", Model: ModelThinking}, func(d Delta) error {
		text += d.Text
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "chunk one chunk two", text)
}
