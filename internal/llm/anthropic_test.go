package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnthropic(t *testing.T, handler http.Handler) *AnthropicClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewAnthropicClient("test-key")
	client.apiURL = server.URL
	client.httpClient = server.Client()
	return client
}

func TestAnthropicCreateMessage(t *testing.T) {
	client := newTestAnthropic(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var req anthropicRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, anthropicLargeModel, req.Model)
		assert.Equal(t, 1024, req.MaxTokens)
		assert.Nil(t, req.Thinking)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, RoleUser, req.Messages[0].Role)

		_, _ = w.Write([]byte(`{
			"id": "msg_1", "model": "claude-3-7-sonnet-latest", "role": "assistant",
			"content": [{"type": "text", "text": "a worktree is a linked checkout"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 12}
		}`))
	}))

	resp, err := client.CreateMessage(context.Background(), ChatRequest{Query: "what is a worktree", Model: ModelLarge})
	require.NoError(t, err)
	assert.Equal(t, RoleAssistant, resp.Message.Role)
	assert.Equal(t, "a worktree is a linked checkout", resp.Message.Content)
}

func TestAnthropicCreateMessage_ModelTiers(t *testing.T) {
	var lastRequest anthropicRequest
	client := newTestAnthropic(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&lastRequest))
		_, _ = w.Write([]byte(`{"role": "assistant", "content": [{"type": "text", "text": "ok"}], "usage": {}}`))
	}))

	_, err := client.CreateMessage(context.Background(), ChatRequest{Query: "q", Model: ModelSmall})
	require.NoError(t, err)
	assert.Equal(t, anthropicSmallModel, lastRequest.Model)

	_, err = client.CreateMessage(context.Background(), ChatRequest{Query: "q", Model: ModelThinking})
	require.NoError(t, err)
	assert.Equal(t, anthropicLargeModel, lastRequest.Model)
	assert.Equal(t, 2048, lastRequest.MaxTokens)
	require.NotNil(t, lastRequest.Thinking)
	assert.Equal(t, "enabled", lastRequest.Thinking.Type)
	assert.Equal(t, 1024, lastRequest.Thinking.BudgetTokens)
}

func TestAnthropicCreateMessage_SkipsThinkingBlocks(t *testing.T) {
	client := newTestAnthropic(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"role": "assistant",
			"content": [
				{"type": "thinking", "thinking": "let me think"},
				{"type": "text", "text": "the answer"}
			],
			"usage": {}
		}`))
	}))

	resp, err := client.CreateMessage(context.Background(), ChatRequest{Query: "q", Model: ModelThinking})
	require.NoError(t, err)
	assert.Equal(t, "the answer", resp.Message.Content)
}

func TestAnthropicCreateMessage_APIError(t *testing.T) {
	client := newTestAnthropic(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "invalid api key"}}`, http.StatusUnauthorized)
	}))

	_, err := client.CreateMessage(context.Background(), ChatRequest{Query: "q", Model: ModelSmall})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestAnthropicStreamMessage(t *testing.T) {
	client := newTestAnthropic(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req anthropicRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Stream)

		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte(
			"event: message_start\n" +
				"data: {\"type\": \"message_start\"}\n\n" +
				"event: content_block_start\n" +
				"data: {\"type\": \"content_block_start\", \"content_block\": {\"type\": \"text\", \"text\": \"\"}}\n\n" +
				"event: content_block_delta\n" +
				"data: {\"type\": \"content_block_delta\", \"delta\": {\"type\": \"thinking_delta\", \"thinking\": \"hmm\"}}\n\n" +
				"event: content_block_delta\n" +
				"data: {\"type\": \"content_block_delta\", \"delta\": {\"type\": \"text_delta\", \"text\": \"part one\"}}\n\n" +
				"event: content_block_delta\n" +
				"data: {\"type\": \"content_block_delta\", \"delta\": {\"type\": \"text_delta\", \"text\": \" part two\"}}\n\n" +
				"event: message_stop\n" +
				"data: {\"type\": \"message_stop\"}\n\n"))
	}))

	var deltas []Delta
	err := client.StreamMessage(context.Background(), ChatRequest{Query: "q", Model: ModelThinking}, func(d Delta) error {
		deltas = append(deltas, d)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, deltas, 3)
	assert.Equal(t, Delta{Text: "hmm", Thinking: true}, deltas[0])
	assert.Equal(t, Delta{Text: "part one"}, deltas[1])
	assert.Equal(t, Delta{Text: " part two"}, deltas[2])
}

func TestAnthropicStreamMessage_ErrorEvent(t *testing.T) {
	client := newTestAnthropic(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(
			"event: error\n" +
				"data: {\"type\": \"error\", \"error\": {\"type\": \"overloaded_error\", \"message\": \"try later\"}}\n\n"))
	}))

	err := client.StreamMessage(context.Background(), ChatRequest{Query: "q", Model: ModelSmall}, func(Delta) error {
		t.Fatal("no deltas expected")
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overloaded_error")
}
