package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdeal/misc/internal/config"
)

func TestGetQuery(t *testing.T) {
	t.Run("from argument", func(t *testing.T) {
		query, err := GetQuery("what is a worktree", strings.NewReader("ignored"))
		require.NoError(t, err)
		assert.Equal(t, "what is a worktree", query)
	})

	t.Run("from stdin", func(t *testing.T) {
		query, err := GetQuery("", strings.NewReader("  piped question\n"))
		require.NoError(t, err)
		assert.Equal(t, "piped question", query)
	})

	t.Run("empty everywhere", func(t *testing.T) {
		_, err := GetQuery("", strings.NewReader("  \n"))
		assert.Error(t, err)
	})
}

func TestParseModelType(t *testing.T) {
	for _, valid := range []string{"small", "large", "thinking"} {
		modelType, err := ParseModelType(valid)
		require.NoError(t, err)
		assert.Equal(t, ModelType(valid), modelType)
	}

	_, err := ParseModelType("medium")
	assert.Error(t, err)
}

func TestReadSSE(t *testing.T) {
	body := strings.NewReader(
		"event: message_start\n" +
			"data: {\"a\": 1}\n" +
			"\n" +
			": keepalive comment\n" +
			"event: content_block_delta\n" +
			"data: {\"b\":\n" +
			"data: 2}\n" +
			"\n" +
			"data: [DONE]\n" +
			"\n" +
			"data: {\"never\": true}\n" +
			"\n")

	type received struct{ event, data string }
	var got []received
	err := readSSE(body, func(event, data string) error {
		got = append(got, received{event, data})
		return nil
	})
	require.NoError(t, err)

	require.Len(t, got, 2, "events after [DONE] are dropped")
	assert.Equal(t, received{"message_start", `{"a": 1}`}, got[0])
	assert.Equal(t, received{"content_block_delta", "{\"b\":\n2}"}, got[1])
}

func TestReadSSE_FlushesTrailingEvent(t *testing.T) {
	var got []string
	err := readSSE(strings.NewReader("data: {\"end\": true}"), func(_, data string) error {
		got = append(got, data)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{`{"end": true}`}, got)
}

func TestNewProvider(t *testing.T) {
	cfg := config.Config{
		AnthropicAPIKey:  "anthropic-key",
		PerplexityAPIKey: "perplexity-key",
		Ollama:           config.OllamaConfig{SmallModel: "llama3.2"},
	}

	t.Run("explicit names", func(t *testing.T) {
		provider, err := NewProvider("anthropic", cfg)
		require.NoError(t, err)
		assert.IsType(t, &AnthropicClient{}, provider)

		provider, err = NewProvider("ollama", cfg)
		require.NoError(t, err)
		assert.IsType(t, &OllamaClient{}, provider)

		provider, err = NewProvider("perplexity", cfg)
		require.NoError(t, err)
		assert.IsType(t, &PerplexityClient{}, provider)
	})

	t.Run("default prefers anthropic", func(t *testing.T) {
		provider, err := NewProvider("", cfg)
		require.NoError(t, err)
		assert.IsType(t, &AnthropicClient{}, provider)
	})

	t.Run("falls back to ollama", func(t *testing.T) {
		provider, err := NewProvider("", config.Config{Ollama: config.OllamaConfig{SmallModel: "llama3.2"}})
		require.NoError(t, err)
		assert.IsType(t, &OllamaClient{}, provider)
	})

	t.Run("nothing configured", func(t *testing.T) {
		_, err := NewProvider("", config.Config{})
		assert.Error(t, err)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := NewProvider("bard", cfg)
		assert.Error(t, err)
	})
}
