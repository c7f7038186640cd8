package llm

import (
	"fmt"

	"github.com/kdeal/misc/internal/config"
)

// Provider is a chat backend that supports both one-shot and streamed
// responses.
type Provider interface {
	Chat
	Streamer
}

// NewProvider builds the named provider from config. An empty name
// picks the first provider the config has credentials for.
func NewProvider(name string, cfg config.Config) (Provider, error) {
	if name == "" {
		name = defaultProviderName(cfg)
		if name == "" {
			return nil, fmt.Errorf("no llm provider configured, set anthropic_api_key, ollama.small_model, or perplexity_api_key")
		}
	}

	switch name {
	case "anthropic":
		return NewAnthropicFromConfig(cfg)
	case "ollama":
		return NewOllamaFromConfig(cfg)
	case "perplexity":
		return NewPerplexityFromConfig(cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider %q, expected anthropic, ollama, or perplexity", name)
	}
}

func defaultProviderName(cfg config.Config) string {
	switch {
	case cfg.AnthropicAPIKey != "":
		return "anthropic"
	case cfg.Ollama.SmallModel != "":
		return "ollama"
	case cfg.PerplexityAPIKey != "":
		return "perplexity"
	default:
		return ""
	}
}
