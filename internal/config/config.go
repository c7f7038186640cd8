// Package config provides configuration types and defaults for wkfl.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds all global configuration options, loaded from
// ~/.config/wkfl/config.yaml.
type Config struct {
	// RepositoriesDirectory is where cloned repositories live.
	// Default: ~/repos
	RepositoriesDirectory string `mapstructure:"repositories_directory" yaml:"repositories_directory"`

	// NotesDirectory is the root of the notes tree.
	// Default: ~/notes
	NotesDirectory string `mapstructure:"notes_directory" yaml:"notes_directory"`

	// GithubTokens maps a GitHub host (e.g. "github.com") to a secret
	// reference for its API token.
	GithubTokens map[string]string `mapstructure:"github_tokens" yaml:"github_tokens"`

	Jira *JiraConfig `mapstructure:"jira" yaml:"jira,omitempty"`

	// AnthropicAPIKey and PerplexityAPIKey are secret references.
	AnthropicAPIKey  string `mapstructure:"anthropic_api_key" yaml:"anthropic_api_key"`
	PerplexityAPIKey string `mapstructure:"perplexity_api_key" yaml:"perplexity_api_key"`

	Ollama OllamaConfig `mapstructure:"ollama" yaml:"ollama"`
}

// JiraConfig holds the connection settings for a Jira instance.
type JiraConfig struct {
	// InstanceURL is the base URL, e.g. "https://example.atlassian.net".
	InstanceURL string `mapstructure:"instance_url" yaml:"instance_url"`
	Email       string `mapstructure:"email" yaml:"email"`
	// APIToken is a secret reference.
	APIToken string `mapstructure:"api_token" yaml:"api_token"`
}

// OllamaConfig selects the local Ollama endpoint and the model used for
// each tier.
type OllamaConfig struct {
	BaseURL       string `mapstructure:"base_url" yaml:"base_url"`
	SmallModel    string `mapstructure:"small_model" yaml:"small_model"`
	LargeModel    string `mapstructure:"large_model" yaml:"large_model"`
	ThinkingModel string `mapstructure:"thinking_model" yaml:"thinking_model"`
}

// DefaultOllamaBaseURL is used when ollama.base_url is unset.
const DefaultOllamaBaseURL = "http://localhost:11434"

// DefaultRepositoriesDirectory returns ~/repos or an empty string if the
// home dir is unavailable.
func DefaultRepositoriesDirectory() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "repos")
}

// DefaultNotesDirectory returns ~/notes or an empty string if the home
// dir is unavailable.
func DefaultNotesDirectory() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "notes")
}

// DefaultConfigDir returns the wkfl config directory,
// ~/.config/wkfl.
func DefaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determining home dir: %w", err)
	}
	return filepath.Join(home, ".config", "wkfl"), nil
}

// DefaultCacheDir returns the wkfl cache directory, ~/.cache/wkfl.
func DefaultCacheDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determining home dir: %w", err)
	}
	return filepath.Join(home, ".cache", "wkfl"), nil
}

// RepositoriesDirectoryPath returns the repositories directory with a
// leading ~ expanded.
func (c Config) RepositoriesDirectoryPath() (string, error) {
	dir := c.RepositoriesDirectory
	if dir == "" {
		dir = DefaultRepositoriesDirectory()
	}
	return expandHome(dir)
}

// NotesDirectoryPath returns the notes directory with a leading ~
// expanded.
func (c Config) NotesDirectoryPath() (string, error) {
	dir := c.NotesDirectory
	if dir == "" {
		dir = DefaultNotesDirectory()
	}
	return expandHome(dir)
}

// OllamaBaseURL returns the configured Ollama endpoint without a
// trailing slash.
func (c Config) OllamaBaseURL() string {
	base := strings.TrimSpace(c.Ollama.BaseURL)
	if base == "" {
		base = DefaultOllamaBaseURL
	}
	return strings.TrimRight(base, "/")
}

// GithubToken returns the secret reference for a host, if configured.
func (c Config) GithubToken(host string) (string, bool) {
	token, ok := c.GithubTokens[host]
	return token, ok
}

// Validate checks the configuration for errors. Empty values are valid
// and fall back to defaults.
func (c Config) Validate() error {
	if c.Jira != nil {
		if c.Jira.InstanceURL == "" {
			return fmt.Errorf("jira.instance_url is required when jira is configured")
		}
		if c.Jira.Email == "" {
			return fmt.Errorf("jira.email is required when jira is configured")
		}
		if c.Jira.APIToken == "" {
			return fmt.Errorf("jira.api_token is required when jira is configured")
		}
	}
	return nil
}

// DefaultConfigTemplate returns the commented starter config written on
// first run.
func DefaultConfigTemplate() string {
	return `# wkfl configuration
#
# repositories_directory: ~/repos
# notes_directory: ~/notes
#
# Secret values may be a literal, "env:VAR_NAME", or "cmd:command args".
#
# github_tokens:
#   github.com: env:GITHUB_TOKEN
#
# jira:
#   instance_url: https://example.atlassian.net
#   email: you@example.com
#   api_token: env:JIRA_API_TOKEN
#
# anthropic_api_key: env:ANTHROPIC_API_KEY
# perplexity_api_key: env:PERPLEXITY_API_KEY
#
# ollama:
#   base_url: http://localhost:11434
#   small_model: llama3.2
`
}

// WriteDefaultConfig creates a config file at the given path with the
// commented template. Creates the parent directory if needed.
func WriteDefaultConfig(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func expandHome(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("determining home dir: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
