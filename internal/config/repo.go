package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// RepoConfigFileName is the per-repository config file, looked up at
// the repo root.
const RepoConfigFileName = ".wkfl.yaml"

// RepoConfig holds per-repository settings from .wkfl.yaml. All fields
// are optional; a missing file yields the zero value.
type RepoConfig struct {
	// Hook commands run around workflow start/end. Each entry is passed
	// to the shell.
	PreStartCommands  []string `yaml:"pre_start_commands"`
	PostStartCommands []string `yaml:"post_start_commands"`
	PreEndCommands    []string `yaml:"pre_end_commands"`
	PostEndCommands   []string `yaml:"post_end_commands"`

	// Commands a tool (or the MCP server) should use in this repo.
	TestCommands  []string `yaml:"test_commands"`
	FmtCommands   []string `yaml:"fmt_commands"`
	BuildCommands []string `yaml:"build_commands"`
}

// LoadRepoConfig reads .wkfl.yaml from the given repo root. A missing
// file is not an error.
func LoadRepoConfig(repoRoot string) (RepoConfig, error) {
	var cfg RepoConfig
	path := filepath.Join(repoRoot, RepoConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is rooted in the user's own repo
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading %s: %w", RepoConfigFileName, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", RepoConfigFileName, err)
	}
	return cfg, nil
}
