// Package cli wires the wkfl commands together: config loading, the
// prompt terminal, and the shell action handoff.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kdeal/misc/internal/config"
	"github.com/kdeal/misc/internal/log"
	"github.com/kdeal/misc/internal/shell"
	"github.com/kdeal/misc/internal/term"
)

var (
	version = "dev"
	cfgFile string
	verbose bool
	noCache bool
	cfg     config.Config

	// shellActions is flushed to the wrapper's handoff file after the
	// command finishes.
	shellActions []shell.Action

	// newDriver is swapped for a scripted terminal in tests.
	newDriver = func() term.Driver { return term.NewTTY() }
)

var rootCmd = &cobra.Command{
	Use:           "wkfl",
	Short:         "Developer workflow tooling",
	Long:          `Workflow helpers for branches and worktrees, repositories, notes, pull requests, Jira, and LLM queries.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ~/.config/wkfl/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false,
		"bypass cached API responses")
}

func initConfig() {
	log.InitStderr()
	if verbose {
		log.SetMinLevel(log.LevelDebug)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		configDir, err := config.DefaultConfigDir()
		if err != nil {
			log.ErrorErr(log.CatConfig, "Failed to locate config dir", err)
			return
		}
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// First run: write the commented starter config.
			if configDir, dirErr := config.DefaultConfigDir(); dirErr == nil {
				defaultPath := filepath.Join(configDir, "config.yaml")
				if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
					log.Info(log.CatConfig, "Created default config", "path", defaultPath)
					viper.SetConfigFile(defaultPath)
					_ = viper.ReadInConfig()
				}
			}
		} else {
			log.ErrorErr(log.CatConfig, "Failed to read config", err)
		}
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to parse config", err)
	}
}

func pushShellAction(action shell.Action) {
	shellActions = append(shellActions, action)
}

// Execute runs the root command and hands queued shell actions to the
// wrapping shell function.
func Execute() error {
	err := rootCmd.Execute()
	if writeErr := shell.WriteToEnvFile(shellActions); writeErr != nil && err == nil {
		err = writeErr
	}
	return err
}

// SetVersion sets the version string (called from main with ldflags).
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func loadedConfig() (config.Config, error) {
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// currentUser resolves the login name the way getpass.getuser does.
func currentUser() (string, error) {
	for _, envVar := range []string{"LOGNAME", "USER", "LNAME", "USERNAME"} {
		if value, ok := os.LookupEnv(envVar); ok && value != "" {
			return value, nil
		}
	}
	return "", fmt.Errorf("unable to determine user")
}
