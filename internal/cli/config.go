package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/postfactum/internal/model"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage Postfactum configuration",
	Long: `Manage Postfactum configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (POSTFACTUM_*, OPENAI_API_KEY, SERPAPI_KEY, ...)
3. Config file (~/.postfactum/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		if configFile := viper.ConfigFileUsed(); configFile != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		// Never print credentials
		redacted := *cfg
		redacted.OpenAI.APIKey = redact(cfg.OpenAI.APIKey)
		redacted.SerpAPI.APIKey = redact(cfg.SerpAPI.APIKey)
		redacted.Bluesky.AppPassword = redact(cfg.Bluesky.AppPassword)

		yamlData, err := yaml.Marshal(redacted)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}
		fmt.Println(string(yamlData))

		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long:  `Create a default configuration file at ~/.postfactum/config.yaml with all available options.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("error finding home directory: %w", err)
		}

		configDir := home + "/.postfactum"
		configPath := configDir + "/config.yaml"

		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists: %s\nUse 'postfactum config show' to view it, or delete it first to recreate", configPath)
		}

		if err := os.MkdirAll(configDir, 0o755); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}

		yamlData, err := yaml.Marshal(model.DefaultConfig())
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}

		header := []byte(`# Postfactum Configuration File
#
# Configuration hierarchy (highest to lowest priority):
#   1. CLI flags
#   2. Environment variables (POSTFACTUM_*, OPENAI_API_KEY, SERPAPI_KEY, ...)
#   3. This config file
#   4. Built-in defaults
#
# API keys are best kept in environment variables:
#   export OPENAI_API_KEY=sk-...
#   export SERPAPI_KEY=...
#   export BLUESKY_HANDLE=you.bsky.social
#   export BLUESKY_APP_PASSWORD=...

`)

		if err := os.WriteFile(configPath, append(header, yamlData...), 0o600); err != nil {
			return fmt.Errorf("error writing config: %w", err)
		}

		fmt.Printf("Created default configuration: %s\n", configPath)
		fmt.Printf("\nTo view the configuration:\n  postfactum config show\n")

		return nil
	},
}

func redact(secret string) string {
	if secret == "" {
		return ""
	}
	return "********"
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
