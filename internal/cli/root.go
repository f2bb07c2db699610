package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/postfactum/internal/model"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "postfactum",
	Short: "Postfactum - draft, fact-check and publish short social posts",
	Long: `Postfactum turns a topic or personal story into LinkedIn/Bluesky post
drafts, fact-checks them against live web search, trims and finalizes
them per platform, and publishes to Bluesky.

The fact-check pipeline extracts short verifiable claims from the text,
searches the web for each one, and grades how well the results
corroborate it. It reports support, not truth.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("postfactum v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.postfactum/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home + "/.postfactum")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match POSTFACTUM_*
	viper.SetEnvPrefix("POSTFACTUM")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig builds the process configuration: defaults, then config
// file, then the well-known environment variables on top.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()
	_ = viper.Unmarshal(cfg)

	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAI.APIKey = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		cfg.OpenAI.Model = v
	}
	if v := os.Getenv("OPENAI_FALLBACK_MODEL"); v != "" {
		cfg.OpenAI.FallbackModel = v
	}
	if v := os.Getenv("SERPAPI_KEY"); v != "" {
		cfg.SerpAPI.APIKey = v
	}
	if v := os.Getenv("SERPAPI_ENGINE"); v != "" {
		cfg.SerpAPI.Engine = v
	}
	if v := os.Getenv("SERPAPI_LOCATION"); v != "" {
		cfg.SerpAPI.Location = v
	}
	if v := os.Getenv("SERPAPI_NUM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SerpAPI.Num = n
		}
	}
	if v := os.Getenv("BLUESKY_HANDLE"); v != "" {
		cfg.Bluesky.Handle = v
	}
	if v := os.Getenv("BLUESKY_APP_PASSWORD"); v != "" {
		cfg.Bluesky.AppPassword = v
	}

	return cfg
}
