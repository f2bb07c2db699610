package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/postfactum/internal/audit"
	"github.com/ppiankov/postfactum/internal/draft"
	"github.com/ppiankov/postfactum/internal/extract"
	"github.com/ppiankov/postfactum/internal/llm"
	"github.com/ppiankov/postfactum/internal/model"
	"github.com/ppiankov/postfactum/internal/publish"
	"github.com/ppiankov/postfactum/internal/score"
	"github.com/ppiankov/postfactum/internal/search"
	"github.com/ppiankov/postfactum/internal/server"
	"github.com/ppiankov/postfactum/internal/worker"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web UI and JSON API",
	Long: `Serve starts the web interface for drafting, fact-checking,
finalizing and publishing posts.

Example:
  postfactum serve
  postfactum serve --addr :9000`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8000)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	deps, err := buildComponents(cfg, logger)
	if err != nil {
		return err
	}

	srv := server.New(deps.drafter, deps.auditor, deps.searcher, deps.publisher, logger)
	return srv.Run(cfg.Server.Addr)
}

// components bundles the wired pipeline pieces
type components struct {
	drafter   *draft.Generator
	auditor   *audit.Auditor
	searcher  *search.Client
	publisher *publish.BlueskyClient
}

// buildComponents constructs the pipeline from configuration. The LLM
// provider requires an API key; search and publish validate lazily so
// the UI can still render without them.
func buildComponents(cfg *model.Config, logger *zap.Logger) (*components, error) {
	llmConfig := llm.ConfigFromModel(cfg.OpenAI)
	provider, err := llm.NewProvider("openai", llmConfig)
	if err != nil {
		return nil, fmt.Errorf("init LLM provider: %w", err)
	}

	limiter := worker.NewLimiter(cfg.SerpAPI.RateRPS, cfg.SerpAPI.Burst)
	searcher := search.NewClient(cfg.SerpAPI, limiter)

	extractor := extract.NewClaimExtractor(provider, cfg.OpenAI.Model)
	auditor := audit.NewAuditor(extractor, searcher, score.NewScorer(), cfg.Concurrency.SearchWorkers, logger)

	return &components{
		drafter:   draft.NewGenerator(provider, llmConfig),
		auditor:   auditor,
		searcher:  searcher,
		publisher: publish.NewBlueskyClient(cfg.Bluesky),
	}, nil
}
