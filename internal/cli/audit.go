package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/postfactum/internal/model"
)

var (
	auditJSON    string
	auditTimeout time.Duration
)

// auditCmd represents the audit command
var auditCmd = &cobra.Command{
	Use:   "audit <text|->",
	Short: "Fact-check a text from the command line",
	Long: `Audit extracts short verifiable claims from the text, searches the
web for each one, and grades how well the results corroborate it.

Pass "-" to read the text from stdin.

Example:
  postfactum audit "We grew revenue 40% in 2023 and hired 12 engineers."
  cat draft.txt | postfactum audit - --json audit.json`,
	Args: cobra.ExactArgs(1),
	RunE: runAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().StringVar(&auditJSON, "json", "", "also write the audit records to this JSON path")
	auditCmd.Flags().DurationVar(&auditTimeout, "timeout", 2*time.Minute, "overall audit timeout")
}

func runAudit(cmd *cobra.Command, args []string) error {
	text := args[0]
	if text == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = string(data)
	}

	cfg := loadConfig()

	logger := zap.NewNop()
	if verbose {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
	}

	deps, err := buildComponents(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
	defer cancel()

	records, err := deps.auditor.Audit(ctx, text)
	if err != nil {
		return fmt.Errorf("audit failed: %w", err)
	}

	renderAudit(records)

	if auditJSON != "" {
		if err := writeAuditJSON(records, auditJSON); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote JSON: %s\n", auditJSON)
		}
	}

	return nil
}

// renderAudit prints one block per claim to stdout
func renderAudit(records []model.AuditRecord) {
	if len(records) == 0 {
		fmt.Println("No verifiable claims found.")
		return
	}

	for i, rec := range records {
		fmt.Printf("%d. %s\n", i+1, rec.Claim)
		fmt.Printf("   confidence: %.2f\n", rec.Confidence)
		for _, src := range rec.Sources {
			fmt.Printf("   - %s (%s)\n", src.Title, src.URL)
		}
		fmt.Println()
	}
}

func writeAuditJSON(records []model.AuditRecord, path string) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal audit records: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
