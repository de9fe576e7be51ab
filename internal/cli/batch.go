package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/veritas/internal/worker"
	"github.com/spf13/cobra"
)

var (
	batchConcurrency int
	batchTimeout     time.Duration
	batchJSON        string
	batchDryRun      bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Verify claims from a file concurrently",
	Long: `Batch reads claims from a file (one per line, # comments and blank
lines skipped, duplicates removed) and verifies them concurrently.

Each claim gets its own evidence set and session; only the read-only agent
registry is shared across workers.

Example:
  veritas batch claims.txt
  veritas batch claims.txt --concurrency 4 --json results.json`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 3, "number of concurrent verifications")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 15*time.Minute, "overall batch timeout")
	batchCmd.Flags().StringVar(&batchJSON, "json", "", "write all verdicts to a JSON file")
	batchCmd.Flags().BoolVar(&batchDryRun, "dry-run", false, "use the in-process agent host (no reasoning backend)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	cfg := loadConfig()
	if batchDryRun {
		cfg.Agent.Host = "memory"
	}

	logger := newLogger(verbose)
	defer func() { _ = logger.Sync() }()

	p, err := buildPipeline(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	processor := worker.NewBatchProcessor(p, batchConcurrency)
	results, err := processor.ProcessFile(ctx, filePath)
	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}

	succeeded := 0
	for _, res := range results {
		if res.Verdict.Succeeded {
			succeeded++
			fmt.Printf("✓ %s (%d sources)\n", res.Claim, res.Verdict.SupportingEvidenceCount)
		} else {
			fmt.Printf("✗ %s: %s\n", res.Claim, res.Verdict.Error)
		}
	}
	fmt.Printf("\n%d/%d claims verified\n", succeeded, len(results))

	if batchJSON != "" {
		verdicts := make([]any, 0, len(results))
		for _, res := range results {
			verdicts = append(verdicts, res.Verdict)
		}
		data, err := json.MarshalIndent(verdicts, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal verdicts: %w", err)
		}
		if err := os.WriteFile(batchJSON, data, 0644); err != nil {
			return fmt.Errorf("write verdicts: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", batchJSON)
		}
	}

	return nil
}
