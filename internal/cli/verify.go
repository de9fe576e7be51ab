package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	verifyTimeout  time.Duration
	includeDomains []string
	excludeDomains []string
	noCache        bool
	dryRun         bool
	jsonOutput     bool
	agentID        string
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify [claim]",
	Short: "Verify a single factual claim",
	Long: `Verify retrieves web evidence for a claim, submits it to the
reasoning agent inside an isolated session, and prints the verdict.

With no argument the claim is read interactively from stdin.

Example:
  veritas verify "The Eiffel Tower is in Paris"
  veritas verify "..." --include-domain reuters.com --include-domain bbc.com
  veritas verify "..." --json
  veritas verify --dry-run "local test without a reasoning backend"`,
	Args: cobra.ArbitraryArgs,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().DurationVar(&verifyTimeout, "timeout", 3*time.Minute, "overall verification timeout")
	verifyCmd.Flags().StringSliceVar(&includeDomains, "include-domain", nil, "domain to prioritize in search (repeatable)")
	verifyCmd.Flags().StringSliceVar(&excludeDomains, "exclude-domain", nil, "domain to exclude from search (repeatable)")
	verifyCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable verdict cache (force fresh verification)")
	verifyCmd.Flags().BoolVar(&dryRun, "dry-run", false, "use the in-process agent host (no reasoning backend)")
	verifyCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the verdict as JSON")
	verifyCmd.Flags().StringVar(&agentID, "agent", "", "override the primary agent id")
}

func runVerify(cmd *cobra.Command, args []string) error {
	claim := strings.TrimSpace(strings.Join(args, " "))
	if claim == "" {
		fmt.Fprint(os.Stderr, "Enter the claim you want to fact-check:\n> ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read claim: %w", err)
		}
		claim = strings.TrimSpace(line)
	}
	if claim == "" {
		return fmt.Errorf("please enter a valid claim")
	}

	cfg := loadConfig()
	cfg.Search.IncludeDomains = append(cfg.Search.IncludeDomains, includeDomains...)
	cfg.Search.ExcludeDomains = append(cfg.Search.ExcludeDomains, excludeDomains...)
	if noCache {
		cfg.Cache.Enabled = false
	}
	if dryRun {
		cfg.Agent.Host = "memory"
	}
	if agentID != "" {
		cfg.Agent.PrimaryID = agentID
	}

	logger := newLogger(verbose)
	defer func() { _ = logger.Sync() }()

	p, err := buildPipeline(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing claim: %q\n", claim)
	}

	verdict := p.Verify(ctx, claim)

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(verdict)
	}

	if !verdict.Succeeded {
		return fmt.Errorf("verification failed: %s", verdict.Error)
	}

	fmt.Printf("Claim:   %s\n", verdict.Claim)
	fmt.Printf("Sources: %d\n\n", verdict.SupportingEvidenceCount)
	fmt.Println(verdict.Text)
	if verdict.Error != "" {
		fmt.Fprintf(os.Stderr, "\nWarning: %s\n", verdict.Error)
	}

	return nil
}
