// ABOUTME: CLI command to search the job index
// ABOUTME: Runs a full RAG query and prints the answer with its source passages
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jobfinder/jobfinder/internal/config"
	"github.com/jobfinder/jobfinder/internal/models"
	"github.com/joho/godotenv"
)

var searchLimit int

// NewSearchCmd creates search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the indexed documents",
		Long: `Search the indexed documents and synthesize an answer.

The query is embedded, a diversified set of passages is retrieved via
MMR, and an LLM produces a grounded answer citing those passages.

Examples:
  jobfinder search "backend roles requiring Go"
  jobfinder search --limit 10 "which jobs match my resume"
  jobfinder search --format json "remote positions"`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().IntVar(&searchLimit, "limit", 5, "Maximum source passages to ground the answer on")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	if err := validatePositiveInt(searchLimit, "limit"); err != nil {
		return err
	}

	query := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	engine, store, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	result, err := engine.Answer(cmd.Context(), query, searchLimit, models.RoleAdmin)
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", result.Answer)

	if len(result.Sources) > 0 {
		fmt.Fprintln(cmd.OutOrStdout())
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "SCORE\tSOURCE\tEXCERPT\n")
		fmt.Fprintf(w, "-----\t------\t-------\n")
		for _, src := range result.Sources {
			fmt.Fprintf(w, "%.3f\t%s\t%s\n",
				src.Score,
				truncate(src.SourceName, 25),
				truncate(src.Text, 60))
		}
		w.Flush()
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nGrounded on %d passage(s)\n", len(result.Sources))
	}
	return nil
}
