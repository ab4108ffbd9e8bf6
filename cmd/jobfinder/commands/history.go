// ABOUTME: CLI command to show recent search history
// ABOUTME: Lists answered queries with their answer summaries
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

var historyLimit int

// NewHistoryCmd creates history command
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent searches",
		Long: `Show recently answered queries with their answer summaries.

Examples:
  jobfinder history
  jobfinder history --limit 50`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}

	cmd.Flags().IntVar(&historyLimit, "limit", 10, "Maximum records to show")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	if err := validatePositiveInt(historyLimit, "limit"); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	engine, store, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	records, err := engine.History(cmd.Context(), historyLimit, models.RoleAdmin)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	if len(records) == 0 {
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "No searches recorded yet.")
		}
		return nil
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "WHEN\tROLE\tQUERY\tANSWER\n")
	fmt.Fprintf(w, "----\t----\t-----\t------\n")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			formatTime(r.CreatedAt),
			r.Role,
			truncate(r.Query, 40),
			truncate(r.AnswerSummary, 50))
	}
	w.Flush()

	return nil
}
