// ABOUTME: CLI command to list indexed documents
// ABOUTME: Shows document IDs, sources and ages in table or JSON format
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

// NewListCmd creates list command
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List indexed documents",
		Long: `List all documents in the index, newest first.

Examples:
  jobfinder list
  jobfinder list --format json`,
		Args: cobra.NoArgs,
		RunE: runList,
	}

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	engine, store, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	docs, err := engine.ListDocuments(cmd.Context(), models.RoleAdmin)
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}

	if len(docs) == 0 {
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "No documents indexed. Add one with: jobfinder add --file <path>")
		}
		return nil
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "DOCUMENT ID\tSOURCE\tADDED\n")
	fmt.Fprintf(w, "-----------\t------\t-----\n")
	for _, doc := range docs {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			doc.ID,
			truncate(doc.SourceName, 40),
			formatTime(doc.CreatedAt))
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d document(s)\n", len(docs))
	}
	return nil
}
