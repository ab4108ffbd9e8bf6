// ABOUTME: CLI command to delete a document from the index
// ABOUTME: Removes the document, its chunks, and its vector entries
package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jobfinder/jobfinder/internal/config"
	"github.com/jobfinder/jobfinder/internal/models"
	"github.com/jobfinder/jobfinder/internal/rag"
	"github.com/joho/godotenv"
)

// NewDeleteCmd creates delete command
func NewDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <document-id>",
		Short: "Delete a document from the index",
		Long: `Delete a document and all of its indexed chunks.

Deleting an unknown ID succeeds as a no-op, so retries are safe.

Examples:
  jobfinder delete 4f1c2a9e-...`,
		Args: cobra.ExactArgs(1),
		RunE: runDelete,
	}

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	docID := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	engine, store, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := engine.Delete(cmd.Context(), docID, models.RoleAdmin); err != nil {
		// Index drift is repaired by the delete itself; warn but succeed.
		if !errors.Is(err, rag.ErrIndexConsistency) {
			return fmt.Errorf("deleting document: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
	}

	if !quiet {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %s\n", docID)
	}
	return nil
}
