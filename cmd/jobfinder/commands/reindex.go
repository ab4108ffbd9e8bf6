// ABOUTME: CLI command to rebuild the vector index from storage
// ABOUTME: Recovers from index drift by reloading every stored chunk vector
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jobfinder/jobfinder/internal/config"
	"github.com/jobfinder/jobfinder/internal/models"
	"github.com/joho/godotenv"
)

// NewReindexCmd creates reindex command
func NewReindexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the vector index from storage",
		Long: `Rebuild the in-memory vector index from the document store.

The store is the source of truth; reindexing discards the current
index contents and reloads every stored chunk vector. Useful after an
integrity warning.`,
		Args: cobra.NoArgs,
		RunE: runReindex,
	}

	return cmd
}

func runReindex(cmd *cobra.Command, args []string) error {
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

	if err := engine.Reindex(cmd.Context(), models.RoleAdmin); err != nil {
		return fmt.Errorf("reindexing: %w", err)
	}

	if !quiet {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "✓ Index rebuilt from storage")
	}
	return nil
}
