// ABOUTME: CLI command to add documents to the index
// ABOUTME: Handles text input from args, file, or stdin and runs a full ingest
package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jobfinder/jobfinder/internal/config"
	"github.com/jobfinder/jobfinder/internal/models"
	"github.com/joho/godotenv"
)

var (
	addFile   string
	addSource string
)

// NewAddCmd creates add command
func NewAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [text]",
		Short: "Add a job description or resume to the index",
		Long: `Add a job description, resume, or other career document.

The document is chunked, embedded, and stored. It becomes searchable
immediately.

Examples:
  jobfinder add --file backend_engineer.txt
  jobfinder add --source "referral note" "Senior Go role at Acme, remote"
  cat resume.txt | jobfinder add --source resume.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAdd,
	}

	cmd.Flags().StringVar(&addFile, "file", "", "Read document from file")
	cmd.Flags().StringVar(&addSource, "source", "", "Source name for the document (defaults to file name)")

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	var text string
	source := addSource
	if addFile != "" {
		data, err := os.ReadFile(addFile)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		text = string(data)
		if source == "" {
			source = filepath.Base(addFile)
		}
	} else if len(args) > 0 {
		text = args[0]
	} else {
		// Read from stdin
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("no document text provided")
	}
	if source == "" {
		return fmt.Errorf("--source is required when the document does not come from a file")
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

	docID, err := engine.Ingest(cmd.Context(), source, text, models.RoleAdmin)
	if err != nil {
		return fmt.Errorf("adding document: %w", err)
	}

	if !quiet {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Added %s (document: %s)\n", source, docID)
	}
	return nil
}
