// ABOUTME: Root CLI command with global flags
// ABOUTME: Wires all subcommands and the verbose/quiet/format persistent flags
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

const banner = `
     ██╗ ██████╗ ██████╗ ███████╗██╗███╗   ██╗██████╗ ███████╗██████╗
     ██║██╔═══██╗██╔══██╗██╔════╝██║████╗  ██║██╔══██╗██╔════╝██╔══██╗
     ██║██║   ██║██████╔╝█████╗  ██║██╔██╗ ██║██║  ██║█████╗  ██████╔╝
██   ██║██║   ██║██╔══██╗██╔══╝  ██║██║╚██╗██║██║  ██║██╔══╝  ██╔══██╗
╚█████╔╝╚██████╔╝██████╔╝██║     ██║██║ ╚████║██████╔╝███████╗██║  ██║
 ╚════╝  ╚═════╝ ╚═════╝ ╚═╝     ╚═╝╚═╝  ╚═══╝╚═════╝ ╚══════╝╚═╝  ╚═╝
`

// NewRootCmd creates the root command with all subcommands
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobfinder",
		Short: "Semantic job search over your own documents",
		Long: banner + `
JobFinder indexes job descriptions, resumes, and career data, then
answers questions about them with retrieval-augmented generation.

Documents are chunked, embedded, and stored locally in SQLite. Queries
retrieve a diversified set of passages via MMR and synthesize a grounded
answer with an LLM.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, table, json")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewAddCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewListCmd())
	cmd.AddCommand(NewDeleteCmd())
	cmd.AddCommand(NewReindexCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
