// Package cli wires the application together behind cobra commands.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/campus-labs/examchat/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verbose   bool
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "examchat",
	Short: "Examination manual chatbot",
	Long: `examchat answers questions about the Bennett University Examination
Manual using hierarchical retrieval: semantic search over chunk
summaries joined to full chunk text, with conversation-aware answers
served over a WebSocket protocol.`,
	PersistentPreRun: func(*cobra.Command, []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.examchat)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
