package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var askShowSources bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question",
	Long:  `Runs one retrieval-and-response cycle against the indexed manual and prints the answer.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askShowSources, "sources", false, "print the retrieved source chunks")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	if err := a.index.EnsureReady(ctx); err != nil {
		return err
	}

	query := args[0]
	docs := a.chat.Retrieve(ctx, query, a.cfg.Index.TopK)
	response := a.chat.Respond(ctx, query, docs, nil)

	cmd.Println(response)

	if askShowSources && len(docs) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for i, doc := range docs {
			cmd.Printf("  [%d] chunk %s (position %d)\n", i+1, doc.Metadata.ChunkID, doc.Metadata.Index)
		}
	}
	return nil
}
