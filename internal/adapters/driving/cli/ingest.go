package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var ingestRebuild bool

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Build the document index",
	Long: `Extracts, chunks, summarises, and embeds the configured document into
the persisted index. Reuses an existing index unless --rebuild is given.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestRebuild, "rebuild", false, "discard the existing index and rebuild")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()

	if ingestRebuild {
		err = a.ingestor.Build(ctx)
	} else {
		err = a.ingestor.LoadOrBuild(ctx)
	}
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	summaries, chunks, err := a.index.Counts(ctx)
	if err != nil {
		return fmt.Errorf("reading index counts: %w", err)
	}

	cmd.Printf("Index ready: %d summaries, %d chunks\n", summaries, chunks)
	cmd.Printf("Store: %s\n", a.store.Path())
	return nil
}
