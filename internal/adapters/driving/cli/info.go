package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show document and index status",
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, _ []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	cmd.Printf("Document: %s\n", a.cfg.Document.Path)

	if a.renderer == nil {
		cmd.Println("  not accessible")
	} else {
		cmd.Printf("  %d pages\n", a.renderer.PageCount())

		outline, err := a.renderer.Outline()
		if err != nil {
			cmd.Printf("  outline unavailable: %v\n", err)
		} else if len(outline) > 0 {
			cmd.Println("  Outline:")
			for _, item := range outline {
				cmd.Printf("  %s%s (p. %d)\n", strings.Repeat("  ", item.Level), item.Title, item.Page)
			}
		}
	}

	summaries, chunks, err := a.index.Counts(context.Background())
	if err != nil {
		cmd.Printf("Index: unavailable (%v)\n", err)
		return nil
	}
	cmd.Printf("Index: %d summaries, %d chunks (%s)\n", summaries, chunks, a.store.Path())
	return nil
}
