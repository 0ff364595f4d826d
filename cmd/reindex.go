package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the vector index from the knowledge base",
	Long: `Reindex re-embeds every document and overwrites the snapshot file,
ignoring any existing snapshot. Use it after changing the embedder model
or when the snapshot is suspected stale.`,
	RunE: runReindex,
}

func init() {
	rootCmd.AddCommand(reindexCmd)
}

func runReindex(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	if err := a.assistant.Reindex(ctx); err != nil {
		return fmt.Errorf("rebuilding index: %w", err)
	}

	status := a.assistant.Status()
	fmt.Printf("Indexed %d documents (dimension %d) to %s\n",
		status.Documents, status.Dimension, a.cfg.SnapshotPath)
	return nil
}
