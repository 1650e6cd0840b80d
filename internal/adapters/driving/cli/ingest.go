package cli

import (
	"github.com/spf13/cobra"
)

var ingestForce bool

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Build the chunk cache from the knowledge document",
	Long: `Build the chunk cache from the knowledge document.

The document is split at its "=== section ===" markers, each passage is
embedded, and the result is stored in the local cache. If the cache already
holds chunks nothing is done unless --force is given, in which case the
cache contents are replaced atomically.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestForce, "force", false, "re-ingest even if the cache is populated")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	stack, err := buildIngestStack()
	if err != nil {
		return err
	}
	defer stack.Close()

	load := stack.ingestor.Load
	if ingestForce {
		load = stack.ingestor.Rebuild
	}

	vectors, err := load(cmd.Context())
	if err != nil {
		return err
	}

	cmd.Printf("%d passages indexed from %s\n", vectors.Len(), stack.cfg.Document.Path)
	return nil
}
