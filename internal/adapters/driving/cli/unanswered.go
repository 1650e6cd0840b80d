package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/civika-labs/faqd/internal/adapters/driven/storage/sqlite"
)

var unansweredLimit int

var unansweredCmd = &cobra.Command{
	Use:   "unanswered",
	Short: "List questions the assistant could not answer",
	Long: `List questions the assistant could not answer, newest first.

Each refused question is logged with the best retrieval score seen, so the
document maintainer can spot which topics the FAQ should cover next.`,
	RunE: runUnanswered,
}

func init() {
	unansweredCmd.Flags().IntVar(&unansweredLimit, "limit", 20, "maximum number of records to show (0 for all)")
	rootCmd.AddCommand(unansweredCmd)
}

func runUnanswered(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := sqlite.NewStore(cfg.Document.DataDir)
	if err != nil {
		return fmt.Errorf("open chunk cache: %w", err)
	}
	defer store.Close()

	records, err := store.ListUnanswered(cmd.Context(), unansweredLimit)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		cmd.Println("No unanswered questions recorded.")
		return nil
	}

	for _, rec := range records {
		cmd.Printf("%s  score=%.3f  %s\n", rec.CreatedAt.Format("2006-01-02 15:04"), rec.TopScore, rec.Message)
	}
	return nil
}
