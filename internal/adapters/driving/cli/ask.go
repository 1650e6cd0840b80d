package cli

import (
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a single question and print the answer",
	Long: `Ask a single question and print the answer.

A fresh session is used for each invocation, so no conversation history
carries over between calls. For a multi-turn conversation use 'faqd chat'.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	reply, err := a.chat.Ask(ctx, uuid.NewString(), strings.Join(args, " "))
	if err != nil {
		return err
	}

	cmd.Println(reply.Answer)
	return nil
}
