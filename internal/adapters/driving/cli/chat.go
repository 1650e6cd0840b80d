package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/civika-labs/faqd/internal/adapters/driving/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start an interactive chat session in the terminal.

The conversation keeps its history for the duration of the session, so
follow-up questions work. Press Esc or Ctrl+C to leave.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("chat needs an interactive terminal; use 'faqd ask' for scripted queries")
	}

	// Panic recovery to get stack traces out of the alternate screen.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in chat UI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	a, err := buildApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	stopSweeper := startSweeper(cmd.Context(), a.sessions)
	defer stopSweeper()

	app, err := tui.NewApp(a.chat)
	if err != nil {
		return fmt.Errorf("create chat UI: %w", err)
	}
	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat UI: %w", err)
	}

	return nil
}
