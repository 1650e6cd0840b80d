package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "faqd", rootCmd.Use)
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	require.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
	require.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
}

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	expected := []string{"serve", "ingest", "ask", "chat", "unanswered", "version"}

	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}

	for _, name := range expected {
		assert.True(t, names[name], "missing subcommand %q", name)
	}
}

func TestIngestCmd_ForceFlag(t *testing.T) {
	flag := ingestCmd.Flags().Lookup("force")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
}

func TestUnansweredCmd_LimitFlag(t *testing.T) {
	flag := unansweredCmd.Flags().Lookup("limit")
	require.NotNil(t, flag)
	assert.Equal(t, "20", flag.DefValue)
}

func TestAskCmd_RequiresQuestion(t *testing.T) {
	err := askCmd.Args(askCmd, []string{})
	assert.Error(t, err)

	err = askCmd.Args(askCmd, []string{"¿dónde", "está", "el", "registro?"})
	assert.NoError(t, err)
}
