package cli

import (
	"strings"
	"testing"

	goflags "github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionFlag(t *testing.T) {
	var err error
	output := captureOutput(t, func() {
		err = RunWithArgs("0.1.0-test", []string{"--version"})
	})

	assert.NoError(t, err)
	assert.Contains(t, output, "recall 0.1.0-test")
}

func TestVersionOutputFormat(t *testing.T) {
	output := captureOutput(t, func() {
		_ = RunWithArgs("1.2.3", []string{"--version"})
	})

	assert.Equal(t, "recall 1.2.3", strings.TrimSpace(output))
}

func TestSubcommandsRegistered(t *testing.T) {
	parser, _, cmds := buildParser("test")

	for _, name := range []string{"start", "status", "search"} {
		assert.NotNil(t, parser.Command.Find(name), "subcommand %q should be registered", name)
	}

	require.NotNil(t, cmds.Start)
	require.NotNil(t, cmds.Status)
	require.NotNil(t, cmds.Search)
}

// parseOnly parses args without executing the matched subcommand.
func parseOnly(t *testing.T, parser *goflags.Parser, args []string) {
	t.Helper()
	parser.CommandHandler = func(cmd goflags.Commander, extra []string) error { return nil }
	_, err := parser.ParseArgs(args)
	require.NoError(t, err)
}

func TestSearchCommand_Flags(t *testing.T) {
	parser, globals, cmds := buildParser("test")
	parseOnly(t, parser, []string{"--json", "search", "--limit", "5", "kubernetes"})

	assert.True(t, globals.JSON)
	assert.Equal(t, 5, cmds.Search.Limit)
}

func TestSearchCommand_DefaultLimit(t *testing.T) {
	parser, _, cmds := buildParser("test")
	parseOnly(t, parser, []string{"search", "kubernetes"})

	assert.Equal(t, 20, cmds.Search.Limit)
}

func TestStartCommand_Flags(t *testing.T) {
	parser, _, cmds := buildParser("test")
	parseOnly(t, parser, []string{"start", "--port", "9000", "--interval", "5", "--no-server"})

	assert.Equal(t, 9000, cmds.Start.Port)
	assert.Equal(t, 5, cmds.Start.Interval)
	assert.True(t, cmds.Start.NoServer)
}

func TestUnknownCommandRejected(t *testing.T) {
	parser, _, _ := buildParser("test")
	_, err := parser.ParseArgs([]string{"frobnicate"})
	assert.Error(t, err)
}
