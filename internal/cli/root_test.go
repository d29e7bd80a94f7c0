package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "spell", cmd.Use)
	assert.Contains(t, cmd.Long, "call context")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"init", "call", "ops", "stats", "test"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	for _, name := range []string{"db", "config", "log-json"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
}

func TestCallCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	callCmd, _, err := cmd.Find([]string{"call"})
	require.NoError(t, err)

	for _, name := range []string{"caller", "particle", "service-id", "creator", "worker", "host"} {
		f := callCmd.Flags().Lookup(name)
		require.NotNil(t, f, name)
		assert.Equal(t, "", f.DefValue)
	}
}

func TestInvalidFormat(t *testing.T) {
	_, _, err := execute(t, "ops", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestInit(t *testing.T) {
	db := testDB(t)

	out, _, err := execute(t, "init", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "initialized "+db+" (logs=50 mailbox=50 error_particles=50)\n", out)

	// Idempotent
	_, _, err = execute(t, "init", "--db", db)
	require.NoError(t, err)
}

func TestInit_BadDatabasePath(t *testing.T) {
	_, _, err := execute(t, "init", "--db", "/nonexistent/dir/spell.sqlite")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestOps(t *testing.T) {
	out, _, err := execute(t, "ops")
	require.NoError(t, err)
	assert.Contains(t, out, "set_string <key> <value>\n")
	assert.Contains(t, out, "store_error <last_error_json> <error_idx> <particle_timestamp>\n")
	assert.Contains(t, out, "get_logs\n")
}
