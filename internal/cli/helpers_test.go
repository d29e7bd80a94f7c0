package cli

import (
	"bytes"
	"path/filepath"
	"testing"
)

// execute runs the root command with args and returns stdout, stderr and
// the command error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func testDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "spell.sqlite")
}

// Call-context flags of the standard topology: host H runs worker W, which
// created spell s1.
func hostFlags() []string {
	return []string{"--caller", "H", "--host", "H", "--worker", "W", "--creator", "W", "--service-id", "s1"}
}

func workerFlags() []string {
	return []string{"--caller", "W", "--host", "H", "--worker", "W", "--creator", "W", "--service-id", "s1"}
}

func spellFlags() []string {
	return append(workerFlags(), "--particle", "spell_s1_0")
}

func call(t *testing.T, db string, flags []string, args ...string) (string, string, error) {
	t.Helper()
	all := append([]string{"call"}, args...)
	all = append(all, "--db", db)
	all = append(all, flags...)
	return execute(t, all...)
}
