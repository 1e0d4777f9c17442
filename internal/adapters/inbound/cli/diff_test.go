package cli_test

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffCmd(t *testing.T) {
	dir := t.TempDir()
	runGit(t, dir, "init")
	runGit(t, dir, "config", "user.email", "test@test.com")
	runGit(t, dir, "config", "user.name", "Test")
	path := writeCharm(t, dir, goCharm)
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "init")

	stdout, _, err := run(t, "diff", "-p", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "No changes")

	edited := strings.Replace(goCharm, "    token:\n", "    greeting:\n      type: string\n    token:\n", 1)
	require.NoError(t, os.WriteFile(path, []byte(edited), 0644))

	stdout, _, err = run(t, "diff", "-p", dir, "--rev", "HEAD")
	require.NoError(t, err)
	assert.Contains(t, stdout, "APP_GREETING")
	assert.NotContains(t, stdout, "No changes")
}

func TestDiffCmd_BadRevision(t *testing.T) {
	dir := t.TempDir()
	runGit(t, dir, "init")
	writeCharm(t, dir, goCharm)

	stdout, _, err := run(t, "diff", "-p", dir, "--rev", "does-not-exist")
	require.Error(t, err)
	assert.ErrorContains(t, err, "does-not-exist")
	assert.Empty(t, stdout)
}

func TestDiffCmd_NotGitRepo(t *testing.T) {
	dir := t.TempDir()
	writeCharm(t, dir, goCharm)

	_, _, err := run(t, "diff", "-p", dir)
	assert.ErrorContains(t, err, "not inside a git repository")
}
