package cli_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charmpack/charmpack/internal/adapters/inbound/cli"
)

func TestExpandCmd_PrintsExpandedDescriptor(t *testing.T) {
	dir := t.TempDir()
	writeCharm(t, dir, goCharm)

	stdout, stderr, err := run(t, "expand-extensions", "--project-dir", dir)
	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.Contains(t, stdout, "name: hello-go\n")
	assert.Contains(t, stdout, "  APP_TOKEN:\n")
	assert.Contains(t, stdout, "  APP_DB_DB_HOSTNAME:\n")
}

func TestExpandCmd_JSON(t *testing.T) {
	dir := t.TempDir()
	writeCharm(t, dir, goCharm)

	stdout, _, err := run(t, "expand-extensions", "-p", dir, "--format", "json")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, "hello-go", doc["name"])
}

func TestExpandCmd_ConflictsReportedTogether(t *testing.T) {
	dir := t.TempDir()
	writeCharm(t, dir, conflictingCharm)

	stdout, stderr, err := run(t, "expand-extensions", "-p", dir)
	require.Error(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "2 problems")
	assert.Contains(t, stderr, "flask-debug")
	assert.Contains(t, stderr, "logging")
	assert.Equal(t, cli.ExitConflict, cli.ExitCode(err))
}

func TestExpandCmd_ExtensionMismatch(t *testing.T) {
	dir := t.TempDir()
	writeCharm(t, dir, goCharm)

	_, stderr, err := run(t, "expand-extensions", "-p", dir, "--extension", "django-framework")
	require.Error(t, err)
	assert.Contains(t, stderr, "extensions")
	assert.Equal(t, cli.ExitUserError, cli.ExitCode(err))
}

func TestExpandCmd_MissingDescriptor(t *testing.T) {
	_, stderr, err := run(t, "expand-extensions", "-p", t.TempDir())
	require.Error(t, err)
	assert.Empty(t, stderr, "plain errors are printed by Execute, not the command")
	assert.Contains(t, err.Error(), "reading descriptor")
	assert.Equal(t, cli.ExitError, cli.ExitCode(err))
}

func TestExpandCmd_DescriptorFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	writeCharm(t, filepath.Join(dir, "charm"), goCharm)
	t.Setenv("CHARMPACK_DESCRIPTOR", "charm/charmcraft.yaml")

	stdout, _, err := run(t, "expand-extensions", "-p", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "APP_TOKEN")
}
