package cli_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/charmpack/charmpack/internal/adapters/inbound/cli"
)

const goCharm = `name: hello-go
extensions:
  - go-framework
config:
  options:
    token:
      type: string
requires:
  db:
    interface: postgresql_client
`

const conflictingCharm = `name: broken
extensions:
  - flask-framework
config:
  options:
    flask-debug:
      type: string
requires:
  logging:
    interface: syslog
`

// run executes the root command with args and returns stdout, stderr and
// the command error.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := cli.NewRootCmdForTest()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeCharm(t *testing.T, dir, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, "charmcraft.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, string(out))
}
