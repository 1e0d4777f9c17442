package e2e_test

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charmpack/charmpack/internal/domain"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build binary before running tests
	dir, err := os.MkdirTemp("", "charmpack-e2e")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	binaryPath = filepath.Join(dir, "charmpack")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/charmpack")
	if out, err := cmd.CombinedOutput(); err != nil {
		panic("build failed: " + string(out))
	}

	os.Exit(m.Run())
}

// fixture copies a charm from testdata into a temp dir so runs never
// leave a validation cache behind in the repository.
func fixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("../../testdata/charms", name, "charmcraft.yaml"))
	require.NoError(t, err)
	dir := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "charmcraft.yaml"), data, 0644))
	return dir
}

func run(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
	}
	return stdout.String(), stderr.String(), exitCode
}

// --- Expand Tests ---

func TestE2E_ExpandFlask(t *testing.T) {
	out, _, code := run(t, "expand-extensions", "-p", fixture(t, "flask-app"))
	require.Equal(t, 0, code)

	assert.Contains(t, out, "name: flask-app\n")
	assert.Contains(t, out, "  FLASK_GREETING:\n")
	assert.Contains(t, out, "  FLASK_CACHE_DB_HOSTNAME:\n")
	assert.Contains(t, out, "    role: worker\n")
	assert.Contains(t, out, "    role: scheduler\n")
	assert.Contains(t, out, "    limit: 5\n")
	assert.Contains(t, out, "containers:\n")
}

func TestE2E_ExpandIsIdempotent(t *testing.T) {
	dir := fixture(t, "go-api")
	once, _, code := run(t, "expand-extensions", "-p", dir)
	require.Equal(t, 0, code)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "charmcraft.yaml"), []byte(once), 0644))
	twice, _, code := run(t, "expand-extensions", "-p", dir)
	require.Equal(t, 0, code)
	assert.Equal(t, once, twice)
}

func TestE2E_ExpandJSON(t *testing.T) {
	out, _, code := run(t, "expand-extensions", "-p", fixture(t, "django-app"), "--format", "json")
	require.Equal(t, 0, code)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	env := doc["environment"].(map[string]any)
	assert.Contains(t, env, "DJANGO_SITE_TITLE")
	assert.Contains(t, env, "DJANGO_POSTGRESQL_DB_HOSTNAME")
}

func TestE2E_ExpandPassthrough(t *testing.T) {
	out, _, code := run(t, "expand-extensions", "-p", fixture(t, "plain"))
	require.Equal(t, 0, code)
	assert.Contains(t, out, "name: plain\n")
	assert.NotContains(t, out, "environment:")
}

func TestE2E_ExpandConflicts(t *testing.T) {
	out, errOut, code := run(t, "expand-extensions", "-p", fixture(t, "conflicting"))
	assert.Equal(t, 3, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "flask-debug")
	assert.Contains(t, errOut, "logging")
}

func TestE2E_ExpandBadSecrets(t *testing.T) {
	_, errOut, code := run(t, "expand-extensions", "-p", fixture(t, "bad-secrets"))
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "api-key")
	assert.Contains(t, errOut, "db-password")
}

// --- Validate Tests ---

func TestE2E_ValidateRecursive(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"flask-app", "go-api", "conflicting"} {
		src := fixture(t, name)
		require.NoError(t, os.Rename(src, filepath.Join(root, name)))
	}

	out, _, code := run(t, "validate", "-r", "--json", root)
	assert.Equal(t, 3, code)

	var results []domain.ValidationResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 3)

	failed := 0
	for _, r := range results {
		if len(r.Problems) > 0 {
			failed++
			assert.Contains(t, r.Path, "conflicting")
		}
	}
	assert.Equal(t, 1, failed)
}

func TestE2E_ValidateCache(t *testing.T) {
	dir := fixture(t, "go-api")

	_, _, code := run(t, "validate", dir)
	require.Equal(t, 0, code)
	assert.FileExists(t, filepath.Join(dir, ".charmpack", "cache", "validation.json"))

	out, _, code := run(t, "validate", "--json", dir)
	require.Equal(t, 0, code)
	var results []domain.ValidationResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	assert.True(t, results[0].Cached)
}

// --- Other Commands ---

func TestE2E_ListExtensions(t *testing.T) {
	out, _, code := run(t, "list-extensions", "--json")
	require.Equal(t, 0, code)
	assert.Contains(t, out, `"tag": "go-framework"`)
}

func TestE2E_InitThenExpand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shop")
	require.NoError(t, os.MkdirAll(dir, 0755))

	_, _, code := run(t, "init", dir, "--extension", "expressjs-framework")
	require.Equal(t, 0, code)

	out, _, code := run(t, "expand-extensions", "-p", dir)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "name: shop\n")

	_, errOut, code := run(t, "init", dir, "--extension", "expressjs-framework")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "already exists")
}

func TestE2E_LogLevelFromEnvironment(t *testing.T) {
	cmd := exec.Command(binaryPath, "expand-extensions", "-p", fixture(t, "go-api"))
	cmd.Env = append(os.Environ(), "CHARMPACK_LOG_LEVEL=debug")
	var stderr strings.Builder
	cmd.Stderr = &stderr
	require.NoError(t, cmd.Run())
	assert.Contains(t, stderr.String(), "descriptor expanded")
}

func TestE2E_Version(t *testing.T) {
	out, _, code := run(t, "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "charmpack")
}
