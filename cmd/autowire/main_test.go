package main

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lintData(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go command not available")
	}
	dir, err := filepath.Abs(filepath.Join("..", "..", "internal", "lint", "testdata", "lintdata"))
	require.NoError(t, err)
	return dir
}

func execute(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestVersionCmd(t *testing.T) {
	stdout, stderr, err := execute("version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Version: dev")
	assert.Contains(t, stdout, "Platform: ")
	assert.Empty(t, stderr)
}

func TestLintCmd(t *testing.T) {
	dir := lintData(t)

	t.Run("findings fail the run", func(t *testing.T) {
		stdout, stderr, err := execute("lint", "-C", dir, "./...")
		assert.ErrorIs(t, err, errFindings)
		assert.Contains(t, stderr, "[ERROR]")
		assert.Contains(t, stderr, "[AccessError]")
		assert.Contains(t, stderr, "[MissingTypeError]")
		assert.Contains(t, stdout, "Lint complete")
		assert.Contains(t, stdout, "Findings: 7")
	})

	t.Run("clean package passes", func(t *testing.T) {
		stdout, stderr, err := execute("lint", "-C", dir, "./clean")
		require.NoError(t, err)
		assert.Empty(t, stderr)
		assert.Contains(t, stdout, "no problems found")
	})

	t.Run("quiet prints only findings", func(t *testing.T) {
		stdout, stderr, err := execute("lint", "-q", "-C", dir, "./app")
		assert.ErrorIs(t, err, errFindings)
		assert.Empty(t, stdout)
		assert.NotEmpty(t, stderr)
	})

	t.Run("strict disabled by flag", func(t *testing.T) {
		stdout, _, err := execute("lint", "--strict=false", "-C", dir, "./app")
		assert.ErrorIs(t, err, errFindings)
		assert.Contains(t, stdout, "Findings: 6")
	})
}

func TestLintCmd_Config(t *testing.T) {
	dir := lintData(t)

	cfgPath := filepath.Join(t.TempDir(), "autowire.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("strict: false\nignore:\n  - app.Untyped\n"), 0o644))

	stdout, _, err := execute("lint", "--config", cfgPath, "-C", dir, "./app")
	assert.ErrorIs(t, err, errFindings)
	assert.Contains(t, stdout, "Findings: 5")

	t.Run("flag overrides config", func(t *testing.T) {
		stdout, _, err := execute("lint", "--strict", "--config", cfgPath, "-C", dir, "./app")
		assert.ErrorIs(t, err, errFindings)
		assert.Contains(t, stdout, "Findings: 6")
	})

	t.Run("bad config", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(bad, []byte("tagname: inject\n"), 0o644))
		_, _, err := execute("lint", "--config", bad, "-C", dir, "./app")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading config")
	})
}

func TestPlanCmd(t *testing.T) {
	dir := lintData(t)

	stdout, _, err := execute("plan", "-C", dir, "./...")
	require.NoError(t, err)

	assert.Contains(t, stdout, "app.Home\n")
	assert.Contains(t, stdout, "  - Widget: app.Widget from WidgetFactory::Create\n")
	assert.Contains(t, stdout, "  - Named: Logger\n")
	assert.Contains(t, stdout, "  - Named: Logger\n\n  embedded app.Base:\n    - Logger: app.Logger\n")
	assert.Contains(t, stdout, "clean.Service\n")
	assert.Contains(t, stdout, "  - Widget: app.Widget from app.WidgetFactory::Create\n")
	assert.Contains(t, stdout, "problems found, run autowire lint")
}
