package commands_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finance-analyzer/statementcore/internal/classify"
	"github.com/finance-analyzer/statementcore/internal/config"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build the binary once for all tests.
	tmpDir, err := os.MkdirTemp("", "statementcore-test-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmpDir)

	binaryPath = filepath.Join(tmpDir, "statementcore")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/statementcore")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic("failed to build binary: " + err.Error())
	}

	os.Exit(m.Run())
}

func runStatementcore(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// runSplit returns stdout and stderr separately, for commands whose stdout is
// machine-readable.
func runSplit(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := exec.Command(binaryPath, args...)
	cmd.Stdout = &out
	cmd.Stderr = &errOut
	err = cmd.Run()
	return out.String(), errOut.String(), err
}

func initWorkspace(t *testing.T, args ...string) string {
	t.Helper()
	dir := t.TempDir()
	out, err := runStatementcore(t, append([]string{"init", dir, "--name", "Test Biz"}, args...)...)
	require.NoError(t, err, out)
	return dir
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := initWorkspace(t)

	expectedDirs := []string{
		"rules",
		"inbox",
		filepath.Join("inbox", "processed"),
		"ledger",
		"logs",
	}
	for _, d := range expectedDirs {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}
}

func TestInit_ReportsRules(t *testing.T) {
	out, err := runStatementcore(t, "init", t.TempDir(), "--name", "Test Biz")
	require.NoError(t, err, out)
	// Both counts include the fallback label.
	assert.Contains(t, out, "Rules: 15 expense categories, 8 income sources")
}

func TestInit_Config(t *testing.T) {
	dir := initWorkspace(t, "--bank", "halyk")

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "Test Biz", cfg.Workspace.Name)
	assert.Equal(t, "HALYK", cfg.Workspace.Bank)
	assert.Equal(t, "ip_simplified", cfg.Tax.CurrentRegime)
}

func TestInit_Rules(t *testing.T) {
	dir := initWorkspace(t)

	exp, err := classify.LoadRules(filepath.Join(dir, "rules", "expense-rules.yaml"))
	require.NoError(t, err)
	assert.Equal(t, classify.DefaultExpenseRules().Labels(), exp.Labels())

	inc, err := classify.LoadRules(filepath.Join(dir, "rules", "income-rules.yaml"))
	require.NoError(t, err)
	assert.Equal(t, classify.DefaultIncomeRules().Labels(), inc.Labels())
}

func TestInit_RequiresName(t *testing.T) {
	_, err := runStatementcore(t, "init", t.TempDir())
	require.Error(t, err, "init without --name should fail")
}

func TestInit_UnknownBank(t *testing.T) {
	out, err := runStatementcore(t, "init", t.TempDir(), "--name", "x", "--bank", "SBER")
	require.Error(t, err)
	assert.Contains(t, out, "unknown bank")
}
