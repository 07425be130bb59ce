package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenario = `tax_year: "2025"
strategy: individual
partnership:
  monthly_profit: 5000
  type: freelance
  safety_margin: 0.05
partners:
  - id: anna
    name: Anna
    base_income: 40000
    share: 50
    church_member: true
    state: NW
  - id: ben
    name: Ben
    base_income: 12000
    share: 50
    church_member: true
    state: NW
`

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gbr.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := newRootCmd()
	assert.Equal(t, "gbrtax", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	out, err := run(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "calculate")
}

func TestCommandSubcommands(t *testing.T) {
	expected := []string{"calculate", "validate", "tables", "compare", "sensitivity", "schedule", "serve", "version"}

	cmd := newRootCmd()
	names := map[string]bool{}
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range expected {
		assert.True(t, names[name], "command %s should be registered", name)
	}
}

func TestCalculate(t *testing.T) {
	path := writeScenario(t, scenario)

	out, err := run(t, "calculate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "GBR TAX RESERVE")
	assert.Contains(t, out, "individual")
	assert.Contains(t, out, "€1824.81")

	out, err = run(t, "calculate", path, "--strategy", "equitable", "--format", "json")
	require.NoError(t, err)
	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "equitable", result["strategy"])
}

func TestCalculate_Errors(t *testing.T) {
	path := writeScenario(t, scenario)

	_, err := run(t, "calculate", path, "--format", "pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")

	_, err = run(t, "calculate", path, "--tax-table", "1999")
	require.Error(t, err)

	_, err = run(t, "calculate", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = run(t, "calculate")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	out, err := run(t, "validate", writeScenario(t, scenario))
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")
	assert.NotContains(t, out, "Note:")

	skewed := strings.Replace(scenario, "share: 50\n    church_member: true\n    state: NW\n  - id: ben", "share: 30\n    church_member: true\n    state: NW\n  - id: ben", 1)
	out, err = run(t, "validate", writeScenario(t, skewed))
	require.NoError(t, err)
	assert.Contains(t, out, "Note:")
}

func TestTables(t *testing.T) {
	out, err := run(t, "tables", "--check")
	require.NoError(t, err)
	assert.Contains(t, out, "* 2025-simplified")
	assert.Contains(t, out, "2025-simplified")
}

func TestCompare(t *testing.T) {
	path := writeScenario(t, scenario)

	out, err := run(t, "compare", path)
	require.NoError(t, err)
	assert.Contains(t, out, "RESERVE STRATEGY COMPARISON")
	assert.Contains(t, out, path)

	out, err = run(t, "compare", path, "--format", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "individual,base,TOTAL,0.3476,1824.81,0.00")

	_, err = run(t, "compare", path, "--strategies", "individual", "--base", "equitable")
	require.Error(t, err)
}

func TestSensitivity(t *testing.T) {
	path := writeScenario(t, scenario)

	out, err := run(t, "sensitivity", path, "--format", "csv", "--min", "2000", "--max", "6000", "--steps", "5")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 6, "header plus one row per step")

	_, err = run(t, "sensitivity", path, "--parameter", "base_income")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown parameter")
}

func TestSchedule(t *testing.T) {
	path := writeScenario(t, scenario)

	out, err := run(t, "schedule", path, "--as-of", "2025-01-01")
	require.NoError(t, err)
	assert.Contains(t, out, "PREPAYMENT SCHEDULE 2025")
	assert.Contains(t, out, "2025-03-10")
	assert.NotContains(t, out, "trade_tax", "freelance partnerships owe no trade tax")

	out, err = run(t, "schedule", path, "--format", "json")
	require.NoError(t, err)
	var doc struct {
		Schedule struct {
			Payments []map[string]interface{} `json:"payments"`
		} `json:"schedule"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Len(t, doc.Schedule.Payments, 4)

	_, err = run(t, "schedule", path, "--as-of", "June")
	require.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "gbrtax dev")
}
