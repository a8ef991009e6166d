package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `name: two_points
description: "A made two scores two"
setup:
  - {op: team.add, args: {id: t1, name: Hawks}}
  - {op: player.add, args: {id: p1, name: Ann, number: 4, team: t1}}
  - {op: game.add, args: {id: g1, team: t1, opponent: Owls}}
flow:
  - op: play.record
    args: {game: g1, player: p1, stats: [TwoPointMakes]}
assertions:
  - {type: period_score, game: g1, period: 0, us: 2, opponent: 0}
`

const failingScenario = `name: wrong_score
description: "Asserts a score the flow never reaches"
setup:
  - {op: team.add, args: {id: t1, name: Hawks}}
  - {op: game.add, args: {id: g1, team: t1, opponent: Owls}}
flow:
  - op: play.undo
    args: {game: g1}
    refused: true
assertions:
  - {type: period_score, game: g1, period: 0, us: 9, opponent: 0}
`

func runTestCommand(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewTestCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writeScenario(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
}

func TestTestCommandMissingArgs(t *testing.T) {
	_, err := runTestCommand(t, "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentDir(t *testing.T) {
	_, err := runTestCommand(t, "text", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenarios directory not found")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommandEmptyDir(t *testing.T) {
	out, err := runTestCommand(t, "text", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found")

	out, err = runTestCommand(t, "json", t.TempDir())
	require.NoError(t, err)
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestTestHelpText(t *testing.T) {
	out, err := runTestCommand(t, "text", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "scenarios")
	assert.Contains(t, out, "--update")
	assert.Contains(t, out, "--filter")
	assert.Contains(t, out, "scenarios-dir")
}

func TestTestCommandBundledScenarios(t *testing.T) {
	dir := filepath.Join("..", "scenario", "testdata")
	out, err := runTestCommand(t, "text", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ record_undo")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTestCommandFailureExitCode(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "wrong_score.yaml", failingScenario)

	out, err := runTestCommand(t, "text", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ wrong_score")
	assert.Contains(t, out, "Test Summary: 0 passed, 1 failed, 1 total")

	out, err = runTestCommand(t, "json", dir)
	require.Error(t, err)
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E_TEST_FAILED", resp.Error.Code)
}

func TestTestCommandUpdateThenCompare(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "two_points.yaml", passingScenario)

	_, err := runTestCommand(t, "text", dir, "--update")
	require.NoError(t, err)
	golden, err := os.ReadFile(filepath.Join(dir, "golden", "two_points.golden"))
	require.NoError(t, err)
	assert.Equal(t,
		"1 play.record game=g1 player=p1 stats=[TwoPointMakes] => ok points=2 run=true\n",
		string(golden))

	_, err = runTestCommand(t, "text", dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "golden", "two_points.golden"), []byte("stale\n"), 0644))
	out, err := runTestCommand(t, "text", dir)
	require.Error(t, err)
	assert.Contains(t, out, "trace does not match golden file")
}

func TestFindScenarioFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"cart-add.yaml", "cart-remove.yml", "checkout.yaml", "notes.txt"} {
		writeScenario(t, dir, name, "")
	}
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "golden"), 0755))

	files, err := findScenarioFiles(dir, "")
	require.NoError(t, err)
	assert.Len(t, files, 3)

	files, err = findScenarioFiles(dir, "cart-*")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "cart-add.yaml"), filepath.Join(dir, "cart-remove.yml")}, files)

	_, err = findScenarioFiles(dir, "[")
	assert.Error(t, err)
}
