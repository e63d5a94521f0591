package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `name: rina
description: "Two quizzes average into the final grade"
data:
  classes:
    - name: 8A
  subjects:
    - name: Biology
  categories:
    - name: Daily
      weight: 100
  students:
    - name: Rina
      class: 8A
  scores:
    - {student: Rina, category: Daily, subject: Biology, assessment: Quiz 1, value: 84}
    - {student: Rina, category: Daily, subject: Biology, assessment: Quiz 2, value: 85}
report:
  class: 8A
assertions:
  - type: final
    student: Rina
    subject: Biology
    expect: 85
`

const failingScenario = `name: wrong_final
description: "Expects a final grade the scores do not give"
data:
  classes:
    - name: 8A
  subjects:
    - name: Biology
  categories:
    - name: Daily
      weight: 100
  students:
    - name: Rina
      class: 8A
  scores:
    - {student: Rina, category: Daily, subject: Biology, assessment: Quiz 1, value: 84}
report:
  class: 8A
assertions:
  - type: final
    student: Rina
    subject: Biology
    expect: 90
`

func harnessScenarios() string {
	return filepath.Join(filepath.Dir(testdataPath), "..", "harness", "testdata", "scenarios")
}

func writeScenario(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".yaml"), []byte(body), 0644))
}

func TestCheck_HarnessScenarios(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun("check", harnessScenarios())
	assert.Contains(t, out, "✓ weighted_final")
	assert.Contains(t, out, "✓ All scenarios passed")
	_, err := os.Stat(h.db)
	assert.True(t, os.IsNotExist(err), "check must not create the database")
}

func TestCheck_Filter(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun("--format", "json", "check", harnessScenarios(), "--filter", "weighted*")

	var resp struct {
		Status string      `json:"status"`
		Data   CheckResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data.Scenarios, 1)
	assert.Equal(t, "weighted_final", resp.Data.Scenarios[0].Name)
	assert.Equal(t, 1, resp.Data.Passed)
}

func TestCheck_Failure(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()
	writeScenario(t, dir, "wrong_final", failingScenario)

	out, err := h.run("check", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ wrong_final")
	assert.Contains(t, out, "Expected: 90")
	assert.Contains(t, out, "Actual: 84")
	assert.Contains(t, out, "Check Summary: 0 passed, 1 failed, 1 total")
}

func TestCheck_FailureJSON(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()
	writeScenario(t, dir, "wrong_final", failingScenario)

	out, err := h.run("--format", "json", "check", dir)
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeScenarioFailed, resp.Error.Code)
}

func TestCheck_UpdateThenCompare(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()
	writeScenario(t, dir, "rina", passingScenario)

	h.mustRun("check", dir, "--update")
	golden, err := os.ReadFile(filepath.Join(dir, "golden", "rina.golden"))
	require.NoError(t, err)
	assert.Equal(t, "Name,NIS,Daily / Biology / Quiz 1,Daily / Biology / Quiz 2,Daily / Biology / Average,Biology / Final\nRina,,84,85,85,85\n", string(golden))

	h.mustRun("check", dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "golden", "rina.golden"), []byte("stale\n"), 0644))
	out, err := h.run("check", dir)
	require.Error(t, err)
	assert.Contains(t, out, "does not match golden file")
}

func TestCheck_MissingDir(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("check", filepath.Join(h.dir, "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCheck_Empty(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun("check", t.TempDir())
	assert.Contains(t, out, "No scenarios found.")
}

func TestGoldenFilePath(t *testing.T) {
	assert.Equal(t, filepath.Join("s", "golden", "a.golden"), goldenFilePath(filepath.Join("s", "a.yaml")))
}
