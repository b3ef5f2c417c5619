package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/QuesmaOrg/worklog/internal/session"
	"github.com/QuesmaOrg/worklog/internal/store"
)

const testProject = "/work/app"

// resetFlags restores every flag to its default; cobra keeps parsed values
// in package variables between Execute calls.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeSession(t *testing.T, root, name string, lines ...string) {
	t.Helper()
	dir := filepath.Join(root, session.EncodeProjectPath(testProject))
	require.NoError(t, os.MkdirAll(dir, 0755))
	content := strings.Join(lines, "\n") + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func sampleProjects(t *testing.T) string {
	root := t.TempDir()
	writeSession(t, root, "0b8f5a5e-3f0c-4d7e-9a43-6c1d2b7e9f10.jsonl",
		`{"type":"user","timestamp":"2025-01-15T09:00:00Z","message":{"content":"start"}}`,
		`{"type":"assistant","timestamp":"2025-01-15T09:05:00Z"}`,
		`{"type":"user","timestamp":"2025-01-15T09:20:00Z","message":{"content":"again"}}`,
		`{"type":"assistant","timestamp":"2025-01-15T09:21:00Z"}`,
	)
	writeSession(t, root, "agent-1234.jsonl",
		`{"type":"user","timestamp":1736935200000,"message":{"content":[{"tool_use_id":"t"}]}}`,
	)
	return root
}

func TestReport_Text(t *testing.T) {
	root := sampleProjects(t)

	out, err := runCLI(t, "report", "--projects-dir", root, "--project", testProject, "--no-interactive")
	require.NoError(t, err)

	assert.Contains(t, out, "Wednesday, Jan 15")
	assert.Contains(t, out, "1   09:00     09:05     5 min    ")
	assert.Contains(t, out, "2   09:20     09:21     1 min    ")
	assert.Contains(t, out, "Day total: 6 min (0.1h) | Window: 09:00 → 09:21 | Prompts: 2")
	assert.Contains(t, out, "GRAND TOTAL: 6 min (0.1h) | Prompts: 2")
	assert.NotContains(t, out, "\x1b[")
}

func TestReport_Offset(t *testing.T) {
	root := sampleProjects(t)

	out, err := runCLI(t, "report", "--projects-dir", root, "--project", testProject, "--tz", "-9.5", "--no-interactive")
	require.NoError(t, err)

	assert.Contains(t, out, "Tuesday, Jan 14")
	assert.Contains(t, out, "23:30     23:35")
}

func TestReport_RepeatedRunsIdentical(t *testing.T) {
	root := t.TempDir()
	// Events of both files interleave and are out of order within each file
	writeSession(t, root, "b.jsonl",
		`{"type":"assistant","timestamp":"2025-01-16T14:07:00Z"}`,
		`{"type":"user","timestamp":"2025-01-15T09:04:00Z","message":{"content":"fix"}}`,
		`{"type":"user","timestamp":"2025-01-16T14:00:00Z","message":{"content":"next"}}`,
		`{"type":"assistant","timestamp":1736931960000}`,
	)
	writeSession(t, root, "a.jsonl",
		`{"type":"assistant","timestamp":"2025-01-15T09:02:00Z"}`,
		`not json`,
		`{"type":"user","timestamp":"2025-01-15T09:00:00Z","message":{"content":"start"}}`,
		`{"type":"user","timestamp":"2025-01-16T14:03:00Z","message":{"content":[{"tool_use_id":"t1"}]}}`,
		`{"type":"assistant","ts":"2025-01-15T09:30:00+00:00"}`,
		`{"type":"user","timestamp":"2025-01-15T09:28:00Z","message":{"content":"later"}}`,
	)

	args := []string{"report", "--projects-dir", root, "--project", testProject}
	first, err := runCLI(t, args...)
	require.NoError(t, err)
	second, err := runCLI(t, args...)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Contains(t, first, "Wednesday, Jan 15")
	assert.Contains(t, first, "Thursday, Jan 16")
	assert.Contains(t, first, "Day total: 8 min (0.1h) | Window: 09:00 → 09:30 | Prompts: 3")
	assert.Contains(t, first, "GRAND TOTAL: 15 min")
	assert.Contains(t, first, "| Prompts: 4\n")
}

func TestUseInteractive(t *testing.T) {
	assert.False(t, useInteractive(false, false), "text report is the default")
	assert.True(t, useInteractive(true, false))
	assert.False(t, useInteractive(true, true))
	assert.False(t, useInteractive(false, true))
}

func TestReport_JSON(t *testing.T) {
	root := sampleProjects(t)

	out, err := runCLI(t, "report", "--projects-dir", root, "--project", testProject, "--format", "json")
	require.NoError(t, err)

	var rep struct {
		Project string `json:"project"`
		Days    []struct {
			Date string `json:"date"`
		} `json:"days"`
		TotalPrompts int `json:"total_prompts"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, testProject, rep.Project)
	require.Len(t, rep.Days, 1)
	assert.Equal(t, "2025-01-15", rep.Days[0].Date)
	assert.Equal(t, 2, rep.TotalPrompts)
}

func TestReport_DayFilterWithoutActivity(t *testing.T) {
	root := sampleProjects(t)

	out, err := runCLI(t, "report", "--projects-dir", root, "--project", testProject, "--day", "2025-02-01", "--no-interactive")
	require.NoError(t, err)

	assert.NotContains(t, out, "Day total")
	assert.Contains(t, out, "GRAND TOTAL: 0 min (0.0h) | Prompts: 0")
}

func TestReport_InvalidFlags(t *testing.T) {
	root := sampleProjects(t)

	tests := []struct {
		name string
		args []string
	}{
		{"bad day", []string{"--day", "15-01-2025"}},
		{"impossible day", []string{"--day", "2025-02-30"}},
		{"bad format", []string{"--format", "xml"}},
		{"offset out of range", []string{"--tz", "20"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"report", "--projects-dir", root, "--project", testProject, "--no-interactive"}, tt.args...)
			_, err := runCLI(t, args...)
			assert.Error(t, err)
		})
	}
}

func TestReport_MissingProject(t *testing.T) {
	root := sampleProjects(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "-other-project"), 0755))

	out, err := runCLI(t, "report", "--projects-dir", root, "--project", "/missing", "--no-interactive")
	require.NoError(t, err)

	dir := filepath.Join(root, "-missing") + string(filepath.Separator)
	want := "Error: Session folder not found: " + dir + "\n" +
		"Expected path: " + dir + "\n" +
		"\n" +
		"Available projects:\n" +
		"  -other-project\n" +
		"  -work-app\n"
	assert.Equal(t, want, out)
}

func TestReport_NoSessionFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "-work-app"), 0755))

	out, err := runCLI(t, "report", "--projects-dir", root, "--project", testProject, "--no-interactive")
	require.NoError(t, err)

	dir := filepath.Join(root, "-work-app") + string(filepath.Separator)
	assert.Equal(t, "Error: No session files found in "+dir+"\n", out)
}

func TestProjects(t *testing.T) {
	root := sampleProjects(t)

	out, err := runCLI(t, "projects", "--projects-dir", root)
	require.NoError(t, err)
	assert.Equal(t, "-work-app\n", out)

	out, err = runCLI(t, "projects", "--projects-dir", filepath.Join(root, "nope"))
	require.NoError(t, err)
	assert.Contains(t, out, "Projects directory not found")
}

func TestSessions(t *testing.T) {
	root := sampleProjects(t)

	out, err := runCLI(t, "sessions", "--projects-dir", root, "--project", testProject)
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Contains(t, lines[0], "KIND")
	assert.Contains(t, out, "0b8f5a5e-3f0c-4d7e-9a43-6c1d2b7e9f10  session")
	assert.Contains(t, out, "agent-1234")
	assert.Contains(t, out, "2025-01-15 09:00")
	assert.Contains(t, out, "2025-01-15 09:21")
	assert.Contains(t, out, "2 file(s)")
}

func TestExplainCommand(t *testing.T) {
	root := sampleProjects(t)

	out, err := runCLI(t, "explain", "--projects-dir", root, "--project", testProject)
	require.NoError(t, err)

	assert.Contains(t, out, "=== Session Discovery ===")
	assert.Contains(t, out, "Encoded name: -work-app")
	assert.Contains(t, out, "Days reported: 1")
}

func TestExport(t *testing.T) {
	root := sampleProjects(t)
	dbPath := filepath.Join(t.TempDir(), "history.db")

	out, err := runCLI(t, "export", "--projects-dir", root, "--project", testProject, "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 2 block(s) across 1 day(s)")

	// Exporting again replaces the day instead of duplicating it
	_, err = runCLI(t, "export", "--projects-dir", root, "--project", testProject, "--db", dbPath)
	require.NoError(t, err)

	db, err := store.Open(dbPath)
	require.NoError(t, err)
	defer db.Close()

	blocks, err := db.Blocks(testProject)
	require.NoError(t, err)
	assert.Len(t, blocks, 2)
}

func TestExport_RequiresDB(t *testing.T) {
	root := sampleProjects(t)

	_, err := runCLI(t, "export", "--projects-dir", root, "--project", testProject)
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	SetVersion("1.2.3")
	assert.Equal(t, "1.2.3", GetVersion())

	SetVersionInfo("1.2.3", "abc1234", "2025-01-15T10:00:00Z")
	assert.Equal(t, "1.2.3 abc1234 2025-01-15", rootCmd.Version)
}
