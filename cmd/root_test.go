package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sim "github.com/inference-sim/queue-sim/sim"
	"github.com/inference-sim/queue-sim/sim/trace"
)

// resetRunFlags restores the run flag variables to their registered defaults
// and puts the current values back when the test ends.
func resetRunFlags(t *testing.T) {
	t.Helper()
	saved := []any{inputPath, discipline, sortAlgorithm, configPath, envFile, logLevel,
		outputPath, noReport, topWaiters, traceLevel, recordUndo, undoLast, jsonOutput}
	t.Cleanup(func() {
		inputPath = saved[0].(string)
		discipline = saved[1].(string)
		sortAlgorithm = saved[2].(string)
		configPath = saved[3].(string)
		envFile = saved[4].(string)
		logLevel = saved[5].(string)
		outputPath = saved[6].(string)
		noReport = saved[7].(bool)
		topWaiters = saved[8].(int)
		traceLevel = saved[9].(string)
		recordUndo = saved[10].(bool)
		undoLast = saved[11].(int)
		jsonOutput = saved[12].(bool)
	})
	inputPath, discipline, sortAlgorithm, configPath, envFile = "", "fifo", "merge", "", ""
	logLevel, outputPath, noReport, topWaiters = "warn", "", false, 5
	traceLevel, recordUndo, undoLast, jsonOutput = "none", false, 0, false
	t.Setenv(envDiscipline, "")
	t.Setenv(envSort, "")
	t.Setenv(envLogLevel, "")
}

// changedSet reports the named flags as explicitly set.
func changedSet(names ...string) func(string) bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return func(name string) bool { return set[name] }
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const scenarioCSV = `id,name,type,service_time_minutes,arrival_time_minutes
A,Ana,regular,5,0
B,Bruno,corporate,3,1
C,Carla,preferred,2,1
`

func TestResolveRunConfig_Defaults(t *testing.T) {
	resetRunFlags(t)

	cfg, opts, err := resolveRunConfig(changedSet())

	require.NoError(t, err)
	assert.Equal(t, "fifo", cfg.Discipline)
	assert.Equal(t, sim.SortMerge, cfg.SortAlgorithm)
	assert.False(t, cfg.Trace.Enabled())
	assert.False(t, cfg.RecordHistory)
	assert.Equal(t, 5, opts.TopWaiters)
	assert.Empty(t, opts.Output)
}

func TestResolveRunConfig_EnvFillsUnsetFlags(t *testing.T) {
	resetRunFlags(t)
	t.Setenv(envDiscipline, "priority")
	t.Setenv(envSort, "quick")

	cfg, _, err := resolveRunConfig(changedSet())

	require.NoError(t, err)
	assert.Equal(t, "priority", cfg.Discipline)
	assert.Equal(t, sim.SortQuick, cfg.SortAlgorithm)
}

func TestResolveRunConfig_ExplicitFlagBeatsEnv(t *testing.T) {
	resetRunFlags(t)
	t.Setenv(envDiscipline, "priority")
	discipline = "fifo"

	cfg, _, err := resolveRunConfig(changedSet("discipline"))

	require.NoError(t, err)
	assert.Equal(t, "fifo", cfg.Discipline)
}

func TestResolveRunConfig_BundleBeatsEnvButNotFlags(t *testing.T) {
	// GIVEN env, a bundle and one explicit flag all naming a sort or discipline
	resetRunFlags(t)
	t.Setenv(envDiscipline, "fifo")
	configPath = writeFile(t, "run.yaml", `
discipline: priority
sort: merge
trace: decisions
undo: true
report:
  output: bundle-report.txt
  top_waiters: 2
`)
	sortAlgorithm = "quick"

	// WHEN only --sort is marked as set
	cfg, opts, err := resolveRunConfig(changedSet("sort"))

	// THEN the bundle wins over env, the explicit flag wins over the bundle
	require.NoError(t, err)
	assert.Equal(t, "priority", cfg.Discipline)
	assert.Equal(t, sim.SortQuick, cfg.SortAlgorithm)
	assert.Equal(t, trace.TraceLevelDecisions, cfg.Trace.Level)
	assert.True(t, cfg.RecordHistory)
	assert.Equal(t, "bundle-report.txt", opts.Output)
	assert.Equal(t, 2, opts.TopWaiters)
}

func TestResolveRunConfig_ExplicitOutputBeatsBundle(t *testing.T) {
	resetRunFlags(t)
	configPath = writeFile(t, "run.yaml", "report:\n  output: bundle.txt\n  top_waiters: 1\n")
	outputPath = "flag.txt"
	topWaiters = 7

	_, opts, err := resolveRunConfig(changedSet("output", "top"))

	require.NoError(t, err)
	assert.Equal(t, "flag.txt", opts.Output)
	assert.Equal(t, 7, opts.TopWaiters)
}

func TestResolveRunConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T)
	}{
		{"unknown discipline flag", func(t *testing.T) { discipline = "lifo" }},
		{"unknown sort from env", func(t *testing.T) { t.Setenv(envSort, "bogo") }},
		{"unknown trace level", func(t *testing.T) { traceLevel = "everything" }},
		{"negative top", func(t *testing.T) { topWaiters = -1 }},
		{"bundle with unknown key", func(t *testing.T) {
			configPath = writeFile(t, "run.yaml", "discipline: fifo\nworkers: 4\n")
		}},
		{"bundle with unknown discipline", func(t *testing.T) {
			configPath = writeFile(t, "run.yaml", "discipline: random\n")
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resetRunFlags(t)
			tc.setup(t)
			_, _, err := resolveRunConfig(changedSet())
			assert.Error(t, err)
		})
	}
}

func TestResolveRunConfig_UndoLastImpliesHistory(t *testing.T) {
	resetRunFlags(t)
	undoLast = 2

	cfg, _, err := resolveRunConfig(changedSet("undo-last"))

	require.NoError(t, err)
	assert.True(t, cfg.RecordHistory)
}

func TestSetupLogging(t *testing.T) {
	resetRunFlags(t)
	saved := logrus.GetLevel()
	t.Cleanup(func() { logrus.SetLevel(saved) })

	t.Setenv(envLogLevel, "debug")
	require.NoError(t, setupLogging(changedSet()))
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	logLevel = "error"
	require.NoError(t, setupLogging(changedSet("log")))
	assert.Equal(t, logrus.ErrorLevel, logrus.GetLevel())

	logLevel = "loud"
	assert.Error(t, setupLogging(changedSet("log")))
}

func TestRunSimulation_ScenarioTextOutput(t *testing.T) {
	// GIVEN the three-customer scenario and the priority discipline
	resetRunFlags(t)
	inputPath = writeFile(t, "customers.csv", scenarioCSV)
	reportPath := filepath.Join(t.TempDir(), "report.txt")
	cfg := sim.SimConfig{Discipline: "priority", SortAlgorithm: sim.SortQuick, Trace: trace.TraceConfig{Level: trace.TraceLevelDecisions}}

	// WHEN the run writes console output and a report
	var out bytes.Buffer
	require.NoError(t, runSimulation(cfg, reportOptions{Output: reportPath, TopWaiters: 2}, &out))

	// THEN the console shows statistics, the top waiters and the trace summary
	text := out.String()
	assert.Contains(t, text, "Customers Served     : 3")
	assert.Contains(t, text, "Total Wait           : 11.00 min")
	assert.Contains(t, text, "Mean Wait            : 3.67 min")
	assert.Contains(t, text, "Top 2 customers by wait")
	assert.Contains(t, text, "C, Carla, 7.00")
	assert.Contains(t, text, "B, Bruno, 4.00")
	assert.NotContains(t, text, "A, Ana")
	assert.Contains(t, text, "Dispatches           : 3")
	assert.Contains(t, text, "Report file          : "+reportPath)

	// AND the report lists customers in dispatch order
	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	report := string(data)
	a := strings.Index(report, "A,Ana,regular,0.00,0.00,5.00,0.00")
	b := strings.Index(report, "B,Bruno,corporate,1.00,5.00,8.00,4.00")
	c := strings.Index(report, "C,Carla,preferred,1.00,8.00,10.00,7.00")
	require.True(t, a >= 0 && b >= 0 && c >= 0, "report:\n%s", report)
	assert.Less(t, a, b)
	assert.Less(t, b, c)
}

func TestRunSimulation_JSONOutput(t *testing.T) {
	resetRunFlags(t)
	inputPath = writeFile(t, "customers.csv", scenarioCSV)
	jsonOutput = true
	noReport = true

	var out bytes.Buffer
	require.NoError(t, runSimulation(sim.DefaultSimConfig(), reportOptions{TopWaiters: 5}, &out))

	var stats sim.Statistics
	require.NoError(t, json.Unmarshal(out.Bytes(), &stats))
	assert.Equal(t, 3, stats.Count)
	assert.InDelta(t, 11.0, stats.TotalWait, 1e-9)
	assert.InDelta(t, 10.0, stats.TotalService, 1e-9)
	assert.Equal(t, sim.DisciplinePartitionedFIFO, stats.Discipline)
	assert.Equal(t, sim.SortMerge, stats.SortAlgorithm)
}

func TestRunSimulation_UndoLeavesResultsIntact(t *testing.T) {
	resetRunFlags(t)
	inputPath = writeFile(t, "customers.csv", scenarioCSV)
	noReport = true
	undoLast = 4
	cfg := sim.DefaultSimConfig()
	cfg.RecordHistory = true

	var out bytes.Buffer
	require.NoError(t, runSimulation(cfg, reportOptions{}, &out))

	text := out.String()
	assert.Contains(t, text, "Undone dispatch of C - Carla (simulation only)")
	assert.Contains(t, text, "Undone dispatch of A - Ana (simulation only)")
	assert.Contains(t, text, "Undo stack is empty.")
	assert.Contains(t, text, "Customers Served     : 3")
}

func TestRunSimulation_Errors(t *testing.T) {
	resetRunFlags(t)
	noReport = true

	inputPath = filepath.Join(t.TempDir(), "missing.csv")
	assert.Error(t, runSimulation(sim.DefaultSimConfig(), reportOptions{}, &bytes.Buffer{}))

	inputPath = writeFile(t, "bad.csv", "A,Ana,vip,5,0\n")
	assert.Error(t, runSimulation(sim.DefaultSimConfig(), reportOptions{}, &bytes.Buffer{}))

	inputPath = writeFile(t, "negative.csv", "A,Ana,regular,-5,0\n")
	var validation *sim.ValidationError
	err := runSimulation(sim.DefaultSimConfig(), reportOptions{}, &bytes.Buffer{})
	require.Error(t, err)
	assert.ErrorAs(t, err, &validation)
}

func TestRunCmd_SortHelpListsAlgorithms(t *testing.T) {
	flag := runCmd.Flags().Lookup("sort")
	require.NotNil(t, flag)
	for _, name := range sim.ValidSortAlgorithmNames() {
		assert.Contains(t, flag.Usage, name)
		assert.True(t, sim.IsValidSortAlgorithm(name))
	}
	assert.Equal(t, "merge", flag.DefValue)
}
