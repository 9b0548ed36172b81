package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/inference-sim/queue-sim/sim"
	"github.com/inference-sim/queue-sim/sim/trace"
	"github.com/inference-sim/queue-sim/sim/workload"
)

var (
	// CLI flags for the run command
	inputPath     string // CSV file of customer records
	discipline    string // Queue discipline name
	sortAlgorithm string // Arrival sort algorithm name
	configPath    string // Optional YAML run config
	envFile       string // Optional .env file with QUEUESIM_* defaults
	logLevel      string // Log verbosity level
	outputPath    string // Report file path; empty means stats_<timestamp>.txt
	noReport      bool   // Skip writing the report file
	topWaiters    int    // Number of longest waits printed to the console
	traceLevel    string // Decision trace level
	recordUndo    bool   // Keep an undo stack of dispatches
	undoLast      int    // Number of dispatches to pop from the undo stack after the run
	jsonOutput    bool   // Print statistics as JSON instead of text
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "queue-sim",
	Short: "Single-server service queue simulator",
}

// reportOptions collects the settings that only affect output, never the schedule.
type reportOptions struct {
	Output     string
	TopWaiters int
}

// resolveRunConfig merges configuration sources. Precedence, highest first:
// explicitly set flags, the YAML run config, QUEUESIM_* environment variables, flag defaults.
func resolveRunConfig(changed func(name string) bool) (sim.SimConfig, reportOptions, error) {
	cfg := sim.SimConfig{
		Discipline:    discipline,
		SortAlgorithm: sim.SortAlgorithm(sortAlgorithm),
		Trace:         trace.TraceConfig{Level: trace.TraceLevel(traceLevel)},
		RecordHistory: recordUndo || undoLast > 0,
	}
	opts := reportOptions{Output: outputPath, TopWaiters: topWaiters}

	if !changed("discipline") {
		if v := os.Getenv(envDiscipline); v != "" {
			cfg.Discipline = v
		}
	}
	if !changed("sort") {
		if v := os.Getenv(envSort); v != "" {
			cfg.SortAlgorithm = sim.SortAlgorithm(v)
		}
	}

	if configPath != "" {
		bundle, err := sim.LoadRunBundle(configPath)
		if err != nil {
			return cfg, opts, err
		}
		if err := bundle.Validate(); err != nil {
			return cfg, opts, fmt.Errorf("invalid run config %s: %w", configPath, err)
		}
		// re-apply explicit flags after the bundle so they keep precedence
		bundle.ApplyTo(&cfg)
		if changed("discipline") {
			cfg.Discipline = discipline
		}
		if changed("sort") {
			cfg.SortAlgorithm = sim.SortAlgorithm(sortAlgorithm)
		}
		if changed("trace") {
			cfg.Trace.Level = trace.TraceLevel(traceLevel)
		}
		if changed("undo") || undoLast > 0 {
			cfg.RecordHistory = recordUndo || undoLast > 0
		}
		if bundle.Report.Output != "" && !changed("output") {
			opts.Output = bundle.Report.Output
		}
		if bundle.Report.TopWaiters != nil && !changed("top") {
			opts.TopWaiters = *bundle.Report.TopWaiters
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, opts, err
	}
	if opts.TopWaiters < 0 {
		return cfg, opts, fmt.Errorf("--top must be non-negative, got %d", opts.TopWaiters)
	}
	return cfg, opts, nil
}

// setupLogging applies the --log flag, or QUEUESIM_LOG when the flag was not set.
func setupLogging(changed func(name string) bool) error {
	level := logLevel
	if !changed("log") {
		if v := os.Getenv(envLogLevel); v != "" {
			level = v
		}
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level: %s", level)
	}
	logrus.SetLevel(parsed)
	return nil
}

// runSimulation loads the input, runs one simulation and writes console output and the report.
func runSimulation(cfg sim.SimConfig, opts reportOptions, out io.Writer) error {
	customers, err := workload.LoadCustomersCSV(inputPath)
	if err != nil {
		return err
	}
	logrus.Infof("Loaded %d customer records from %s", len(customers), inputPath)

	res, err := sim.Simulate(cfg, customers)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	if jsonOutput {
		data, err := json.MarshalIndent(res.Stats, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling statistics: %w", err)
		}
		_, _ = fmt.Fprintln(out, string(data))
	} else {
		res.Stats.Print(out)
		printTopWaiters(out, res.Served, opts.TopWaiters)
		if res.Trace != nil {
			printTraceSummary(out, trace.Summarize(res.Trace))
		}
	}

	if res.History != nil && undoLast > 0 {
		printUndo(out, res.History, undoLast)
	}

	if !noReport {
		report := NewReport(res)
		path, err := SaveReport(opts.Output, report)
		if err != nil {
			return err
		}
		logrus.Infof("Report written to %s", path)
		if !jsonOutput {
			_, _ = fmt.Fprintf(out, "Report file          : %s\n", path)
		}
	}
	return nil
}

func printTopWaiters(out io.Writer, served []*sim.Customer, k int) {
	top := sim.TopWaiters(served, k)
	if len(top) == 0 {
		return
	}
	_, _ = fmt.Fprintf(out, "\nTop %d customers by wait (id, name, wait_min):\n", len(top))
	for _, c := range top {
		wait, _ := c.Wait()
		_, _ = fmt.Fprintf(out, "%s, %s, %.2f\n", c.ID, c.Name, wait)
	}
}

func printTraceSummary(out io.Writer, summary *trace.TraceSummary) {
	_, _ = fmt.Fprintln(out, "\n=== Decision Trace ===")
	_, _ = fmt.Fprintf(out, "Admissions           : %d\n", summary.TotalAdmissions)
	_, _ = fmt.Fprintf(out, "Dispatches           : %d\n", summary.TotalDispatches)
	_, _ = fmt.Fprintf(out, "Max Queue Depth      : %d\n", summary.MaxQueueDepth)
	for _, cat := range sim.Categories {
		if n := summary.DispatchDistribution[string(cat)]; n > 0 {
			_, _ = fmt.Fprintf(out, "  %-10s: %d dispatched\n", cat, n)
		}
	}
}

// printUndo pops up to n dispatches. Served results and the report are not changed.
func printUndo(out io.Writer, h *sim.History, n int) {
	for i := 0; i < n; i++ {
		c, ok := h.Undo()
		if !ok {
			_, _ = fmt.Fprintln(out, "Undo stack is empty.")
			return
		}
		_, _ = fmt.Fprintf(out, "Undone dispatch of %s - %s (simulation only)\n", c.ID, c.Name)
	}
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the queue simulation over a CSV of customers",
	Run: func(cmd *cobra.Command, args []string) {
		if err := loadEnvFile(envFile); err != nil {
			logrus.Fatalf("%v", err)
		}
		changed := cmd.Flags().Changed
		if err := setupLogging(changed); err != nil {
			logrus.Fatalf("%v", err)
		}
		if inputPath == "" {
			logrus.Fatalf("Input CSV not provided. Exiting simulation.")
		}

		cfg, opts, err := resolveRunConfig(changed)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		if err := runSimulation(cfg, opts, os.Stdout); err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Info("Simulation complete.")
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&inputPath, "input", "", "CSV file of customers (id,name,type,service_time_minutes,arrival_time_minutes)")
	runCmd.Flags().StringVar(&discipline, "discipline", "fifo", "Queue discipline: fifo (per-category FIFO) or priority (heap)")
	runCmd.Flags().StringVar(&sortAlgorithm, "sort", "merge", "Arrival sort algorithm: "+strings.Join(sim.ValidSortAlgorithmNames(), " or "))
	runCmd.Flags().StringVar(&configPath, "config", "", "YAML run config (discipline, sort, trace, undo, report)")
	runCmd.Flags().StringVar(&envFile, "env-file", "", "Env file with QUEUESIM_* defaults (default .env if present)")
	runCmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	// Output
	runCmd.Flags().StringVar(&outputPath, "output", "", "Report file path (default stats_<timestamp>.txt)")
	runCmd.Flags().BoolVar(&noReport, "no-report", false, "Do not write a report file")
	runCmd.Flags().IntVar(&topWaiters, "top", 5, "Number of longest-waiting customers to print")
	runCmd.Flags().StringVar(&traceLevel, "trace", "none", "Decision trace level: none or decisions")
	runCmd.Flags().BoolVar(&recordUndo, "undo", false, "Record dispatches on an undo stack")
	runCmd.Flags().IntVar(&undoLast, "undo-last", 0, "Pop this many dispatches from the undo stack after the run")
	runCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print statistics as JSON")

	// Attach `run` and `generate` as subcommands to `root`
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(generateCmd)
}
