package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"gobench/bench"
	"gobench/internal/config"
	"gobench/internal/harness"
	"gobench/internal/sysinfo"
)

var (
	runNoSave  bool
	runPrint   bool
	runKeyword string
	runMeta    []string
)

// sessionRunner is what the run command needs from a harness session.
type sessionRunner interface {
	Run(opts harness.Options, meta map[string]any) (*harness.Table, error)
}

// Factory seams, replaced in tests.
var (
	loadConfigFunc  = config.Load
	collectMetaFunc = sysinfo.Collect
	newSessionFunc  = func(cfg config.Config, out io.Writer) sessionRunner {
		return harness.NewSession(cfg, bench.Default(), out)
	}
	newStoreFunc = func(dir string) (tableStore, error) { return harness.NewStore(dir) }
)

type tableStore interface {
	Save(t *harness.Table, meta map[string]any, partitionBy []string) (string, error)
}

var runCmd = &cobra.Command{
	Use:   "run [benchpath]",
	Short: "Run the benchmark suite and persist aggregated results",
	Long: `Runs every enabled benchmark registered under the given path (or the
configured benchpath), aggregates the timing samples per function and
parameter set, and writes the result table into the partitioned history
plus an always-current latest copy.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVarP(&runNoSave, "no-save", "n", false, "disable saving of results")
	runCmd.Flags().BoolVarP(&runPrint, "print", "p", false, "print a summary of the run")
	runCmd.Flags().StringVarP(&runKeyword, "keyword", "k", "", "only run functions whose name matches this anchored regexp")
	runCmd.Flags().StringArrayVarP(&runMeta, "meta", "m", nil, "extra run metadata as key=value (repeatable)")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigFunc(cfgFile)
	if err != nil {
		return err
	}

	extra, err := parseMetaFlags(runMeta)
	if err != nil {
		return err
	}
	meta := collectMetaFunc(cmd.Context(), version, extra)

	benchpath := cfg.Benchpath
	opts := harness.Options{Keyword: runKeyword}
	if len(args) == 1 {
		opts.Benchpath = args[0]
		benchpath = args[0]
	}

	session := newSessionFunc(cfg, cmd.OutOrStdout())
	table, err := session.Run(opts, meta)
	if err != nil {
		return err
	}

	if !runNoSave {
		store, err := newStoreFunc(filepath.Join(resultsRoot(benchpath), "results"))
		if err != nil {
			return err
		}
		path, err := store.Save(table, meta, cfg.PartitionBy)
		if err != nil {
			return fmt.Errorf("failed to save results: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nResults saved to %s\n", path)
	}

	if runPrint {
		printSummary(cmd.OutOrStdout(), table)
	}
	return nil
}

// resultsRoot resolves the directory results live under. The benchpath may
// name a single benchmark file; its results then go next to the file.
func resultsRoot(benchpath string) string {
	if info, err := os.Stat(benchpath); err == nil && !info.IsDir() {
		return filepath.Dir(benchpath)
	}
	return benchpath
}

// parseMetaFlags turns repeated key=value flags into the extra metadata
// mapping merged into the run facts.
func parseMetaFlags(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	extra := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --meta entry %q, expected key=value", pair)
		}
		extra[key] = value
	}
	return extra, nil
}

// printSummary writes the trimmed per-benchmark table: identity, parameters
// and the headline statistics, sorted by (function, parameters).
func printSummary(w io.Writer, table *harness.Table) {
	records := append([]harness.Record(nil), table.Records...)
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Function != records[j].Function {
			return records[i].Function < records[j].Function
		}
		return paramsOrEmpty(records[i]) < paramsOrEmpty(records[j])
	})

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "FUNCTION\tPARAMETERS\tMEAN\tMIN\tMAX")
	for _, r := range records {
		params := "-"
		if r.Parameters != nil {
			params = *r.Parameters
		}
		fmt.Fprintf(tw, "%s\t%s\t%.9f\t%.9f\t%.9f\n", r.Function, params, r.Mean, r.Min, r.Max)
	}
	tw.Flush()
}

func paramsOrEmpty(r harness.Record) string {
	if r.Parameters == nil {
		return ""
	}
	return *r.Parameters
}
