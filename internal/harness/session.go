package harness

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"

	"gobench/bench"
	"gobench/internal/config"
)

// Session orchestrates one benchmark run: discovery, expansion, execution
// and aggregation, in that order and strictly sequentially.
type Session struct {
	cfg      config.Config
	registry *bench.Registry
	runner   *Runner
	out      io.Writer
}

// Options controls a single run.
type Options struct {
	// Benchpath overrides the configured benchmark path for this run.
	Benchpath string
	// Keyword is a case-sensitive regular expression matched against the
	// start of each function identity; empty means no filter.
	Keyword string
}

// NewSession builds a session over the given registry. Progress output is
// written to out.
func NewSession(cfg config.Config, registry *bench.Registry, out io.Writer) *Session {
	return &Session{cfg: cfg, registry: registry, runner: NewRunner(), out: out}
}

// Run executes the session and returns the aggregated table joined with
// meta. It fails with ErrNoBenchmarks when filtering and skip flags leave
// nothing to measure.
func (s *Session) Run(opts Options, meta map[string]any) (*Table, error) {
	root := opts.Benchpath
	if root == "" {
		root = s.cfg.Benchpath
	}

	var keyword *regexp.Regexp
	if opts.Keyword != "" {
		// Anchored at the start, like a prefix match against the identity.
		re, err := regexp.Compile("^(?:" + opts.Keyword + ")")
		if err != nil {
			return nil, fmt.Errorf("invalid keyword filter %q: %w", opts.Keyword, err)
		}
		keyword = re
	}

	defs, err := s.registry.Discover(root)
	if err != nil {
		return nil, err
	}

	fmt.Fprintln(s.out, "starting benchmark session ...")
	fmt.Fprintf(s.out, "default config: %+v\n", s.cfg)
	fmt.Fprintf(s.out, "running on %v, %v, available cpus: %v, RAM: %v\n",
		meta["platform"], meta["go_version"], meta["available_cpus"], meta["available_ram"])

	var (
		samples  []RawSample
		configs  = map[string]EffectiveConfig{}
		tags     = map[string]map[string]any{}
		lastFile string
	)

	for _, def := range defs {
		if keyword != nil && !keyword.MatchString(def.Name) {
			continue
		}
		if def.File != lastFile {
			fmt.Fprintf(s.out, "\n%s\n", def.File)
			lastFile = def.File
		}
		if def.Skip {
			// The identity still shows up in the session output even though
			// no trial runs and no sample is recorded.
			fmt.Fprintf(s.out, "  %s skipped: %s\n", def.Name, def.SkipReason)
			continue
		}

		eff := Merge(s.cfg, def.Overrides)
		slog.Debug("running benchmark", "function", def.Name, "repeat", eff.Repeat,
			"number", eff.Number, "warmups", eff.Warmups, "gc", eff.GarbageCollection)
		fmt.Fprintf(s.out, "  %s\n", def.Name)

		fnSamples, err := s.runner.Run(def, eff)
		if err != nil {
			// A failing benchmark invalidates the whole run; partial results
			// would not be comparable across history.
			return nil, err
		}

		samples = append(samples, fnSamples...)
		configs[def.Name] = eff
		if def.Tags != nil {
			tags[def.Name] = def.Tags
		} else {
			tags[def.Name] = map[string]any{}
		}
	}

	return Aggregate(samples, configs, tags, meta)
}
