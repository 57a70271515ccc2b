// Package harness executes registered benchmarks and turns their raw timing
// samples into an aggregated, persistable result table.
package harness

import (
	"errors"

	"gobench/bench"
	"gobench/internal/config"
)

// ErrNoBenchmarks signals that discovery, filtering and skip flags left
// nothing to run. Distinct from a crash: the session completed but measured
// nothing.
var ErrNoBenchmarks = errors.New("no benchmarks ran")

// ErrJoinIntegrity signals that a function identity was present in one of
// the aggregation inputs but missing from another. That is an internal
// invariant violation, never coerced into null rows.
var ErrJoinIntegrity = errors.New("aggregation join integrity violation")

// EffectiveConfig is the per-function configuration actually used for a run,
// after merging the project defaults with function-level overrides.
type EffectiveConfig struct {
	Repeat            int  `json:"repeat"`
	Number            int  `json:"number"`
	Warmups           int  `json:"warmups"`
	GarbageCollection bool `json:"garbage_collection"`
}

// Merge layers per-function overrides over the project defaults. Overridden
// fields win field-by-field; absent overrides never shadow a default.
func Merge(base config.Config, o bench.Overrides) EffectiveConfig {
	eff := EffectiveConfig{
		Repeat:            base.Repeat,
		Number:            base.Number,
		Warmups:           base.Warmups,
		GarbageCollection: base.GarbageCollection,
	}
	if o.Repeat != nil {
		eff.Repeat = *o.Repeat
	}
	if o.Number != nil {
		eff.Number = *o.Number
	}
	if o.Warmups != nil {
		eff.Warmups = *o.Warmups
	}
	if o.GarbageCollection != nil {
		eff.GarbageCollection = *o.GarbageCollection
	}
	return eff
}

// RawSample is one timed trial: the total elapsed wall-clock seconds for
// Number consecutive calls of one benchmark variant. Samples are ephemeral;
// only aggregated records are persisted.
type RawSample struct {
	Function   string
	Parameters *string // canonical signature, nil for unparametrized
	Seconds    float64
}

// Record is one aggregated row: summary statistics for one
// (function, parameter signature) group joined with the configuration the
// group ran under, the function's tags and the run-level metadata.
type Record struct {
	Function   string  `json:"function"`
	Parameters *string `json:"parameters"`

	Mean   float64 `json:"mean"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	P1     float64 `json:"p1"`
	P5     float64 `json:"p5"`
	P95    float64 `json:"p95"`
	P99    float64 `json:"p99"`

	EffectiveConfig

	Tags map[string]any `json:"tags,omitempty"`
	Meta map[string]any `json:"metadata"`
}

// Table is the aggregated result of one benchmark session.
type Table struct {
	Records []Record `json:"records"`
}
