package harness

import (
	"fmt"
	"runtime/debug"
	"time"

	"gobench/bench"
)

// Runner executes benchmark definitions strictly sequentially, one trial at
// a time. Concurrency is deliberately absent from the timed phase: parallel
// timed code on shared hardware corrupts the measurement.
type Runner struct {
	now func() time.Time
}

// NewRunner returns a runner using the wall clock.
func NewRunner() *Runner {
	return &Runner{now: time.Now}
}

// Run executes every enabled variant of one definition under cfg and returns
// one RawSample per trial. A panic in the benchmark body aborts the run with
// an error naming the variant; it is never swallowed.
func (r *Runner) Run(def *bench.Definition, cfg EffectiveConfig) ([]RawSample, error) {
	if cfg.Repeat <= 0 || cfg.Number <= 0 || cfg.Warmups < 0 {
		return nil, fmt.Errorf("benchmark %s: invalid effective config %+v", def.Name, cfg)
	}

	variants, err := def.Variants()
	if err != nil {
		return nil, fmt.Errorf("expanding %s: %w", def.Name, err)
	}

	samples := make([]RawSample, 0, len(variants)*cfg.Repeat)
	for _, v := range variants {
		sig, declared := v.Binding.Signature()
		var params *string
		if declared {
			params = &sig
		}

		trials, err := r.runVariant(def, v, cfg)
		if err != nil {
			return nil, err
		}
		for _, seconds := range trials {
			samples = append(samples, RawSample{
				Function:   def.Name,
				Parameters: params,
				Seconds:    seconds,
			})
		}
	}
	return samples, nil
}

// runVariant performs the warmup calls and the timed trials for one variant.
// If the variant asks for garbage collection, a disabled collector is enabled
// for the duration of timing and restored afterwards; an already-enabled
// collector keeps its ambient percentage. Without the flag the ambient policy
// is left untouched.
func (r *Runner) runVariant(def *bench.Definition, v bench.Variant, cfg EffectiveConfig) (trials []float64, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = panicError(def, v, rec)
		}
	}()

	if cfg.GarbageCollection {
		prev := debug.SetGCPercent(100)
		if prev > 0 {
			// Collector was already enabled; keep its ambient aggressiveness.
			debug.SetGCPercent(prev)
		} else {
			defer debug.SetGCPercent(prev)
		}
	}

	for i := 0; i < cfg.Warmups; i++ {
		def.Fn(v.Args)
	}

	trials = make([]float64, 0, cfg.Repeat)
	for i := 0; i < cfg.Repeat; i++ {
		start := r.now()
		for n := 0; n < cfg.Number; n++ {
			def.Fn(v.Args)
		}
		// One trial is the batch elapsed time for Number calls; the sample
		// is stored unnormalized.
		trials = append(trials, r.now().Sub(start).Seconds())
	}
	return trials, nil
}

func panicError(def *bench.Definition, v bench.Variant, rec any) error {
	if sig, ok := v.Binding.Signature(); ok {
		return fmt.Errorf("benchmark %s%s panicked: %v", def.Name, sig, rec)
	}
	return fmt.Errorf("benchmark %s panicked: %v", def.Name, rec)
}
