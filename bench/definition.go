// Package bench is the declaration surface for benchmark suites. A benchmark
// file registers its functions with Register and attaches configuration
// overrides, skip conditions, parametrization axes and free-form tags through
// options. Nothing here executes a benchmark; execution lives in the harness.
package bench

// Func is a benchmark body. It receives the parameter binding for the variant
// being timed; unparametrized benchmarks receive an empty binding.
type Func func(p Params)

// SetupFunc derives the values actually bound to the body from a raw
// parametrization case. The raw case, not the derived one, remains the
// variant's parameter signature.
type SetupFunc func(p Params) Params

// Overrides holds per-function configuration overrides. A nil field was not
// set on the function and falls back to the project default during the merge.
type Overrides struct {
	Repeat            *int
	Number            *int
	Warmups           *int
	GarbageCollection *bool
}

// IsZero reports whether no override was attached at all.
func (o Overrides) IsZero() bool {
	return o.Repeat == nil && o.Number == nil && o.Warmups == nil && o.GarbageCollection == nil
}

// Definition is the immutable descriptor for one registered benchmark
// function. It is built once at registration time and only read afterwards.
type Definition struct {
	// Name is the benchmark identity with the "Bench" marker stripped.
	Name string
	// File is the source file that registered the definition.
	File string

	Fn         Func
	Overrides  Overrides
	Skip       bool
	SkipReason string
	Tags       map[string]any

	spec  *paramSpec
	setup SetupFunc
}

// Option attaches one piece of metadata to a definition under construction.
// Options touch disjoint parts of the descriptor, so attachment order does
// not matter.
type Option func(*Definition)

// Repeat overrides the number of timed trials for this function.
func Repeat(n int) Option {
	return func(d *Definition) { d.Overrides.Repeat = &n }
}

// Number overrides how many consecutive calls make up one timed trial.
func Number(n int) Option {
	return func(d *Definition) { d.Overrides.Number = &n }
}

// Warmups overrides the number of discarded calls before timing starts.
func Warmups(n int) Option {
	return func(d *Definition) { d.Overrides.Warmups = &n }
}

// GC overrides whether the garbage collector is enabled while timing.
func GC(enabled bool) Option {
	return func(d *Definition) { d.Overrides.GarbageCollection = &enabled }
}

// SkipIf marks the function as skipped when cond is true. The condition is
// decided here, at registration time, not when the harness runs.
func SkipIf(cond bool, reason string) Option {
	return func(d *Definition) {
		d.Skip = cond
		d.SkipReason = reason
	}
}

// Grid declares one cartesian axis of the parametrization. Multiple Grid
// options compose in attachment order and expand to the full cartesian
// product of their values.
func Grid(name string, values ...any) Option {
	return func(d *Definition) {
		if d.spec == nil {
			d.spec = &paramSpec{}
		}
		d.spec.axes = append(d.spec.axes, axis{name: name, values: values})
	}
}

// Cases declares an explicit parametrization: an ordered list of parameter
// names and one value tuple per case. Every tuple's arity must equal the
// name count; a mismatch fails the expansion before anything is timed.
func Cases(names []string, tuples [][]any) Option {
	return func(d *Definition) {
		if d.spec == nil {
			d.spec = &paramSpec{}
		}
		d.spec.names = append([]string(nil), names...)
		d.spec.cases = tuples
	}
}

// Setup attaches a transform applied to each raw parameter binding before it
// is handed to the benchmark body.
func Setup(fn SetupFunc) Option {
	return func(d *Definition) { d.setup = fn }
}

// Tag attaches one free-form metadata entry. Tags are purely descriptive and
// never affect execution or the configuration merge.
func Tag(key string, value any) Option {
	return func(d *Definition) {
		if d.Tags == nil {
			d.Tags = map[string]any{}
		}
		d.Tags[key] = value
	}
}

// Tags attaches a free-form metadata mapping, merging with any existing tags.
func Tags(tags map[string]any) Option {
	return func(d *Definition) {
		if d.Tags == nil {
			d.Tags = make(map[string]any, len(tags))
		}
		for k, v := range tags {
			d.Tags[k] = v
		}
	}
}

// Parametrized reports whether a parametrization spec is attached.
func (d *Definition) Parametrized() bool {
	return d.spec != nil
}
