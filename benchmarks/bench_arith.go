// Package benchmarks is the project's own benchmark suite. Each bench_*.go
// file registers its functions at init time; the harness discovers them by
// path without loading any code dynamically.
package benchmarks

import "gobench/bench"

var sink int

func init() {
	bench.Register("BenchMul", func(p bench.Params) {
		sink = p.Int("a") * p.Int("b")
	},
		bench.Number(10),
		bench.Grid("a", 1, 2),
		bench.Grid("b", 3, 4),
	)

	bench.Register("BenchAdd", func(p bench.Params) {
		sink = p.Int("a") + p.Int("b")
	},
		bench.Number(10),
		bench.Grid("a", 1, 2),
		bench.Grid("b", 3, 4),
	)
}
