package benchmarks

import (
	"runtime"
	"strings"

	"gobench/bench"
)

var strSink string

func init() {
	// Setup derives the actual input from the declared case; the signature
	// stays {"size": n}.
	bench.Register("BenchStringRepeat", func(p bench.Params) {
		strSink = strings.Repeat("x", p.Int("n"))
	},
		bench.Cases([]string{"size"}, [][]any{{1 << 8}, {1 << 12}, {1 << 16}}),
		bench.Setup(func(p bench.Params) bench.Params {
			return bench.NewParams("n", p.Int("size"))
		}),
		bench.Tag("group", "strings"),
	)

	bench.Register("BenchStringBuilder", func(p bench.Params) {
		var b strings.Builder
		for i := 0; i < p.Int("n"); i++ {
			b.WriteByte('x')
		}
		strSink = b.String()
	},
		bench.Repeat(10),
		bench.Warmups(2),
		bench.Grid("n", 1<<8, 1<<12),
		bench.SkipIf(runtime.GOMAXPROCS(0) < 2, "needs more than one scheduler thread"),
		bench.Tag("group", "strings"),
	)
}
