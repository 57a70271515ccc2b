package main

import (
	// Benchmark suites register themselves at init time; the harness only
	// discovers what has been compiled in.
	_ "gobench/benchmarks"
)

func main() {
	Execute()
}
