package harness

import (
	"math"
	"sort"
)

// Summary statistics over one group of trial timings. Standard deviation is
// the sample deviation (n-1 divisor), zero when fewer than two samples exist.
// Percentiles use nearest-rank selection: the sorted element at index
// round(q*(n-1)).

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stddev(xs []float64, m float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	ss := 0.0
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func percentile(sorted []float64, q float64) float64 {
	idx := int(math.Round(q * float64(len(sorted)-1)))
	return sorted[idx]
}

func summarize(xs []float64) (rec Record) {
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)

	rec.Mean = mean(sorted)
	rec.Min = sorted[0]
	rec.Max = sorted[len(sorted)-1]
	rec.Median = median(sorted)
	rec.Std = stddev(sorted, rec.Mean)
	rec.P1 = percentile(sorted, 0.01)
	rec.P5 = percentile(sorted, 0.05)
	rec.P95 = percentile(sorted, 0.95)
	rec.P99 = percentile(sorted, 0.99)
	return rec
}
