package dataset

import (
	"math"
	"sort"
)

// Quantile returns the q-quantile of an ascending slice, interpolating
// linearly between neighbouring order statistics as numpy does by default.
// gonum's stat.Quantile offers only the empirical and CDF-interpolation rules.
func Quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	switch {
	case n == 0:
		return math.NaN()
	case n == 1 || q <= 0:
		return sorted[0]
	case q >= 1:
		return sorted[n-1]
	}
	whole, frac := math.Modf(q * float64(n-1))
	k := int(whole)
	if frac == 0 {
		return sorted[k]
	}
	return sorted[k] + frac*(sorted[k+1]-sorted[k])
}

// MedianMAD returns the median of vals and the median of absolute
// deviations from it.
func MedianMAD(vals []float64) (median, mad float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	s := append([]float64(nil), vals...)
	sort.Float64s(s)
	median = Quantile(s, 0.5)
	for i, v := range s {
		s[i] = math.Abs(v - median)
	}
	sort.Float64s(s)
	return median, Quantile(s, 0.5)
}

// Finite drops NaN and infinite values, which gota uses for missing cells.
func Finite(vals []float64) []float64 {
	out := vals[:0:0]
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out = append(out, v)
	}
	return out
}
