package render

import (
	"fmt"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
)

// niceBounds widens [lo, hi] outward to round numbers.
func niceBounds(lo, hi float64) (float64, float64) {
	if math.IsNaN(lo) || math.IsNaN(hi) {
		return 0, 1
	}
	if hi <= lo {
		hi = lo + 1
	}
	step := niceStep(hi-lo, 5)
	return math.Floor(lo/step) * step, math.Ceil(hi/step) * step
}

func niceStep(span float64, n int) float64 {
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n))))
	best, bestScore := mag, math.MaxFloat64
	for _, c := range []float64{1, 2, 2.5, 5, 10} {
		step := c * mag
		score := math.Abs(span/step - float64(n))
		if score < bestScore {
			best, bestScore = step, score
		}
	}
	return best
}

// niceTicks returns evenly spaced ticks covering [lo, hi].
func niceTicks(lo, hi float64, n int) []chart.Tick {
	if hi <= lo {
		hi = lo + 1
	}
	step := niceStep(hi-lo, n)
	start := math.Ceil(lo/step) * step
	var ticks []chart.Tick
	for v := start; v <= hi+step/1e6; v += step {
		ticks = append(ticks, chart.Tick{Value: v, Label: formatTick(v)})
		if len(ticks) > n+3 {
			break
		}
	}
	return ticks
}

func formatTick(v float64) string {
	av := math.Abs(v)
	switch {
	case av < 1e-9:
		return "0"
	case av >= 10000:
		return fmt.Sprintf("%.0fk", v/1000)
	case av >= 100:
		return fmt.Sprintf("%.0f", v)
	case av >= 1:
		return trimZeros(fmt.Sprintf("%.1f", v))
	default:
		return trimZeros(fmt.Sprintf("%.4f", v))
	}
}

func trimZeros(s string) string {
	for len(s) > 1 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	return s
}

// axisRange pads the bounds of values and returns the range with its ticks.
func axisRange(lo, hi float64, zero bool) (*chart.ContinuousRange, []chart.Tick) {
	if zero && lo > 0 {
		lo = 0
	}
	if !zero {
		pad := (hi - lo) * 0.05
		if pad == 0 {
			pad = math.Max(math.Abs(lo)*0.05, 0.5)
		}
		lo, hi = lo-pad, hi+pad
	}
	lo, hi = niceBounds(lo, hi)
	return &chart.ContinuousRange{Min: lo, Max: hi}, niceTicks(lo, hi, 5)
}

// categoryTicks places one tick per category at integer positions.
func categoryTicks(cats []string) []chart.Tick {
	ticks := make([]chart.Tick, len(cats))
	for i, c := range cats {
		ticks[i] = chart.Tick{Value: float64(i), Label: c}
	}
	return ticks
}
