package figure

import (
	"math"
	"sort"

	"github.com/KaramelBytes/premiumlens/internal/dataset"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	kdeGridSize = 200
	kdeCut      = 3.0
	maxBins     = 200
)

// BoxStats is the five-number summary drawn by a box panel. Whiskers extend
// to the furthest points within 1.5 IQR of the quartiles.
type BoxStats struct {
	N         int       `json:"n"`
	Q1        float64   `json:"q1"`
	Median    float64   `json:"median"`
	Q3        float64   `json:"q3"`
	WhiskerLo float64   `json:"whisker_lo"`
	WhiskerHi float64   `json:"whisker_hi"`
	Outliers  []float64 `json:"outliers,omitempty"`
}

func boxStats(vals []float64) BoxStats {
	if len(vals) == 0 {
		return BoxStats{}
	}
	s := make([]float64, len(vals))
	copy(s, vals)
	sort.Float64s(s)
	b := BoxStats{
		N:      len(s),
		Q1:     dataset.Quantile(s, 0.25),
		Median: dataset.Quantile(s, 0.5),
		Q3:     dataset.Quantile(s, 0.75),
	}
	iqr := b.Q3 - b.Q1
	loFence, hiFence := b.Q1-1.5*iqr, b.Q3+1.5*iqr
	b.WhiskerLo, b.WhiskerHi = b.Q1, b.Q3
	for _, v := range s {
		if v >= loFence {
			b.WhiskerLo = math.Min(v, b.Q1)
			break
		}
	}
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] <= hiFence {
			b.WhiskerHi = math.Max(s[i], b.Q3)
			break
		}
	}
	for _, v := range s {
		if v < loFence || v > hiFence {
			b.Outliers = append(b.Outliers, v)
		}
	}
	return b
}

// histogram bins vals with the numpy "auto" rule: the finer of the Sturges
// and Freedman-Diaconis bin widths.
func histogram(vals []float64) []Bin {
	if len(vals) == 0 {
		return nil
	}
	lo, hi := floats.Min(vals), floats.Max(vals)
	if hi == lo {
		return []Bin{{Lo: lo - 0.5, Hi: hi + 0.5, Count: len(vals)}}
	}
	n := float64(len(vals))
	span := hi - lo
	width := span / (math.Log2(n) + 1)
	s := make([]float64, len(vals))
	copy(s, vals)
	sort.Float64s(s)
	iqr := dataset.Quantile(s, 0.75) - dataset.Quantile(s, 0.25)
	if fd := 2 * iqr * math.Pow(n, -1.0/3.0); fd > 0 && fd < width {
		width = fd
	}
	nb := int(math.Ceil(span / width))
	if nb < 1 {
		nb = 1
	}
	if nb > maxBins {
		nb = maxBins
	}
	edges := make([]float64, nb+1)
	floats.Span(edges, lo, hi)
	// stat.Histogram treats the last edge as exclusive; the maximum belongs
	// to the last bin.
	dividers := append([]float64(nil), edges...)
	dividers[nb] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, dividers, s, nil)
	bins := make([]Bin, nb)
	for i := range bins {
		bins[i] = Bin{Lo: edges[i], Hi: edges[i+1], Count: int(counts[i])}
	}
	return bins
}

// density evaluates a Gaussian kernel density estimate with Scott's
// bandwidth on a grid spanning the data plus kdeCut bandwidths each side.
// weight scales the curve; hue groups pass their share of all observations
// so that the curves of one panel integrate to 1 together.
func density(name string, vals []float64, weight float64) (Series, bool) {
	if len(vals) < 2 {
		return Series{}, false
	}
	sd := stat.StdDev(vals, nil)
	h := sd * math.Pow(float64(len(vals)), -0.2)
	if h <= 0 || math.IsNaN(h) {
		return Series{}, false
	}
	lo := floats.Min(vals) - kdeCut*h
	hi := floats.Max(vals) + kdeCut*h
	xs := make([]float64, kdeGridSize)
	floats.Span(xs, lo, hi)
	ys := make([]float64, kdeGridSize)
	norm := weight / (float64(len(vals)) * h * math.Sqrt(2*math.Pi))
	for i, x := range xs {
		var sum float64
		for _, v := range vals {
			z := (x - v) / h
			sum += math.Exp(-0.5 * z * z)
		}
		ys[i] = sum * norm
	}
	return Series{Name: name, X: xs, Y: ys}, true
}

// Contingency is a cross-tabulation of two categorical columns.
type Contingency struct {
	RowVar string   `json:"row_var"`
	ColVar string   `json:"col_var"`
	Rows   []string `json:"rows"`
	Cols   []string `json:"cols"`
	Counts [][]int  `json:"counts"`
}

// Total returns the sum of all cells.
func (c *Contingency) Total() int {
	var n int
	for _, row := range c.Counts {
		for _, v := range row {
			n += v
		}
	}
	return n
}

// Max returns the largest cell count.
func (c *Contingency) Max() int {
	var m int
	for _, row := range c.Counts {
		for _, v := range row {
			if v > m {
				m = v
			}
		}
	}
	return m
}

func crosstab(rowVar, colVar string, rows, cols, rowVals, colVals []string) *Contingency {
	ri := indexOf(rows)
	ci := indexOf(cols)
	counts := make([][]int, len(rows))
	for i := range counts {
		counts[i] = make([]int, len(cols))
	}
	for k := range rowVals {
		counts[ri[rowVals[k]]][ci[colVals[k]]]++
	}
	return &Contingency{RowVar: rowVar, ColVar: colVar, Rows: rows, Cols: cols, Counts: counts}
}

func indexOf(levels []string) map[string]int {
	m := make(map[string]int, len(levels))
	for i, l := range levels {
		m[l] = i
	}
	return m
}
