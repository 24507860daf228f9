package figure

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/premiumlens/internal/dataset"
)

// Helper is the common shape of the column-list figure builders.
type Helper func(t *dataset.Table, columns []string, opt Options) (*Figure, error)

// ErrNoColumns is returned when a helper is called with an empty column list.
var ErrNoColumns = errors.New("no columns requested")

// require validates every column a call touches before any panel is built,
// so a bad name never yields a partial figure.
func require(t *dataset.Table, columns []string, extra ...string) error {
	if len(columns) == 0 {
		return ErrNoColumns
	}
	if err := t.Require(columns...); err != nil {
		return err
	}
	return t.Require(extra...)
}

// split assigns every record to a level of a grouping column. An empty
// column puts every record in a single group named after fallback.
type split struct {
	names []string
	index []int
}

func splitBy(t *dataset.Table, col, fallback string) (split, error) {
	if col == "" {
		return split{names: []string{fallback}, index: make([]int, t.Nrow())}, nil
	}
	levels, err := t.SortedLevels(col)
	if err != nil {
		return split{}, err
	}
	vals, err := t.Strings(col)
	if err != nil {
		return split{}, err
	}
	pos := indexOf(levels)
	idx := make([]int, len(vals))
	for i, v := range vals {
		idx[i] = pos[v]
	}
	return split{names: levels, index: idx}, nil
}

func (s split) size() int { return len(s.names) }

// CountPlots draws the number of records per category of each column.
func CountPlots(t *dataset.Table, columns []string, opt Options) (*Figure, error) {
	if err := require(t, columns, opt.Hue); err != nil {
		return nil, err
	}
	hue, err := splitBy(t, opt.Hue, "count")
	if err != nil {
		return nil, err
	}
	panels := make([]Panel, 0, len(columns))
	for _, col := range columns {
		cats, err := splitBy(t, col, col)
		if err != nil {
			return nil, err
		}
		groups := newBarGroups(hue.names, cats.size())
		for i, ci := range cats.index {
			groups[hue.index[i]].Counts[ci]++
		}
		for g := range groups {
			for c, n := range groups[g].Counts {
				groups[g].Values[c] = float64(n)
			}
		}
		panels = append(panels, Panel{
			Kind:       KindCount,
			Column:     col,
			XLabel:     col,
			YLabel:     "count",
			XRotation:  opt.rotation(col),
			Hue:        opt.Hue,
			Categories: cats.names,
			Bars:       groups,
		})
	}
	return newFigure(panels), nil
}

// BarPlots draws the mean of opt.Y per category of each column, optionally
// split by opt.Hue. No error bars are computed.
func BarPlots(t *dataset.Table, columns []string, opt Options) (*Figure, error) {
	if opt.Y == "" {
		return nil, errors.New("bar plot: value column (y) is required")
	}
	if err := require(t, columns, opt.Y, opt.Hue); err != nil {
		return nil, err
	}
	ys, err := t.Floats(opt.Y)
	if err != nil {
		return nil, err
	}
	hue, err := splitBy(t, opt.Hue, opt.Y)
	if err != nil {
		return nil, err
	}
	panels := make([]Panel, 0, len(columns))
	for _, col := range columns {
		cats, err := splitBy(t, col, col)
		if err != nil {
			return nil, err
		}
		groups := newBarGroups(hue.names, cats.size())
		for i, ci := range cats.index {
			if math.IsNaN(ys[i]) {
				continue
			}
			g := &groups[hue.index[i]]
			g.Counts[ci]++
			g.Values[ci] += ys[i]
		}
		for g := range groups {
			for c, n := range groups[g].Counts {
				if n > 0 {
					groups[g].Values[c] /= float64(n)
				}
			}
		}
		panels = append(panels, Panel{
			Kind:       KindBar,
			Column:     col,
			XLabel:     col,
			YLabel:     opt.Y,
			XRotation:  opt.rotation(col),
			Hue:        opt.Hue,
			Categories: cats.names,
			Bars:       groups,
		})
	}
	return newFigure(panels), nil
}

func newBarGroups(names []string, ncat int) []BarGroup {
	groups := make([]BarGroup, len(names))
	for i, n := range names {
		groups[i] = BarGroup{Name: n, Values: make([]float64, ncat), Counts: make([]int, ncat)}
	}
	return groups
}

// Histograms bins each numeric column.
func Histograms(t *dataset.Table, columns []string, opt Options) (*Figure, error) {
	if err := require(t, columns); err != nil {
		return nil, err
	}
	panels := make([]Panel, 0, len(columns))
	for _, col := range columns {
		raw, err := t.Floats(col)
		if err != nil {
			return nil, err
		}
		panels = append(panels, Panel{
			Kind:      KindHistogram,
			Column:    col,
			Title:     Capitalize(col),
			XLabel:    col,
			YLabel:    "Count",
			XRotation: opt.rotation(col),
			Bins:      histogram(dataset.Finite(raw)),
		})
	}
	return newFigure(panels), nil
}

// KDEPlots draws kernel density curves. Without opt.X each panel is the
// density of its own (numeric) column, optionally split by opt.Hue. With
// opt.X each panel is the density of X split by the panel's column.
func KDEPlots(t *dataset.Table, columns []string, opt Options) (*Figure, error) {
	if err := require(t, columns, opt.X, opt.Hue); err != nil {
		return nil, err
	}
	panels := make([]Panel, 0, len(columns))
	for _, col := range columns {
		valueCol, groupCol := col, opt.Hue
		if opt.X != "" {
			valueCol, groupCol = opt.X, col
		}
		vals, err := t.Floats(valueCol)
		if err != nil {
			return nil, err
		}
		groups, err := splitBy(t, groupCol, valueCol)
		if err != nil {
			return nil, err
		}
		buckets := make([][]float64, groups.size())
		var total int
		for i, v := range vals {
			if math.IsNaN(v) {
				continue
			}
			buckets[groups.index[i]] = append(buckets[groups.index[i]], v)
			total++
		}
		var lines []Series
		for g, b := range buckets {
			if s, ok := density(groups.names[g], b, float64(len(b))/float64(max(total, 1))); ok {
				lines = append(lines, s)
			}
		}
		panels = append(panels, Panel{
			Kind:      KindKDE,
			Column:    col,
			Title:     Capitalize(col),
			XLabel:    valueCol,
			YLabel:    "Density",
			XRotation: opt.rotation(col),
			Grid:      true,
			Hue:       groupCol,
			Lines:     lines,
		})
	}
	return newFigure(panels), nil
}

// BoxPlots draws quartile boxes. Without opt.Y each panel summarizes its own
// numeric column; with opt.Y each panel summarizes Y per category of the
// panel's column, optionally split by opt.Hue.
func BoxPlots(t *dataset.Table, columns []string, opt Options) (*Figure, error) {
	if err := require(t, columns, opt.Y, opt.Hue); err != nil {
		return nil, err
	}
	panels := make([]Panel, 0, len(columns))
	for _, col := range columns {
		valueCol := col
		if opt.Y != "" {
			valueCol = opt.Y
		}
		vals, err := t.Floats(valueCol)
		if err != nil {
			return nil, err
		}
		hue, err := splitBy(t, opt.Hue, valueCol)
		if err != nil {
			return nil, err
		}
		p := Panel{
			Kind:      KindBox,
			Column:    col,
			XLabel:    col,
			YLabel:    valueCol,
			XRotation: opt.rotation(col),
			Hue:       opt.Hue,
		}
		cats := split{names: nil, index: make([]int, len(vals))}
		if opt.Y != "" {
			if cats, err = splitBy(t, col, col); err != nil {
				return nil, err
			}
			p.Categories = cats.names
		} else {
			p.Title = Capitalize(col)
		}
		ncat := max(cats.size(), 1)
		buckets := make([][][]float64, hue.size())
		for g := range buckets {
			buckets[g] = make([][]float64, ncat)
		}
		for i, v := range vals {
			if math.IsNaN(v) {
				continue
			}
			buckets[hue.index[i]][cats.index[i]] = append(buckets[hue.index[i]][cats.index[i]], v)
		}
		for g, byCat := range buckets {
			bg := BoxGroup{Name: hue.names[g], Boxes: make([]BoxStats, ncat)}
			for c, b := range byCat {
				bg.Boxes[c] = boxStats(b)
			}
			p.Boxes = append(p.Boxes, bg)
		}
		panels = append(panels, p)
	}
	return newFigure(panels), nil
}

// ScatterPlots draws one panel per (xs[i], ys[i]) pair, split by opt.Hue.
func ScatterPlots(t *dataset.Table, xs, ys []string, opt Options) (*Figure, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("scatter: %d x columns but %d y columns", len(xs), len(ys))
	}
	if err := require(t, xs, append(append([]string{}, ys...), opt.Hue)...); err != nil {
		return nil, err
	}
	panels := make([]Panel, 0, len(xs))
	for i := range xs {
		xv, err := t.Floats(xs[i])
		if err != nil {
			return nil, err
		}
		yv, err := t.Floats(ys[i])
		if err != nil {
			return nil, err
		}
		hue, err := splitBy(t, opt.Hue, ys[i])
		if err != nil {
			return nil, err
		}
		pts := make([]Series, hue.size())
		for g := range pts {
			pts[g].Name = hue.names[g]
		}
		for k := range xv {
			if math.IsNaN(xv[k]) || math.IsNaN(yv[k]) {
				continue
			}
			s := &pts[hue.index[k]]
			s.X = append(s.X, xv[k])
			s.Y = append(s.Y, yv[k])
		}
		panels = append(panels, Panel{
			Kind:      KindScatter,
			Column:    xs[i],
			XLabel:    xs[i],
			YLabel:    ys[i],
			XRotation: opt.rotation(xs[i]),
			Grid:      true,
			Hue:       opt.Hue,
			Points:    pts,
		})
	}
	return newFigure(panels), nil
}

// PieSpec maps the categories of a column to display labels and colors.
// Labels match category values case-insensitively; Colors align with Labels.
type PieSpec struct {
	Column string
	Labels []string
	Colors []string
}

// PieCharts draws one pie per spec with slices ordered by frequency.
func PieCharts(t *dataset.Table, specs []PieSpec) (*Figure, error) {
	cols := make([]string, len(specs))
	for i, s := range specs {
		cols[i] = s.Column
	}
	if err := require(t, cols); err != nil {
		return nil, err
	}
	panels := make([]Panel, 0, len(specs))
	for _, spec := range specs {
		if len(spec.Labels) != len(spec.Colors) {
			return nil, fmt.Errorf("pie %s: %d labels but %d colors", spec.Column, len(spec.Labels), len(spec.Colors))
		}
		vals, err := t.Strings(spec.Column)
		if err != nil {
			return nil, err
		}
		counts := map[string]int{}
		var order []string
		for _, v := range vals {
			if counts[v] == 0 {
				order = append(order, v)
			}
			counts[v]++
		}
		sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })

		used := make([]bool, len(spec.Labels))
		slices := make([]Slice, 0, len(order))
		for _, cat := range order {
			li := -1
			for i, l := range spec.Labels {
				if strings.EqualFold(strings.TrimSpace(l), cat) {
					li = i
					break
				}
			}
			if li < 0 {
				return nil, fmt.Errorf("pie %s: category %q has no label", spec.Column, cat)
			}
			used[li] = true
			slices = append(slices, Slice{
				Category: cat,
				Label:    spec.Labels[li],
				Color:    spec.Colors[li],
				Count:    counts[cat],
				Percent:  float64(counts[cat]) * 100 / float64(len(vals)),
			})
		}
		for i, u := range used {
			if !u {
				return nil, fmt.Errorf("pie %s: label %q matches no category", spec.Column, spec.Labels[i])
			}
		}
		panels = append(panels, Panel{
			Kind:   KindPie,
			Column: spec.Column,
			Title:  Capitalize(spec.Column),
			Slices: slices,
		})
	}
	return newFigure(panels), nil
}

// Heatmap cross-tabulates two categorical columns into an annotated grid.
func Heatmap(t *dataset.Table, rowCol, colCol string) (*Figure, error) {
	if err := require(t, []string{rowCol, colCol}); err != nil {
		return nil, err
	}
	rows, err := crosstabLevels(t, rowCol)
	if err != nil {
		return nil, err
	}
	cols, err := crosstabLevels(t, colCol)
	if err != nil {
		return nil, err
	}
	rv, err := t.Strings(rowCol)
	if err != nil {
		return nil, err
	}
	cv, err := t.Strings(colCol)
	if err != nil {
		return nil, err
	}
	return newFigure([]Panel{{
		Kind:   KindHeatmap,
		Column: rowCol,
		XLabel: colCol,
		YLabel: rowCol,
		Table:  crosstab(rowCol, colCol, rows, cols, rv, cv),
	}}), nil
}

// crosstabLevels sorts text levels alphabetically and numeric levels by value.
func crosstabLevels(t *dataset.Table, col string) ([]string, error) {
	numeric, err := t.IsNumeric(col)
	if err != nil {
		return nil, err
	}
	lv, err := t.SortedLevels(col)
	if err != nil {
		return nil, err
	}
	if !numeric {
		sort.Strings(lv)
	}
	return lv, nil
}
