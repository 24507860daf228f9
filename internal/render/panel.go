// Package render draws figure panels as SVG with go-chart and composes them
// into HTML rows.
package render

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/KaramelBytes/premiumlens/internal/figure"
	"github.com/KaramelBytes/premiumlens/internal/utils"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Size is the pixel size of one panel.
type Size struct {
	Width  int
	Height int
}

const labelLimit = 14

var errEmptyPanel = errors.New("panel has nothing to draw")

// Panel writes p as an SVG document to w.
func Panel(w io.Writer, p figure.Panel, size Size) error {
	if size.Width <= 0 || size.Height <= 0 {
		return fmt.Errorf("invalid panel size %dx%d", size.Width, size.Height)
	}
	var err error
	switch p.Kind {
	case figure.KindCount, figure.KindBar:
		err = barPanel(w, p, size)
	case figure.KindHistogram:
		err = histogramPanel(w, p, size)
	case figure.KindKDE:
		err = linePanel(w, p, size)
	case figure.KindScatter:
		err = scatterPanel(w, p, size)
	case figure.KindBox:
		err = boxPanel(w, p, size)
	case figure.KindPie:
		err = piePanel(w, p, size)
	case figure.KindHeatmap:
		err = heatmapPanel(w, p, size)
	default:
		err = fmt.Errorf("unknown panel kind %q", p.Kind)
	}
	if err != nil {
		return fmt.Errorf("render %s panel %q: %w", p.Kind, p.Column, err)
	}
	return nil
}

func background(bottom int) chart.Style {
	return chart.Style{Padding: chart.Box{Top: 24, Left: 12, Right: 16, Bottom: bottom}}
}

func bottomPadding(p figure.Panel) int {
	if p.XRotation != 0 {
		return 56
	}
	return 20
}

func gridStyle(on bool) chart.Style {
	if !on {
		return chart.Style{Hidden: true}
	}
	return chart.Style{StrokeColor: drawing.ColorFromHex("dddddd"), StrokeWidth: 1}
}

func barPanel(w io.Writer, p figure.Panel, size Size) error {
	var bars []chart.Value
	hi := 0.0
	for c, cat := range p.Categories {
		for g, grp := range p.Bars {
			if grp.Counts[c] == 0 {
				continue
			}
			label := utils.TruncateLabel(cat, labelLimit)
			if p.Hue != "" {
				label = utils.TruncateLabel(cat+"/"+grp.Name, labelLimit)
			}
			col := paletteColor(g)
			bars = append(bars, chart.Value{
				Value: grp.Values[c],
				Label: label,
				Style: chart.Style{FillColor: col, StrokeColor: col, StrokeWidth: 1},
			})
			hi = math.Max(hi, grp.Values[c])
		}
	}
	if len(bars) == 0 {
		return errEmptyPanel
	}
	if hi <= 0 {
		hi = 1
	}
	yr, yt := axisRange(0, hi, true)
	spacing := 6
	avail := size.Width - 90
	bw := avail/len(bars) - spacing
	bw = max(4, min(bw, 60))
	bc := chart.BarChart{
		Title:      p.Title,
		Width:      size.Width,
		Height:     size.Height,
		Background: background(bottomPadding(p) + 10),
		BarWidth:   bw,
		BarSpacing: spacing,
		XAxis:      chart.Style{TextRotationDegrees: p.XRotation},
		YAxis:      chart.YAxis{Name: p.YLabel, Range: yr, Ticks: yt},
		Bars:       bars,
	}
	return bc.Render(chart.SVG, w)
}

func histogramPanel(w io.Writer, p figure.Panel, size Size) error {
	if len(p.Bins) == 0 {
		return errEmptyPanel
	}
	// Step outline with fill; consecutive bins share their edges.
	xs := []float64{p.Bins[0].Lo}
	ys := []float64{0}
	top := 0
	for _, b := range p.Bins {
		xs = append(xs, b.Lo, b.Hi)
		ys = append(ys, float64(b.Count), float64(b.Count))
		top = max(top, b.Count)
	}
	last := p.Bins[len(p.Bins)-1]
	xs = append(xs, last.Hi)
	ys = append(ys, 0)

	col := paletteColor(0)
	xr, xt := axisRange(p.Bins[0].Lo, last.Hi, false)
	yr, yt := axisRange(0, float64(max(top, 1)), true)
	c := chart.Chart{
		Title:      p.Title,
		Width:      size.Width,
		Height:     size.Height,
		Background: background(bottomPadding(p)),
		XAxis: chart.XAxis{
			Name: p.XLabel, Range: xr, Ticks: xt,
			Style:          chart.Style{TextRotationDegrees: p.XRotation},
			GridMajorStyle: gridStyle(p.Grid), GridMinorStyle: gridStyle(false),
		},
		YAxis: chart.YAxis{
			Name: p.YLabel, Range: yr, Ticks: yt,
			GridMajorStyle: gridStyle(p.Grid), GridMinorStyle: gridStyle(false),
		},
		Series: []chart.Series{chart.ContinuousSeries{
			Name:    p.Column,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: 1,
				FillColor:   col.WithAlpha(200),
			},
		}},
	}
	return c.Render(chart.SVG, w)
}

func linePanel(w io.Writer, p figure.Panel, size Size) error {
	xlo, xhi, ylo, yhi := bounds(p.Lines)
	if math.IsInf(xlo, 1) {
		return errEmptyPanel
	}
	var series []chart.Series
	for g, s := range p.Lines {
		series = append(series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: s.X,
			YValues: s.Y,
			Style:   chart.Style{StrokeColor: paletteColor(g), StrokeWidth: 2},
		})
	}
	xr, xt := axisRange(xlo, xhi, false)
	yr, yt := axisRange(math.Min(ylo, 0), yhi, true)
	c := chart.Chart{
		Title:      p.Title,
		Width:      size.Width,
		Height:     size.Height,
		Background: background(bottomPadding(p)),
		XAxis: chart.XAxis{
			Name: p.XLabel, Range: xr, Ticks: xt,
			Style:          chart.Style{TextRotationDegrees: p.XRotation},
			GridMajorStyle: gridStyle(p.Grid), GridMinorStyle: gridStyle(false),
		},
		YAxis: chart.YAxis{
			Name: p.YLabel, Range: yr, Ticks: yt,
			GridMajorStyle: gridStyle(p.Grid), GridMinorStyle: gridStyle(false),
		},
		Series: series,
	}
	if len(series) > 1 {
		c.Elements = []chart.Renderable{chart.Legend(&c)}
	}
	return c.Render(chart.SVG, w)
}

func scatterPanel(w io.Writer, p figure.Panel, size Size) error {
	var series []chart.Series
	var drawn []figure.Series
	for g, s := range p.Points {
		if len(s.X) == 0 {
			continue
		}
		series = append(series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: s.X,
			YValues: s.Y,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    3,
				DotColor:    paletteColor(g).WithAlpha(180),
			},
		})
		drawn = append(drawn, s)
	}
	if len(series) == 0 {
		return errEmptyPanel
	}
	xlo, xhi, ylo, yhi := bounds(drawn)
	xr, xt := axisRange(xlo, xhi, false)
	yr, yt := axisRange(ylo, yhi, false)
	c := chart.Chart{
		Title:      p.Title,
		Width:      size.Width,
		Height:     size.Height,
		Background: background(bottomPadding(p)),
		XAxis: chart.XAxis{
			Name: p.XLabel, Range: xr, Ticks: xt,
			Style:          chart.Style{TextRotationDegrees: p.XRotation},
			GridMajorStyle: gridStyle(p.Grid), GridMinorStyle: gridStyle(false),
		},
		YAxis: chart.YAxis{
			Name: p.YLabel, Range: yr, Ticks: yt,
			GridMajorStyle: gridStyle(p.Grid), GridMinorStyle: gridStyle(false),
		},
		Series: series,
	}
	if p.Hue != "" {
		c.Elements = []chart.Renderable{chart.Legend(&c)}
	}
	return c.Render(chart.SVG, w)
}

// boxPanel draws each box as outline series: the IQR rectangle, the median,
// both whiskers with caps and the outliers as dots. Hue groups are dodged
// around each category position.
func boxPanel(w io.Writer, p figure.Panel, size Size) error {
	ncat := max(len(p.Categories), 1)
	ngroups := len(p.Boxes)
	if ngroups == 0 {
		return errEmptyPanel
	}
	slot := 0.8 / float64(ngroups)
	half := slot * 0.4
	lo, hi := math.Inf(1), math.Inf(-1)
	var series []chart.Series
	for g, grp := range p.Boxes {
		col := paletteColor(g)
		line := chart.Style{StrokeColor: col, StrokeWidth: 1.5}
		for c, b := range grp.Boxes {
			if b.N == 0 {
				continue
			}
			x := float64(c) - 0.4 + slot*(float64(g)+0.5)
			series = append(series,
				segment([]float64{x - half, x + half, x + half, x - half, x - half}, []float64{b.Q1, b.Q1, b.Q3, b.Q3, b.Q1}, line),
				segment([]float64{x - half, x + half}, []float64{b.Median, b.Median}, chart.Style{StrokeColor: col, StrokeWidth: 2.5}),
				segment([]float64{x, x}, []float64{b.WhiskerLo, b.Q1}, line),
				segment([]float64{x, x}, []float64{b.Q3, b.WhiskerHi}, line),
				segment([]float64{x - half/2, x + half/2}, []float64{b.WhiskerLo, b.WhiskerLo}, line),
				segment([]float64{x - half/2, x + half/2}, []float64{b.WhiskerHi, b.WhiskerHi}, line),
			)
			lo, hi = math.Min(lo, b.WhiskerLo), math.Max(hi, b.WhiskerHi)
			if len(b.Outliers) > 0 {
				xs := make([]float64, len(b.Outliers))
				for i := range xs {
					xs[i] = x
				}
				series = append(series, segment(xs, b.Outliers, chart.Style{
					StrokeWidth: chart.Disabled, DotWidth: 2.5, DotColor: col,
				}))
				for _, o := range b.Outliers {
					lo, hi = math.Min(lo, o), math.Max(hi, o)
				}
			}
		}
	}
	if len(series) == 0 {
		return errEmptyPanel
	}
	ticks := boxTicks(p, ncat)
	title := p.Title
	if p.Hue != "" {
		title = hueCaption(p)
	}
	yr, yt := axisRange(lo, hi, false)
	c := chart.Chart{
		Title:      title,
		Width:      size.Width,
		Height:     size.Height,
		Background: background(bottomPadding(p)),
		XAxis: chart.XAxis{
			Name:  p.XLabel,
			Range: &chart.ContinuousRange{Min: -0.6, Max: float64(ncat) - 0.4},
			Ticks: ticks,
			Style: chart.Style{TextRotationDegrees: p.XRotation},
		},
		YAxis:  chart.YAxis{Name: p.YLabel, Range: yr, Ticks: yt},
		Series: series,
	}
	return c.Render(chart.SVG, w)
}

// boxTicks labels each category slot. go-chart takes the x range from the
// tick extent, so unlabeled ticks pin both edges of the slot range.
func boxTicks(p figure.Panel, ncat int) []chart.Tick {
	labels := p.Categories
	if len(labels) == 0 {
		labels = []string{p.Column}
	}
	ticks := []chart.Tick{{Value: -0.6}}
	ticks = append(ticks, categoryTicks(labels)...)
	return append(ticks, chart.Tick{Value: float64(ncat) - 0.4})
}

func segment(xs, ys []float64, style chart.Style) chart.ContinuousSeries {
	return chart.ContinuousSeries{XValues: xs, YValues: ys, Style: style}
}

// hueCaption names the hue colors in the title; box outlines carry no legend.
func hueCaption(p figure.Panel) string {
	s := p.Hue + ":"
	for g, grp := range p.Boxes {
		s += fmt.Sprintf(" %s=%s", grp.Name, colorName(g))
	}
	return s
}

func colorName(i int) string {
	names := []string{"blue", "orange", "green", "red", "purple", "brown", "pink", "gray", "olive", "cyan"}
	return names[i%len(names)]
}

func piePanel(w io.Writer, p figure.Panel, size Size) error {
	if len(p.Slices) == 0 {
		return errEmptyPanel
	}
	vals := make([]chart.Value, len(p.Slices))
	for i, s := range p.Slices {
		col := namedColor(s.Color, i)
		vals[i] = chart.Value{
			Value: float64(s.Count),
			Label: fmt.Sprintf("%s %.2f%%", s.Label, s.Percent),
			Style: chart.Style{FillColor: col, StrokeColor: drawing.ColorWhite, FontColor: drawing.ColorBlack},
		}
	}
	pc := chart.PieChart{
		Title:  p.Title,
		Width:  size.Width,
		Height: size.Height,
		Values: vals,
	}
	return pc.Render(chart.SVG, w)
}

func bounds(series []figure.Series) (xlo, xhi, ylo, yhi float64) {
	xlo, ylo = math.Inf(1), math.Inf(1)
	xhi, yhi = math.Inf(-1), math.Inf(-1)
	for _, s := range series {
		for i := range s.X {
			xlo, xhi = math.Min(xlo, s.X[i]), math.Max(xhi, s.X[i])
			ylo, yhi = math.Min(ylo, s.Y[i]), math.Max(yhi, s.Y[i])
		}
	}
	return
}
