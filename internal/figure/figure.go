// Package figure assembles multi-panel figures from the dataset. A Figure is
// pure data: the statistics each panel needs are computed here and drawing is
// left to the render package.
package figure

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Kind names the plot drawn in a panel.
type Kind string

const (
	KindCount     Kind = "count"
	KindPie       Kind = "pie"
	KindHistogram Kind = "histogram"
	KindKDE       Kind = "kde"
	KindBox       Kind = "box"
	KindScatter   Kind = "scatter"
	KindBar       Kind = "bar"
	KindHeatmap   Kind = "heatmap"
)

// RotatedLabelDegrees is applied to tick labels of flagged columns.
const RotatedLabelDegrees = 45

// Figure is one row of panels, one per requested column.
type Figure struct {
	ID     string  `json:"id"`
	Title  string  `json:"title,omitempty"`
	Panels []Panel `json:"panels"`
}

// Panel holds everything needed to draw one sub-plot. Only the fields of its
// Kind are populated.
type Panel struct {
	Kind      Kind    `json:"kind"`
	Column    string  `json:"column"`
	Title     string  `json:"title,omitempty"`
	XLabel    string  `json:"x_label,omitempty"`
	YLabel    string  `json:"y_label,omitempty"`
	XRotation float64 `json:"x_rotation,omitempty"`
	Grid      bool    `json:"grid,omitempty"`
	Hue       string  `json:"hue,omitempty"`

	// Categories is the x-axis order for count, bar and box panels.
	Categories []string `json:"categories,omitempty"`

	Bars   []BarGroup   `json:"bars,omitempty"`
	Boxes  []BoxGroup   `json:"boxes,omitempty"`
	Lines  []Series     `json:"lines,omitempty"`
	Points []Series     `json:"points,omitempty"`
	Bins   []Bin        `json:"bins,omitempty"`
	Slices []Slice      `json:"slices,omitempty"`
	Table  *Contingency `json:"table,omitempty"`
}

// BarGroup is one hue level of a count or bar panel. Values and Counts are
// aligned with Panel.Categories; a zero count means no bar.
type BarGroup struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
	Counts []int     `json:"counts"`
}

// BoxGroup is one hue level of a box panel, aligned with Panel.Categories
// (or a single box when the panel has no categories).
type BoxGroup struct {
	Name  string     `json:"name"`
	Boxes []BoxStats `json:"boxes"`
}

// Series is a named set of (x, y) pairs: a density curve or scatter points.
type Series struct {
	Name string    `json:"name"`
	X    []float64 `json:"x"`
	Y    []float64 `json:"y"`
}

// Bin is one histogram bar covering [Lo, Hi).
type Bin struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count int     `json:"count"`
}

// Slice is one wedge of a pie.
type Slice struct {
	Category string  `json:"category"`
	Label    string  `json:"label"`
	Color    string  `json:"color"`
	Count    int     `json:"count"`
	Percent  float64 `json:"percent"`
}

// Options carries the per-kind parameters shared by the helpers.
type Options struct {
	// Rotate lists columns whose category labels are rotated.
	Rotate []string
	// X is the numeric column whose density each KDE panel splits by its own column.
	X string
	// Y is the value column aggregated by bar and box panels.
	Y string
	// Hue splits every panel into sub-groups by this column.
	Hue string
}

func (o Options) rotation(col string) float64 {
	for _, c := range o.Rotate {
		if c == col {
			return RotatedLabelDegrees
		}
	}
	return 0
}

func newFigure(panels []Panel) *Figure {
	// Only the leftmost panel keeps its value-axis label.
	for i := 1; i < len(panels); i++ {
		panels[i].YLabel = ""
	}
	return &Figure{ID: uuid.NewString(), Panels: panels}
}

// Columns returns the panel columns in order.
func (f *Figure) Columns() []string {
	out := make([]string, len(f.Panels))
	for i, p := range f.Panels {
		out[i] = p.Column
	}
	return out
}

// Capitalize upper-cases the first letter of a column name for panel titles.
func Capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[n:])
}
