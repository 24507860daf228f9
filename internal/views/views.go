// Package views defines the fixed analysis pages: which helper runs over
// which columns, in what order.
package views

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/premiumlens/internal/dataset"
	"github.com/KaramelBytes/premiumlens/internal/figure"
)

// Page is one entry of the page selector.
type Page string

const (
	Prediction   Page = "Prediction"
	Univariate   Page = "Univariate"
	Bivariate    Page = "Bivariate"
	Multivariate Page = "Multivariate"
)

// Pages lists the selector options in display order.
var Pages = []Page{Prediction, Univariate, Bivariate, Multivariate}

// ParsePage matches a page name case-insensitively.
func ParsePage(s string) (Page, error) {
	for _, p := range Pages {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown page %q (want one of %s)", s, strings.Join(pageNames(), ", "))
}

func pageNames() []string {
	out := make([]string, len(Pages))
	for i, p := range Pages {
		out[i] = string(p)
	}
	return out
}

// Slug is the lowercase path segment of the page.
func (p Page) Slug() string { return strings.ToLower(string(p)) }

// IsAnalysis reports whether the page is a fixed figure view.
func (p Page) IsAnalysis() bool { return p != Prediction && p != "" }

// Section is one headed figure row of a view.
type Section struct {
	Heading string         `json:"heading"`
	Figure  *figure.Figure `json:"figure"`
}

var (
	categorical = []string{"sex", "smoker", "region", "children"}
	continuous  = []string{"age", "bmi", "charges"}
)

// PieSpecs are the label and color mappings used by the univariate pies.
var PieSpecs = []figure.PieSpec{
	{Column: "sex", Labels: []string{"Male", "Female"}, Colors: []string{"red", "green"}},
	{Column: "smoker", Labels: []string{"No", "Yes"}, Colors: []string{"red", "green"}},
	{Column: "region", Labels: []string{"southeast", "southwest", "northwest", "northeast"}, Colors: []string{"red", "green", "blue", "cyan"}},
	{Column: "children", Labels: []string{"0", "1", "2", "3", "4", "5"}, Colors: []string{"red", "green", "blue", "cyan", "yellow", "orange"}},
}

type step struct {
	heading string
	build   func(t *dataset.Table) (*figure.Figure, error)
}

func columns(h figure.Helper, cols []string, opt figure.Options) func(*dataset.Table) (*figure.Figure, error) {
	return func(t *dataset.Table) (*figure.Figure, error) { return h(t, cols, opt) }
}

var pipelines = map[Page][]step{
	Univariate: {
		{"Countplot", columns(figure.CountPlots, categorical, figure.Options{Rotate: []string{"region"}})},
		{"Pie Chart", func(t *dataset.Table) (*figure.Figure, error) { return figure.PieCharts(t, PieSpecs) }},
		{"Histogram", columns(figure.Histograms, continuous, figure.Options{})},
		{"KDE Plot", columns(figure.KDEPlots, continuous, figure.Options{})},
		{"Boxplot", columns(figure.BoxPlots, continuous, figure.Options{})},
	},
	Bivariate: {
		{"Scatter Plot", func(t *dataset.Table) (*figure.Figure, error) {
			return figure.ScatterPlots(t, []string{"bmi", "age"}, []string{"charges", "charges"}, figure.Options{})
		}},
		{"Bar Plot", columns(figure.BarPlots, categorical, figure.Options{Y: "charges"})},
		{"Box Plot", columns(figure.BoxPlots, categorical, figure.Options{Y: "charges", Hue: "smoker", Rotate: []string{"region"}})},
		{"KDE Plot", columns(figure.KDEPlots, categorical, figure.Options{X: "charges", Rotate: []string{"region"}})},
		{"Heat Map", func(t *dataset.Table) (*figure.Figure, error) { return figure.Heatmap(t, "region", "smoker") }},
	},
	Multivariate: {
		{"Scatter Plot", func(t *dataset.Table) (*figure.Figure, error) {
			return figure.ScatterPlots(t, []string{"bmi", "age"}, []string{"charges", "charges"}, figure.Options{Hue: "smoker"})
		}},
		{"Bar Plot", columns(figure.BarPlots, []string{"sex", "region", "children"}, figure.Options{
			Y: "charges", Hue: "smoker", Rotate: []string{"region"},
		})},
	},
}

// Build runs the pipeline of an analysis page. The first failing step aborts
// the page.
func Build(t *dataset.Table, p Page) ([]Section, error) {
	steps, ok := pipelines[p]
	if !ok {
		return nil, fmt.Errorf("page %q has no figures", p)
	}
	out := make([]Section, 0, len(steps))
	for _, s := range steps {
		f, err := s.build(t)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", p, s.heading, err)
		}
		out = append(out, Section{Heading: s.heading, Figure: f})
	}
	return out, nil
}

// Headings lists the section headings of an analysis page in order.
func Headings(p Page) []string {
	steps := pipelines[p]
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = s.heading
	}
	return out
}
