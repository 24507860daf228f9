package views_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/KaramelBytes/premiumlens/internal/dataset"
	"github.com/KaramelBytes/premiumlens/internal/figure"
	"github.com/KaramelBytes/premiumlens/internal/views"
)

const sampleCSV = "age,sex,bmi,children,smoker,region,charges\n" +
	"19,female,27.9,0,yes,southwest,16884.92\n" +
	"18,male,33.77,1,no,southeast,1725.55\n" +
	"28,male,33,3,no,southeast,4449.46\n" +
	"33,male,22.705,0,no,northwest,21984.47\n" +
	"32,male,28.88,0,no,northwest,3866.86\n" +
	"31,female,25.74,0,no,southeast,3756.62\n" +
	"46,female,33.44,1,no,southeast,8240.59\n" +
	"37,female,27.74,3,no,northwest,7281.51\n" +
	"37,male,29.83,2,no,northeast,6406.41\n" +
	"60,female,25.84,0,no,northwest,28923.14\n" +
	"25,male,26.22,0,no,northeast,2721.32\n" +
	"62,female,26.29,0,yes,southeast,27808.73\n" +
	"19,female,28.6,5,no,southwest,4687.80\n" +
	"25,male,33.66,4,no,southeast,4504.66\n" +
	"35,male,36.67,1,yes,northeast,39774.28\n" +
	"60,male,39.9,0,yes,southwest,48173.36\n"

func sampleTable(t *testing.T) *dataset.Table {
	t.Helper()
	tbl, err := dataset.Read(strings.NewReader(sampleCSV), "sample.csv")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return tbl
}

func TestParsePage(t *testing.T) {
	for in, want := range map[string]views.Page{
		"Prediction":   views.Prediction,
		"univariate":   views.Univariate,
		" BIVARIATE ":  views.Bivariate,
		"multivariate": views.Multivariate,
	} {
		got, err := views.ParsePage(in)
		if err != nil || got != want {
			t.Fatalf("ParsePage(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := views.ParsePage("trivariate"); err == nil {
		t.Fatal("expected error for unknown page")
	}
	if views.Multivariate.Slug() != "multivariate" {
		t.Fatalf("slug = %q", views.Multivariate.Slug())
	}
}

func TestBuildSectionsInOrder(t *testing.T) {
	tbl := sampleTable(t)
	cases := []struct {
		page     views.Page
		headings []string
		kinds    []figure.Kind
		columns  [][]string
	}{
		{
			views.Univariate,
			[]string{"Countplot", "Pie Chart", "Histogram", "KDE Plot", "Boxplot"},
			[]figure.Kind{figure.KindCount, figure.KindPie, figure.KindHistogram, figure.KindKDE, figure.KindBox},
			[][]string{
				{"sex", "smoker", "region", "children"},
				{"sex", "smoker", "region", "children"},
				{"age", "bmi", "charges"},
				{"age", "bmi", "charges"},
				{"age", "bmi", "charges"},
			},
		},
		{
			views.Bivariate,
			[]string{"Scatter Plot", "Bar Plot", "Box Plot", "KDE Plot", "Heat Map"},
			[]figure.Kind{figure.KindScatter, figure.KindBar, figure.KindBox, figure.KindKDE, figure.KindHeatmap},
			[][]string{
				{"bmi", "age"},
				{"sex", "smoker", "region", "children"},
				{"sex", "smoker", "region", "children"},
				{"sex", "smoker", "region", "children"},
				{"region"},
			},
		},
		{
			views.Multivariate,
			[]string{"Scatter Plot", "Bar Plot"},
			[]figure.Kind{figure.KindScatter, figure.KindBar},
			[][]string{{"bmi", "age"}, {"sex", "region", "children"}},
		},
	}
	for _, c := range cases {
		t.Run(string(c.page), func(t *testing.T) {
			sections, err := views.Build(tbl, c.page)
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			if !reflect.DeepEqual(views.Headings(c.page), c.headings) {
				t.Fatalf("headings = %v", views.Headings(c.page))
			}
			if len(sections) != len(c.headings) {
				t.Fatalf("got %d sections", len(sections))
			}
			for i, s := range sections {
				if s.Heading != c.headings[i] {
					t.Fatalf("section %d heading = %q", i, s.Heading)
				}
				if got := s.Figure.Columns(); !reflect.DeepEqual(got, c.columns[i]) {
					t.Fatalf("%s columns = %v", s.Heading, got)
				}
				for _, p := range s.Figure.Panels {
					if p.Kind != c.kinds[i] {
						t.Fatalf("%s panel kind = %s", s.Heading, p.Kind)
					}
				}
			}
		})
	}
}

func TestBuildHueAndRotation(t *testing.T) {
	sections, err := views.Build(sampleTable(t), views.Multivariate)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for _, s := range sections {
		for _, p := range s.Figure.Panels {
			if p.Hue != "smoker" {
				t.Fatalf("%s/%s hue = %q", s.Heading, p.Column, p.Hue)
			}
			want := 0.0
			if p.Column == "region" {
				want = figure.RotatedLabelDegrees
			}
			if p.XRotation != want {
				t.Fatalf("%s/%s rotation = %v", s.Heading, p.Column, p.XRotation)
			}
		}
	}
}

func TestBivariateRotatesRegionOnBoxAndKDE(t *testing.T) {
	sections, err := views.Build(sampleTable(t), views.Bivariate)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	rotated := map[string]bool{"Box Plot": true, "KDE Plot": true}
	for _, s := range sections {
		for _, p := range s.Figure.Panels {
			want := 0.0
			if p.Column == "region" && rotated[s.Heading] {
				want = figure.RotatedLabelDegrees
			}
			if p.XRotation != want {
				t.Fatalf("%s/%s rotation = %v, want %v", s.Heading, p.Column, p.XRotation, want)
			}
		}
	}
}

func TestBuildPredictionHasNoFigures(t *testing.T) {
	if _, err := views.Build(sampleTable(t), views.Prediction); err == nil {
		t.Fatal("expected error for prediction page")
	}
}

func TestBuildFailsOnMissingColumn(t *testing.T) {
	csv := "age,sex,bmi,children,smoker,charges\n19,female,27.9,0,yes,16884.92\n"
	tbl, err := dataset.Read(strings.NewReader(csv), "noregion.csv")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	_, err = views.Build(tbl, views.Univariate)
	if !errors.Is(err, dataset.ErrColumnNotFound) {
		t.Fatalf("expected column not found, got %v", err)
	}
}
