package render

import (
	"bytes"
	"os"
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

var testSize = Size{Width: 400, Height: 340}

func sections(t *testing.T, p views.Page) []views.Section {
	t.Helper()
	tbl, err := dataset.Read(strings.NewReader(sampleCSV), "sample.csv")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	s, err := views.Build(tbl, p)
	if err != nil {
		t.Fatalf("build %s: %v", p, err)
	}
	return s
}

func TestPanelRendersEveryKind(t *testing.T) {
	seen := map[figure.Kind]bool{}
	for _, page := range []views.Page{views.Univariate, views.Bivariate, views.Multivariate} {
		for _, s := range sections(t, page) {
			for _, p := range s.Figure.Panels {
				var buf bytes.Buffer
				if err := Panel(&buf, p, testSize); err != nil {
					t.Fatalf("%s/%s/%s: %v", page, s.Heading, p.Column, err)
				}
				if !strings.Contains(buf.String(), "<svg") {
					t.Fatalf("%s/%s/%s: output is not svg", page, s.Heading, p.Column)
				}
				seen[p.Kind] = true
			}
		}
	}
	for _, k := range []figure.Kind{
		figure.KindCount, figure.KindPie, figure.KindHistogram, figure.KindKDE,
		figure.KindBox, figure.KindScatter, figure.KindBar, figure.KindHeatmap,
	} {
		if !seen[k] {
			t.Fatalf("kind %s never rendered", k)
		}
	}
}

func TestBoxTicksSpanSlots(t *testing.T) {
	for _, s := range sections(t, views.Univariate) {
		if s.Heading != "Boxplot" {
			continue
		}
		for _, p := range s.Figure.Panels {
			if len(p.Categories) != 0 {
				t.Fatalf("%s: univariate box has categories %v", p.Column, p.Categories)
			}
			ticks := boxTicks(p, 1)
			if len(ticks) != 3 || ticks[0].Value != -0.6 || ticks[2].Value != 0.6 {
				t.Fatalf("%s: ticks = %+v", p.Column, ticks)
			}
			if ticks[1].Label != p.Column || ticks[0].Label != "" || ticks[2].Label != "" {
				t.Fatalf("%s: tick labels = %+v", p.Column, ticks)
			}
			var buf bytes.Buffer
			if err := Panel(&buf, p, testSize); err != nil {
				t.Fatalf("%s: %v", p.Column, err)
			}
		}
	}
}

func TestShippedDatasetRendersEveryPage(t *testing.T) {
	tbl, err := dataset.Load("../../data/insurance.csv")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for _, page := range []views.Page{views.Univariate, views.Bivariate, views.Multivariate} {
		secs, err := views.Build(tbl, page)
		if err != nil {
			t.Fatalf("build %s: %v", page, err)
		}
		for _, s := range secs {
			if _, err := Figure(s.Figure, testSize); err != nil {
				t.Fatalf("%s/%s: %v", page, s.Heading, err)
			}
		}
	}
}

func TestPanelRejectsBadInput(t *testing.T) {
	var buf bytes.Buffer
	if err := Panel(&buf, figure.Panel{Kind: "violin"}, testSize); err == nil {
		t.Fatal("expected error for unknown kind")
	}
	if err := Panel(&buf, figure.Panel{Kind: figure.KindPie}, testSize); err == nil {
		t.Fatal("expected error for empty pie")
	}
	if err := Panel(&buf, figure.Panel{Kind: figure.KindHeatmap}, Size{}); err == nil {
		t.Fatal("expected error for zero size")
	}
}

func TestHeatmapAnnotatesCounts(t *testing.T) {
	p := figure.Panel{
		Kind:   figure.KindHeatmap,
		Column: "region",
		Table: &figure.Contingency{
			RowVar: "region", ColVar: "smoker",
			Rows:   []string{"northeast", "southeast"},
			Cols:   []string{"no", "yes"},
			Counts: [][]int{{17, 3}, {42, 9}},
		},
	}
	var buf bytes.Buffer
	if err := Panel(&buf, p, testSize); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{">17<", ">42<", ">southeast<"} {
		if !strings.Contains(out, want) {
			t.Fatalf("heatmap missing %s", want)
		}
	}
}

func TestReportAndSVGFiles(t *testing.T) {
	secs := sections(t, views.Multivariate)
	var buf bytes.Buffer
	if err := Report(&buf, "Multivariate", secs, testSize); err != nil {
		t.Fatalf("report: %v", err)
	}
	html := buf.String()
	if !strings.Contains(html, "<h2>Scatter Plot</h2>") || strings.Count(html, `class="panel"`) != 5 {
		t.Fatalf("unexpected report layout")
	}

	dir := t.TempDir()
	paths, err := WriteSVGs(dir, secs, testSize)
	if err != nil {
		t.Fatalf("write svgs: %v", err)
	}
	if len(paths) != 5 {
		t.Fatalf("wrote %d files", len(paths))
	}
	if !strings.HasSuffix(paths[0], "scatter-plot-1-bmi.svg") {
		t.Fatalf("first file = %s", paths[0])
	}
	if _, err := os.Stat(paths[4]); err != nil {
		t.Fatalf("stat: %v", err)
	}
}

func TestFormatTickAndSlug(t *testing.T) {
	cases := map[float64]string{0: "0", 2.5: "2.5", 250: "250", 20000: "20k", 0.0125: "0.0125"}
	for v, want := range cases {
		if got := formatTick(v); got != want {
			t.Fatalf("formatTick(%v) = %q, want %q", v, got, want)
		}
	}
	if Slug("KDE Plot") != "kde-plot" {
		t.Fatalf("slug = %q", Slug("KDE Plot"))
	}
}
