package dataset_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/premiumlens/internal/dataset"
)

const insuranceCSV = "age,sex,bmi,children,smoker,region,charges\n" +
	"19,female,27.9,0,yes,southwest,16884.924\n" +
	"18,male,33.77,1,no,southeast,1725.5523\n" +
	"28,male,33,3,no,southeast,4449.462\n" +
	"33,male,22.705,0,no,northwest,21984.47061\n" +
	"32,male,28.88,0,no,northwest,3866.8552\n" +
	"46,female,33.44,1,no,southeast,8240.5896\n" +
	"37,male,29.83,2,no,northeast,6406.4107\n" +
	"60,female,25.84,0,no,northwest,28923.13692\n"

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "insurance.csv")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestLoadTypesAndShape(t *testing.T) {
	tbl, err := dataset.Load(writeCSV(t, insuranceCSV))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tbl.Nrow() != 8 {
		t.Fatalf("rows = %d, want 8", tbl.Nrow())
	}
	if got := strings.Join(tbl.Names(), ","); got != strings.Join(dataset.Columns, ",") {
		t.Fatalf("names = %s", got)
	}
	for _, c := range []string{"age", "bmi", "children", "charges"} {
		ok, err := tbl.IsNumeric(c)
		if err != nil || !ok {
			t.Fatalf("%s should be numeric (err=%v)", c, err)
		}
	}
	if ok, _ := tbl.IsNumeric("region"); ok {
		t.Fatalf("region should not be numeric")
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := dataset.Load(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadMissingSchemaColumnFails(t *testing.T) {
	p := writeCSV(t, "age,sex,bmi\n19,female,27.9\n")
	_, err := dataset.Load(p)
	if !errors.Is(err, dataset.ErrColumnNotFound) {
		t.Fatalf("expected column not found, got %v", err)
	}
}

func TestColumnNotFound(t *testing.T) {
	tbl, err := dataset.Load(writeCSV(t, insuranceCSV))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	_, err = tbl.Floats("income")
	var cnf *dataset.ColumnNotFoundError
	if !errors.As(err, &cnf) {
		t.Fatalf("expected ColumnNotFoundError, got %v", err)
	}
	if cnf.Column != "income" {
		t.Fatalf("column = %q", cnf.Column)
	}
	if err := tbl.Require("age", "", "income"); !errors.Is(err, dataset.ErrColumnNotFound) {
		t.Fatalf("require: %v", err)
	}
}

func TestLevelsAndRange(t *testing.T) {
	tbl, err := dataset.Load(writeCSV(t, insuranceCSV))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	lv, err := tbl.Levels("region")
	if err != nil {
		t.Fatalf("levels: %v", err)
	}
	if got := strings.Join(lv, ","); got != "southwest,southeast,northwest,northeast" {
		t.Fatalf("region levels = %s", got)
	}
	ch, err := tbl.SortedLevels("children")
	if err != nil {
		t.Fatalf("sorted levels: %v", err)
	}
	if got := strings.Join(ch, ","); got != "0,1,2,3" {
		t.Fatalf("children levels = %s", got)
	}
	lo, hi, err := tbl.Range("age")
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if lo != 18 || hi != 60 {
		t.Fatalf("age range = [%v, %v]", lo, hi)
	}
	if _, _, err := tbl.Range("sex"); err == nil {
		t.Fatalf("expected error for non-numeric range")
	}
}

func TestLoaderMemoizes(t *testing.T) {
	p := writeCSV(t, insuranceCSV)
	l := dataset.NewLoader(p)
	first, err := l.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := os.Remove(p); err != nil {
		t.Fatalf("remove: %v", err)
	}
	second, err := l.Load()
	if err != nil {
		t.Fatalf("second load should hit the cache: %v", err)
	}
	if first != second {
		t.Fatalf("expected the same *Table from the cache")
	}
	if l.Path() != p || first.Name() != "insurance.csv" {
		t.Fatalf("path = %q, name = %q", l.Path(), first.Name())
	}
}

func TestSummaryMarkdown(t *testing.T) {
	tbl, err := dataset.Load(writeCSV(t, insuranceCSV))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	s, err := tbl.Summarize()
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	md := s.Markdown()
	for _, want := range []string{"[DATASET SUMMARY]", "Rows: 8", "- age: numeric", "- children: categorical", "- smoker: categorical", "no(7)"} {
		if !strings.Contains(md, want) {
			t.Fatalf("summary missing %q:\n%s", want, md)
		}
	}
}

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	if got := dataset.Quantile(sorted, 0.5); got != 2.5 {
		t.Fatalf("median = %v", got)
	}
	if got := dataset.Quantile(sorted, 0.25); got != 1.75 {
		t.Fatalf("q1 = %v", got)
	}
}

func TestMedianMAD(t *testing.T) {
	med, mad := dataset.MedianMAD([]float64{9, 1, 2, 2, 4, 6})
	// deviations from 3: 6 2 1 1 1 3
	if med != 3 || mad != 1.5 {
		t.Fatalf("median, mad = %v, %v", med, mad)
	}
	if med, mad := dataset.MedianMAD(nil); med != 0 || mad != 0 {
		t.Fatalf("empty = %v, %v", med, mad)
	}
}
