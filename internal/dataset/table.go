package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/floats"
)

// Target is the column the regression model predicts.
const Target = "charges"

// Columns is the fixed insurance schema in file order.
var Columns = []string{"age", "sex", "bmi", "children", "smoker", "region", Target}

// columnTypes pins the parsed type of each schema column so that children is
// read as a count and never as a float.
var columnTypes = map[string]series.Type{
	"age":      series.Int,
	"sex":      series.String,
	"bmi":      series.Float,
	"children": series.Int,
	"smoker":   series.String,
	"region":   series.String,
	Target:     series.Float,
}

// CountColumns hold small integer counts that are summarized and plotted as
// categories even though they parse as numbers.
var CountColumns = map[string]bool{"children": true}

// ErrColumnNotFound is matched by every ColumnNotFoundError.
var ErrColumnNotFound = errors.New("column not found")

// ColumnNotFoundError reports a column name that is absent from the table.
type ColumnNotFoundError struct {
	Column    string
	Available []string
	Err       error
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column not found: %q (available: %s)", e.Column, strings.Join(e.Available, ", "))
}

func (e *ColumnNotFoundError) Is(target error) bool { return target == ErrColumnNotFound }

func (e *ColumnNotFoundError) Unwrap() error { return e.Err }

// Table is an immutable, column-typed view of the insurance dataset.
type Table struct {
	name string
	df   dataframe.DataFrame
}

// Load reads a CSV file with a header row and the insurance schema.
// A missing file, a malformed file or a missing schema column is an error.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	t, err := Read(f, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	for _, c := range Columns {
		if !t.HasColumn(c) {
			return nil, fmt.Errorf("dataset %s: %w", t.name, &ColumnNotFoundError{Column: c, Available: t.Names()})
		}
	}
	return t, nil
}

// Read parses CSV content into a Table. Schema columns get their fixed
// types; any other column is type-detected.
func Read(r io.Reader, name string) (*Table, error) {
	df := dataframe.ReadCSV(r, dataframe.WithTypes(columnTypes))
	if df.Err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", name, df.Err)
	}
	if df.Ncol() == 0 {
		return nil, fmt.Errorf("parse dataset %s: no columns", name)
	}
	return &Table{name: name, df: df}, nil
}

// Name returns the base name of the source file.
func (t *Table) Name() string { return t.name }

// Names returns the column names in file order.
func (t *Table) Names() []string { return t.df.Names() }

// Nrow returns the number of records.
func (t *Table) Nrow() int { return t.df.Nrow() }

// HasColumn reports whether name is a column of the table.
func (t *Table) HasColumn(name string) bool {
	for _, n := range t.df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// Require fails with a ColumnNotFoundError for the first absent name.
func (t *Table) Require(names ...string) error {
	for _, n := range names {
		if n == "" {
			continue
		}
		if !t.HasColumn(n) {
			return &ColumnNotFoundError{Column: n, Available: t.Names()}
		}
	}
	return nil
}

// Column returns a copy of the named series.
func (t *Table) Column(name string) (series.Series, error) {
	if !t.HasColumn(name) {
		return series.Series{}, &ColumnNotFoundError{Column: name, Available: t.Names()}
	}
	s := t.df.Col(name)
	if s.Err != nil {
		return series.Series{}, &ColumnNotFoundError{Column: name, Available: t.Names(), Err: s.Err}
	}
	return s, nil
}

// IsNumeric reports whether the column holds ints or floats.
func (t *Table) IsNumeric(name string) (bool, error) {
	s, err := t.Column(name)
	if err != nil {
		return false, err
	}
	return s.Type() == series.Int || s.Type() == series.Float, nil
}

// Floats returns the numeric values of a column.
func (t *Table) Floats(name string) ([]float64, error) {
	s, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if s.Type() != series.Int && s.Type() != series.Float {
		return nil, fmt.Errorf("column %q is not numeric (%s)", name, s.Type())
	}
	return s.Float(), nil
}

// Strings returns the values of a column as strings, one per record.
func (t *Table) Strings(name string) ([]string, error) {
	s, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	return s.Records(), nil
}

// Levels returns the distinct values of a column in order of first appearance.
func (t *Table) Levels(name string) ([]string, error) {
	vals, err := t.Strings(name)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, 8)
	var out []string
	for _, v := range vals {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out, nil
}

// SortedLevels returns the distinct values used as category order on plot
// axes: numeric columns ascending, text columns in order of appearance.
func (t *Table) SortedLevels(name string) ([]string, error) {
	lv, err := t.Levels(name)
	if err != nil {
		return nil, err
	}
	numeric, err := t.IsNumeric(name)
	if err != nil {
		return nil, err
	}
	if numeric {
		sort.SliceStable(lv, func(i, j int) bool {
			a, _ := strconv.ParseFloat(lv[i], 64)
			b, _ := strconv.ParseFloat(lv[j], 64)
			return a < b
		})
	}
	return lv, nil
}

// Range returns the minimum and maximum of a numeric column.
func (t *Table) Range(name string) (lo, hi float64, err error) {
	raw, err := t.Floats(name)
	if err != nil {
		return 0, 0, err
	}
	vals := Finite(raw)
	if len(vals) == 0 {
		return 0, 0, fmt.Errorf("column %q is empty", name)
	}
	return floats.Min(vals), floats.Max(vals), nil
}
