package dataset

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// outlierThreshold is the robust |z| cut-off (MAD based).
const outlierThreshold = 3.5

// Summary is a markdown-friendly description of the loaded table.
type Summary struct {
	Name string
	Rows int
	Cols []ColumnSummary
}

// ColumnSummary captures the kind and statistics of one column.
type ColumnSummary struct {
	Name    string
	Kind    string // numeric|categorical
	NonNull int
	Missing int
	Unique  int
	// Numeric stats
	Min, Max, Mean, Std float64
	Median              float64
	Outliers            int
	// Categorical counts, most frequent first
	TopValues []CategoryCount
}

type CategoryCount struct {
	Value string
	Count int
}

// Summarize computes per-column statistics for the whole table.
func (t *Table) Summarize() (*Summary, error) {
	s := &Summary{Name: t.name, Rows: t.Nrow()}
	for _, name := range t.Names() {
		numeric, err := t.IsNumeric(name)
		if err != nil {
			return nil, err
		}
		cs := ColumnSummary{Name: name}
		if numeric && !CountColumns[name] {
			raw, err := t.Floats(name)
			if err != nil {
				return nil, err
			}
			vals := Finite(raw)
			cs.Kind = "numeric"
			cs.NonNull = len(vals)
			cs.Missing = len(raw) - len(vals)
			if len(vals) > 0 {
				cs.Min, cs.Max = floats.Min(vals), floats.Max(vals)
				cs.Mean, cs.Std = stat.MeanStdDev(vals, nil)
				median, mad := MedianMAD(vals)
				cs.Median = median
				if mad > 0 {
					for _, v := range vals {
						if math.Abs(0.6745*(v-median)/mad) > outlierThreshold {
							cs.Outliers++
						}
					}
				}
			}
		} else {
			vals, err := t.Strings(name)
			if err != nil {
				return nil, err
			}
			cs.Kind = "categorical"
			counts := map[string]int{}
			for _, v := range vals {
				if v == "" || v == "NaN" {
					cs.Missing++
					continue
				}
				cs.NonNull++
				counts[v]++
			}
			cs.Unique = len(counts)
			for k, v := range counts {
				cs.TopValues = append(cs.TopValues, CategoryCount{Value: k, Count: v})
			}
			sort.Slice(cs.TopValues, func(i, j int) bool {
				if cs.TopValues[i].Count == cs.TopValues[j].Count {
					return cs.TopValues[i].Value < cs.TopValues[j].Value
				}
				return cs.TopValues[i].Count > cs.TopValues[j].Count
			})
			if len(cs.TopValues) > 8 {
				cs.TopValues = cs.TopValues[:8]
			}
		}
		s.Cols = append(s.Cols, cs)
	}
	return s, nil
}

// Markdown renders the summary as a compact report.
func (s *Summary) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if s.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", s.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", s.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(s.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range s.Cols {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", c.Name, c.Kind, c.NonNull, missPct))
		switch c.Kind {
		case "numeric":
			b.WriteString(fmt.Sprintf(" — min %.4g, max %.4g, mean %.4g, median %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Median, c.Std))
			if c.Outliers > 0 {
				b.WriteString(fmt.Sprintf("; outliers: %d above |z|>%.1f", c.Outliers, outlierThreshold))
			}
		case "categorical":
			if len(c.TopValues) > 0 {
				b.WriteString(" — top: ")
				for i, kv := range c.TopValues {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", kv.Value, kv.Count))
				}
				if c.Unique > len(c.TopValues) {
					b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
				}
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
