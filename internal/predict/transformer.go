package predict

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"
)

// Encoder types.
const (
	EncodeOneHot      = "onehot"
	EncodeScale       = "scale"
	EncodePassthrough = "passthrough"
)

// Encoder is one fitted step of the column transformer.
type Encoder struct {
	Name    string   `yaml:"name"`
	Type    string   `yaml:"type"`
	Columns []string `yaml:"columns"`

	// One-hot: sorted categories per column as fitted.
	Categories    [][]string `yaml:"categories,omitempty"`
	Drop          string     `yaml:"drop,omitempty"`           // none | first | if_binary
	HandleUnknown string     `yaml:"handle_unknown,omitempty"` // error | ignore

	// Scale: per-column mean and scale.
	Mean  []float64 `yaml:"mean,omitempty"`
	Scale []float64 `yaml:"scale,omitempty"`
}

// Transformer is a fitted column transformer: encoders applied in order,
// then the remaining input columns passed through or dropped.
type Transformer struct {
	Input     []Column  `yaml:"input"`
	Encoders  []Encoder `yaml:"transformers"`
	Remainder string    `yaml:"remainder"` // passthrough | drop

	pos       map[string]int
	remaining []int
	features  []string
}

// ParseTransformer decodes and validates a transformer document.
func ParseTransformer(data []byte) (*Transformer, error) {
	var t Transformer
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode transformer: %w", err)
	}
	if err := t.compile(); err != nil {
		return nil, err
	}
	return &t, nil
}

// LoadTransformer reads a transformer artifact from disk.
func LoadTransformer(path string) (*Transformer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ArtifactError{Artifact: "transformer", Path: path, Err: err}
	}
	t, err := ParseTransformer(data)
	if err != nil {
		return nil, &ArtifactError{Artifact: "transformer", Path: path, Err: err}
	}
	return t, nil
}

func (t *Transformer) compile() error {
	if len(t.Input) == 0 {
		return errors.New("transformer has no input schema")
	}
	t.pos = make(map[string]int, len(t.Input))
	for i, c := range t.Input {
		if c.Name == "" {
			return fmt.Errorf("input column %d has no name", i)
		}
		if c.Kind != Numeric && c.Kind != Categorical {
			return fmt.Errorf("input column %s: unknown kind %q", c.Name, c.Kind)
		}
		if _, dup := t.pos[c.Name]; dup {
			return fmt.Errorf("input column %s listed twice", c.Name)
		}
		t.pos[c.Name] = i
	}

	used := make([]bool, len(t.Input))
	t.features = nil
	for i := range t.Encoders {
		e := &t.Encoders[i]
		if e.Name == "" {
			e.Name = e.Type
		}
		if len(e.Columns) == 0 {
			return fmt.Errorf("encoder %s has no columns", e.Name)
		}
		for _, col := range e.Columns {
			p, ok := t.pos[col]
			if !ok {
				return fmt.Errorf("encoder %s: column %s is not in the input schema", e.Name, col)
			}
			if used[p] {
				return fmt.Errorf("encoder %s: column %s already encoded", e.Name, col)
			}
			used[p] = true
		}
		switch e.Type {
		case EncodeOneHot:
			if err := e.checkOneHot(); err != nil {
				return err
			}
			for c, col := range e.Columns {
				for _, cat := range e.kept(c) {
					t.features = append(t.features, e.Name+"__"+col+"_"+cat)
				}
			}
		case EncodeScale:
			if len(e.Mean) != len(e.Columns) || len(e.Scale) != len(e.Columns) {
				return fmt.Errorf("encoder %s: need one mean and scale per column", e.Name)
			}
			for c, col := range e.Columns {
				if e.Scale[c] == 0 {
					return fmt.Errorf("encoder %s: zero scale for %s", e.Name, col)
				}
			}
			fallthrough
		case EncodePassthrough:
			for _, col := range e.Columns {
				if t.Input[t.pos[col]].Kind != Numeric {
					return fmt.Errorf("encoder %s: column %s is not numeric", e.Name, col)
				}
				t.features = append(t.features, e.Name+"__"+col)
			}
		default:
			return fmt.Errorf("encoder %s: unknown type %q", e.Name, e.Type)
		}
	}

	t.remaining = nil
	switch t.Remainder {
	case "", "drop":
	case "passthrough":
		for i, c := range t.Input {
			if used[i] {
				continue
			}
			if c.Kind != Numeric {
				return fmt.Errorf("remainder column %s is not numeric", c.Name)
			}
			t.remaining = append(t.remaining, i)
			t.features = append(t.features, "remainder__"+c.Name)
		}
	default:
		return fmt.Errorf("unknown remainder %q", t.Remainder)
	}
	if len(t.features) == 0 {
		return errors.New("transformer produces no features")
	}
	return nil
}

func (e *Encoder) checkOneHot() error {
	if len(e.Categories) != len(e.Columns) {
		return fmt.Errorf("encoder %s: need one category list per column", e.Name)
	}
	for c, cats := range e.Categories {
		if len(cats) == 0 {
			return fmt.Errorf("encoder %s: no categories for %s", e.Name, e.Columns[c])
		}
		if !sort.StringsAreSorted(cats) {
			return fmt.Errorf("encoder %s: categories for %s are not sorted", e.Name, e.Columns[c])
		}
	}
	switch e.Drop {
	case "", "none", "first", "if_binary":
	default:
		return fmt.Errorf("encoder %s: unknown drop %q", e.Name, e.Drop)
	}
	switch e.HandleUnknown {
	case "", "error", "ignore":
	default:
		return fmt.Errorf("encoder %s: unknown handle_unknown %q", e.Name, e.HandleUnknown)
	}
	return nil
}

// dropsFirst reports whether the first category of column c is dropped.
func (e *Encoder) dropsFirst(c int) bool {
	switch e.Drop {
	case "first":
		return true
	case "if_binary":
		return len(e.Categories[c]) == 2
	}
	return false
}

func (e *Encoder) kept(c int) []string {
	if e.dropsFirst(c) {
		return e.Categories[c][1:]
	}
	return e.Categories[c]
}

// Schema returns the recorded input columns in order.
func (t *Transformer) Schema() []Column { return append([]Column(nil), t.Input...) }

// FeatureNames returns the output column names in order.
func (t *Transformer) FeatureNames() []string { return append([]string(nil), t.features...) }

// Width is the number of output features.
func (t *Transformer) Width() int { return len(t.features) }

// Check verifies that row has exactly the recorded column names, order and
// kinds.
func (t *Transformer) Check(row Row) error {
	got := row.Columns()
	if len(got) != len(t.Input) {
		return &SchemaError{Expected: t.Input, Got: got, Reason: fmt.Sprintf("%d columns, want %d", len(got), len(t.Input))}
	}
	for i, c := range t.Input {
		if got[i].Name != c.Name {
			return &SchemaError{Expected: t.Input, Got: got, Reason: fmt.Sprintf("column %d is %s, want %s", i, got[i].Name, c.Name)}
		}
		if got[i].Kind != c.Kind {
			return &SchemaError{Expected: t.Input, Got: got, Reason: fmt.Sprintf("column %s is %s, want %s", c.Name, got[i].Kind, c.Kind)}
		}
	}
	return nil
}

// Transform encodes one row into a 1×Width matrix.
func (t *Transformer) Transform(row Row) (*mat.Dense, error) {
	return t.TransformRows([]Row{row})
}

// TransformRows encodes rows into a len(rows)×Width matrix.
func (t *Transformer) TransformRows(rows []Row) (*mat.Dense, error) {
	if len(rows) == 0 {
		return nil, errors.New("no rows to transform")
	}
	out := mat.NewDense(len(rows), len(t.features), nil)
	for i, row := range rows {
		if err := t.Check(row); err != nil {
			return nil, err
		}
		if err := t.encode(row, out.RawRowView(i)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (t *Transformer) encode(row Row, dst []float64) error {
	k := 0
	for _, e := range t.Encoders {
		for c, col := range e.Columns {
			f := row[t.pos[col]]
			switch e.Type {
			case EncodeOneHot:
				cats := e.Categories[c]
				v := f.Text()
				idx := sort.SearchStrings(cats, v)
				if idx == len(cats) || cats[idx] != v {
					if e.HandleUnknown != "ignore" {
						return &UnknownCategoryError{Column: col, Value: v, Known: cats}
					}
					idx = -1
				}
				kept := e.kept(c)
				if idx >= 0 {
					if e.dropsFirst(c) {
						idx--
					}
					if idx >= 0 {
						dst[k+idx] = 1
					}
				}
				k += len(kept)
			case EncodeScale:
				dst[k] = (f.Num - e.Mean[c]) / e.Scale[c]
				k++
			case EncodePassthrough:
				dst[k] = f.Num
				k++
			}
		}
	}
	for _, i := range t.remaining {
		dst[k] = row[i].Num
		k++
	}
	return nil
}
