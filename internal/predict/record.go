// Package predict turns dashboard selections into a feature vector and a
// premium estimate using a pre-fitted transformer and regression model.
package predict

import (
	"fmt"
	"strconv"
)

// Kind is the value type of an input column.
type Kind string

const (
	Numeric     Kind = "numeric"
	Categorical Kind = "categorical"
)

// Column is one entry of a recorded input schema.
type Column struct {
	Name string `yaml:"name" json:"name"`
	Kind Kind   `yaml:"kind" json:"kind"`
}

// Field is a named, typed cell of a prediction row.
type Field struct {
	Name string
	Kind Kind
	Num  float64
	Str  string
}

// Text returns the value as the encoder compares it.
func (f Field) Text() string {
	if f.Kind == Numeric {
		return strconv.FormatFloat(f.Num, 'f', -1, 64)
	}
	return f.Str
}

func (f Field) String() string { return f.Name + "=" + f.Text() }

// Num builds a numeric field.
func Num(name string, v float64) Field { return Field{Name: name, Kind: Numeric, Num: v} }

// Cat builds a categorical field.
func Cat(name, v string) Field { return Field{Name: name, Kind: Categorical, Str: v} }

// Row is an ordered prediction record.
type Row []Field

// Columns returns the schema implied by the row.
func (r Row) Columns() []Column {
	out := make([]Column, len(r))
	for i, f := range r {
		out[i] = Column{Name: f.Name, Kind: f.Kind}
	}
	return out
}

// Record holds the six user selections.
type Record struct {
	Age      int     `json:"age"`
	Sex      string  `json:"sex"`
	BMI      float64 `json:"bmi"`
	Children int     `json:"children"`
	Smoker   string  `json:"smoker"`
	Region   string  `json:"region"`
}

// Row lays the record out in training column order (the dataset columns
// without charges).
func (r Record) Row() Row {
	return Row{
		Num("age", float64(r.Age)),
		Cat("sex", r.Sex),
		Num("bmi", r.BMI),
		Num("children", float64(r.Children)),
		Cat("smoker", r.Smoker),
		Cat("region", r.Region),
	}
}

func (r Record) String() string {
	return fmt.Sprintf("age=%d sex=%s bmi=%g children=%d smoker=%s region=%s",
		r.Age, r.Sex, r.BMI, r.Children, r.Smoker, r.Region)
}
