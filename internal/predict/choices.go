package predict

import (
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/KaramelBytes/premiumlens/internal/dataset"
)

// Choices are the values the prediction form offers: the observed levels of
// each categorical field in order of first appearance and the observed range
// of age and bmi.
type Choices struct {
	Region   []string `json:"region"`
	Sex      []string `json:"sex"`
	Smoker   []string `json:"smoker"`
	Children []int    `json:"children"`
	AgeMin   int      `json:"age_min"`
	AgeMax   int      `json:"age_max"`
	BMIMin   float64  `json:"bmi_min"`
	BMIMax   float64  `json:"bmi_max"`
}

// ChoicesFrom derives the form choices from the dataset.
func ChoicesFrom(t *dataset.Table) (*Choices, error) {
	if err := t.Require("region", "sex", "smoker", "children", "age", "bmi"); err != nil {
		return nil, err
	}
	var c Choices
	var err error
	if c.Region, err = t.Levels("region"); err != nil {
		return nil, err
	}
	if c.Sex, err = t.Levels("sex"); err != nil {
		return nil, err
	}
	if c.Smoker, err = t.Levels("smoker"); err != nil {
		return nil, err
	}
	kids, err := t.Levels("children")
	if err != nil {
		return nil, err
	}
	for _, k := range kids {
		n, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("children level %q is not an integer", k)
		}
		c.Children = append(c.Children, n)
	}
	lo, hi, err := t.Range("age")
	if err != nil {
		return nil, err
	}
	c.AgeMin, c.AgeMax = int(math.Ceil(lo)), int(math.Floor(hi))
	if c.BMIMin, c.BMIMax, err = t.Range("bmi"); err != nil {
		return nil, err
	}
	return &c, nil
}

// Default is the initial form state: the first option of every dropdown and
// both sliders at their minimum.
func (c *Choices) Default() Record {
	r := Record{Age: c.AgeMin, BMI: c.BMIMin}
	if len(c.Region) > 0 {
		r.Region = c.Region[0]
	}
	if len(c.Sex) > 0 {
		r.Sex = c.Sex[0]
	}
	if len(c.Smoker) > 0 {
		r.Smoker = c.Smoker[0]
	}
	if len(c.Children) > 0 {
		r.Children = c.Children[0]
	}
	return r
}

// Validate rejects a record the form could not have produced. Slider bounds
// are inclusive.
func (c *Choices) Validate(r Record) error {
	if !slices.Contains(c.Region, r.Region) {
		return &InputError{Field: "region", Value: r.Region, Reason: fmt.Sprintf("want one of %v", c.Region)}
	}
	if !slices.Contains(c.Sex, r.Sex) {
		return &InputError{Field: "sex", Value: r.Sex, Reason: fmt.Sprintf("want one of %v", c.Sex)}
	}
	if !slices.Contains(c.Smoker, r.Smoker) {
		return &InputError{Field: "smoker", Value: r.Smoker, Reason: fmt.Sprintf("want one of %v", c.Smoker)}
	}
	if !slices.Contains(c.Children, r.Children) {
		return &InputError{Field: "children", Value: strconv.Itoa(r.Children), Reason: fmt.Sprintf("want one of %v", c.Children)}
	}
	if r.Age < c.AgeMin || r.Age > c.AgeMax {
		return &InputError{Field: "age", Value: strconv.Itoa(r.Age), Reason: fmt.Sprintf("want %d to %d", c.AgeMin, c.AgeMax)}
	}
	if math.IsNaN(r.BMI) || r.BMI < c.BMIMin || r.BMI > c.BMIMax {
		return &InputError{
			Field:  "bmi",
			Value:  strconv.FormatFloat(r.BMI, 'f', -1, 64),
			Reason: fmt.Sprintf("want %g to %g", c.BMIMin, c.BMIMax),
		}
	}
	return nil
}
