package predict

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Model is a fitted regressor over transformed feature rows.
type Model interface {
	Kind() string
	// NumFeatures is the input width the model was fitted on.
	NumFeatures() int
	// FeatureNames returns the fitted feature names, or nil if unrecorded.
	FeatureNames() []string
	Predict(x mat.Matrix) ([]float64, error)
}

// ModelDecoder builds a Model from its JSON document.
type ModelDecoder func(data []byte) (Model, error)

var decoders = map[string]ModelDecoder{}

// RegisterModel registers a model kind with its decoder.
func RegisterModel(kind string, d ModelDecoder) { decoders[kind] = d }

// ModelKinds lists the registered model kinds.
func ModelKinds() []string {
	out := make([]string, 0, len(decoders))
	for k := range decoders {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func init() {
	RegisterModel(KindLinear, decodeLinear)
	RegisterModel(KindTree, decodeTree)
}

// ParseModel decodes a model document, dispatching on its "kind" field.
func ParseModel(data []byte) (Model, error) {
	var head struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if head.Kind == "" {
		return nil, errors.New("model has no kind")
	}
	d, ok := decoders[head.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown model kind %q (known: %v)", head.Kind, ModelKinds())
	}
	return d(data)
}

// LoadModel reads a model artifact from disk.
func LoadModel(path string) (Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ArtifactError{Artifact: "model", Path: path, Err: err}
	}
	m, err := ParseModel(data)
	if err != nil {
		return nil, &ArtifactError{Artifact: "model", Path: path, Err: err}
	}
	return m, nil
}

func checkWidth(x mat.Matrix, want int) (int, error) {
	r, c := x.Dims()
	if c != want {
		return 0, fmt.Errorf("feature width %d, model expects %d", c, want)
	}
	return r, nil
}

// KindLinear is a linear regression: intercept + coefficients · x.
const KindLinear = "linear"

// LinearModel is a fitted linear regression.
type LinearModel struct {
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
	Features     []string  `json:"feature_names,omitempty"`
}

func decodeLinear(data []byte) (Model, error) {
	var m LinearModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode linear model: %w", err)
	}
	if len(m.Coefficients) == 0 {
		return nil, errors.New("linear model has no coefficients")
	}
	if m.Features != nil && len(m.Features) != len(m.Coefficients) {
		return nil, fmt.Errorf("linear model: %d feature names for %d coefficients", len(m.Features), len(m.Coefficients))
	}
	return &m, nil
}

func (m *LinearModel) Kind() string           { return KindLinear }
func (m *LinearModel) NumFeatures() int       { return len(m.Coefficients) }
func (m *LinearModel) FeatureNames() []string { return m.Features }

func (m *LinearModel) Predict(x mat.Matrix) ([]float64, error) {
	r, err := checkWidth(x, len(m.Coefficients))
	if err != nil {
		return nil, err
	}
	var y mat.VecDense
	y.MulVec(x, mat.NewVecDense(len(m.Coefficients), m.Coefficients))
	out := make([]float64, r)
	for i := range out {
		out[i] = y.AtVec(i) + m.Intercept
	}
	return out, nil
}
