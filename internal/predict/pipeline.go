package predict

import (
	"fmt"

	"github.com/KaramelBytes/premiumlens/internal/utils"
)

// Pipeline chains a transformer and a model whose widths agree.
type Pipeline struct {
	Transformer *Transformer
	Model       Model
}

// NewPipeline pairs t and m, rejecting a model fitted on a different feature
// layout.
func NewPipeline(t *Transformer, m Model) (*Pipeline, error) {
	if t.Width() != m.NumFeatures() {
		return nil, fmt.Errorf("transformer produces %d features, %s model expects %d", t.Width(), m.Kind(), m.NumFeatures())
	}
	if names := m.FeatureNames(); names != nil {
		for i, n := range t.FeatureNames() {
			if names[i] != n {
				return nil, fmt.Errorf("feature %d is %s, model was fitted on %s", i, n, names[i])
			}
		}
	}
	return &Pipeline{Transformer: t, Model: m}, nil
}

// Predict returns the estimated charges for r.
func (p *Pipeline) Predict(r Record) (float64, error) {
	return p.PredictRow(r.Row())
}

// PredictRow checks row against the recorded schema, encodes it and runs the
// model.
func (p *Pipeline) PredictRow(row Row) (float64, error) {
	x, err := p.Transformer.Transform(row)
	if err != nil {
		return 0, err
	}
	y, err := p.Model.Predict(x)
	if err != nil {
		return 0, fmt.Errorf("predict: %w", err)
	}
	return y[0], nil
}

// FormatCharges renders an estimate for display.
func FormatCharges(v float64) string {
	return fmt.Sprintf("Estimated charges $%.2f", v)
}

// Artifacts loads the transformer and model from disk once and hands the same
// instances to every caller.
type Artifacts struct {
	TransformerPath string
	ModelPath       string

	transformer *utils.Lazy[*Transformer]
	model       *utils.Lazy[Model]
	pipeline    *utils.Lazy[*Pipeline]
}

// NewArtifacts prepares lazy loaders for the two artifact files.
func NewArtifacts(transformerPath, modelPath string) *Artifacts {
	a := &Artifacts{TransformerPath: transformerPath, ModelPath: modelPath}
	a.transformer = utils.NewLazy(func() (*Transformer, error) { return LoadTransformer(transformerPath) })
	a.model = utils.NewLazy(func() (Model, error) { return LoadModel(modelPath) })
	a.pipeline = utils.NewLazy(func() (*Pipeline, error) {
		t, err := a.transformer.Get()
		if err != nil {
			return nil, err
		}
		m, err := a.model.Get()
		if err != nil {
			return nil, err
		}
		p, err := NewPipeline(t, m)
		if err != nil {
			return nil, &ArtifactError{Artifact: "model", Path: modelPath, Err: err}
		}
		return p, nil
	})
	return a
}

// Transformer returns the cached transformer.
func (a *Artifacts) Transformer() (*Transformer, error) { return a.transformer.Get() }

// Model returns the cached model.
func (a *Artifacts) Model() (Model, error) { return a.model.Get() }

// Pipeline returns the cached, width-checked pipeline.
func (a *Artifacts) Pipeline() (*Pipeline, error) { return a.pipeline.Get() }
