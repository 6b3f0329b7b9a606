package ports

import (
	"context"

	"phonolab/domain/verdict"
)

// FittedModel is the read-only view of a trained classifier that an
// explainer needs: feature names, coefficients and a way to score samples.
type FittedModel interface {
	FeatureNames() []string
	Coefficients() []float64
	Predict(features []float64) (class int, probability float64)
}

// FeatureExplainer ranks features by how much they drive a fitted model's
// predictions. Implementations are selected at construction time, never
// via import-time availability flags.
type FeatureExplainer interface {
	Name() string
	Explain(ctx context.Context, model FittedModel, samples []verdict.LabeledSample) ([]verdict.FeatureImportance, error)
}
