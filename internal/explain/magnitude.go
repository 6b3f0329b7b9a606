package explain

import (
	"context"
	"math"
	"sort"

	"phonolab/domain/verdict"
	"phonolab/ports"
)

// MagnitudeExplainer is the fallback variant: it ranks features by the
// absolute value of the fitted model's coefficients and needs no
// resampling.
type MagnitudeExplainer struct{}

// NewMagnitude creates the coefficient-magnitude explainer
func NewMagnitude() *MagnitudeExplainer {
	return &MagnitudeExplainer{}
}

// Name identifies the explainer variant
func (m *MagnitudeExplainer) Name() string { return "coefficient_magnitude" }

// Explain ranks features by |coefficient| on the standardized scale
func (m *MagnitudeExplainer) Explain(ctx context.Context, model ports.FittedModel, samples []verdict.LabeledSample) ([]verdict.FeatureImportance, error) {
	names := model.FeatureNames()
	coefs := model.Coefficients()

	ranked := make([]verdict.FeatureImportance, len(names))
	for i := range names {
		ranked[i] = verdict.FeatureImportance{Feature: names[i], Weight: coefs[i]}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return math.Abs(ranked[i].Weight) > math.Abs(ranked[j].Weight)
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked, nil
}

var _ ports.FeatureExplainer = (*MagnitudeExplainer)(nil)
