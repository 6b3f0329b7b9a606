package explain

import (
	"context"
	"sort"

	"phonolab/domain/verdict"
	"phonolab/ports"
)

// PermutationExplainer is the precise variant: it shuffles one feature
// column at a time and measures how far the model's accuracy falls.
// Features whose permutation hurts most rank highest. More expensive than
// coefficient magnitude but captures each feature's actual leverage on
// predictions.
type PermutationExplainer struct {
	rng    ports.RNG
	seed   int64
	rounds int
}

// NewPermutation creates a permutation-importance explainer. Rounds is
// the number of shuffles averaged per feature; values below 1 fall back
// to 5.
func NewPermutation(rng ports.RNG, seed int64, rounds int) *PermutationExplainer {
	if rounds < 1 {
		rounds = 5
	}
	return &PermutationExplainer{rng: rng, seed: seed, rounds: rounds}
}

// Name identifies the explainer variant
func (p *PermutationExplainer) Name() string { return "permutation_importance" }

// Explain computes the mean accuracy drop per shuffled feature
func (p *PermutationExplainer) Explain(ctx context.Context, model ports.FittedModel, samples []verdict.LabeledSample) ([]verdict.FeatureImportance, error) {
	names := model.FeatureNames()
	baseline := accuracy(model, samples)

	rng, err := p.rng.SeededStream(ctx, "permutation_importance", p.seed)
	if err != nil {
		return nil, err
	}

	ranked := make([]verdict.FeatureImportance, len(names))
	column := make([]float64, len(samples))
	shuffled := make([]verdict.LabeledSample, len(samples))

	for j := range names {
		totalDrop := 0.0
		for round := 0; round < p.rounds; round++ {
			for i, s := range samples {
				column[i] = s.Features[j]
			}
			rng.Shuffle(len(column), func(a, b int) {
				column[a], column[b] = column[b], column[a]
			})

			for i, s := range samples {
				row := make([]float64, len(s.Features))
				copy(row, s.Features)
				row[j] = column[i]
				shuffled[i] = verdict.LabeledSample{Name: s.Name, Features: row, Label: s.Label}
			}
			totalDrop += baseline - accuracy(model, shuffled)
		}
		ranked[j] = verdict.FeatureImportance{
			Feature: names[j],
			Weight:  totalDrop / float64(p.rounds),
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Weight > ranked[j].Weight })
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked, nil
}

// accuracy scores the model over a sample set
func accuracy(model ports.FittedModel, samples []verdict.LabeledSample) float64 {
	if len(samples) == 0 {
		return 0
	}
	correct := 0
	for _, s := range samples {
		if class, _ := model.Predict(s.Features); class == s.Label {
			correct++
		}
	}
	return float64(correct) / float64(len(samples))
}

var _ ports.FeatureExplainer = (*PermutationExplainer)(nil)
