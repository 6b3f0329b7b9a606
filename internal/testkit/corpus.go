// Package testkit provides seeded synthetic fixtures for tests. The
// generated corpora are deliberately separable so harness tests can
// assert on verdict direction without depending on a real dataset.
package testkit

import (
	"fmt"
	"math/rand"

	"phonolab/domain/verdict"
)

// PhoneticSchema is the feature schema used across fixtures
var PhoneticSchema = []string{
	"variance",
	"mean_melodiousness",
	"optimization_score",
	"mean_commonality",
	"commonality_variance",
	"repetition_rate",
}

// SeparableCorpus generates n labeled samples in two gaussian clusters
// whose means sit `gap` standard deviations apart. gap >= 2 yields a
// corpus a linear model separates almost perfectly; gap = 0 yields pure
// noise.
func SeparableCorpus(n int, gap float64, seed int64) []verdict.LabeledSample {
	rng := rand.New(rand.NewSource(seed))
	samples := make([]verdict.LabeledSample, n)

	for i := range samples {
		label := i % 2
		shift := 0.0
		if label == 1 {
			shift = gap
		}

		features := make([]float64, len(PhoneticSchema))
		for j := range features {
			features[j] = rng.NormFloat64() + shift
		}

		samples[i] = verdict.LabeledSample{
			Name:     fmt.Sprintf("entity-%03d", i),
			Features: features,
			Label:    label,
		}
	}
	return samples
}

// NoiseCorpus generates n samples whose labels are independent of the
// features. Any model should score near chance on it.
func NoiseCorpus(n int, seed int64) []verdict.LabeledSample {
	return SeparableCorpus(n, 0, seed)
}

// RosterScores returns a deterministic set of member scores around a mean
// with the given spread, for aggregator fixtures.
func RosterScores(n int, mean, spread float64, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	scores := make([]float64, n)
	for i := range scores {
		scores[i] = mean + spread*rng.NormFloat64()
	}
	return scores
}
