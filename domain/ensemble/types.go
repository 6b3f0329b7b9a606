package ensemble

import (
	"math"

	"phonolab/domain/core"
)

// FeatureVector is an ordered, fixed-length tuple of named numeric scalars
// describing one entity. It is immutable once produced.
// INVARIANTS:
// - len(Names) == len(Values)
// - every value is finite (no NaN/Inf)
type FeatureVector struct {
	Names  []string  `json:"names"`
	Values []float64 `json:"values"`
}

// NewFeatureVector creates a feature vector with validation
func NewFeatureVector(names []string, values []float64) (FeatureVector, error) {
	if len(names) != len(values) {
		return FeatureVector{}, core.NewInvalidInputError("feature_vector",
			"names and values must have the same length")
	}
	if len(values) == 0 {
		return FeatureVector{}, core.NewInvalidInputError("feature_vector", "empty vector")
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return FeatureVector{}, core.NewInvalidInputError("feature_vector",
				"non-finite value for "+names[i])
		}
	}
	return FeatureVector{Names: names, Values: values}, nil
}

// Len returns the number of features
func (fv FeatureVector) Len() int { return len(fv.Values) }

// Get returns a named feature value
func (fv FeatureVector) Get(name string) (float64, bool) {
	for i, n := range fv.Names {
		if n == name {
			return fv.Values[i], true
		}
	}
	return 0, false
}

// Entity is anything with a name, an overall score and a feature vector -
// a player, a portfolio member, a country.
type Entity struct {
	Key      core.EntityKey `json:"key"`
	Name     string         `json:"name"`
	Score    float64        `json:"score"`
	Features FeatureVector  `json:"features,omitempty"`
}

// Ensemble is an ordered collection of entities sharing a context
// (a roster, a portfolio, a time window).
type Ensemble struct {
	Name    string   `json:"name"`
	Members []Entity `json:"members"`
}

// Scores returns the member scores in input order
func (e Ensemble) Scores() []float64 {
	scores := make([]float64, len(e.Members))
	for i, m := range e.Members {
		scores[i] = m.Score
	}
	return scores
}

// CoherenceLabel classifies how similar an ensemble's member scores are
type CoherenceLabel string

const (
	CoherenceHigh     CoherenceLabel = "HIGH"
	CoherenceModerate CoherenceLabel = "MODERATE"
	CoherenceLow      CoherenceLabel = "LOW"
	CoherenceChaotic  CoherenceLabel = "CHAOTIC"
)

// Metrics contains ensemble statistics derived on demand from current
// membership. Never persisted independently; always a pure function of
// the member scores.
type Metrics struct {
	Mean           float64        `json:"mean"`
	Variance       float64        `json:"variance"`
	StdDev         float64        `json:"std_dev"`
	CoherenceScore float64        `json:"coherence_score"` // bounded inverse of variance, [0,100]
	CoherenceLabel CoherenceLabel `json:"coherence_label"`
	Multiplier     float64        `json:"multiplier"`
	SampleSize     int            `json:"sample_size"`
}

// InfluenceTier classifies a key member's pull on the ensemble
type InfluenceTier string

const (
	TierDominantPositive InfluenceTier = "DOMINANT_POSITIVE"
	TierStrongPositive   InfluenceTier = "STRONG_POSITIVE"
	TierModeratePositive InfluenceTier = "MODERATE_POSITIVE"
	TierNeutral          InfluenceTier = "NEUTRAL"
	TierModerateNegative InfluenceTier = "MODERATE_NEGATIVE"
	TierStrongNegative   InfluenceTier = "STRONG_NEGATIVE"
	TierDominantNegative InfluenceTier = "DOMINANT_NEGATIVE"
)

// InfluenceReport measures how far a key member sits from the ensemble mean
type InfluenceReport struct {
	Differential       float64       `json:"differential"`
	InfluenceScore     float64       `json:"influence_score"`
	Classification     InfluenceTier `json:"classification"`
	EnsembleMultiplier float64       `json:"ensemble_multiplier"`
}

// GroupSynergy holds per-subgroup aggregate statistics
type GroupSynergy struct {
	Mean         float64 `json:"mean"`
	Variance     float64 `json:"variance"`
	SynergyLabel string  `json:"synergy_label"`
	Multiplier   float64 `json:"multiplier"`
	Size         int     `json:"size"`
}

// SynergyReport aggregates subgroup statistics across an ensemble.
// Groups with fewer than two members are skipped, not reported.
type SynergyReport struct {
	Groups            map[string]GroupSynergy `json:"groups"`
	OverallMultiplier float64                 `json:"overall_multiplier"`
}

// Side identifies which profile holds the advantage in a pairwise contrast
type Side string

const (
	SideA    Side = "A"
	SideB    Side = "B"
	SideNone Side = "NONE"
)

// ContrastReport is the output of a pairwise matchup evaluation.
// Swapping the inputs negates Differential and swaps AdvantageSide while
// preserving the magnitude-derived classification and multiplier.
type ContrastReport struct {
	Differential          float64 `json:"differential"`
	MatchupClassification string  `json:"matchup_classification"`
	AdvantageSide         Side    `json:"advantage_side"`
	Multiplier            float64 `json:"multiplier"`
}
