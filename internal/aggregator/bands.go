package aggregator

import (
	"math"

	"phonolab/domain/ensemble"
)

// Band maps a half-open value range to a label and its downstream multiplier.
// Tables are evaluated in order; a value belongs to the first band whose
// Upper bound it is strictly below. The final band's Upper is +Inf.
type Band struct {
	Upper      float64
	Label      string
	Multiplier float64
}

// classify returns the first band containing value
func classify(value float64, bands []Band) Band {
	for _, b := range bands {
		if value < b.Upper {
			return b
		}
	}
	return bands[len(bands)-1]
}

// Coherence bands bucket an ensemble's score variance. The thresholds and
// multipliers are policy configuration, not derived constants: a roster
// whose scores sit within a few points of each other earns a boost, a
// scattered one a penalty. Multipliers are monotonically non-increasing
// as variance grows.
var defaultCoherenceBands = []Band{
	{Upper: 10, Label: string(ensemble.CoherenceHigh), Multiplier: 1.15},
	{Upper: 50, Label: string(ensemble.CoherenceModerate), Multiplier: 1.05},
	{Upper: 150, Label: string(ensemble.CoherenceLow), Multiplier: 0.95},
	{Upper: math.Inf(1), Label: string(ensemble.CoherenceChaotic), Multiplier: 0.80},
}

// Synergy bands bucket per-subgroup variance (positional units, sectors)
var defaultSynergyBands = []Band{
	{Upper: 15, Label: "TIGHT", Multiplier: 1.10},
	{Upper: 60, Label: "ALIGNED", Multiplier: 1.04},
	{Upper: 180, Label: "MIXED", Multiplier: 0.97},
	{Upper: math.Inf(1), Label: "FRACTURED", Multiplier: 0.85},
}

// Contrast bands bucket the absolute score differential of a matchup
var defaultContrastBands = []Band{
	{Upper: 3, Label: "EVEN_MATCH", Multiplier: 1.00},
	{Upper: 10, Label: "SLIGHT_EDGE", Multiplier: 1.04},
	{Upper: 25, Label: "CLEAR_EDGE", Multiplier: 1.12},
	{Upper: math.Inf(1), Label: "DECISIVE_EDGE", Multiplier: 1.25},
}

// InfluenceTierBand maps an influence-score lower bound (inclusive) to a
// tier and multiplier. The table is symmetric around zero.
type InfluenceTierBand struct {
	Lower      float64
	Tier       ensemble.InfluenceTier
	Multiplier float64
}

var defaultInfluenceTiers = []InfluenceTierBand{
	{Lower: 50, Tier: ensemble.TierDominantPositive, Multiplier: 1.20},
	{Lower: 20, Tier: ensemble.TierStrongPositive, Multiplier: 1.12},
	{Lower: 5, Tier: ensemble.TierModeratePositive, Multiplier: 1.05},
	{Lower: -5, Tier: ensemble.TierNeutral, Multiplier: 1.00},
	{Lower: -20, Tier: ensemble.TierModerateNegative, Multiplier: 0.95},
	{Lower: -50, Tier: ensemble.TierStrongNegative, Multiplier: 0.88},
	{Lower: math.Inf(-1), Tier: ensemble.TierDominantNegative, Multiplier: 0.80},
}

// classifyInfluence returns the first tier whose lower bound the score meets
func classifyInfluence(score float64, tiers []InfluenceTierBand) InfluenceTierBand {
	for _, t := range tiers {
		if score >= t.Lower {
			return t
		}
	}
	return tiers[len(tiers)-1]
}

// coherenceScoreSlope converts variance into the [0,100] coherence score:
// score = 100 - slope*variance, clamped.
const coherenceScoreSlope = 0.25
