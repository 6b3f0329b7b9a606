package aggregator

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"phonolab/domain/core"
	"phonolab/domain/ensemble"
)

// Aggregator reduces a set of individual scores belonging to one ensemble
// into descriptive, decision-relevant statistics. All methods are pure
// functions over their inputs; an Aggregator holds only configuration and
// is safe for concurrent use.
type Aggregator struct {
	coherenceBands []Band
	synergyBands   []Band
	contrastBands  []Band
	influenceTiers []InfluenceTierBand
	roleWeights    map[string]float64
	defaultWeight  float64
}

// Option configures an Aggregator
type Option func(*Aggregator)

// WithRoleWeights sets the role-to-weight lookup used by WeightFor
func WithRoleWeights(weights map[string]float64, fallback float64) Option {
	return func(a *Aggregator) {
		a.roleWeights = weights
		a.defaultWeight = fallback
	}
}

// WithCoherenceBands overrides the default variance bucket table
func WithCoherenceBands(bands []Band) Option {
	return func(a *Aggregator) { a.coherenceBands = bands }
}

// New creates an aggregator with the default policy tables
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		coherenceBands: defaultCoherenceBands,
		synergyBands:   defaultSynergyBands,
		contrastBands:  defaultContrastBands,
		influenceTiers: defaultInfluenceTiers,
		roleWeights:    map[string]float64{},
		defaultWeight:  1.0,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// minCoherenceMembers is the floor below which a variance estimate is
// not meaningful for coherence classification.
const minCoherenceMembers = 3

// Coherence reduces N member scores into ensemble metrics. Requires N >= 3;
// below that the variance estimate is unsupported and the call fails with
// an insufficient-data error. Output depends only on the multiset of
// scores, never their order.
func (a *Aggregator) Coherence(scores []float64) (ensemble.Metrics, error) {
	if len(scores) < minCoherenceMembers {
		return ensemble.Metrics{}, core.NewInsufficientDataError("coherence", minCoherenceMembers, len(scores))
	}
	if err := checkFinite("coherence", scores); err != nil {
		return ensemble.Metrics{}, err
	}

	mean, _ := stats.Mean(scores)
	variance, _ := stats.PopulationVariance(scores)
	band := classify(variance, a.coherenceBands)

	score := 100 - coherenceScoreSlope*variance
	if score < 0 {
		score = 0
	} else if score > 100 {
		score = 100
	}

	return ensemble.Metrics{
		Mean:           mean,
		Variance:       variance,
		StdDev:         math.Sqrt(variance),
		CoherenceScore: score,
		CoherenceLabel: ensemble.CoherenceLabel(band.Label),
		Multiplier:     band.Multiplier,
		SampleSize:     len(scores),
	}, nil
}

// KeyMemberInfluence measures how far a key member's score pulls the
// ensemble. The weight is supplied per role/category; use WeightFor for
// the configured lookup.
func (a *Aggregator) KeyMemberInfluence(keyScore, ensembleMean, weight float64) (ensemble.InfluenceReport, error) {
	if err := checkFinite("key_member_influence", []float64{keyScore, ensembleMean, weight}); err != nil {
		return ensemble.InfluenceReport{}, err
	}

	differential := keyScore - ensembleMean
	influence := differential * weight
	tier := classifyInfluence(influence, a.influenceTiers)

	return ensemble.InfluenceReport{
		Differential:       differential,
		InfluenceScore:     influence,
		Classification:     tier.Tier,
		EnsembleMultiplier: tier.Multiplier,
	}, nil
}

// WeightFor returns the configured weight for a role, falling back to the
// default when the role is unknown.
func (a *Aggregator) WeightFor(role string) float64 {
	if w, ok := a.roleWeights[role]; ok {
		return w
	}
	return a.defaultWeight
}

// SubgroupSynergy evaluates each named subgroup (positional unit, sector)
// independently. Groups with fewer than two members are skipped, not
// errored; the overall multiplier is the arithmetic mean across the
// reported groups.
func (a *Aggregator) SubgroupSynergy(groups map[string][]float64) (ensemble.SynergyReport, error) {
	report := ensemble.SynergyReport{Groups: make(map[string]ensemble.GroupSynergy)}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	sum := 0.0
	for _, name := range names {
		scores := groups[name]
		if len(scores) < 2 {
			continue
		}
		if err := checkFinite("subgroup_synergy", scores); err != nil {
			return ensemble.SynergyReport{}, err
		}

		mean, _ := stats.Mean(scores)
		variance, _ := stats.PopulationVariance(scores)
		band := classify(variance, a.synergyBands)

		report.Groups[name] = ensemble.GroupSynergy{
			Mean:         mean,
			Variance:     variance,
			SynergyLabel: band.Label,
			Multiplier:   band.Multiplier,
			Size:         len(scores),
		}
		sum += band.Multiplier
	}

	if n := len(report.Groups); n > 0 {
		report.OverallMultiplier = sum / float64(n)
	} else {
		report.OverallMultiplier = 1.0
	}
	return report, nil
}

// PairwiseContrast evaluates a head-to-head matchup between two profile
// scores. Input handling is symmetric: swapping a and b negates the
// differential and swaps the advantage side while preserving the
// magnitude-derived classification and multiplier.
func (a *Aggregator) PairwiseContrast(profileA, profileB float64) (ensemble.ContrastReport, error) {
	if err := checkFinite("pairwise_contrast", []float64{profileA, profileB}); err != nil {
		return ensemble.ContrastReport{}, err
	}

	differential := profileA - profileB
	band := classify(math.Abs(differential), a.contrastBands)

	side := ensemble.SideNone
	if differential > 0 {
		side = ensemble.SideA
	} else if differential < 0 {
		side = ensemble.SideB
	}

	return ensemble.ContrastReport{
		Differential:          differential,
		MatchupClassification: band.Label,
		AdvantageSide:         side,
		Multiplier:            band.Multiplier,
	}, nil
}

// checkFinite rejects NaN and Inf values
func checkFinite(op string, values []float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return core.NewInvalidInputError(op, "non-finite value")
		}
	}
	return nil
}
