package aggregator

import (
	"math"
	"testing"

	"phonolab/domain/core"
	"phonolab/domain/ensemble"
	"phonolab/internal/testkit"
)

// TestCoherence_TightRoster verifies a near-uniform score set lands in
// the highest band with a boosting multiplier.
func TestCoherence_TightRoster(t *testing.T) {
	agg := New()

	metrics, err := agg.Coherence([]float64{72, 75, 73, 71, 74})
	if err != nil {
		t.Fatalf("Coherence failed: %v", err)
	}

	if metrics.CoherenceLabel != ensemble.CoherenceHigh {
		t.Errorf("Expected HIGH coherence, got %s (variance %.2f)", metrics.CoherenceLabel, metrics.Variance)
	}
	if metrics.Multiplier <= 1.0 {
		t.Errorf("Expected boosting multiplier for tight roster, got %.2f", metrics.Multiplier)
	}
	if metrics.Mean != 73 {
		t.Errorf("Expected mean 73, got %.4f", metrics.Mean)
	}
	if metrics.SampleSize != 5 {
		t.Errorf("Expected sample size 5, got %d", metrics.SampleSize)
	}
}

// TestCoherence_ScatteredRoster verifies widely spread scores are
// classified chaotic with a penalizing multiplier.
func TestCoherence_ScatteredRoster(t *testing.T) {
	agg := New()

	metrics, err := agg.Coherence([]float64{85, 45, 72, 38, 91})
	if err != nil {
		t.Fatalf("Coherence failed: %v", err)
	}

	if metrics.CoherenceLabel != ensemble.CoherenceChaotic {
		t.Errorf("Expected CHAOTIC coherence, got %s (variance %.2f)", metrics.CoherenceLabel, metrics.Variance)
	}
	if metrics.Multiplier >= 1.0 {
		t.Errorf("Expected penalizing multiplier for scattered roster, got %.2f", metrics.Multiplier)
	}
}

// TestCoherence_IdenticalScores verifies zero variance yields the top
// coherence score.
func TestCoherence_IdenticalScores(t *testing.T) {
	agg := New()

	metrics, err := agg.Coherence([]float64{80, 80, 80, 80})
	if err != nil {
		t.Fatalf("Coherence failed: %v", err)
	}

	if metrics.Variance != 0 {
		t.Errorf("Expected zero variance, got %.6f", metrics.Variance)
	}
	if metrics.CoherenceScore != 100 {
		t.Errorf("Expected coherence score 100, got %.2f", metrics.CoherenceScore)
	}
	if metrics.CoherenceLabel != ensemble.CoherenceHigh {
		t.Errorf("Expected HIGH coherence, got %s", metrics.CoherenceLabel)
	}
}

// TestCoherence_OrderIndependence verifies permuting the input leaves
// every output field unchanged.
func TestCoherence_OrderIndependence(t *testing.T) {
	agg := New()
	original := []float64{61, 88, 70, 79, 55, 92}
	permuted := []float64{92, 55, 79, 70, 88, 61}

	a, err := agg.Coherence(original)
	if err != nil {
		t.Fatalf("Coherence failed: %v", err)
	}
	b, err := agg.Coherence(permuted)
	if err != nil {
		t.Fatalf("Coherence failed: %v", err)
	}

	if a != b {
		t.Errorf("Coherence depends on member order:\n  %+v\n  %+v", a, b)
	}
}

// TestCoherence_TooFewMembers verifies N < 3 is rejected as
// insufficient data.
func TestCoherence_TooFewMembers(t *testing.T) {
	agg := New()

	_, err := agg.Coherence([]float64{70, 75})
	if err == nil {
		t.Fatal("Expected error for 2 members")
	}
	if !core.IsInsufficientData(err) {
		t.Errorf("Expected insufficient-data error, got %v", err)
	}
}

// TestCoherence_NonFiniteScore verifies NaN input is rejected
func TestCoherence_NonFiniteScore(t *testing.T) {
	agg := New()

	_, err := agg.Coherence([]float64{70, math.NaN(), 75})
	if err == nil {
		t.Fatal("Expected error for NaN score")
	}
	if !core.IsInvalidArgument(err) {
		t.Errorf("Expected invalid-argument error, got %v", err)
	}
}

// TestCoherence_ScoreClampedAtZero verifies huge variance cannot push
// the coherence score negative.
func TestCoherence_ScoreClampedAtZero(t *testing.T) {
	agg := New()

	metrics, err := agg.Coherence([]float64{0, 500, 1000})
	if err != nil {
		t.Fatalf("Coherence failed: %v", err)
	}
	if metrics.CoherenceScore != 0 {
		t.Errorf("Expected coherence score clamped to 0, got %.2f", metrics.CoherenceScore)
	}
}

// TestKeyMemberInfluence_DominantStar reproduces the elite-member case:
// a key score of 88 against a mean of 65 at weight 3.0.
func TestKeyMemberInfluence_DominantStar(t *testing.T) {
	agg := New()

	report, err := agg.KeyMemberInfluence(88, 65, 3.0)
	if err != nil {
		t.Fatalf("KeyMemberInfluence failed: %v", err)
	}

	if report.Differential != 23 {
		t.Errorf("Expected differential 23, got %.2f", report.Differential)
	}
	if report.InfluenceScore != 69 {
		t.Errorf("Expected influence score 69, got %.2f", report.InfluenceScore)
	}
	if report.Classification != ensemble.TierDominantPositive {
		t.Errorf("Expected DOMINANT_POSITIVE, got %s", report.Classification)
	}
	if report.EnsembleMultiplier <= 1.0 {
		t.Errorf("Expected boosting multiplier, got %.2f", report.EnsembleMultiplier)
	}
}

// TestKeyMemberInfluence_Tiers walks the tier table in both directions
func TestKeyMemberInfluence_Tiers(t *testing.T) {
	agg := New()

	cases := []struct {
		name      string
		keyScore  float64
		mean      float64
		weight    float64
		wantTier  ensemble.InfluenceTier
		direction int // -1 penalty, 0 neutral, +1 boost
	}{
		{"dead average", 70, 70, 2.0, ensemble.TierNeutral, 0},
		{"slightly above", 74, 70, 2.0, ensemble.TierModeratePositive, 1},
		{"well above", 85, 70, 2.0, ensemble.TierStrongPositive, 1},
		{"slightly below", 66, 70, 2.0, ensemble.TierModerateNegative, -1},
		{"well below", 55, 70, 2.0, ensemble.TierStrongNegative, -1},
		{"liability", 30, 70, 2.0, ensemble.TierDominantNegative, -1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			report, err := agg.KeyMemberInfluence(tc.keyScore, tc.mean, tc.weight)
			if err != nil {
				t.Fatalf("KeyMemberInfluence failed: %v", err)
			}
			if report.Classification != tc.wantTier {
				t.Errorf("Expected %s, got %s (influence %.2f)",
					tc.wantTier, report.Classification, report.InfluenceScore)
			}
			switch tc.direction {
			case 1:
				if report.EnsembleMultiplier <= 1.0 {
					t.Errorf("Expected multiplier > 1.0, got %.2f", report.EnsembleMultiplier)
				}
			case -1:
				if report.EnsembleMultiplier >= 1.0 {
					t.Errorf("Expected multiplier < 1.0, got %.2f", report.EnsembleMultiplier)
				}
			default:
				if report.EnsembleMultiplier != 1.0 {
					t.Errorf("Expected multiplier 1.0, got %.2f", report.EnsembleMultiplier)
				}
			}
		})
	}
}

// TestWeightFor verifies role lookup with fallback
func TestWeightFor(t *testing.T) {
	agg := New(WithRoleWeights(map[string]float64{"quarterback": 3.0, "kicker": 0.5}, 1.0))

	if w := agg.WeightFor("quarterback"); w != 3.0 {
		t.Errorf("Expected 3.0 for quarterback, got %.2f", w)
	}
	if w := agg.WeightFor("linebacker"); w != 1.0 {
		t.Errorf("Expected default 1.0 for unknown role, got %.2f", w)
	}
}

// TestSubgroupSynergy_MixedGroups verifies per-group classification,
// small-group skipping and the overall multiplier average.
func TestSubgroupSynergy_MixedGroups(t *testing.T) {
	agg := New()

	report, err := agg.SubgroupSynergy(map[string][]float64{
		"offense":  {78, 80, 79, 81},  // tight
		"defense":  {40, 95, 60, 20},  // fractured
		"specials": {77},              // skipped, below two members
	})
	if err != nil {
		t.Fatalf("SubgroupSynergy failed: %v", err)
	}

	if len(report.Groups) != 2 {
		t.Fatalf("Expected 2 reported groups, got %d", len(report.Groups))
	}
	if _, ok := report.Groups["specials"]; ok {
		t.Error("Single-member group should be skipped")
	}

	offense := report.Groups["offense"]
	if offense.SynergyLabel != "TIGHT" {
		t.Errorf("Expected TIGHT offense, got %s (variance %.2f)", offense.SynergyLabel, offense.Variance)
	}
	defense := report.Groups["defense"]
	if defense.SynergyLabel != "FRACTURED" {
		t.Errorf("Expected FRACTURED defense, got %s (variance %.2f)", defense.SynergyLabel, defense.Variance)
	}

	want := (offense.Multiplier + defense.Multiplier) / 2
	if math.Abs(report.OverallMultiplier-want) > 1e-12 {
		t.Errorf("Expected overall multiplier %.4f, got %.4f", want, report.OverallMultiplier)
	}
}

// TestSubgroupSynergy_NoReportableGroups verifies the neutral default
func TestSubgroupSynergy_NoReportableGroups(t *testing.T) {
	agg := New()

	report, err := agg.SubgroupSynergy(map[string][]float64{"solo": {88}})
	if err != nil {
		t.Fatalf("SubgroupSynergy failed: %v", err)
	}
	if report.OverallMultiplier != 1.0 {
		t.Errorf("Expected neutral overall multiplier, got %.2f", report.OverallMultiplier)
	}
	if len(report.Groups) != 0 {
		t.Errorf("Expected no groups, got %d", len(report.Groups))
	}
}

// TestPairwiseContrast_Symmetry verifies swapping the profiles negates
// the differential and flips the side while keeping classification and
// multiplier identical.
func TestPairwiseContrast_Symmetry(t *testing.T) {
	agg := New()

	ab, err := agg.PairwiseContrast(82, 67)
	if err != nil {
		t.Fatalf("PairwiseContrast failed: %v", err)
	}
	ba, err := agg.PairwiseContrast(67, 82)
	if err != nil {
		t.Fatalf("PairwiseContrast failed: %v", err)
	}

	if ab.Differential != -ba.Differential {
		t.Errorf("Differential not negated: %.2f vs %.2f", ab.Differential, ba.Differential)
	}
	if ab.AdvantageSide != ensemble.SideA || ba.AdvantageSide != ensemble.SideB {
		t.Errorf("Sides not swapped: %s vs %s", ab.AdvantageSide, ba.AdvantageSide)
	}
	if ab.MatchupClassification != ba.MatchupClassification {
		t.Errorf("Classification changed under swap: %s vs %s",
			ab.MatchupClassification, ba.MatchupClassification)
	}
	if ab.Multiplier != ba.Multiplier {
		t.Errorf("Multiplier changed under swap: %.2f vs %.2f", ab.Multiplier, ba.Multiplier)
	}
}

// TestPairwiseContrast_Bands walks the differential buckets
func TestPairwiseContrast_Bands(t *testing.T) {
	agg := New()

	cases := []struct {
		a, b     float64
		wantCls  string
		wantSide ensemble.Side
	}{
		{70, 70, "EVEN_MATCH", ensemble.SideNone},
		{71, 70, "EVEN_MATCH", ensemble.SideA},
		{70, 65, "SLIGHT_EDGE", ensemble.SideA},
		{70, 55, "CLEAR_EDGE", ensemble.SideA},
		{40, 90, "DECISIVE_EDGE", ensemble.SideB},
	}

	for _, tc := range cases {
		report, err := agg.PairwiseContrast(tc.a, tc.b)
		if err != nil {
			t.Fatalf("PairwiseContrast(%.0f, %.0f) failed: %v", tc.a, tc.b, err)
		}
		if report.MatchupClassification != tc.wantCls {
			t.Errorf("PairwiseContrast(%.0f, %.0f): expected %s, got %s",
				tc.a, tc.b, tc.wantCls, report.MatchupClassification)
		}
		if report.AdvantageSide != tc.wantSide {
			t.Errorf("PairwiseContrast(%.0f, %.0f): expected side %s, got %s",
				tc.a, tc.b, tc.wantSide, report.AdvantageSide)
		}
	}
}

// TestCoherence_GeneratedRoster verifies a seeded low-spread fixture
// classifies HIGH.
func TestCoherence_GeneratedRoster(t *testing.T) {
	agg := New()
	scores := testkit.RosterScores(8, 75, 1.0, 3)

	metrics, err := agg.Coherence(scores)
	if err != nil {
		t.Fatalf("Coherence failed: %v", err)
	}
	if metrics.CoherenceLabel != ensemble.CoherenceHigh {
		t.Errorf("Spread-1 roster should be HIGH, got %s (variance %.2f)",
			metrics.CoherenceLabel, metrics.Variance)
	}
	if math.Abs(metrics.Mean-75) > 2 {
		t.Errorf("Mean drifted from the fixture center: %.2f", metrics.Mean)
	}
}

// TestCoherenceBands_Monotonic verifies multipliers never increase as
// variance grows.
func TestCoherenceBands_Monotonic(t *testing.T) {
	prev := math.Inf(1)
	for _, band := range defaultCoherenceBands {
		if band.Multiplier > prev {
			t.Errorf("Band %s breaks monotonicity: %.2f > %.2f", band.Label, band.Multiplier, prev)
		}
		prev = band.Multiplier
	}
}
