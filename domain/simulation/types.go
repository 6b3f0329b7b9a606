package simulation

import (
	"phonolab/domain/core"
)

// PercentileBands are the ordered resampled distribution percentiles.
// INVARIANT: P5 <= P25 <= Median <= P75 <= P95 for every run.
type PercentileBands struct {
	P5     float64 `json:"p5"`
	P25    float64 `json:"p25"`
	Median float64 `json:"median"`
	P75    float64 `json:"p75"`
	P95    float64 `json:"p95"`
}

// ThresholdProbability is the fraction of trials exceeding one threshold
type ThresholdProbability struct {
	Threshold   float64 `json:"threshold"`
	Probability float64 `json:"probability"`
}

// Result is the immutable output of one Monte Carlo run for one entity.
// Independent per invocation and per random seed.
type Result struct {
	ID            core.RunID             `json:"id"`
	PointEstimate float64                `json:"point_estimate"`
	Volatility    float64                `json:"volatility"`
	Trials        int                    `json:"trials"`
	Mean          float64                `json:"mean"`
	StdDev        float64                `json:"std_dev"`
	Min           float64                `json:"min"`
	Max           float64                `json:"max"`
	Percentiles   PercentileBands        `json:"percentiles"`
	Thresholds    []ThresholdProbability `json:"thresholds"`
	VaR95         float64                `json:"var_95"` // 5th percentile downside
	VaR99         float64                `json:"var_99"` // 1st percentile downside
	CreatedAt     core.Timestamp         `json:"created_at"`
}

// ConfidenceQualifier is a coarse three-level bucket derived from how the
// mean difference compares to the pooled standard deviation. It is a
// heuristic, not a statistically calibrated p-value.
type ConfidenceQualifier string

const (
	QualifierStrong   ConfidenceQualifier = "STRONG"
	QualifierModerate ConfidenceQualifier = "MODERATE"
	QualifierTossUp   ConfidenceQualifier = "TOSS_UP"
)

// Comparison is the outcome of resampling two estimates head to head.
// WinProbability is a normal-approximation heuristic for how often the
// winner's draw exceeds the loser's, not a hypothesis test.
type Comparison struct {
	Winner         string              `json:"winner"` // "A", "B" or "TIE"
	Margin         float64             `json:"margin"`
	Qualifier      ConfidenceQualifier `json:"confidence_qualifier"`
	WinProbability float64             `json:"win_probability"`
	MeanA          float64             `json:"mean_a"`
	MeanB          float64             `json:"mean_b"`
	PooledStdDev   float64             `json:"pooled_std_dev"`
}

// Estimate is one named point prediction submitted for ranking
type Estimate struct {
	Name          string  `json:"name"`
	PointEstimate float64 `json:"point_estimate"`
	Volatility    float64 `json:"volatility"`
}

// RankedEstimate is one entry of a ranking, ordered by descending
// resampled mean with ties broken by stable input order.
type RankedEstimate struct {
	Rank          int     `json:"rank"`
	Name          string  `json:"name"`
	PointEstimate float64 `json:"point_estimate"`
	Mean          float64 `json:"mean"`
	StdDev        float64 `json:"std_dev"`
}
