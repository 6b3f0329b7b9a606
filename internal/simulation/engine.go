package simulation

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/distuv"

	"phonolab/domain/core"
	"phonolab/domain/simulation"
	"phonolab/ports"
)

// DefaultDispersionFloor is the minimum standard deviation of the
// resampled distribution. It prevents a degenerate zero-width
// distribution when the point estimate is zero.
const DefaultDispersionFloor = 1.0

// DefaultThresholds are the crossing levels reported when the caller
// supplies none.
var DefaultThresholds = []float64{0, 50, 100}

// Engine converts a point estimate plus an assumed volatility into a
// resampled outcome distribution and derived risk figures. Pure numeric
// resampling; no I/O.
type Engine struct {
	rng      ports.RNG
	floor    float64
	baseSeed int64 // 0 means nondeterministic draws per run
}

// Option configures an Engine
type Option func(*Engine)

// WithSeed makes every run reproducible from the given base seed
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.baseSeed = seed }
}

// WithDispersionFloor overrides the minimum dispersion
func WithDispersionFloor(floor float64) Option {
	return func(e *Engine) { e.floor = floor }
}

// New creates a simulation engine
func New(rng ports.RNG, opts ...Option) *Engine {
	e := &Engine{rng: rng, floor: DefaultDispersionFloor}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Simulate draws trials independent samples from a normal distribution
// centered at the point estimate with standard deviation
// max(volatility*|estimate|, floor), and summarizes the result.
// Volatility outside [0,1] or trials < 1 fail with an invalid-parameter
// error.
func (e *Engine) Simulate(ctx context.Context, pointEstimate, volatility float64, trials int, thresholds ...float64) (*simulation.Result, error) {
	if err := checkParams(pointEstimate, volatility, trials); err != nil {
		return nil, err
	}

	runID := core.RunID(core.NewID())
	rng, err := e.rng.Stream(ctx, e.streamKey(runID), "simulate", e.seed())
	if err != nil {
		return nil, err
	}

	sigma := math.Max(volatility*math.Abs(pointEstimate), e.floor)
	draws := make([]float64, trials)
	for i := range draws {
		draws[i] = pointEstimate + sigma*rng.NormFloat64()
	}

	return e.summarize(runID, pointEstimate, volatility, trials, draws, thresholds)
}

// Compare resamples two estimates and reports which wins on mean, by how
// much, and a coarse three-level confidence qualifier derived from the
// mean gap against the pooled standard deviation. The qualifier and win
// probability are heuristics, not calibrated statistics.
func (e *Engine) Compare(ctx context.Context, a, b simulation.Estimate, trials int) (*simulation.Comparison, error) {
	resA, err := e.Simulate(ctx, a.PointEstimate, a.Volatility, trials)
	if err != nil {
		return nil, err
	}
	resB, err := e.Simulate(ctx, b.PointEstimate, b.Volatility, trials)
	if err != nil {
		return nil, err
	}

	diff := resA.Mean - resB.Mean
	pooled := math.Sqrt((resA.StdDev*resA.StdDev + resB.StdDev*resB.StdDev) / 2)

	winner := "TIE"
	if diff > 0 {
		winner = "A"
	} else if diff < 0 {
		winner = "B"
	}

	margin := math.Abs(diff)
	qualifier := simulation.QualifierTossUp
	if pooled > 0 {
		switch ratio := margin / pooled; {
		case ratio >= 1.0:
			qualifier = simulation.QualifierStrong
		case ratio >= 0.4:
			qualifier = simulation.QualifierModerate
		}
	}

	// Normal approximation for P(winner draw > loser draw)
	winProb := 0.5
	if spread := math.Sqrt(resA.StdDev*resA.StdDev + resB.StdDev*resB.StdDev); spread > 0 {
		winProb = distuv.UnitNormal.CDF(margin / spread)
	}

	return &simulation.Comparison{
		Winner:         winner,
		Margin:         margin,
		Qualifier:      qualifier,
		WinProbability: winProb,
		MeanA:          resA.Mean,
		MeanB:          resB.Mean,
		PooledStdDev:   pooled,
	}, nil
}

// Rank resamples every estimate concurrently and orders them by
// descending mean, ties broken by stable input order. Each estimate gets
// its own derived RNG stream so results are reproducible under a seed
// regardless of scheduling.
func (e *Engine) Rank(ctx context.Context, estimates []simulation.Estimate, trials int) ([]simulation.RankedEstimate, error) {
	if len(estimates) == 0 {
		return nil, core.NewInvalidParameterError("estimates", "cannot be empty")
	}
	for _, est := range estimates {
		if err := checkParams(est.PointEstimate, est.Volatility, trials); err != nil {
			return nil, err
		}
	}

	runID := core.RunID(core.NewID())
	ranked := make([]simulation.RankedEstimate, len(estimates))

	g, gctx := errgroup.WithContext(ctx)
	for i, est := range estimates {
		i, est := i, est
		g.Go(func() error {
			rng, err := e.rng.Stream(gctx, e.streamKey(runID), fmt.Sprintf("rank/%d", i), e.seed())
			if err != nil {
				return err
			}
			sigma := math.Max(est.Volatility*math.Abs(est.PointEstimate), e.floor)
			sum, sumSq := 0.0, 0.0
			for t := 0; t < trials; t++ {
				d := est.PointEstimate + sigma*rng.NormFloat64()
				sum += d
				sumSq += d * d
			}
			mean := sum / float64(trials)
			ranked[i] = simulation.RankedEstimate{
				Name:          est.Name,
				PointEstimate: est.PointEstimate,
				Mean:          mean,
				StdDev:        math.Sqrt(math.Max(sumSq/float64(trials)-mean*mean, 0)),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Mean > ranked[j].Mean })
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked, nil
}

// summarize reduces the raw draws into the immutable result
func (e *Engine) summarize(runID core.RunID, pointEstimate, volatility float64, trials int, draws, thresholds []float64) (*simulation.Result, error) {
	mean, _ := stats.Mean(draws)
	stdDev, _ := stats.StandardDeviation(draws)
	minVal, _ := stats.Min(draws)
	maxVal, _ := stats.Max(draws)
	median, _ := stats.Median(draws)
	p5, _ := stats.Percentile(draws, 5)
	p25, _ := stats.Percentile(draws, 25)
	p75, _ := stats.Percentile(draws, 75)
	p95, _ := stats.Percentile(draws, 95)
	p1, _ := stats.Percentile(draws, 1)

	if len(thresholds) == 0 {
		thresholds = DefaultThresholds
	}
	crossings := make([]simulation.ThresholdProbability, len(thresholds))
	for i, threshold := range thresholds {
		exceeded := 0
		for _, d := range draws {
			if d > threshold {
				exceeded++
			}
		}
		crossings[i] = simulation.ThresholdProbability{
			Threshold:   threshold,
			Probability: float64(exceeded) / float64(trials),
		}
	}

	return &simulation.Result{
		ID:            runID,
		PointEstimate: pointEstimate,
		Volatility:    volatility,
		Trials:        trials,
		Mean:          mean,
		StdDev:        stdDev,
		Min:           minVal,
		Max:           maxVal,
		Percentiles: simulation.PercentileBands{
			P5:     p5,
			P25:    p25,
			Median: median,
			P75:    p75,
			P95:    p95,
		},
		Thresholds: crossings,
		VaR95:      p5,
		VaR99:      p1,
		CreatedAt:  core.Now(),
	}, nil
}

// seed returns the base seed, drawing a fresh one when unseeded
func (e *Engine) seed() int64 {
	if e.baseSeed != 0 {
		return e.baseSeed
	}
	return time.Now().UnixNano()
}

// streamKey keeps seeded runs reproducible: under a fixed base seed the
// stream identity must not vary with the per-run UUID.
func (e *Engine) streamKey(runID core.RunID) string {
	if e.baseSeed != 0 {
		return "seeded"
	}
	return runID.String()
}

func checkParams(pointEstimate, volatility float64, trials int) error {
	if math.IsNaN(pointEstimate) || math.IsInf(pointEstimate, 0) {
		return core.NewInvalidParameterError("point_estimate", "must be finite")
	}
	if math.IsNaN(volatility) || volatility < 0 || volatility > 1 {
		return core.NewInvalidParameterError("volatility", "must be in [0,1]")
	}
	if trials < 1 {
		return core.NewInvalidParameterError("n_trials", "must be >= 1")
	}
	return nil
}
