package harness

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"phonolab/domain/core"
	"phonolab/domain/verdict"
	"phonolab/ports"
)

// MinValidationSamples is the smallest corpus a validation run accepts
const MinValidationSamples = 20

// VerdictThresholds are the accuracy cutoffs for the categorical verdict.
// They are policy constants with no claimed statistical derivation; the
// Good threshold is the single bit downstream consumers key off.
type VerdictThresholds struct {
	Excellent float64
	Good      float64
	Moderate  float64
}

// DefaultVerdictThresholds returns the standard cutoffs
func DefaultVerdictThresholds() VerdictThresholds {
	return VerdictThresholds{Excellent: 0.80, Good: 0.70, Moderate: 0.60}
}

// Options configure one validation run
type Options struct {
	SplitRatio float64 // train fraction, default 0.8
	CVFolds    int     // stratified folds, default 5
	Seed       int64   // 0 means draw a fresh nondeterministic seed
	Thresholds VerdictThresholds
}

// DefaultOptions returns the standard run configuration
func DefaultOptions() Options {
	return Options{
		SplitRatio: 0.8,
		CVFolds:    5,
		Thresholds: DefaultVerdictThresholds(),
	}
}

// Harness empirically tests whether feature vectors predict a known binary
// outcome better than chance. The last fitted model is the instance's own
// exclusively-owned state: concurrent validation runs must each use their
// own Harness so one run's fit cannot clobber another's Classify.
type Harness struct {
	schema    []string
	rng       ports.RNG
	explainer ports.FeatureExplainer
	lastModel *logisticModel
}

// New creates a harness for the given feature schema. The explainer is
// selected here, at construction time; pass nil to rank by coefficient
// magnitude.
func New(schema []string, rng ports.RNG, explainer ports.FeatureExplainer) *Harness {
	return &Harness{schema: schema, rng: rng, explainer: explainer}
}

// Validate partitions the corpus, fits the classifier on the training
// partition only, and reports blind held-out metrics plus an independent
// stratified cross-validation estimate. Sample-size errors are terminal
// for the call; degenerate numerical cases degrade to explicit
// unavailable markers.
func (h *Harness) Validate(ctx context.Context, samples []verdict.LabeledSample, opts Options) (*verdict.ValidationReport, error) {
	if len(samples) < MinValidationSamples {
		return nil, core.NewInsufficientSampleSizeError(MinValidationSamples, len(samples))
	}
	if err := h.checkCorpus(samples); err != nil {
		return nil, err
	}

	if opts.SplitRatio <= 0 || opts.SplitRatio >= 1 {
		opts.SplitRatio = 0.8
	}
	if opts.CVFolds < 2 {
		opts.CVFolds = 5
	}
	if opts.Thresholds == (VerdictThresholds{}) {
		opts.Thresholds = DefaultVerdictThresholds()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	reportID := core.ReportID(core.NewID())

	// Independent streams: the train/test permutation and the CV fold
	// assignment never share draws. Under an explicit seed the stream
	// identity must not vary with the per-run report ID, or the same
	// seed would still shuffle differently every run.
	streamKey := reportID.String()
	if opts.Seed != 0 {
		streamKey = "seeded"
	}
	splitRNG, err := h.rng.Stream(ctx, streamKey, "split", seed)
	if err != nil {
		return nil, err
	}
	cvRNG, err := h.rng.Stream(ctx, streamKey, "cross_validation", seed)
	if err != nil {
		return nil, err
	}

	n := len(samples)
	trainSize := int(math.Ceil(opts.SplitRatio * float64(n)))
	if trainSize >= n {
		trainSize = n - 1
	}

	// Permutation of indices: every sample lands in exactly one partition
	perm := splitRNG.Perm(n)
	trainIdx := perm[:trainSize]
	testIdx := perm[trainSize:]

	trainFeatures, trainLabels := gather(samples, trainIdx)
	model, err := fitLogistic(h.schema, trainFeatures, trainLabels)
	if err != nil {
		return nil, err
	}

	// Blind predictions on the held-out partition
	testFeatures, testLabels := gather(samples, testIdx)
	predicted := make([]int, len(testIdx))
	probabilities := make([]float64, len(testIdx))
	for i, row := range testFeatures {
		probabilities[i] = model.probability(row)
		if probabilities[i] >= 0.5 {
			predicted[i] = 1
		}
	}

	metrics, confusion := heldOutMetrics(predicted, testLabels)
	if auc, ok := rankAUC(probabilities, testLabels); ok {
		metrics.AUC = auc
		metrics.AUCAvailable = true
	}

	crossVal := h.crossValidate(samples, opts.CVFolds, cvRNG)
	importance := h.rankImportance(ctx, model, samples)

	status := verdictFor(metrics.Accuracy, opts.Thresholds)

	report := &verdict.ValidationReport{
		ID:         reportID,
		SampleSize: n,
		TrainSize:  trainSize,
		TestSize:   n - trainSize,
		SplitRatio: opts.SplitRatio,
		Seed:       seed,
		Metrics:    metrics,
		Confusion:  confusion,
		CrossVal:   crossVal,
		Importance: importance,
		Verdict:    status,
		Validated:  status.Validated(),
		CreatedAt:  core.Now(),
	}

	h.lastModel = model
	return report, nil
}

// Classify scores one feature vector against the most recently fitted model
func (h *Harness) Classify(features []float64) (verdict.Classification, error) {
	if h.lastModel == nil {
		return verdict.Classification{}, core.ErrModelNotTrained
	}
	if len(features) != len(h.schema) {
		return verdict.Classification{}, core.NewInvalidInputError("classify",
			"feature vector width does not match the fitted schema")
	}
	for _, v := range features {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return verdict.Classification{}, core.NewInvalidInputError("classify", "non-finite feature value")
		}
	}

	p1 := h.lastModel.probability(features)
	class := 0
	confidence := 1 - p1
	if p1 >= 0.5 {
		class = 1
		confidence = p1
	}
	return verdict.Classification{
		PredictedClass: class,
		Confidence:     confidence,
		Probabilities:  [2]float64{1 - p1, p1},
	}, nil
}

// crossValidate runs stratified k-fold CV over the entire corpus as a
// secondary, independent estimate. Folds whose training split is
// single-class are skipped and counted, never crashed on.
func (h *Harness) crossValidate(samples []verdict.LabeledSample, k int, rng *rand.Rand) verdict.CrossValidation {
	labels := make([]int, len(samples))
	for i, s := range samples {
		labels[i] = s.Label
	}

	folds := stratifiedFolds(labels, k, rng)
	cv := verdict.CrossValidation{Folds: k}

	for f := 0; f < k; f++ {
		if len(folds[f]) == 0 {
			cv.FoldsSkipped++
			continue
		}

		var trainIdx []int
		for g := 0; g < k; g++ {
			if g != f {
				trainIdx = append(trainIdx, folds[g]...)
			}
		}
		if singleClass(labels, trainIdx) {
			cv.FoldsSkipped++
			continue
		}

		trainFeatures, trainLabels := gather(samples, trainIdx)
		model, err := fitLogistic(h.schema, trainFeatures, trainLabels)
		if err != nil {
			cv.FoldsSkipped++
			continue
		}

		correct := 0
		for _, idx := range folds[f] {
			class, _ := model.Predict(samples[idx].Features)
			if class == samples[idx].Label {
				correct++
			}
		}
		cv.FoldAccuracies = append(cv.FoldAccuracies, float64(correct)/float64(len(folds[f])))
	}

	if len(cv.FoldAccuracies) > 0 {
		cv.Available = true
		cv.MeanAccuracy, _ = stats.Mean(cv.FoldAccuracies)
		cv.StdDev, _ = stats.StandardDeviation(cv.FoldAccuracies)
	}
	return cv
}

// rankImportance delegates to the configured explainer and falls back to
// raw coefficient magnitude if the explainer fails or is absent.
func (h *Harness) rankImportance(ctx context.Context, model *logisticModel, samples []verdict.LabeledSample) []verdict.FeatureImportance {
	if h.explainer != nil {
		if ranked, err := h.explainer.Explain(ctx, model, samples); err == nil {
			return ranked
		}
	}
	return CoefficientRanking(model)
}

// CoefficientRanking orders features by the absolute value of their
// standardized-scale coefficients.
func CoefficientRanking(model ports.FittedModel) []verdict.FeatureImportance {
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
	return ranked
}

// verdictFor buckets held-out accuracy into the categorical verdict
func verdictFor(accuracy float64, t VerdictThresholds) verdict.VerdictStatus {
	switch {
	case accuracy > t.Excellent:
		return verdict.StatusExcellent
	case accuracy > t.Good:
		return verdict.StatusGood
	case accuracy > t.Moderate:
		return verdict.StatusModerate
	default:
		return verdict.StatusPoor
	}
}

// checkCorpus rejects malformed samples before any fitting happens
func (h *Harness) checkCorpus(samples []verdict.LabeledSample) error {
	for _, s := range samples {
		if len(s.Features) != len(h.schema) {
			return core.NewInvalidInputError("validate",
				"sample "+s.Name+" does not match the feature schema width")
		}
		if s.Label != 0 && s.Label != 1 {
			return core.NewInvalidInputError("validate", "labels must be binary (0 or 1)")
		}
		for _, v := range s.Features {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return core.NewInvalidInputError("validate", "non-finite feature in sample "+s.Name)
			}
		}
	}
	return nil
}

// gather extracts feature rows and labels for a set of indices
func gather(samples []verdict.LabeledSample, indices []int) ([][]float64, []int) {
	features := make([][]float64, len(indices))
	labels := make([]int, len(indices))
	for i, idx := range indices {
		features[i] = samples[idx].Features
		labels[i] = samples[idx].Label
	}
	return features, labels
}
