package harness

import (
	"context"
	"math/rand"
	"testing"

	"phonolab/domain/core"
	"phonolab/internal/rng"
	"phonolab/internal/testkit"
)

func newTestHarness() *Harness {
	return New(testkit.PhoneticSchema, rng.New(), nil)
}

// TestValidate_MinimumSampleSize verifies the hard floor: 19 samples
// fail, 20 succeed.
func TestValidate_MinimumSampleSize(t *testing.T) {
	ctx := context.Background()

	_, err := newTestHarness().Validate(ctx, testkit.SeparableCorpus(19, 3.0, 1), DefaultOptions())
	if err == nil {
		t.Fatal("Expected error for 19 samples")
	}
	if !core.IsInsufficientData(err) {
		t.Errorf("Expected insufficient-data error, got %v", err)
	}

	report, err := newTestHarness().Validate(ctx, testkit.SeparableCorpus(20, 3.0, 1), DefaultOptions())
	if err != nil {
		t.Fatalf("Validate failed at exactly 20 samples: %v", err)
	}
	if report.SampleSize != 20 {
		t.Errorf("Expected sample size 20, got %d", report.SampleSize)
	}
}

// TestValidate_SeparableCorpus verifies a well-separated corpus earns a
// validated verdict with strong held-out metrics.
func TestValidate_SeparableCorpus(t *testing.T) {
	opts := DefaultOptions()
	opts.Seed = 42

	report, err := newTestHarness().Validate(context.Background(), testkit.SeparableCorpus(200, 3.0, 7), opts)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if !report.Validated {
		t.Errorf("Expected separable corpus to validate, got verdict %s (accuracy %.3f)",
			report.Verdict, report.Metrics.Accuracy)
	}
	if report.Metrics.Accuracy < 0.9 {
		t.Errorf("Expected accuracy > 0.9 on a 3-sigma gap, got %.3f", report.Metrics.Accuracy)
	}
	if !report.Metrics.AUCAvailable {
		t.Error("Expected AUC to be available on a balanced corpus")
	}
	if report.Metrics.AUC < 0.9 {
		t.Errorf("Expected AUC > 0.9, got %.3f", report.Metrics.AUC)
	}
	if !report.CrossVal.Available {
		t.Error("Expected cross-validation to be available")
	}
	if report.CrossVal.MeanAccuracy < 0.85 {
		t.Errorf("Expected CV accuracy > 0.85, got %.3f", report.CrossVal.MeanAccuracy)
	}
}

// TestValidate_NoiseCorpus verifies random labels never earn an
// excellent verdict.
func TestValidate_NoiseCorpus(t *testing.T) {
	opts := DefaultOptions()
	opts.Seed = 42

	report, err := newTestHarness().Validate(context.Background(), testkit.NoiseCorpus(200, 11), opts)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if report.Verdict == "EXCELLENT" {
		t.Errorf("Noise corpus scored EXCELLENT (accuracy %.3f); generator or split is leaking labels",
			report.Metrics.Accuracy)
	}
}

// TestValidate_MetricsBounded verifies every reported figure stays in
// [0,1] and the confusion counts reconstruct the test partition.
func TestValidate_MetricsBounded(t *testing.T) {
	opts := DefaultOptions()
	opts.Seed = 3

	report, err := newTestHarness().Validate(context.Background(), testkit.SeparableCorpus(60, 1.0, 5), opts)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	bounded := map[string]float64{
		"accuracy":  report.Metrics.Accuracy,
		"precision": report.Metrics.Precision,
		"recall":    report.Metrics.Recall,
		"f1":        report.Metrics.F1,
	}
	if report.Metrics.AUCAvailable {
		bounded["auc"] = report.Metrics.AUC
	}
	for name, v := range bounded {
		if v < 0 || v > 1 {
			t.Errorf("%s out of [0,1]: %f", name, v)
		}
	}

	c := report.Confusion
	if c.TruePositive+c.TrueNegative+c.FalsePositive+c.FalseNegative != report.TestSize {
		t.Errorf("Confusion counts sum to %d, test partition is %d",
			c.TruePositive+c.TrueNegative+c.FalsePositive+c.FalseNegative, report.TestSize)
	}
}

// TestValidate_PartitionSizes verifies the split covers every sample
// exactly once and respects the ratio.
func TestValidate_PartitionSizes(t *testing.T) {
	opts := DefaultOptions()
	opts.SplitRatio = 0.75
	opts.Seed = 9

	report, err := newTestHarness().Validate(context.Background(), testkit.SeparableCorpus(40, 2.0, 2), opts)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if report.TrainSize+report.TestSize != report.SampleSize {
		t.Errorf("Partitions do not cover the corpus: %d + %d != %d",
			report.TrainSize, report.TestSize, report.SampleSize)
	}
	if report.TrainSize != 30 {
		t.Errorf("Expected train size 30 at ratio 0.75 of 40, got %d", report.TrainSize)
	}
	if report.TestSize == 0 {
		t.Error("Held-out partition must never be empty")
	}
}

// TestValidate_SeededReproducibility verifies the same seed yields
// byte-identical metrics across runs.
func TestValidate_SeededReproducibility(t *testing.T) {
	ctx := context.Background()
	samples := testkit.SeparableCorpus(80, 2.0, 13)

	opts := DefaultOptions()
	opts.Seed = 1234

	a, err := newTestHarness().Validate(ctx, samples, opts)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	b, err := newTestHarness().Validate(ctx, samples, opts)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if a.Metrics != b.Metrics {
		t.Errorf("Seeded runs diverged:\n  %+v\n  %+v", a.Metrics, b.Metrics)
	}
	if a.Confusion != b.Confusion {
		t.Errorf("Seeded confusion counts diverged:\n  %+v\n  %+v", a.Confusion, b.Confusion)
	}
	if a.CrossVal.MeanAccuracy != b.CrossVal.MeanAccuracy {
		t.Errorf("Seeded CV diverged: %.6f vs %.6f", a.CrossVal.MeanAccuracy, b.CrossVal.MeanAccuracy)
	}
}

// TestValidate_RejectsMalformedCorpus verifies schema-width and label
// checks fire before any fitting.
func TestValidate_RejectsMalformedCorpus(t *testing.T) {
	ctx := context.Background()

	samples := testkit.SeparableCorpus(25, 2.0, 1)
	samples[3].Features = samples[3].Features[:2]
	if _, err := newTestHarness().Validate(ctx, samples, DefaultOptions()); err == nil {
		t.Error("Expected error for wrong feature width")
	}

	samples = testkit.SeparableCorpus(25, 2.0, 1)
	samples[5].Label = 2
	if _, err := newTestHarness().Validate(ctx, samples, DefaultOptions()); err == nil {
		t.Error("Expected error for non-binary label")
	}
}

// TestClassify_RequiresTraining verifies Classify fails before any
// Validate has fitted a model.
func TestClassify_RequiresTraining(t *testing.T) {
	h := newTestHarness()

	_, err := h.Classify([]float64{1, 2, 3, 4, 5, 6})
	if !core.IsModelNotTrained(err) {
		t.Errorf("Expected model-not-trained error, got %v", err)
	}
}

// TestClassify_AfterValidate verifies a fitted harness classifies with
// coherent probabilities.
func TestClassify_AfterValidate(t *testing.T) {
	h := newTestHarness()
	opts := DefaultOptions()
	opts.Seed = 21

	if _, err := h.Validate(context.Background(), testkit.SeparableCorpus(100, 3.0, 17), opts); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	result, err := h.Classify([]float64{3, 3, 3, 3, 3, 3})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}

	if result.PredictedClass != 0 && result.PredictedClass != 1 {
		t.Errorf("Predicted class must be binary, got %d", result.PredictedClass)
	}
	sum := result.Probabilities[0] + result.Probabilities[1]
	if sum < 0.999 || sum > 1.001 {
		t.Errorf("Class probabilities must sum to 1, got %.6f", sum)
	}
	if result.Confidence < 0.5 || result.Confidence > 1 {
		t.Errorf("Confidence must be in [0.5, 1], got %.4f", result.Confidence)
	}

	// Wrong width is rejected even with a fitted model
	if _, err := h.Classify([]float64{1, 2}); err == nil {
		t.Error("Expected error for wrong feature vector width")
	}
}

// TestStratifiedFolds_Partition verifies every index lands in exactly
// one fold and class balance is preserved.
func TestStratifiedFolds_Partition(t *testing.T) {
	labels := make([]int, 50)
	for i := range labels {
		labels[i] = i % 2
	}

	folds := stratifiedFolds(labels, 5, rand.New(rand.NewSource(99)))

	seen := map[int]int{}
	for f, fold := range folds {
		positives := 0
		for _, idx := range fold {
			seen[idx]++
			if labels[idx] == 1 {
				positives++
			}
		}
		if len(fold) != 10 {
			t.Errorf("Fold %d has %d indices, expected 10", f, len(fold))
		}
		if positives != 5 {
			t.Errorf("Fold %d has %d positives, expected 5", f, positives)
		}
	}

	if len(seen) != 50 {
		t.Fatalf("Folds cover %d indices, expected 50", len(seen))
	}
	for idx, count := range seen {
		if count != 1 {
			t.Errorf("Index %d assigned %d times", idx, count)
		}
	}
}

// TestVerdictFor verifies the accuracy buckets
func TestVerdictFor(t *testing.T) {
	thresholds := DefaultVerdictThresholds()

	cases := []struct {
		accuracy float64
		want     string
	}{
		{0.95, "EXCELLENT"},
		{0.81, "EXCELLENT"},
		{0.80, "GOOD"}, // boundary belongs to the lower bucket
		{0.75, "GOOD"},
		{0.70, "MODERATE"},
		{0.65, "MODERATE"},
		{0.60, "POOR"},
		{0.40, "POOR"},
	}

	for _, tc := range cases {
		if got := verdictFor(tc.accuracy, thresholds); string(got) != tc.want {
			t.Errorf("verdictFor(%.2f) = %s, want %s", tc.accuracy, got, tc.want)
		}
	}
}
