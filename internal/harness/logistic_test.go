package harness

import (
	"math"
	"testing"
)

// TestFitLogistic_SeparatesClusters verifies the classifier learns a
// one-dimensional threshold.
func TestFitLogistic_SeparatesClusters(t *testing.T) {
	names := []string{"x"}
	features := [][]float64{
		{1}, {2}, {1.5}, {0.5}, {2.5},
		{8}, {9}, {8.5}, {7.5}, {9.5},
	}
	labels := []int{0, 0, 0, 0, 0, 1, 1, 1, 1, 1}

	model, err := fitLogistic(names, features, labels)
	if err != nil {
		t.Fatalf("fitLogistic failed: %v", err)
	}

	for i, row := range features {
		class, confidence := model.Predict(row)
		if class != labels[i] {
			t.Errorf("Sample %d: predicted %d, want %d", i, class, labels[i])
		}
		if confidence < 0.5 || confidence > 1 {
			t.Errorf("Sample %d: confidence %.4f out of [0.5, 1]", i, confidence)
		}
	}

	if p := model.probability([]float64{0}); p >= 0.5 {
		t.Errorf("Far-left point should score below 0.5, got %.4f", p)
	}
	if p := model.probability([]float64{11}); p <= 0.5 {
		t.Errorf("Far-right point should score above 0.5, got %.4f", p)
	}
}

// TestFitLogistic_Deterministic verifies two fits on the same data
// produce identical weights.
func TestFitLogistic_Deterministic(t *testing.T) {
	names := []string{"a", "b"}
	features := [][]float64{{1, 2}, {2, 1}, {5, 6}, {6, 5}, {1.5, 1.5}, {5.5, 5.5}}
	labels := []int{0, 0, 1, 1, 0, 1}

	m1, err := fitLogistic(names, features, labels)
	if err != nil {
		t.Fatalf("fitLogistic failed: %v", err)
	}
	m2, err := fitLogistic(names, features, labels)
	if err != nil {
		t.Fatalf("fitLogistic failed: %v", err)
	}

	for j := range m1.weights {
		if m1.weights[j] != m2.weights[j] {
			t.Errorf("Weight %d diverged: %.10f vs %.10f", j, m1.weights[j], m2.weights[j])
		}
	}
	if m1.bias != m2.bias {
		t.Errorf("Bias diverged: %.10f vs %.10f", m1.bias, m2.bias)
	}
}

// TestFitLogistic_ConstantColumn verifies a zero-variance feature does
// not poison the fit with a division by zero.
func TestFitLogistic_ConstantColumn(t *testing.T) {
	names := []string{"signal", "constant"}
	features := [][]float64{{1, 7}, {2, 7}, {8, 7}, {9, 7}, {1.5, 7}, {8.5, 7}}
	labels := []int{0, 0, 1, 1, 0, 1}

	model, err := fitLogistic(names, features, labels)
	if err != nil {
		t.Fatalf("fitLogistic failed: %v", err)
	}

	for j, w := range model.weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			t.Errorf("Weight %d is non-finite: %f", j, w)
		}
	}
	if class, _ := model.Predict([]float64{9.5, 7}); class != 1 {
		t.Error("Model should still separate on the informative column")
	}
}

// TestFitLogistic_EmptyTraining verifies the explicit error path
func TestFitLogistic_EmptyTraining(t *testing.T) {
	if _, err := fitLogistic([]string{"x"}, nil, nil); err == nil {
		t.Error("Expected error for empty training set")
	}
}

// TestRankAUC_PerfectSeparation verifies AUC hits 1.0 when every
// positive outranks every negative.
func TestRankAUC_PerfectSeparation(t *testing.T) {
	probabilities := []float64{0.1, 0.2, 0.3, 0.8, 0.9, 0.95}
	labels := []int{0, 0, 0, 1, 1, 1}

	auc, ok := rankAUC(probabilities, labels)
	if !ok {
		t.Fatal("AUC should be available for a two-class set")
	}
	if auc != 1.0 {
		t.Errorf("Expected AUC 1.0, got %.4f", auc)
	}
}

// TestRankAUC_InterleavedScores verifies the rank-sum arithmetic on a
// hand-computed case.
func TestRankAUC_InterleavedScores(t *testing.T) {
	probabilities := []float64{0.1, 0.2, 0.3, 0.4}
	labels := []int{0, 1, 0, 1}

	auc, ok := rankAUC(probabilities, labels)
	if !ok {
		t.Fatal("AUC should be available")
	}
	// Positives at ranks 2 and 4: AUC = (2+4 - 3) / 4 = 0.75
	if math.Abs(auc-0.75) > 1e-12 {
		t.Errorf("Expected AUC 0.75, got %.4f", auc)
	}
}

// TestRankAUC_Ties verifies tie groups share averaged ranks
func TestRankAUC_Ties(t *testing.T) {
	probabilities := []float64{0.5, 0.5, 0.5, 0.5}
	labels := []int{0, 1, 0, 1}

	auc, ok := rankAUC(probabilities, labels)
	if !ok {
		t.Fatal("AUC should be available")
	}
	if math.Abs(auc-0.5) > 1e-12 {
		t.Errorf("All-tied scores should give AUC 0.5, got %.4f", auc)
	}
}

// TestRankAUC_SingleClass verifies AUC is reported unavailable, never
// fabricated.
func TestRankAUC_SingleClass(t *testing.T) {
	if _, ok := rankAUC([]float64{0.2, 0.4, 0.6}, []int{1, 1, 1}); ok {
		t.Error("AUC must be unavailable for a single-class set")
	}
	if _, ok := rankAUC([]float64{0.2, 0.4, 0.6}, []int{0, 0, 0}); ok {
		t.Error("AUC must be unavailable for a single-class set")
	}
}

// TestHeldOutMetrics_KnownConfusion verifies the derived figures from a
// hand-computed confusion matrix.
func TestHeldOutMetrics_KnownConfusion(t *testing.T) {
	predicted := []int{1, 1, 1, 0, 0, 0, 1, 0}
	actual := []int{1, 1, 0, 0, 0, 1, 1, 1}
	// TP=3 TN=3 FP=1 FN=1

	m, c := heldOutMetrics(predicted, actual)

	if c.TruePositive != 3 || c.TrueNegative != 3 || c.FalsePositive != 1 || c.FalseNegative != 1 {
		t.Fatalf("Unexpected confusion counts: %+v", c)
	}
	if m.Accuracy != 0.75 {
		t.Errorf("Expected accuracy 0.75, got %.4f", m.Accuracy)
	}
	if m.Precision != 0.75 {
		t.Errorf("Expected precision 0.75, got %.4f", m.Precision)
	}
	if m.Recall != 0.75 {
		t.Errorf("Expected recall 0.75, got %.4f", m.Recall)
	}
	if math.Abs(m.F1-0.75) > 1e-12 {
		t.Errorf("Expected F1 0.75, got %.4f", m.F1)
	}
}

// TestHeldOutMetrics_NoPositivePredictions verifies precision degrades
// to zero instead of dividing by zero.
func TestHeldOutMetrics_NoPositivePredictions(t *testing.T) {
	m, _ := heldOutMetrics([]int{0, 0, 0}, []int{1, 0, 1})

	if m.Precision != 0 {
		t.Errorf("Expected precision 0, got %.4f", m.Precision)
	}
	if m.F1 != 0 {
		t.Errorf("Expected F1 0, got %.4f", m.F1)
	}
}
