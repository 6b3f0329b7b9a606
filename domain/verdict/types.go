package verdict

import (
	"phonolab/domain/core"
)

// VerdictStatus represents the categorical outcome of a validation run
type VerdictStatus string

const (
	StatusExcellent VerdictStatus = "EXCELLENT"
	StatusGood      VerdictStatus = "GOOD"
	StatusModerate  VerdictStatus = "MODERATE"
	StatusPoor      VerdictStatus = "POOR"
)

// Validated reports whether the methodology is considered validated.
// GOOD and above clear the bar; this is the single bit downstream
// consumers key off.
func (s VerdictStatus) Validated() bool {
	return s == StatusExcellent || s == StatusGood
}

// LabeledSample is a feature vector plus a ground-truth binary label and
// an identifying name. A corpus of LabeledSamples is immutable input to
// one validation run.
type LabeledSample struct {
	Name     string    `json:"name"`
	Features []float64 `json:"features"`
	Label    int       `json:"label"` // 0 or 1
}

// HeldOutMetrics are performance figures computed on the blind test partition
type HeldOutMetrics struct {
	Accuracy     float64 `json:"accuracy"`
	Precision    float64 `json:"precision"`
	Recall       float64 `json:"recall"`
	F1           float64 `json:"f1"`
	AUC          float64 `json:"auc,omitempty"`
	AUCAvailable bool    `json:"auc_available"` // false when the test set is single-class
}

// ConfusionCounts holds raw held-out prediction counts
type ConfusionCounts struct {
	TruePositive  int `json:"true_positive"`
	TrueNegative  int `json:"true_negative"`
	FalsePositive int `json:"false_positive"`
	FalseNegative int `json:"false_negative"`
}

// CrossValidation summarizes the stratified k-fold secondary estimate.
// Folds whose training split collapses to a single class are skipped and
// counted in FoldsSkipped rather than fabricated.
type CrossValidation struct {
	FoldAccuracies []float64 `json:"fold_accuracies"`
	MeanAccuracy   float64   `json:"mean_accuracy"`
	StdDev         float64   `json:"std_dev"`
	Folds          int       `json:"folds"`
	FoldsSkipped   int       `json:"folds_skipped"`
	Available      bool      `json:"available"`
}

// FeatureImportance ranks one feature by the trained model's coefficient
type FeatureImportance struct {
	Rank    int     `json:"rank"`
	Feature string  `json:"feature"`
	Weight  float64 `json:"weight"`
}

// ValidationReport is the immutable output of one validation run.
// One per run; never updated in place.
type ValidationReport struct {
	ID         core.ReportID       `json:"id"`
	SampleSize int                 `json:"sample_size"`
	TrainSize  int                 `json:"train_size"`
	TestSize   int                 `json:"test_size"`
	SplitRatio float64             `json:"split_ratio"`
	Seed       int64               `json:"seed"`
	Metrics    HeldOutMetrics      `json:"metrics"`
	Confusion  ConfusionCounts     `json:"confusion"`
	CrossVal   CrossValidation     `json:"cross_validation"`
	Importance []FeatureImportance `json:"importance"`
	Verdict    VerdictStatus       `json:"verdict"`
	Validated  bool                `json:"validated"`
	CreatedAt  core.Timestamp      `json:"created_at"`
}

// Classification is the output of classifying a single feature vector
// against the most recently fitted model.
type Classification struct {
	PredictedClass int        `json:"predicted_class"`
	Confidence     float64    `json:"confidence"`
	Probabilities  [2]float64 `json:"class_probabilities"` // index = class
}
