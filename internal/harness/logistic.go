package harness

import (
	"math"

	"phonolab/domain/core"
)

// logisticModel is the interpretable linear classifier fitted by the
// harness. Features are standardized with statistics computed from the
// training partition only, so the held-out set never influences fitting.
type logisticModel struct {
	names   []string
	mean    []float64
	std     []float64
	weights []float64
	bias    float64
}

// fit trains via batch gradient descent with a small L2 penalty.
// Deterministic: zero initialization, fixed epoch count.
func fitLogistic(names []string, features [][]float64, labels []int) (*logisticModel, error) {
	n := len(features)
	if n == 0 {
		return nil, core.NewInsufficientDataError("fit", 1, 0)
	}
	d := len(features[0])

	m := &logisticModel{
		names:   names,
		mean:    make([]float64, d),
		std:     make([]float64, d),
		weights: make([]float64, d),
	}

	// Standardization statistics from the training rows only
	for j := 0; j < d; j++ {
		sum := 0.0
		for i := 0; i < n; i++ {
			sum += features[i][j]
		}
		m.mean[j] = sum / float64(n)

		ss := 0.0
		for i := 0; i < n; i++ {
			dev := features[i][j] - m.mean[j]
			ss += dev * dev
		}
		m.std[j] = math.Sqrt(ss / float64(n))
		if m.std[j] == 0 {
			m.std[j] = 1 // constant column carries no signal; avoid division by zero
		}
	}

	standardized := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, d)
		for j := 0; j < d; j++ {
			row[j] = (features[i][j] - m.mean[j]) / m.std[j]
		}
		standardized[i] = row
	}

	const (
		epochs       = 500
		learningRate = 0.1
		l2Penalty    = 0.01
	)

	for epoch := 0; epoch < epochs; epoch++ {
		gradW := make([]float64, d)
		gradB := 0.0

		for i := 0; i < n; i++ {
			p := sigmoid(dot(m.weights, standardized[i]) + m.bias)
			residual := p - float64(labels[i])
			for j := 0; j < d; j++ {
				gradW[j] += residual * standardized[i][j]
			}
			gradB += residual
		}

		for j := 0; j < d; j++ {
			m.weights[j] -= learningRate * (gradW[j]/float64(n) + l2Penalty*m.weights[j])
		}
		m.bias -= learningRate * gradB / float64(n)
	}

	return m, nil
}

// probability returns P(label=1 | features)
func (m *logisticModel) probability(features []float64) float64 {
	z := m.bias
	for j := range m.weights {
		z += m.weights[j] * (features[j] - m.mean[j]) / m.std[j]
	}
	return sigmoid(z)
}

// FeatureNames returns the ordered feature names the model was fit on
func (m *logisticModel) FeatureNames() []string { return m.names }

// Coefficients returns the weights on the standardized feature scale
func (m *logisticModel) Coefficients() []float64 { return m.weights }

// Predict returns the predicted class and its probability
func (m *logisticModel) Predict(features []float64) (int, float64) {
	p := m.probability(features)
	if p >= 0.5 {
		return 1, p
	}
	return 0, 1 - p
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
